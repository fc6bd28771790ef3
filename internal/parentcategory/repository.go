package parentcategory

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, pc *model.ParentCategory) error
	FindByID(ctx context.Context, id string) (*model.ParentCategory, error)
	FindAll(ctx context.Context) ([]model.ParentCategory, error)
	// Rename stores the new name and rewrites the image paths of the
	// products below it, returning how many products were rewritten.
	Rename(ctx context.Context, pc *model.ParentCategory, images model.PathRewrite) (int64, error)

	// DeleteCascade removes the entity and everything below it in one
	// transaction, returning the rows removed per collection.
	DeleteCascade(ctx context.Context, id string) (map[string]int64, error)
}
