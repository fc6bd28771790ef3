package category

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, category *model.Category) error
	// FindByID returns the category with its parent joined in. When the
	// parent row is missing, ParentCategoryName is empty and ParentCategory
	// nil.
	FindByID(ctx context.Context, id string) (*model.Category, error)
	FindAll(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, error)
	// Rename stores the new name and rewrites the image paths of the
	// products below it, returning how many products were rewritten.
	Rename(ctx context.Context, category *model.Category, images model.PathRewrite) (int64, error)

	// DeleteCascade removes the entity and everything below it in one
	// transaction, returning the rows removed per collection.
	DeleteCascade(ctx context.Context, id string) (map[string]int64, error)
}
