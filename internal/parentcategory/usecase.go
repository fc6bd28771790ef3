package parentcategory

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/parentcategory/dto"
)

type UseCase interface {
	CreateParentCategory(ctx context.Context, input *dto.CreateParentCategoryInput) (*model.WriteResult, error)
	ListParentCategories(ctx context.Context) ([]model.ParentCategory, error)
	RenameParentCategory(ctx context.Context, input *dto.RenameParentCategoryInput) (*model.WriteResult, error)
	DeleteParentCategory(ctx context.Context, id string) (*model.WriteResult, error)
}
