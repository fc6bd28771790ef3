package category

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type UseCase interface {
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.WriteResult, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, error)
	RenameCategory(ctx context.Context, input *dto.RenameCategoryInput) (*model.WriteResult, error)
	DeleteCategory(ctx context.Context, id string) (*model.WriteResult, error)
}
