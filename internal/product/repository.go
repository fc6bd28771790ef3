package product

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	// FindByID returns the product with Category and Category.ParentCategory
	// joined in when both rows exist; otherwise Category is nil.
	FindByID(ctx context.Context, id string) (*model.Product, error)
	// Edit applies a variant and/or visibility change and reports whether
	// the product existed.
	Edit(ctx context.Context, id string, edit *dto.ProductEdit) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
