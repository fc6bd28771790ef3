package product

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.WriteResult, error)
	UpdateProductVariant(ctx context.Context, input *dto.UpdateVariantInput) error
	SetProductVisibility(ctx context.Context, input *dto.SetVisibilityInput) error
	// UpdateProductDetails changes one option and the visibility flags in a
	// single store write.
	UpdateProductDetails(ctx context.Context, input *dto.UpdateDetailsInput) error
	DeleteProduct(ctx context.Context, id string) (*model.WriteResult, error)
}
