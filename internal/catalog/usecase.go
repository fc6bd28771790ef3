package catalog

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type UseCase interface {
	ListProducts(ctx context.Context, filters *dto.ListFilters) (*dto.ProductPage, error)
	BrowseProducts(ctx context.Context, filters *dto.BrowseFilters) (*dto.ProductPage, error)
	Search(ctx context.Context, query string) ([]model.Product, error)
	Trending(ctx context.Context) ([]dto.TrendingProduct, error)
	ParentCategoryDigest(ctx context.Context, parentID string) ([]dto.CategoryDigest, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ProductImages(ctx context.Context, parent, category, product string) ([]dto.EncodedImage, error)
	CategoryImages(ctx context.Context, parent, category string) ([]dto.EncodedImage, error)
}
