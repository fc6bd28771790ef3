package catalog

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

// Repository reads denormalized product views. Every method joins the
// category, and all but BrowseProducts also the parent category; rows whose
// join target is missing are dropped.
type Repository interface {
	// ListProducts returns one page of visible products, pinned first and
	// newest first, together with the size of the whole filtered set.
	ListProducts(ctx context.Context, categoryID string, skip, limit int) ([]model.Product, int64, error)
	// BrowseProducts ignores visibility. A product matches when its name
	// contains any of the tokens.
	BrowseProducts(ctx context.Context, categoryName string, tokens []string, skip, limit int) ([]model.Product, int64, error)
	// Search returns every visible product whose name or brand contains any
	// of the tokens.
	Search(ctx context.Context, tokens []string) ([]model.Product, error)
	// ParentCategoryProducts returns the visible products under a parent
	// category ordered by subcategory name.
	ParentCategoryProducts(ctx context.Context, parentID string) ([]model.Product, error)
	OrdersExist(ctx context.Context) (bool, error)
	Trending(ctx context.Context, limit int) ([]dto.TrendingProduct, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
}
