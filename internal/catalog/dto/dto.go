package dto

import "github.com/fekuna/omnipos-catalog-service/internal/model"

const DefaultLimit = 10

type ListFilters struct {
	CategoryID string `json:"categoryId"`
	Skip       int    `json:"skip"`
	Limit      int    `json:"limit"`
}

type BrowseFilters struct {
	CategoryName string `json:"category"`
	SearchTerm   string `json:"searchTerm"`
	Skip         int    `json:"skip"`
	Limit        int    `json:"limit"`
}

// ProductPage is one page of a listing. Groups replaces Products when the
// listing was filtered by category.
type ProductPage struct {
	Products      []model.Product `json:"products,omitempty"`
	Groups        []CategoryGroup `json:"groups,omitempty"`
	TotalProducts int64           `json:"totalProducts"`
	TotalPages    int             `json:"totalPages"`
	CurrentPage   int             `json:"currentPage"`
}

type CategoryGroup struct {
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Products     []model.Product `json:"products"`
}

// CategoryDigest is the preview of one subcategory on a parent category
// page.
type CategoryDigest struct {
	CategoryID         string          `json:"categoryId"`
	ParentCategoryName string          `json:"parentCategoryName"`
	SubcategoryName    string          `json:"subcategoryName"`
	Products           []model.Product `json:"products"`
}

type TrendingProduct struct {
	model.Product
	OrderCount        int64 `db:"order_count" json:"orderCount"`
	TotalQuantitySold int64 `db:"total_quantity_sold" json:"totalQuantitySold"`
}

// EncodedImage is an image read from the mirror, base64-encoded.
type EncodedImage struct {
	Filename string `json:"filename"`
	Data     string `json:"data"`
}
