package dto

import "github.com/fekuna/omnipos-catalog-service/internal/model"

type CreateProductInput struct {
	Name        string
	Description string
	Brand       string
	CategoryID  string
	Options     model.ProductOptions
	Images      []model.ImageUpload
}

type UpdateVariantInput struct {
	ID        string
	OptionKey string
	Option    model.ProductOption
}

type SetVisibilityInput struct {
	ID            string
	Pinned        bool
	ProductStatus bool
}

type UpdateDetailsInput struct {
	ID            string
	OptionKey     string
	Option        model.ProductOption
	Pinned        bool
	ProductStatus bool
}

// ProductEdit is the store-level change set; nil parts are left untouched.
type ProductEdit struct {
	Variant    *VariantChange
	Visibility *VisibilityChange
}

type VariantChange struct {
	OptionKey string
	Option    model.ProductOption
}

type VisibilityChange struct {
	Pinned        bool
	ProductStatus bool
}
