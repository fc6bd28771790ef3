package dto

import "github.com/fekuna/omnipos-catalog-service/internal/model"

type CreateCategoryInput struct {
	Name             string
	ParentCategoryID string
	Images           []model.ImageUpload
}

type RenameCategoryInput struct {
	ID   string
	Name string
}

type CategoryFilters struct {
	ParentCategoryID string // Empty means every parent
}
