package model

type ParentCategory struct {
	BaseModel
	Name          string     `db:"name" json:"name"`
	SubCategories []Category `db:"-" json:"subCategories,omitempty"`
}

type Category struct {
	BaseModel
	Name             string `db:"name" json:"name"`
	ParentCategoryID string `db:"parent_category_id" json:"parentCategoryId"`

	// Joined data, filled on denormalized reads only.
	ParentCategoryName string          `db:"parent_category_name" json:"parentCategoryName,omitempty"`
	ParentCategory     *ParentCategory `db:"-" json:"parentCategory,omitempty"`
}
