package dto

type CreateParentCategoryInput struct {
	Name string
}

type RenameParentCategoryInput struct {
	ID   string
	Name string
}
