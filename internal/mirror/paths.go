package mirror

import "github.com/fekuna/omnipos-catalog-service/internal/model"

// Directory layout, relative to the service root:
//
//	categoryImages/<parent>/<category>/
//	images/<parent>/<category>/<product>/

func CategoryDir(parent, category string) []string {
	return []string{CategoryImagesRoot, parent, category}
}

func ProductDir(parent, category, product string) []string {
	return []string{ProductImagesRoot, parent, category, product}
}

// ParentProductsDir holds the product directories of every category
// under parent.
func ParentProductsDir(parent string) []string {
	return []string{ProductImagesRoot, parent}
}

// CategoryProductsDir holds the product directories of one category.
func CategoryProductsDir(parent, category string) []string {
	return []string{ProductImagesRoot, parent, category}
}

// ParentDirs returns both subtrees owned by a parent category.
func ParentDirs(parent string) [][]string {
	return [][]string{
		{CategoryImagesRoot, parent},
		ParentProductsDir(parent),
	}
}

// CategoryDirs returns the category image directory and the product
// subtree under the category, in that order.
func CategoryDirs(parent, category string) [][]string {
	return [][]string{
		CategoryDir(parent, category),
		CategoryProductsDir(parent, category),
	}
}

// ImagePathRewrite maps stored product image paths below oldDir to the
// same paths below newDir.
func ImagePathRewrite(oldDir, newDir []string) model.PathRewrite {
	return model.PathRewrite{Old: RelPath(oldDir...) + "/", New: RelPath(newDir...) + "/"}
}
