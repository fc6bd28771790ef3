package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/consistency"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/memstore"
	"github.com/fekuna/omnipos-catalog-service/internal/mirror"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	uc         product.UseCase
	store      *memstore.Store
	root       string
	categoryID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	store := memstore.New()
	log := logger.NewNop()

	parentID, categoryID := uuid.NewString(), uuid.NewString()
	store.PutParent(parentID, "Men")
	store.PutCategory(categoryID, "Oud", parentID)

	uc := NewProductUseCase(store.Products(), store.Categories(), mirror.NewFS(root), consistency.NewSettler(nil, log), log)
	return &fixture{uc: uc, store: store, root: root, categoryID: categoryID}
}

func (f *fixture) path(segs ...string) string {
	return filepath.Join(append([]string{f.root}, segs...)...)
}

func (f *fixture) create(t *testing.T, name string) string {
	t.Helper()
	result, err := f.uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		Name:       name,
		Brand:      "Ajmal",
		CategoryID: f.categoryID,
		Options:    model.ProductOptions{"50ml": {Price: 100, QuantityAvailable: 5}},
		Images:     []model.ImageUpload{{Filename: "front.png", Data: []byte("front")}},
	})
	require.NoError(t, err)
	return result.ID
}

func TestCreateProduct(t *testing.T) {
	f := newFixture(t)

	id := f.create(t, "Rose Oud")

	p, ok := f.store.Product(id)
	require.True(t, ok)
	assert.True(t, p.ProductStatus)
	assert.False(t, p.Pinned)
	assert.Equal(t, model.StringList{"images/Men/Oud/Rose Oud/front.png"}, p.ImagePaths)
	assert.Equal(t, 100.0, p.Options["50ml"].Price)

	data, err := os.ReadFile(f.path("images", "Men", "Oud", "Rose Oud", "front.png"))
	require.NoError(t, err)
	assert.Equal(t, "front", string(data))
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input *dto.CreateProductInput
		want  error
	}{
		{"bad name", &dto.CreateProductInput{Name: "..", CategoryID: f.categoryID}, apperror.ErrValidation},
		{"bad category id", &dto.CreateProductInput{Name: "Rose", CategoryID: "x"}, apperror.ErrValidation},
		{"empty option key", &dto.CreateProductInput{Name: "Rose", CategoryID: f.categoryID,
			Options: model.ProductOptions{"": {Price: 1}}}, apperror.ErrValidation},
		{"negative price", &dto.CreateProductInput{Name: "Rose", CategoryID: f.categoryID,
			Options: model.ProductOptions{"50ml": {Price: -1}}}, apperror.ErrValidation},
		{"unknown category", &dto.CreateProductInput{Name: "Rose", CategoryID: uuid.NewString()}, apperror.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.CreateProduct(ctx, tc.input)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, _, products := f.store.Counts()
	assert.Zero(t, products)
}

func TestCreateProductUnderDanglingCategory(t *testing.T) {
	f := newFixture(t)
	orphan := uuid.NewString()
	f.store.PutCategory(orphan, "Lost", uuid.NewString())

	_, err := f.uc.CreateProduct(context.Background(), &dto.CreateProductInput{Name: "Rose", CategoryID: orphan})
	assert.ErrorIs(t, err, apperror.ErrReferentialGap)
}

func TestCreateProductStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.Err = errors.New("connection reset")

	_, err := f.uc.CreateProduct(context.Background(), &dto.CreateProductInput{Name: "Rose", CategoryID: f.categoryID})
	require.Error(t, err)

	_, statErr := os.Stat(f.path("images", "Men", "Oud", "Rose"))
	assert.True(t, os.IsNotExist(statErr), "mirror untouched when the store fails")
}

func TestUpdateProductVariant(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "Rose")

	err := f.uc.UpdateProductVariant(context.Background(), &dto.UpdateVariantInput{
		ID:        id,
		OptionKey: "100ml",
		Option:    model.ProductOption{Price: 180, QuantityAvailable: 2, Discount: 5},
	})
	require.NoError(t, err)

	p, _ := f.store.Product(id)
	assert.Len(t, p.Options, 2)
	assert.Equal(t, model.ProductOption{Price: 180, QuantityAvailable: 2, Discount: 5}, p.Options["100ml"])
	assert.Equal(t, 100.0, p.Options["50ml"].Price)
}

func TestSetProductVisibility(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "Rose")

	require.NoError(t, f.uc.SetProductVisibility(context.Background(), &dto.SetVisibilityInput{
		ID: id, Pinned: true, ProductStatus: false,
	}))

	p, _ := f.store.Product(id)
	assert.True(t, p.Pinned)
	assert.False(t, p.ProductStatus)
}

func TestUpdateProductDetails(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "Rose")

	require.NoError(t, f.uc.UpdateProductDetails(context.Background(), &dto.UpdateDetailsInput{
		ID:            id,
		OptionKey:     "50ml",
		Option:        model.ProductOption{Price: 90, QuantityAvailable: 1},
		Pinned:        true,
		ProductStatus: true,
	}))

	p, _ := f.store.Product(id)
	assert.Equal(t, 90.0, p.Options["50ml"].Price)
	assert.True(t, p.Pinned)
}

func TestEditUnknownProduct(t *testing.T) {
	f := newFixture(t)

	err := f.uc.SetProductVisibility(context.Background(), &dto.SetVisibilityInput{ID: uuid.NewString()})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	err = f.uc.UpdateProductVariant(context.Background(), &dto.UpdateVariantInput{ID: "nope", OptionKey: "50ml"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, "Rose")
	other := f.create(t, "Amber")

	result, err := f.uc.DeleteProduct(ctx, id)
	require.NoError(t, err)
	assert.True(t, result.Deleted)

	_, ok := f.store.Product(id)
	assert.False(t, ok)
	_, err = os.Stat(f.path("images", "Men", "Oud", "Rose"))
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, f.path("images", "Men", "Oud", "Amber", "front.png"))

	again, err := f.uc.DeleteProduct(ctx, id)
	require.NoError(t, err)
	assert.False(t, again.Deleted)

	_, ok = f.store.Product(other)
	assert.True(t, ok)
}

func TestDeleteProductWithDanglingCategory(t *testing.T) {
	f := newFixture(t)
	id := uuid.NewString()
	f.store.PutProduct(model.Product{BaseModel: model.BaseModel{ID: id}, Name: "Rose", CategoryID: uuid.NewString()})

	result, err := f.uc.DeleteProduct(context.Background(), id)
	assert.ErrorIs(t, err, apperror.ErrMirrorInconsistency)
	assert.ErrorIs(t, err, apperror.ErrReferentialGap)
	require.NotNil(t, result)
	assert.True(t, result.Deleted)
}
