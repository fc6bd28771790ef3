package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/consistency"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/memstore"
	"github.com/fekuna/omnipos-catalog-service/internal/mirror"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/parentcategory"
	"github.com/fekuna/omnipos-catalog-service/internal/parentcategory/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	uc    parentcategory.UseCase
	store *memstore.Store
	root  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	store := memstore.New()
	log := logger.NewNop()
	uc := NewParentCategoryUseCase(store.ParentCategories(), mirror.NewFS(root), consistency.NewSettler(nil, log), log)
	return &fixture{uc: uc, store: store, root: root}
}

func (f *fixture) path(segs ...string) string {
	return filepath.Join(append([]string{f.root}, segs...)...)
}

func (f *fixture) writeImage(t *testing.T, segs ...string) {
	t.Helper()
	p := f.path(segs...)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("img"), 0o644))
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func TestCreateParentCategory(t *testing.T) {
	f := newFixture(t)

	result, err := f.uc.CreateParentCategory(context.Background(), &dto.CreateParentCategoryInput{Name: "Men"})
	require.NoError(t, err)
	assert.True(t, result.StoreCommitted)
	assert.False(t, result.Partial())
	assert.NoError(t, uuid.Validate(result.ID))

	assert.True(t, dirExists(f.path("categoryImages", "Men")))
	assert.True(t, dirExists(f.path("images", "Men")))
}

func TestCreateParentCategoryRejectsUnsafeName(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateParentCategory(context.Background(), &dto.CreateParentCategoryInput{Name: "../escape"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	parents, _, _ := f.store.Counts()
	assert.Zero(t, parents)
}

func TestCreateParentCategoryToleratesMirrorFailure(t *testing.T) {
	store := memstore.New()
	rootFile := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(rootFile, nil, 0o644))
	log := logger.NewNop()
	uc := NewParentCategoryUseCase(store.ParentCategories(), mirror.NewFS(rootFile), consistency.NewSettler(nil, log), log)

	result, err := uc.CreateParentCategory(context.Background(), &dto.CreateParentCategoryInput{Name: "Men"})
	require.NoError(t, err)
	assert.True(t, result.Partial())
	assert.Len(t, result.MirrorErrs, 2)

	parents, _, _ := store.Counts()
	assert.Equal(t, 1, parents)
}

func TestRenameParentCategoryMovesBothTrees(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.uc.CreateParentCategory(ctx, &dto.CreateParentCategoryInput{Name: "Men"})
	require.NoError(t, err)
	f.writeImage(t, "categoryImages", "Men", "Oud", "1.png")
	f.writeImage(t, "images", "Men", "Oud", "Rose", "1.png")

	result, err := f.uc.RenameParentCategory(ctx, &dto.RenameParentCategoryInput{ID: created.ID, Name: "Gents"})
	require.NoError(t, err)
	assert.False(t, result.Partial())

	assert.False(t, dirExists(f.path("categoryImages", "Men")))
	assert.False(t, dirExists(f.path("images", "Men")))
	assert.FileExists(t, f.path("categoryImages", "Gents", "Oud", "1.png"))
	assert.FileExists(t, f.path("images", "Gents", "Oud", "Rose", "1.png"))

	pc, err := f.store.ParentCategories().FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gents", pc.Name)
}

func TestRenameParentCategoryRewritesProductImagePaths(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	men, women := uuid.NewString(), uuid.NewString()
	oud, floral := uuid.NewString(), uuid.NewString()
	f.store.PutParent(men, "Men")
	f.store.PutParent(women, "Women")
	f.store.PutCategory(oud, "Oud", men)
	f.store.PutCategory(floral, "Floral", women)
	f.writeImage(t, "categoryImages", "Men", "Oud", "1.png")
	f.writeImage(t, "images", "Men", "Oud", "Rose", "a.jpg")

	rose := model.Product{
		BaseModel:  model.BaseModel{ID: uuid.NewString()},
		Name:       "Rose",
		CategoryID: oud,
		ImagePaths: model.StringList{"images/Men/Oud/Rose/a.jpg"},
	}
	lily := model.Product{
		BaseModel:  model.BaseModel{ID: uuid.NewString()},
		Name:       "Lily",
		CategoryID: floral,
		ImagePaths: model.StringList{"images/Women/Floral/Lily/a.jpg"},
	}
	f.store.PutProduct(rose)
	f.store.PutProduct(lily)

	_, err := f.uc.RenameParentCategory(ctx, &dto.RenameParentCategoryInput{ID: men, Name: "Gents"})
	require.NoError(t, err)

	renamed, ok := f.store.Product(rose.ID)
	require.True(t, ok)
	assert.Equal(t, model.StringList{"images/Gents/Oud/Rose/a.jpg"}, renamed.ImagePaths)
	assert.FileExists(t, f.path(filepath.FromSlash(renamed.ImagePaths[0])))

	untouched, _ := f.store.Product(lily.ID)
	assert.Equal(t, lily.ImagePaths, untouched.ImagePaths)
}

func TestRenameParentCategoryMissingDirectory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := uuid.NewString()
	f.store.PutParent(id, "Men")

	result, err := f.uc.RenameParentCategory(ctx, &dto.RenameParentCategoryInput{ID: id, Name: "Gents"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrMirrorInconsistency)
	assert.ErrorIs(t, err, apperror.ErrDirectoryNotFound)
	require.NotNil(t, result)
	assert.True(t, result.StoreCommitted)

	pc, err := f.store.ParentCategories().FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Gents", pc.Name, "store rename stays committed")
}

func TestRenameParentCategoryToSameName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := uuid.NewString()
	f.store.PutParent(id, "Men")

	result, err := f.uc.RenameParentCategory(ctx, &dto.RenameParentCategoryInput{ID: id, Name: "Men"})
	require.NoError(t, err)
	assert.False(t, result.Partial())
}

func TestRenameParentCategoryErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.RenameParentCategory(ctx, &dto.RenameParentCategoryInput{ID: "bad", Name: "x"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.uc.RenameParentCategory(ctx, &dto.RenameParentCategoryInput{ID: uuid.NewString(), Name: "x"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	id := uuid.NewString()
	f.store.PutParent(id, "Men")
	_, err = f.uc.RenameParentCategory(ctx, &dto.RenameParentCategoryInput{ID: id, Name: "a/b"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestDeleteParentCategoryCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	parentID, otherParentID := uuid.NewString(), uuid.NewString()
	catA, catB, otherCat := uuid.NewString(), uuid.NewString(), uuid.NewString()
	f.store.PutParent(parentID, "Men")
	f.store.PutParent(otherParentID, "Women")
	f.store.PutCategory(catA, "Oud", parentID)
	f.store.PutCategory(catB, "Musk", parentID)
	f.store.PutCategory(otherCat, "Floral", otherParentID)
	f.store.PutProduct(model.Product{BaseModel: model.BaseModel{ID: uuid.NewString()}, Name: "Rose", CategoryID: catA})
	f.store.PutProduct(model.Product{BaseModel: model.BaseModel{ID: uuid.NewString()}, Name: "Amber", CategoryID: catB})
	f.store.PutProduct(model.Product{BaseModel: model.BaseModel{ID: uuid.NewString()}, Name: "Lily", CategoryID: otherCat})
	f.writeImage(t, "categoryImages", "Men", "Oud", "1.png")
	f.writeImage(t, "images", "Men", "Oud", "Rose", "1.png")
	f.writeImage(t, "images", "Women", "Floral", "Lily", "1.png")

	result, err := f.uc.DeleteParentCategory(ctx, parentID)
	require.NoError(t, err)
	assert.True(t, result.Deleted)

	parents, categories, products := f.store.Counts()
	assert.Equal(t, 1, parents)
	assert.Equal(t, 1, categories)
	assert.Equal(t, 1, products)

	assert.False(t, dirExists(f.path("categoryImages", "Men")))
	assert.False(t, dirExists(f.path("images", "Men")))
	assert.FileExists(t, f.path("images", "Women", "Floral", "Lily", "1.png"))

	again, err := f.uc.DeleteParentCategory(ctx, parentID)
	require.NoError(t, err)
	assert.False(t, again.Deleted)
	assert.False(t, again.StoreCommitted)
}

func TestDeleteParentCategoryWithoutDirectories(t *testing.T) {
	f := newFixture(t)
	id := uuid.NewString()
	f.store.PutParent(id, "Men")

	result, err := f.uc.DeleteParentCategory(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, result.Deleted)
	assert.False(t, result.Partial())
}

func TestDeleteParentCategoryInvalidID(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.DeleteParentCategory(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestListParentCategoriesAttachesSubCategories(t *testing.T) {
	f := newFixture(t)
	parentID := uuid.NewString()
	f.store.PutParent(parentID, "Men")
	f.store.PutParent(uuid.NewString(), "Women")
	f.store.PutCategory(uuid.NewString(), "Oud", parentID)

	parents, err := f.uc.ListParentCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, parents, 2)
	assert.Equal(t, "Men", parents[0].Name)
	require.Len(t, parents[0].SubCategories, 1)
	assert.Equal(t, "Oud", parents[0].SubCategories[0].Name)
	assert.Empty(t, parents[1].SubCategories)
}
