package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/memstore"
	"github.com/fekuna/omnipos-catalog-service/internal/mirror"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	listCalls  int
	products   []model.Product
	total      int64
	tokens     []string
	hasOrders  bool
	trending   []dto.TrendingProduct
	byID       map[string]model.Product
	lastCatID  string
	lastSkip   int
	lastLimit  int
	lastCatNam string
}

func (r *fakeRepo) ListProducts(_ context.Context, categoryID string, skip, limit int) ([]model.Product, int64, error) {
	r.listCalls++
	r.lastCatID, r.lastSkip, r.lastLimit = categoryID, skip, limit
	return r.products, r.total, nil
}

func (r *fakeRepo) BrowseProducts(_ context.Context, categoryName string, tokens []string, skip, limit int) ([]model.Product, int64, error) {
	r.lastCatNam, r.tokens, r.lastSkip, r.lastLimit = categoryName, tokens, skip, limit
	return r.products, r.total, nil
}

// Search mimics the store: visible products whose name or brand contains
// any token, case-insensitively.
func (r *fakeRepo) Search(_ context.Context, tokens []string) ([]model.Product, error) {
	r.tokens = tokens
	out := []model.Product{}
	for _, p := range r.products {
		if !p.ProductStatus {
			continue
		}
		for _, tok := range tokens {
			tok = strings.ToLower(tok)
			if strings.Contains(strings.ToLower(p.Name), tok) || strings.Contains(strings.ToLower(p.Brand), tok) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeRepo) ParentCategoryProducts(context.Context, string) ([]model.Product, error) {
	return r.products, nil
}

func (r *fakeRepo) OrdersExist(context.Context) (bool, error) {
	return r.hasOrders, nil
}

func (r *fakeRepo) Trending(_ context.Context, limit int) ([]dto.TrendingProduct, error) {
	if len(r.trending) > limit {
		return r.trending[:limit], nil
	}
	return r.trending, nil
}

func (r *fakeRepo) GetProduct(_ context.Context, id string) (*model.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *memCache) DeletePattern(context.Context, string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = map[string][]byte{}
	return nil
}

func product(name, brand, categoryID, categoryName string, visible bool) model.Product {
	return model.Product{
		BaseModel:     model.BaseModel{ID: uuid.NewString()},
		Name:          name,
		Brand:         brand,
		CategoryID:    categoryID,
		ProductStatus: visible,
		Category: &model.Category{
			BaseModel:          model.BaseModel{ID: categoryID},
			Name:               categoryName,
			ParentCategoryName: "Men",
		},
	}
}

func newUseCase(repo *fakeRepo, store *memstore.Store, root string) *catalogUseCase {
	if store == nil {
		store = memstore.New()
	}
	return NewCatalogUseCase(repo, store.ParentCategories(), mirror.NewFS(root), newMemCache(), logger.NewNop()).(*catalogUseCase)
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		total          int64
		skip, limit    int
		pages, current int
	}{
		{0, 0, 10, 0, 1},
		{1, 0, 10, 1, 1},
		{10, 0, 10, 1, 1},
		{11, 0, 10, 2, 1},
		{25, 10, 10, 3, 2},
		{25, 20, 10, 3, 3},
		{25, 5, 10, 3, 2},
		{7, 3, 3, 3, 2},
		{0, 2, math.MaxInt, 0, 2},
		{5, math.MaxInt, 10, 1, math.MaxInt/10 + 2},
		{5, math.MaxInt, 1, 5, math.MaxInt},
		{5, math.MaxInt - 1, math.MaxInt, 1, 2},
		{5, math.MaxInt, math.MaxInt, 1, 2},
	}
	for _, tc := range tests {
		pages, current := Paginate(tc.total, tc.skip, tc.limit)
		assert.Equal(t, tc.pages, pages, "total=%d limit=%d", tc.total, tc.limit)
		assert.Equal(t, tc.current, current, "skip=%d limit=%d", tc.skip, tc.limit)
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"Rose", "wood"}, Tokenize("  Rose \t wood "))
	assert.Empty(t, Tokenize("   "))
}

func TestListProducts(t *testing.T) {
	repo := &fakeRepo{
		products: []model.Product{product("Rose", "Ajmal", "c1", "Oud", true)},
		total:    21,
	}
	uc := newUseCase(repo, nil, t.TempDir())

	page, err := uc.ListProducts(context.Background(), &dto.ListFilters{Skip: 10, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(21), page.TotalProducts)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Len(t, page.Products, 1)
	assert.Empty(t, page.Groups)
	assert.Equal(t, 10, repo.lastSkip)
	assert.Equal(t, 10, repo.lastLimit)
}

func TestListProductsGroupsByCategoryWhenFiltered(t *testing.T) {
	catID := uuid.NewString()
	repo := &fakeRepo{
		products: []model.Product{
			product("Rose", "Ajmal", catID, "Oud", true),
			product("Amber", "Rasasi", catID, "Oud", true),
		},
		total: 2,
	}
	uc := newUseCase(repo, nil, t.TempDir())

	page, err := uc.ListProducts(context.Background(), &dto.ListFilters{CategoryID: catID, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	require.Len(t, page.Groups, 1)
	assert.Equal(t, catID, page.Groups[0].CategoryID)
	assert.Equal(t, "Oud", page.Groups[0].CategoryName)
	assert.Len(t, page.Groups[0].Products, 2)
	assert.Equal(t, catID, repo.lastCatID)
}

func TestListProductsValidation(t *testing.T) {
	uc := newUseCase(&fakeRepo{}, nil, t.TempDir())
	ctx := context.Background()

	_, err := uc.ListProducts(ctx, &dto.ListFilters{Limit: 0})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, err = uc.ListProducts(ctx, &dto.ListFilters{Skip: -1, Limit: 10})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, err = uc.ListProducts(ctx, &dto.ListFilters{CategoryID: "abc", Limit: 10})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestListProductsIsCached(t *testing.T) {
	repo := &fakeRepo{products: []model.Product{product("Rose", "Ajmal", "c1", "Oud", true)}, total: 1}
	uc := newUseCase(repo, nil, t.TempDir())
	ctx := context.Background()
	filters := &dto.ListFilters{Limit: 10}

	first, err := uc.ListProducts(ctx, filters)
	require.NoError(t, err)
	second, err := uc.ListProducts(ctx, filters)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, first.TotalProducts, second.TotalProducts)
	assert.Equal(t, first.Products[0].Name, second.Products[0].Name)

	_, err = uc.ListProducts(ctx, &dto.ListFilters{Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls, "different filters use a different key")
}

func TestBrowseProductsTokenizes(t *testing.T) {
	repo := &fakeRepo{total: 0}
	uc := newUseCase(repo, nil, t.TempDir())

	page, err := uc.BrowseProducts(context.Background(), &dto.BrowseFilters{
		CategoryName: "Oud",
		SearchTerm:   " rose  amber ",
		Limit:        10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"rose", "amber"}, repo.tokens)
	assert.Equal(t, "Oud", repo.lastCatNam)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
}

func TestSearchIsTokenOr(t *testing.T) {
	repo := &fakeRepo{products: []model.Product{
		product("Rosewood Oud", "Ajmal", "c1", "Oud", true),
		product("Citrus", "WOODLAND", "c1", "Oud", true),
		product("Musk", "Rasasi", "c1", "Oud", true),
		product("Hidden Rose", "Ajmal", "c1", "Oud", false),
	}}
	uc := newUseCase(repo, nil, t.TempDir())

	results, err := uc.Search(context.Background(), "Rose wood")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Rosewood Oud", results[0].Name)
	assert.Equal(t, "Citrus", results[1].Name)
}

func TestSearchSignals(t *testing.T) {
	uc := newUseCase(&fakeRepo{}, nil, t.TempDir())

	_, err := uc.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = uc.Search(context.Background(), "vanilla")
	assert.ErrorIs(t, err, apperror.ErrNoResults)
	assert.NotErrorIs(t, err, apperror.ErrValidation)
}

func TestTrending(t *testing.T) {
	uc := newUseCase(&fakeRepo{}, nil, t.TempDir())
	_, err := uc.Trending(context.Background())
	assert.ErrorIs(t, err, apperror.ErrNoTrending)

	ranked := make([]dto.TrendingProduct, 0, 7)
	for i := 7; i > 0; i-- {
		ranked = append(ranked, dto.TrendingProduct{Product: product("p", "b", "c", "Oud", true), OrderCount: int64(i)})
	}
	uc = newUseCase(&fakeRepo{hasOrders: true, trending: ranked}, nil, t.TempDir())

	top, err := uc.Trending(context.Background())
	require.NoError(t, err)
	require.Len(t, top, 5)
	assert.Equal(t, int64(7), top[0].OrderCount)

	empty := newUseCase(&fakeRepo{hasOrders: true}, nil, t.TempDir())
	none, err := empty.Trending(context.Background())
	require.NoError(t, err, "orders exist, so an empty ranking is a result")
	assert.Empty(t, none)
}

func TestParentCategoryDigest(t *testing.T) {
	store := memstore.New()
	parentID := uuid.NewString()
	store.PutParent(parentID, "Men")

	musk, oud := uuid.NewString(), uuid.NewString()
	products := []model.Product{}
	for i := 0; i < 6; i++ {
		products = append(products, product("o", "b", oud, "Oud", true))
	}
	products = append(products, product("m", "b", musk, "Musk", true))

	uc := newUseCase(&fakeRepo{products: products}, store, t.TempDir())

	digest, err := uc.ParentCategoryDigest(context.Background(), parentID)
	require.NoError(t, err)
	require.Len(t, digest, 2)
	assert.Equal(t, "Musk", digest[0].SubcategoryName)
	assert.Equal(t, "Oud", digest[1].SubcategoryName)
	assert.Len(t, digest[1].Products, 4)
	assert.Equal(t, products[0].ID, digest[1].Products[0].ID)
	assert.Equal(t, "Men", digest[1].ParentCategoryName)

	_, err = uc.ParentCategoryDigest(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = uc.ParentCategoryDigest(context.Background(), "x")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestGetProduct(t *testing.T) {
	p := product("Rose", "Ajmal", "c1", "Oud", true)
	uc := newUseCase(&fakeRepo{byID: map[string]model.Product{p.ID: p}}, nil, t.TempDir())

	got, err := uc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rose", got.Name)

	_, err = uc.GetProduct(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestImages(t *testing.T) {
	root := t.TempDir()
	uc := newUseCase(&fakeRepo{}, nil, root)
	ctx := context.Background()

	_, err := uc.CategoryImages(ctx, "Men", "Oud")
	assert.ErrorIs(t, err, apperror.ErrDirectoryNotFound)

	dir := filepath.Join(root, "categoryImages", "Men", "Oud")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	_, err = uc.CategoryImages(ctx, "Men", "Oud")
	assert.ErrorIs(t, err, apperror.ErrDirectoryEmpty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.png"), []byte("png-bytes"), 0o644))
	images, err := uc.CategoryImages(ctx, "Men", "Oud")
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "1.png", images[0].Filename)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("png-bytes")), images[0].Data)

	productDir := filepath.Join(root, "images", "Men", "Oud", "Rose")
	require.NoError(t, os.MkdirAll(productDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(productDir, "a.JPG"), []byte("a"), 0o644))
	images, err = uc.ProductImages(ctx, "Men", "Oud", "Rose")
	require.NoError(t, err)
	assert.Len(t, images, 1)

	_, err = uc.ProductImages(ctx, "..", "Oud", "Rose")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestDigestKeepsGroupOrderStable(t *testing.T) {
	a := product("a", "b", "c-a", "Same", true)
	b := product("b", "b", "c-b", "Same", true)

	digest := Digest([]model.Product{a, b}, 4)
	require.Len(t, digest, 2)
	assert.Equal(t, "c-a", digest[0].CategoryID)
	assert.Equal(t, "c-b", digest[1].CategoryID)
}
