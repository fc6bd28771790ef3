package usecase

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/cache"
	"github.com/fekuna/omnipos-catalog-service/internal/catalog"
	"github.com/fekuna/omnipos-catalog-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/metrics"
	"github.com/fekuna/omnipos-catalog-service/internal/mirror"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/parentcategory"
	"go.uber.org/zap"
)

const (
	trendingLimit  = 5
	digestPageSize = 4
	cacheTTL       = 5 * time.Minute
)

type catalogUseCase struct {
	repo       catalog.Repository
	parentRepo parentcategory.Repository
	mirror     mirror.Mirror
	cache      cache.Cache
	logger     logger.ZapLogger
}

func NewCatalogUseCase(repo catalog.Repository, parentRepo parentcategory.Repository, m mirror.Mirror, c cache.Cache, log logger.ZapLogger) catalog.UseCase {
	if c == nil {
		c = cache.Nop{}
	}
	return &catalogUseCase{
		repo:       repo,
		parentRepo: parentRepo,
		mirror:     m,
		cache:      c,
		logger:     log,
	}
}

func (uc *catalogUseCase) ListProducts(ctx context.Context, filters *dto.ListFilters) (*dto.ProductPage, error) {
	defer metrics.TrackQuery("list_products").ObserveDuration()

	if err := validatePaging(filters.Skip, filters.Limit); err != nil {
		return nil, err
	}
	if filters.CategoryID != "" {
		if err := model.ValidateID(filters.CategoryID); err != nil {
			return nil, err
		}
	}

	return cached(ctx, uc, "products:list", filters, func() (*dto.ProductPage, error) {
		products, total, err := uc.repo.ListProducts(ctx, filters.CategoryID, filters.Skip, filters.Limit)
		if err != nil {
			return nil, err
		}

		page := newPage(total, filters.Skip, filters.Limit)
		if filters.CategoryID != "" {
			page.Groups = GroupByCategory(products)
		} else {
			page.Products = products
		}
		return page, nil
	})
}

func (uc *catalogUseCase) BrowseProducts(ctx context.Context, filters *dto.BrowseFilters) (*dto.ProductPage, error) {
	defer metrics.TrackQuery("browse_products").ObserveDuration()

	if err := validatePaging(filters.Skip, filters.Limit); err != nil {
		return nil, err
	}

	return cached(ctx, uc, "products:browse", filters, func() (*dto.ProductPage, error) {
		products, total, err := uc.repo.BrowseProducts(ctx, filters.CategoryName, Tokenize(filters.SearchTerm), filters.Skip, filters.Limit)
		if err != nil {
			return nil, err
		}

		page := newPage(total, filters.Skip, filters.Limit)
		page.Products = products
		return page, nil
	})
}

func (uc *catalogUseCase) Search(ctx context.Context, query string) ([]model.Product, error) {
	defer metrics.TrackQuery("search").ObserveDuration()

	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: search query is empty", apperror.ErrValidation)
	}

	products, err := cached(ctx, uc, "products:search", tokens, func() ([]model.Product, error) {
		return uc.repo.Search(ctx, tokens)
	})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: %q", apperror.ErrNoResults, query)
	}
	return products, nil
}

// Trending ranks products by how many orders contain them. No orders at all
// yields ErrNoTrending; orders whose products are all hidden yield an empty
// list.
func (uc *catalogUseCase) Trending(ctx context.Context) ([]dto.TrendingProduct, error) {
	defer metrics.TrackQuery("trending").ObserveDuration()

	exists, err := uc.repo.OrdersExist(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.ErrNoTrending
	}

	return cached(ctx, uc, "products:trending", trendingLimit, func() ([]dto.TrendingProduct, error) {
		return uc.repo.Trending(ctx, trendingLimit)
	})
}

func (uc *catalogUseCase) ParentCategoryDigest(ctx context.Context, parentID string) ([]dto.CategoryDigest, error) {
	defer metrics.TrackQuery("parent_category_digest").ObserveDuration()

	if err := model.ValidateID(parentID); err != nil {
		return nil, err
	}

	parent, err := uc.parentRepo.FindByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, fmt.Errorf("%w: parent category %s", apperror.ErrNotFound, parentID)
	}

	return cached(ctx, uc, "parent:digest", parentID, func() ([]dto.CategoryDigest, error) {
		products, err := uc.repo.ParentCategoryProducts(ctx, parentID)
		if err != nil {
			return nil, err
		}
		return Digest(products, digestPageSize), nil
	})
}

func (uc *catalogUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}

	p, err := uc.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: product %s", apperror.ErrNotFound, id)
	}
	return p, nil
}

func (uc *catalogUseCase) ProductImages(ctx context.Context, parent, category, product string) ([]dto.EncodedImage, error) {
	defer metrics.TrackQuery("product_images").ObserveDuration()
	return uc.images(mirror.ProductDir(parent, category, product))
}

func (uc *catalogUseCase) CategoryImages(ctx context.Context, parent, category string) ([]dto.EncodedImage, error) {
	defer metrics.TrackQuery("category_images").ObserveDuration()
	return uc.images(mirror.CategoryDir(parent, category))
}

func (uc *catalogUseCase) images(dir []string) ([]dto.EncodedImage, error) {
	images, err := uc.mirror.ListImages(dir...)
	if err != nil {
		return nil, err
	}

	encoded := make([]dto.EncodedImage, 0, len(images))
	for _, img := range images {
		encoded = append(encoded, dto.EncodedImage{
			Filename: img.Filename,
			Data:     base64.StdEncoding.EncodeToString(img.Data),
		})
	}
	return encoded, nil
}

// cached serves a read from the catalog cache, loading and storing it on a
// miss. Cache failures degrade to a direct load.
func cached[T any](ctx context.Context, uc *catalogUseCase, name string, filters any, load func() (T, error)) (T, error) {
	key, err := cacheKey(name, filters)
	if err != nil {
		return load()
	}

	var v T
	hit, err := uc.cache.Get(ctx, key, &v)
	if err != nil {
		uc.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	} else if hit {
		uc.logger.Debug("catalog cache hit", zap.String("key", key))
		return v, nil
	}

	v, err = load()
	if err != nil {
		return v, err
	}
	if err := uc.cache.Set(ctx, key, v, cacheTTL); err != nil {
		uc.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}

func cacheKey(name string, filters any) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s:%x", cache.CatalogPrefix, name, md5.Sum(data)), nil
}

func validatePaging(skip, limit int) error {
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be positive", apperror.ErrValidation)
	}
	if skip < 0 {
		return fmt.Errorf("%w: skip must not be negative", apperror.ErrValidation)
	}
	return nil
}

func newPage(total int64, skip, limit int) *dto.ProductPage {
	totalPages, currentPage := Paginate(total, skip, limit)
	return &dto.ProductPage{
		TotalProducts: total,
		TotalPages:    totalPages,
		CurrentPage:   currentPage,
	}
}

// Paginate returns ceil(total/limit) and ceil(skip/limit)+1. limit must be
// positive and skip non-negative. Neither ceiling overflows; a current page
// past MaxInt saturates at MaxInt.
func Paginate(total int64, skip, limit int) (totalPages, currentPage int) {
	totalPages = int(ceilDiv(total, int64(limit)))
	currentPage = int(ceilDiv(int64(skip), int64(limit)))
	if currentPage < math.MaxInt {
		currentPage++
	}
	return totalPages, currentPage
}

func ceilDiv(n, d int64) int64 {
	q := n / d
	if n%d != 0 {
		q++
	}
	return q
}

// Tokenize splits a query on whitespace, dropping empty tokens.
func Tokenize(q string) []string {
	return strings.Fields(q)
}

// GroupByCategory groups products by category id in order of first
// appearance.
func GroupByCategory(products []model.Product) []dto.CategoryGroup {
	groups := []dto.CategoryGroup{}
	index := map[string]int{}
	for _, p := range products {
		i, ok := index[p.CategoryID]
		if !ok {
			name := ""
			if p.Category != nil {
				name = p.Category.Name
			}
			i = len(groups)
			index[p.CategoryID] = i
			groups = append(groups, dto.CategoryGroup{CategoryID: p.CategoryID, CategoryName: name})
		}
		groups[i].Products = append(groups[i].Products, p)
	}
	return groups
}

// Digest groups products per subcategory, keeps the first perGroup of each
// and orders the groups by subcategory name.
func Digest(products []model.Product, perGroup int) []dto.CategoryDigest {
	groups := GroupByCategory(products)
	digests := make([]dto.CategoryDigest, 0, len(groups))
	for _, g := range groups {
		parentName := ""
		if c := g.Products[0].Category; c != nil {
			parentName = c.ParentCategoryName
		}
		digests = append(digests, dto.CategoryDigest{
			CategoryID:         g.CategoryID,
			ParentCategoryName: parentName,
			SubcategoryName:    g.CategoryName,
			Products:           g.Products[:min(perGroup, len(g.Products))],
		})
	}
	slices.SortStableFunc(digests, func(a, b dto.CategoryDigest) int {
		return strings.Compare(a.SubcategoryName, b.SubcategoryName)
	})
	return digests
}
