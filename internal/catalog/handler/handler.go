package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/catalog"
	"github.com/fekuna/omnipos-catalog-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/response"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	uc     catalog.UseCase
	logger logger.ZapLogger
}

func NewCatalogHandler(uc catalog.UseCase, log logger.ZapLogger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CatalogHandler) RegisterRoutes(g auth.Groups) {
	g.Public.GET("/products", h.ListProducts)
	g.User.GET("/products/all", h.BrowseProducts)
	g.Public.GET("/products/search", h.Search)
	g.Public.GET("/products/trending", h.Trending)
	g.Public.GET("/products/:id", h.GetProduct)
	g.Public.GET("/parent-categories/:id/products", h.ParentCategoryDigest)
	g.Public.GET("/images/:parent/:category/:product", h.ProductImages)
	g.Public.GET("/category-images/:parent/:category", h.CategoryImages)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	skip, limit, err := paging(c)
	if err != nil {
		response.FromError(c, h.logger, "list_products", err)
		return
	}

	categoryID := c.Query("categoryId")
	if categoryID == "null" {
		categoryID = ""
	}

	page, err := h.uc.ListProducts(c.Request.Context(), &dto.ListFilters{CategoryID: categoryID, Skip: skip, Limit: limit})
	if err != nil {
		response.FromError(c, h.logger, "list_products", err)
		return
	}
	response.Success(c, http.StatusOK, "Products fetched", page)
}

func (h *CatalogHandler) BrowseProducts(c *gin.Context) {
	skip, limit, err := paging(c)
	if err != nil {
		response.FromError(c, h.logger, "browse_products", err)
		return
	}

	page, err := h.uc.BrowseProducts(c.Request.Context(), &dto.BrowseFilters{
		CategoryName: c.Query("category"),
		SearchTerm:   c.Query("searchTerm"),
		Skip:         skip,
		Limit:        limit,
	})
	if err != nil {
		response.FromError(c, h.logger, "browse_products", err)
		return
	}
	response.Success(c, http.StatusOK, "Products fetched", page)
}

func (h *CatalogHandler) Search(c *gin.Context) {
	products, err := h.uc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.FromError(c, h.logger, "search", err)
		return
	}
	response.Success(c, http.StatusOK, "Search results", products)
}

func (h *CatalogHandler) Trending(c *gin.Context) {
	products, err := h.uc.Trending(c.Request.Context())
	if errors.Is(err, apperror.ErrNoTrending) {
		response.Signal(c, response.CodeNoTrending, "No trending products")
		return
	}
	if err != nil {
		response.FromError(c, h.logger, "trending", err)
		return
	}
	response.Success(c, http.StatusOK, "Trending products", products)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	p, err := h.uc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, h.logger, "get_product", err)
		return
	}
	response.Success(c, http.StatusOK, "Product fetched", p)
}

func (h *CatalogHandler) ParentCategoryDigest(c *gin.Context) {
	digest, err := h.uc.ParentCategoryDigest(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, h.logger, "parent_category_digest", err)
		return
	}
	response.Success(c, http.StatusOK, "Products fetched", digest)
}

func (h *CatalogHandler) ProductImages(c *gin.Context) {
	images, err := h.uc.ProductImages(c.Request.Context(), c.Param("parent"), c.Param("category"), c.Param("product"))
	if err != nil {
		response.FromError(c, h.logger, "product_images", err)
		return
	}
	response.Success(c, http.StatusOK, "Images fetched", images)
}

func (h *CatalogHandler) CategoryImages(c *gin.Context) {
	images, err := h.uc.CategoryImages(c.Request.Context(), c.Param("parent"), c.Param("category"))
	if err != nil {
		response.FromError(c, h.logger, "category_images", err)
		return
	}
	response.Success(c, http.StatusOK, "Images fetched", images)
}

// paging reads skip and limit, defaulting to 0 and dto.DefaultLimit.
func paging(c *gin.Context) (skip, limit int, err error) {
	skip, err = intQuery(c, "skip", 0)
	if err != nil {
		return 0, 0, err
	}
	limit, err = intQuery(c, "limit", dto.DefaultLimit)
	if err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Wrapf(apperror.ErrValidation, "%s must be an integer", key)
	}
	return v, nil
}
