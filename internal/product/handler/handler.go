package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/response"
	"github.com/fekuna/omnipos-catalog-service/internal/upload"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) RegisterRoutes(g auth.Groups) {
	g.Admin.POST("/products", h.CreateProduct)
	g.Admin.PUT("/products/:id", h.UpdateProduct)
	g.Admin.PATCH("/products/:id/visibility", h.SetVisibility)
	g.Admin.DELETE("/products/:id", h.DeleteProduct)
}

// CreateProduct accepts a multipart form. "options" is a JSON object of
// option key to {price, quantityAvailable, discount}.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	images, err := upload.Images(c, upload.FieldImages)
	if err != nil {
		response.FromError(c, h.logger, "create_product", err)
		return
	}

	var options model.ProductOptions
	if raw := c.PostForm("options"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &options); err != nil {
			response.FromError(c, h.logger, "create_product", apperror.Wrapf(apperror.ErrValidation, "invalid options: %v", err))
			return
		}
	}

	input := &dto.CreateProductInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Brand:       c.PostForm("brand"),
		CategoryID:  c.PostForm("categoryId"),
		Options:     options,
		Images:      images,
	}
	result, err := h.uc.CreateProduct(c.Request.Context(), input)
	if err != nil {
		response.FromError(c, h.logger, "create_product", err)
		return
	}

	h.logger.Info("product created",
		zap.String("id", result.ID),
		zap.String("name", input.Name),
		zap.Int("images", len(images)),
	)
	response.Written(c, http.StatusCreated, "Product added", result)
}

type updateProductRequest struct {
	Option        string  `json:"option" binding:"required"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	Discount      float64 `json:"discount"`
	Pinned        *bool   `json:"pinned"`
	ProductStatus *bool   `json:"productStatus"`
}

// UpdateProduct edits one option. When pinned and productStatus are both
// present the visibility flags are written in the same update.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, h.logger, "update_product", apperror.Wrapf(apperror.ErrValidation, "invalid request body: %v", err))
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	option := model.ProductOption{Price: req.Price, QuantityAvailable: req.Quantity, Discount: req.Discount}

	var err error
	switch {
	case req.Pinned != nil && req.ProductStatus != nil:
		err = h.uc.UpdateProductDetails(ctx, &dto.UpdateDetailsInput{
			ID:            id,
			OptionKey:     req.Option,
			Option:        option,
			Pinned:        *req.Pinned,
			ProductStatus: *req.ProductStatus,
		})
	case req.Pinned == nil && req.ProductStatus == nil:
		err = h.uc.UpdateProductVariant(ctx, &dto.UpdateVariantInput{ID: id, OptionKey: req.Option, Option: option})
	default:
		err = apperror.Wrapf(apperror.ErrValidation, "pinned and productStatus must be sent together")
	}
	if err != nil {
		response.FromError(c, h.logger, "update_product", err)
		return
	}
	response.Success(c, http.StatusOK, "Updated", gin.H{"id": id})
}

func (h *ProductHandler) SetVisibility(c *gin.Context) {
	var req struct {
		Pinned        bool `json:"pinned"`
		ProductStatus bool `json:"productStatus"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, h.logger, "set_product_visibility", apperror.Wrapf(apperror.ErrValidation, "invalid request body: %v", err))
		return
	}

	id := c.Param("id")
	err := h.uc.SetProductVisibility(c.Request.Context(), &dto.SetVisibilityInput{
		ID:            id,
		Pinned:        req.Pinned,
		ProductStatus: req.ProductStatus,
	})
	if err != nil {
		response.FromError(c, h.logger, "set_product_visibility", err)
		return
	}
	response.Success(c, http.StatusOK, "Updated", gin.H{"id": id})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	result, err := h.uc.DeleteProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, h.logger, "delete_product", err)
		return
	}
	response.Written(c, http.StatusOK, "Product deleted", result)
}
