package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/response"
	"github.com/fekuna/omnipos-catalog-service/internal/upload"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) RegisterRoutes(g auth.Groups) {
	g.Admin.POST("/categories", h.CreateCategory)
	g.Public.GET("/categories", h.ListCategories)
	g.Public.GET("/categories/:id", h.GetCategory)
	g.Admin.PUT("/categories/:id", h.RenameCategory)
	g.Admin.DELETE("/categories/:id", h.DeleteCategory)
}

// CreateCategory accepts a multipart form with "name", "parentCategoryId"
// and any number of "images".
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	images, err := upload.Images(c, upload.FieldImages)
	if err != nil {
		response.FromError(c, h.logger, "create_category", err)
		return
	}

	input := &dto.CreateCategoryInput{
		Name:             c.PostForm("name"),
		ParentCategoryID: c.PostForm("parentCategoryId"),
		Images:           images,
	}
	result, err := h.uc.CreateCategory(c.Request.Context(), input)
	if err != nil {
		response.FromError(c, h.logger, "create_category", err)
		return
	}

	h.logger.Info("category created",
		zap.String("id", result.ID),
		zap.String("name", input.Name),
		zap.Int("images", len(images)),
	)
	response.Written(c, http.StatusCreated, "Category added", result)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	filters := &dto.CategoryFilters{ParentCategoryID: c.Query("parentCategoryId")}
	categories, err := h.uc.ListCategories(c.Request.Context(), filters)
	if err != nil {
		response.FromError(c, h.logger, "list_categories", err)
		return
	}
	response.Success(c, http.StatusOK, "Categories fetched", categories)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	cat, err := h.uc.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, h.logger, "get_category", err)
		return
	}
	response.Success(c, http.StatusOK, "Category fetched", cat)
}

func (h *CategoryHandler) RenameCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, h.logger, "rename_category", apperror.Wrapf(apperror.ErrValidation, "invalid request body: %v", err))
		return
	}

	result, err := h.uc.RenameCategory(c.Request.Context(), &dto.RenameCategoryInput{
		ID:   c.Param("id"),
		Name: req.Name,
	})
	if err != nil {
		response.FromError(c, h.logger, "rename_category", err)
		return
	}
	response.Written(c, http.StatusOK, "Category updated", result)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	result, err := h.uc.DeleteCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, h.logger, "delete_category", err)
		return
	}
	response.Written(c, http.StatusOK, "Category deleted", result)
}
