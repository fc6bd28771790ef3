package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/parentcategory"
	"github.com/fekuna/omnipos-catalog-service/internal/parentcategory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ParentCategoryHandler struct {
	uc     parentcategory.UseCase
	logger logger.ZapLogger
}

func NewParentCategoryHandler(uc parentcategory.UseCase, log logger.ZapLogger) *ParentCategoryHandler {
	return &ParentCategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ParentCategoryHandler) RegisterRoutes(g auth.Groups) {
	g.Admin.POST("/parent-categories", h.CreateParentCategory)
	g.User.GET("/parent-categories", h.ListParentCategories)
	g.Admin.PUT("/parent-categories/:id", h.RenameParentCategory)
	g.Admin.DELETE("/parent-categories/:id", h.DeleteParentCategory)
}

type nameRequest struct {
	Name string `json:"name"`
}

func (h *ParentCategoryHandler) CreateParentCategory(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, h.logger, "create_parent_category", apperror.Wrapf(apperror.ErrValidation, "invalid request body: %v", err))
		return
	}

	result, err := h.uc.CreateParentCategory(c.Request.Context(), &dto.CreateParentCategoryInput{Name: req.Name})
	if err != nil {
		response.FromError(c, h.logger, "create_parent_category", err)
		return
	}

	h.logger.Info("parent category created", zap.String("id", result.ID), zap.String("name", req.Name))
	response.Written(c, http.StatusCreated, "Parent category added", result)
}

func (h *ParentCategoryHandler) ListParentCategories(c *gin.Context) {
	parents, err := h.uc.ListParentCategories(c.Request.Context())
	if err != nil {
		response.FromError(c, h.logger, "list_parent_categories", err)
		return
	}
	response.Success(c, http.StatusOK, "Parent categories fetched", parents)
}

func (h *ParentCategoryHandler) RenameParentCategory(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, h.logger, "rename_parent_category", apperror.Wrapf(apperror.ErrValidation, "invalid request body: %v", err))
		return
	}

	result, err := h.uc.RenameParentCategory(c.Request.Context(), &dto.RenameParentCategoryInput{
		ID:   c.Param("id"),
		Name: req.Name,
	})
	if err != nil {
		response.FromError(c, h.logger, "rename_parent_category", err)
		return
	}
	response.Written(c, http.StatusOK, "Parent category updated", result)
}

func (h *ParentCategoryHandler) DeleteParentCategory(c *gin.Context) {
	result, err := h.uc.DeleteParentCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, h.logger, "delete_parent_category", err)
		return
	}
	response.Written(c, http.StatusOK, "Parent category deleted", result)
}
