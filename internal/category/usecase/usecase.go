package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/consistency"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/metrics"
	"github.com/fekuna/omnipos-catalog-service/internal/mirror"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/parentcategory"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo       category.Repository
	parentRepo parentcategory.Repository
	mirror     mirror.Mirror
	settler    *consistency.Settler
	logger     logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, parentRepo parentcategory.Repository, m mirror.Mirror, settler *consistency.Settler, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:       repo,
		parentRepo: parentRepo,
		mirror:     m,
		settler:    settler,
		logger:     log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.WriteResult, error) {
	if err := mirror.ValidateName(input.Name); err != nil {
		return nil, err
	}
	if err := model.ValidateID(input.ParentCategoryID); err != nil {
		return nil, err
	}

	parent, err := uc.parentRepo.FindByID(ctx, input.ParentCategoryID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, fmt.Errorf("%w: parent category %s", apperror.ErrNotFound, input.ParentCategoryID)
	}

	now := time.Now()
	cat := &model.Category{
		BaseModel:        model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:             input.Name,
		ParentCategoryID: parent.ID,
	}
	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}

	result := &model.WriteResult{ID: cat.ID, StoreCommitted: true}
	for _, dir := range mirror.CategoryDirs(parent.Name, cat.Name) {
		result.AddMirrorErr(uc.mirror.EnsureDir(dir...))
	}
	if len(input.Images) > 0 {
		result.AddMirrorErr(uc.mirror.WriteImages(input.Images, mirror.CategoryDir(parent.Name, cat.Name)...))
	}

	return result, uc.settler.Settle(ctx, "create_category", result, consistency.Tolerate)
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}

	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: category %s", apperror.ErrNotFound, id)
	}
	if cat.ParentCategory == nil {
		return nil, fmt.Errorf("%w: category %s references missing parent %s",
			apperror.ErrReferentialGap, id, cat.ParentCategoryID)
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, error) {
	if filters != nil && filters.ParentCategoryID != "" {
		if err := model.ValidateID(filters.ParentCategoryID); err != nil {
			return nil, err
		}
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *categoryUseCase) RenameCategory(ctx context.Context, input *dto.RenameCategoryInput) (*model.WriteResult, error) {
	if err := model.ValidateID(input.ID); err != nil {
		return nil, err
	}
	if err := mirror.ValidateName(input.Name); err != nil {
		return nil, err
	}

	cat, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: category %s", apperror.ErrNotFound, input.ID)
	}

	oldName := cat.Name
	cat.Name = input.Name
	cat.UpdatedAt = time.Now()

	// Without the parent name the stored paths cannot be located.
	var images model.PathRewrite
	if cat.ParentCategory != nil {
		images = mirror.ImagePathRewrite(
			mirror.CategoryProductsDir(cat.ParentCategoryName, oldName),
			mirror.CategoryProductsDir(cat.ParentCategoryName, cat.Name))
	}
	rewritten, err := uc.repo.Rename(ctx, cat, images)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("category renamed",
		zap.String("id", cat.ID),
		zap.String("from", oldName),
		zap.Int64("products_rewritten", rewritten),
	)

	result := &model.WriteResult{ID: cat.ID, StoreCommitted: true}
	switch {
	case cat.ParentCategory == nil:
		result.AddMirrorErr(fmt.Errorf("%w: parent %s of category %s",
			apperror.ErrReferentialGap, cat.ParentCategoryID, cat.ID))
	case oldName != cat.Name:
		oldDirs := mirror.CategoryDirs(cat.ParentCategoryName, oldName)
		newDirs := mirror.CategoryDirs(cat.ParentCategoryName, cat.Name)
		for i := range oldDirs {
			result.AddMirrorErr(uc.mirror.RenameDir(oldDirs[i], newDirs[i]))
		}
	}

	return result, uc.settler.Settle(ctx, "rename_category", result, consistency.Strict)
}

// DeleteCategory removes the category and its products, then the category
// image directory and the product subtree below it.
func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id string) (*model.WriteResult, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}

	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return &model.WriteResult{ID: id}, nil
	}

	deleted, err := uc.repo.DeleteCascade(ctx, id)
	if err != nil {
		return nil, err
	}
	for collection, n := range deleted {
		metrics.CascadeDeleted.WithLabelValues(collection).Add(float64(n))
	}
	uc.logger.Info("category cascade deleted",
		zap.String("id", id),
		zap.Int64("products", deleted[model.CollectionProducts]),
	)

	result := &model.WriteResult{
		ID:             id,
		StoreCommitted: true,
		Deleted:        deleted[model.CollectionCategories] > 0,
	}
	if cat.ParentCategory == nil {
		result.AddMirrorErr(fmt.Errorf("%w: parent %s of category %s",
			apperror.ErrReferentialGap, cat.ParentCategoryID, cat.ID))
	} else {
		for _, dir := range mirror.CategoryDirs(cat.ParentCategoryName, cat.Name) {
			result.AddMirrorErr(uc.mirror.RemoveTree(dir...))
		}
	}

	return result, uc.settler.Settle(ctx, "delete_category", result, consistency.Strict)
}
