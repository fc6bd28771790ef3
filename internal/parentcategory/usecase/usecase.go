package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/consistency"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/metrics"
	"github.com/fekuna/omnipos-catalog-service/internal/mirror"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/parentcategory"
	"github.com/fekuna/omnipos-catalog-service/internal/parentcategory/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type parentCategoryUseCase struct {
	repo    parentcategory.Repository
	mirror  mirror.Mirror
	settler *consistency.Settler
	logger  logger.ZapLogger
}

func NewParentCategoryUseCase(repo parentcategory.Repository, m mirror.Mirror, settler *consistency.Settler, log logger.ZapLogger) parentcategory.UseCase {
	return &parentCategoryUseCase{
		repo:    repo,
		mirror:  m,
		settler: settler,
		logger:  log,
	}
}

func (uc *parentCategoryUseCase) CreateParentCategory(ctx context.Context, input *dto.CreateParentCategoryInput) (*model.WriteResult, error) {
	if err := mirror.ValidateName(input.Name); err != nil {
		return nil, err
	}

	now := time.Now()
	pc := &model.ParentCategory{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:      input.Name,
	}
	if err := uc.repo.Create(ctx, pc); err != nil {
		return nil, err
	}

	result := &model.WriteResult{ID: pc.ID, StoreCommitted: true}
	for _, dir := range mirror.ParentDirs(pc.Name) {
		result.AddMirrorErr(uc.mirror.EnsureDir(dir...))
	}

	return result, uc.settler.Settle(ctx, "create_parent_category", result, consistency.Tolerate)
}

func (uc *parentCategoryUseCase) ListParentCategories(ctx context.Context) ([]model.ParentCategory, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *parentCategoryUseCase) RenameParentCategory(ctx context.Context, input *dto.RenameParentCategoryInput) (*model.WriteResult, error) {
	if err := model.ValidateID(input.ID); err != nil {
		return nil, err
	}
	if err := mirror.ValidateName(input.Name); err != nil {
		return nil, err
	}

	pc, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if pc == nil {
		return nil, fmt.Errorf("%w: parent category %s", apperror.ErrNotFound, input.ID)
	}

	// The directory still carries the name read here; the store is about to
	// forget it.
	oldName := pc.Name
	pc.Name = input.Name
	pc.UpdatedAt = time.Now()
	rewritten, err := uc.repo.Rename(ctx, pc,
		mirror.ImagePathRewrite(mirror.ParentProductsDir(oldName), mirror.ParentProductsDir(pc.Name)))
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("parent category renamed",
		zap.String("id", pc.ID),
		zap.String("from", oldName),
		zap.Int64("products_rewritten", rewritten),
	)

	result := &model.WriteResult{ID: pc.ID, StoreCommitted: true}
	if oldName != pc.Name {
		oldDirs, newDirs := mirror.ParentDirs(oldName), mirror.ParentDirs(pc.Name)
		for i := range oldDirs {
			result.AddMirrorErr(uc.mirror.RenameDir(oldDirs[i], newDirs[i]))
		}
	}

	return result, uc.settler.Settle(ctx, "rename_parent_category", result, consistency.Strict)
}

// DeleteParentCategory removes the parent, its categories and their
// products, then both directory subtrees. Deleting an id that is already
// gone is a no-op.
func (uc *parentCategoryUseCase) DeleteParentCategory(ctx context.Context, id string) (*model.WriteResult, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}

	pc, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pc == nil {
		return &model.WriteResult{ID: id}, nil
	}

	deleted, err := uc.repo.DeleteCascade(ctx, id)
	if err != nil {
		return nil, err
	}
	for collection, n := range deleted {
		metrics.CascadeDeleted.WithLabelValues(collection).Add(float64(n))
	}
	uc.logger.Info("parent category cascade deleted",
		zap.String("id", id),
		zap.Int64("products", deleted[model.CollectionProducts]),
		zap.Int64("categories", deleted[model.CollectionCategories]),
	)

	result := &model.WriteResult{
		ID:             id,
		StoreCommitted: true,
		Deleted:        deleted[model.CollectionParentCategories] > 0,
	}
	for _, dir := range mirror.ParentDirs(pc.Name) {
		result.AddMirrorErr(uc.mirror.RemoveTree(dir...))
	}

	return result, uc.settler.Settle(ctx, "delete_parent_category", result, consistency.Strict)
}
