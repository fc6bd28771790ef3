package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/consistency"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/mirror"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type productUseCase struct {
	repo         product.Repository
	categoryRepo category.Repository
	mirror       mirror.Mirror
	settler      *consistency.Settler
	logger       logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, categoryRepo category.Repository, m mirror.Mirror, settler *consistency.Settler, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:         repo,
		categoryRepo: categoryRepo,
		mirror:       m,
		settler:      settler,
		logger:       log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.WriteResult, error) {
	if err := mirror.ValidateName(input.Name); err != nil {
		return nil, err
	}
	if err := model.ValidateID(input.CategoryID); err != nil {
		return nil, err
	}
	for key, opt := range input.Options {
		if err := validateOption(key, opt); err != nil {
			return nil, err
		}
	}

	cat, err := uc.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: category %s", apperror.ErrNotFound, input.CategoryID)
	}
	if cat.ParentCategory == nil {
		return nil, fmt.Errorf("%w: category %s references missing parent %s",
			apperror.ErrReferentialGap, cat.ID, cat.ParentCategoryID)
	}

	dir := mirror.ProductDir(cat.ParentCategoryName, cat.Name, input.Name)
	imagePaths := make(model.StringList, 0, len(input.Images))
	for _, img := range input.Images {
		imagePaths = append(imagePaths, mirror.RelPath(append(dir, filepath.Base(img.Filename))...))
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:          input.Name,
		Description:   input.Description,
		Brand:         input.Brand,
		CategoryID:    cat.ID,
		Options:       input.Options,
		ProductStatus: true,
		ImagePaths:    imagePaths,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.logger.Debug("product created", zap.String("id", p.ID), zap.String("dir", mirror.RelPath(dir...)))

	result := &model.WriteResult{ID: p.ID, StoreCommitted: true}
	result.AddMirrorErr(uc.mirror.EnsureDir(dir...))
	if len(input.Images) > 0 {
		result.AddMirrorErr(uc.mirror.WriteImages(input.Images, dir...))
	}

	return result, uc.settler.Settle(ctx, "create_product", result, consistency.Tolerate)
}

func (uc *productUseCase) UpdateProductVariant(ctx context.Context, input *dto.UpdateVariantInput) error {
	if err := validateOption(input.OptionKey, input.Option); err != nil {
		return err
	}
	return uc.edit(ctx, "update_product_variant", input.ID, &dto.ProductEdit{
		Variant: &dto.VariantChange{OptionKey: input.OptionKey, Option: input.Option},
	})
}

func (uc *productUseCase) SetProductVisibility(ctx context.Context, input *dto.SetVisibilityInput) error {
	return uc.edit(ctx, "set_product_visibility", input.ID, &dto.ProductEdit{
		Visibility: &dto.VisibilityChange{Pinned: input.Pinned, ProductStatus: input.ProductStatus},
	})
}

func (uc *productUseCase) UpdateProductDetails(ctx context.Context, input *dto.UpdateDetailsInput) error {
	if err := validateOption(input.OptionKey, input.Option); err != nil {
		return err
	}
	return uc.edit(ctx, "update_product_details", input.ID, &dto.ProductEdit{
		Variant:    &dto.VariantChange{OptionKey: input.OptionKey, Option: input.Option},
		Visibility: &dto.VisibilityChange{Pinned: input.Pinned, ProductStatus: input.ProductStatus},
	})
}

// edit is a store-only write; the product directory is keyed by names that
// none of these changes touch.
func (uc *productUseCase) edit(ctx context.Context, op, id string, e *dto.ProductEdit) error {
	if err := model.ValidateID(id); err != nil {
		return err
	}

	found, err := uc.repo.Edit(ctx, id, e)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: product %s", apperror.ErrNotFound, id)
	}

	return uc.settler.Settle(ctx, op, &model.WriteResult{ID: id, StoreCommitted: true}, consistency.Strict)
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) (*model.WriteResult, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}

	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return &model.WriteResult{ID: id}, nil
	}

	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &model.WriteResult{ID: id, StoreCommitted: true, Deleted: deleted}
	if p.Category == nil {
		result.AddMirrorErr(fmt.Errorf("%w: category %s of product %s",
			apperror.ErrReferentialGap, p.CategoryID, p.ID))
	} else {
		dir := mirror.ProductDir(p.Category.ParentCategoryName, p.Category.Name, p.Name)
		result.AddMirrorErr(uc.mirror.RemoveTree(dir...))
	}

	return result, uc.settler.Settle(ctx, "delete_product", result, consistency.Strict)
}

func validateOption(key string, opt model.ProductOption) error {
	if key == "" {
		return fmt.Errorf("%w: option key is required", apperror.ErrValidation)
	}
	if opt.Price < 0 || opt.QuantityAvailable < 0 || opt.Discount < 0 {
		return fmt.Errorf("%w: option %q has negative values", apperror.ErrValidation, key)
	}
	return nil
}
