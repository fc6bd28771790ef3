package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/cache"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/metrics"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/order"
	"github.com/fekuna/omnipos-catalog-service/internal/order/dto"
	"go.uber.org/zap"
)

type orderUseCase struct {
	repo   order.Repository
	cache  cache.Cache
	logger logger.ZapLogger
}

func NewOrderUseCase(repo order.Repository, c cache.Cache, log logger.ZapLogger) order.UseCase {
	if c == nil {
		c = cache.Nop{}
	}
	return &orderUseCase{
		repo:   repo,
		cache:  c,
		logger: log,
	}
}

// RecordOrder stores an order for trending. Redelivered orders are ignored.
func (uc *orderUseCase) RecordOrder(ctx context.Context, input *dto.RecordOrderInput) error {
	if err := model.ValidateID(input.ID); err != nil {
		return err
	}
	if len(input.Lines) == 0 {
		return fmt.Errorf("%w: order %s has no line items", apperror.ErrValidation, input.ID)
	}

	lines := make(model.OrderLines, 0, len(input.Lines))
	for _, l := range input.Lines {
		if err := model.ValidateID(l.ProductID); err != nil {
			return err
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: order %s has quantity %d for product %s",
				apperror.ErrValidation, input.ID, l.Quantity, l.ProductID)
		}
		lines = append(lines, model.OrderLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	createdAt := input.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	inserted, err := uc.repo.Create(ctx, &model.Order{ID: input.ID, Products: lines, CreatedAt: createdAt})
	if err != nil {
		return err
	}
	if !inserted {
		uc.logger.Debug("order already recorded", zap.String("order_id", input.ID))
		return nil
	}

	metrics.OrdersIngested.Inc()
	if err := cache.InvalidateCatalog(ctx, uc.cache); err != nil {
		uc.logger.Warn("failed to invalidate catalog cache", zap.String("order_id", input.ID), zap.Error(err))
	}
	return nil
}
