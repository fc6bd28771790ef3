package order

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type Repository interface {
	// Create stores the order and reports false when an order with the same
	// id was already recorded.
	Create(ctx context.Context, order *model.Order) (bool, error)
}
