package order

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/order/dto"
)

type UseCase interface {
	RecordOrder(ctx context.Context, input *dto.RecordOrderInput) error
}
