package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/broker"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/order"
	"github.com/fekuna/omnipos-catalog-service/internal/order/dto"
	"go.uber.org/zap"
)

const EventOrderCreated = "OrderCreated"

type OrderListener struct {
	consumer broker.Consumer
	uc       order.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewOrderListener(consumer broker.Consumer, uc order.UseCase, logger logger.ZapLogger) *OrderListener {
	return &OrderListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
		backoff:  time.Second,
	}
}

// Start consumes until ctx is cancelled.
func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("Starting order Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping order Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg)
		}
	}
}

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID    string             `json:"id"`
	Items []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (l *OrderListener) processMessage(ctx context.Context, msg broker.Message) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != EventOrderCreated {
		return
	}

	createdAt := event.Timestamp
	if createdAt.IsZero() {
		createdAt = msg.Time
	}

	input := &dto.RecordOrderInput{ID: event.Payload.ID, CreatedAt: createdAt}
	for _, item := range event.Payload.Items {
		input.Lines = append(input.Lines, dto.OrderLineInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	if err := l.uc.RecordOrder(ctx, input); err != nil {
		l.logger.Error("Failed to record order",
			zap.String("order_id", event.Payload.ID),
			zap.Error(err),
		)
		return
	}
	l.logger.Info("Recorded OrderCreated event", zap.String("order_id", event.Payload.ID))
}
