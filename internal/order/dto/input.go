package dto

import "time"

type RecordOrderInput struct {
	ID        string
	Lines     []OrderLineInput
	CreatedAt time.Time
}

type OrderLineInput struct {
	ProductID string
	Quantity  int
}
