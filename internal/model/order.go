package model

import (
	"database/sql/driver"
	"time"
)

// Order is read by the trending ranking; the service itself only ingests
// orders from the event stream.
type Order struct {
	ID        string     `db:"id" json:"id"`
	Products  OrderLines `db:"products" json:"products"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}

type OrderLine struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

type OrderLines []OrderLine

func (l OrderLines) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return marshalJSON(l)
}

func (l *OrderLines) Scan(src any) error {
	return scanJSON(src, l)
}
