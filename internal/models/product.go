package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the catalog row. Money is stored as integer cents
// (price_cents); the checkout layer never works with floats.
type Product struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	StoreID       uuid.UUID  `json:"store_id" db:"store_id"`
	CategoryID    *uuid.UUID `json:"category_id" db:"category_id"`
	Name          string     `json:"name" db:"name"`
	PriceCents    int64      `json:"price_cents" db:"price_cents"`
	StockQuantity int        `json:"stock_quantity" db:"stock_quantity"`
	Unit          string     `json:"unit" db:"unit"`
	Barcode       *string    `json:"barcode" db:"barcode"`
	Active        bool       `json:"active" db:"active"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
