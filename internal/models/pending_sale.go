package models

import (
	"time"

	"github.com/google/uuid"
)

// PendingCartItem is one serialized cart line inside a suspended sale.
// The shape is what the PDV needs to rebuild a cart: product reference,
// display name, quantity and the price snapshot taken when the line was
// added.
type PendingCartItem struct {
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	PriceCents int64     `json:"price_cents"`
}

// PendingSale is a parked cart. The cart column is JSONB; resume consumes
// the row with a single DELETE ... RETURNING so it can be claimed at most
// once.
type PendingSale struct {
	ID        uuid.UUID         `json:"id" db:"id"`
	StoreID   uuid.UUID         `json:"store_id" db:"store_id"`
	Cart      []PendingCartItem `json:"cart" db:"cart"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}
