package checkout

import (
	"errors"

	"github.com/google/uuid"

	"mercadopos/internal/models"
)

var (
	// ErrStockExceeded is returned when a quantity mutation would push a
	// line past the product's stock snapshot. The cart is left unchanged.
	ErrStockExceeded = errors.New("quantity exceeds available stock")

	// ErrDiscountExceedsTotal is returned when a discount larger than the
	// sum of line subtotals is applied.
	ErrDiscountExceedsTotal = errors.New("discount exceeds cart subtotal")

	// ErrEmptyCart is returned when settlement is requested on a cart with
	// no lines.
	ErrEmptyCart = errors.New("cart is empty")
)

// Line is one cart entry. UnitPriceCents and StockSnapshot are copied from
// the product when the line is created and not re-read afterwards; the
// snapshot bounds every later quantity mutation.
type Line struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	Unit           string    `json:"unit"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	StockSnapshot  int       `json:"stock_snapshot"`
}

// SubtotalCents is quantity times the unit price snapshot.
func (l Line) SubtotalCents() int64 {
	return int64(l.Quantity) * l.UnitPriceCents
}

// Cart is the in-memory ledger of an in-progress sale. Lines keep insertion
// order. The cart belongs to a single checkout session and is not safe for
// concurrent use.
type Cart struct {
	lines         []Line
	discountCents int64
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) findLine(productID uuid.UUID) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddProduct adds one unit of the product. An existing line is incremented
// by 1 unless that would exceed the stock snapshot; a new line requires at
// least one unit in stock. On rejection the cart is left untouched.
func (c *Cart) AddProduct(p *models.Product) error {
	if i := c.findLine(p.ID); i >= 0 {
		if c.lines[i].Quantity+1 > c.lines[i].StockSnapshot {
			return ErrStockExceeded
		}
		c.lines[i].Quantity++
		return nil
	}

	if p.StockQuantity < 1 {
		return ErrStockExceeded
	}
	c.lines = append(c.lines, Line{
		ProductID:      p.ID,
		Name:           p.Name,
		Unit:           p.Unit,
		UnitPriceCents: p.PriceCents,
		Quantity:       1,
		StockSnapshot:  p.StockQuantity,
	})
	return nil
}

// SetQuantity sets a line's quantity. n <= 0 removes the line; n above the
// stock snapshot is rejected with ErrStockExceeded and the prior quantity is
// kept. Setting a quantity for an unknown product is a no-op.
func (c *Cart) SetQuantity(productID uuid.UUID, n int) error {
	i := c.findLine(productID)
	if i < 0 {
		return nil
	}
	if n <= 0 {
		c.Remove(productID)
		return nil
	}
	if n > c.lines[i].StockSnapshot {
		return ErrStockExceeded
	}
	c.lines[i].Quantity = n
	return nil
}

// Increment raises a line's quantity by one.
func (c *Cart) Increment(productID uuid.UUID) error {
	i := c.findLine(productID)
	if i < 0 {
		return nil
	}
	return c.SetQuantity(productID, c.lines[i].Quantity+1)
}

// Decrement lowers a line's quantity by one; a line at quantity 1 is
// removed.
func (c *Cart) Decrement(productID uuid.UUID) error {
	i := c.findLine(productID)
	if i < 0 {
		return nil
	}
	return c.SetQuantity(productID, c.lines[i].Quantity-1)
}

// Remove deletes the line unconditionally.
func (c *Cart) Remove(productID uuid.UUID) {
	i := c.findLine(productID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// SetDiscount applies a whole-cart discount in cents. Negative values and
// discounts above the current subtotal sum are rejected.
func (c *Cart) SetDiscount(cents int64) error {
	if cents < 0 {
		return ErrDiscountExceedsTotal
	}
	if cents > c.SubtotalCents() {
		return ErrDiscountExceedsTotal
	}
	c.discountCents = cents
	return nil
}

// DiscountCents returns the applied discount.
func (c *Cart) DiscountCents() int64 {
	return c.discountCents
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// SubtotalCents is the sum of line subtotals, recomputed on every call.
func (c *Cart) SubtotalCents() int64 {
	var sum int64
	for i := range c.lines {
		sum += c.lines[i].SubtotalCents()
	}
	return sum
}

// TotalCents is subtotal minus discount, never negative.
func (c *Cart) TotalCents() int64 {
	total := c.SubtotalCents() - c.discountCents
	if total < 0 {
		return 0
	}
	return total
}

// Clear drops all lines and the discount.
func (c *Cart) Clear() {
	c.lines = nil
	c.discountCents = 0
}

// Snapshot serializes the cart for suspension.
func (c *Cart) Snapshot() []models.PendingCartItem {
	items := make([]models.PendingCartItem, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, models.PendingCartItem{
			ProductID:  l.ProductID,
			Name:       l.Name,
			Quantity:   l.Quantity,
			PriceCents: l.UnitPriceCents,
		})
	}
	return items
}
