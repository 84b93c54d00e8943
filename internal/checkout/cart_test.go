package checkout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercadopos/internal/models"
)

func testProduct(name string, priceCents int64, stock int) *models.Product {
	return &models.Product{
		ID:            uuid.New(),
		Name:          name,
		Unit:          "un",
		PriceCents:    priceCents,
		StockQuantity: stock,
		Active:        true,
	}
}

func TestCartAddProduct(t *testing.T) {
	cart := NewCart()
	rice := testProduct("Arroz 5kg", 2590, 10)

	require.NoError(t, cart.AddProduct(rice))
	assert.Equal(t, 1, cart.Len())
	assert.Equal(t, int64(2590), cart.TotalCents())

	// Same product folds into the existing line.
	require.NoError(t, cart.AddProduct(rice))
	assert.Equal(t, 1, cart.Len())
	assert.Equal(t, 2, cart.Lines()[0].Quantity)
	assert.Equal(t, int64(5180), cart.TotalCents())
}

func TestCartAddProductOutOfStock(t *testing.T) {
	cart := NewCart()
	soldOut := testProduct("Farinha", 890, 0)

	assert.ErrorIs(t, cart.AddProduct(soldOut), ErrStockExceeded)
	assert.Equal(t, 0, cart.Len())
}

func TestCartAddBeyondStockSnapshot(t *testing.T) {
	cart := NewCart()
	scarce := testProduct("Azeite", 3990, 2)

	require.NoError(t, cart.AddProduct(scarce))
	require.NoError(t, cart.AddProduct(scarce))
	err := cart.AddProduct(scarce)
	assert.ErrorIs(t, err, ErrStockExceeded)
	// Rejection leaves the line at its prior quantity.
	assert.Equal(t, 2, cart.Lines()[0].Quantity)
}

func TestCartSetQuantity(t *testing.T) {
	cart := NewCart()
	beans := testProduct("Feijão 1kg", 799, 8)
	require.NoError(t, cart.AddProduct(beans))

	require.NoError(t, cart.SetQuantity(beans.ID, 5))
	assert.Equal(t, int64(3995), cart.TotalCents())

	assert.ErrorIs(t, cart.SetQuantity(beans.ID, 9), ErrStockExceeded)
	assert.Equal(t, 5, cart.Lines()[0].Quantity)

	// Zero or negative removes the line.
	require.NoError(t, cart.SetQuantity(beans.ID, 0))
	assert.Equal(t, 0, cart.Len())
}

func TestCartSetQuantityUnknownProduct(t *testing.T) {
	cart := NewCart()
	assert.NoError(t, cart.SetQuantity(uuid.New(), 3))
	assert.Equal(t, 0, cart.Len())
}

func TestCartIncrementDecrement(t *testing.T) {
	cart := NewCart()
	milk := testProduct("Leite 1L", 549, 6)
	require.NoError(t, cart.AddProduct(milk))

	require.NoError(t, cart.Increment(milk.ID))
	require.NoError(t, cart.Increment(milk.ID))
	assert.Equal(t, 3, cart.Lines()[0].Quantity)

	require.NoError(t, cart.Decrement(milk.ID))
	assert.Equal(t, 2, cart.Lines()[0].Quantity)

	require.NoError(t, cart.Decrement(milk.ID))
	require.NoError(t, cart.Decrement(milk.ID))
	assert.Equal(t, 0, cart.Len())
}

func TestCartRemove(t *testing.T) {
	cart := NewCart()
	a := testProduct("Café", 1890, 5)
	b := testProduct("Açúcar", 450, 5)
	require.NoError(t, cart.AddProduct(a))
	require.NoError(t, cart.AddProduct(b))

	cart.Remove(a.ID)
	require.Equal(t, 1, cart.Len())
	assert.Equal(t, b.ID, cart.Lines()[0].ProductID)
}

func TestCartDiscount(t *testing.T) {
	cart := NewCart()
	item := testProduct("Sabão", 1200, 4)
	require.NoError(t, cart.AddProduct(item))
	require.NoError(t, cart.SetQuantity(item.ID, 2))

	require.NoError(t, cart.SetDiscount(400))
	assert.Equal(t, int64(2400), cart.SubtotalCents())
	assert.Equal(t, int64(2000), cart.TotalCents())

	assert.ErrorIs(t, cart.SetDiscount(-1), ErrDiscountExceedsTotal)
	assert.ErrorIs(t, cart.SetDiscount(2401), ErrDiscountExceedsTotal)
	// Failed applications keep the previous discount.
	assert.Equal(t, int64(400), cart.DiscountCents())
}

func TestCartTotalNeverNegative(t *testing.T) {
	cart := NewCart()
	item := testProduct("Bala", 100, 10)
	require.NoError(t, cart.AddProduct(item))
	require.NoError(t, cart.SetQuantity(item.ID, 3))
	require.NoError(t, cart.SetDiscount(300))

	// Shrinking the cart can leave the discount above the subtotal; the
	// total clamps at zero instead of going negative.
	require.NoError(t, cart.SetQuantity(item.ID, 1))
	assert.Equal(t, int64(0), cart.TotalCents())
}

func TestCartClear(t *testing.T) {
	cart := NewCart()
	item := testProduct("Detergente", 350, 7)
	require.NoError(t, cart.AddProduct(item))
	require.NoError(t, cart.SetDiscount(100))

	cart.Clear()
	assert.Equal(t, 0, cart.Len())
	assert.Equal(t, int64(0), cart.DiscountCents())
	assert.Equal(t, int64(0), cart.TotalCents())
}

func TestCartSnapshot(t *testing.T) {
	cart := NewCart()
	a := testProduct("Óleo", 789, 9)
	b := testProduct("Sal", 250, 9)
	require.NoError(t, cart.AddProduct(a))
	require.NoError(t, cart.AddProduct(b))
	require.NoError(t, cart.SetQuantity(a.ID, 3))

	snapshot := cart.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, a.ID, snapshot[0].ProductID)
	assert.Equal(t, 3, snapshot[0].Quantity)
	assert.Equal(t, int64(789), snapshot[0].PriceCents)
	assert.Equal(t, "Sal", snapshot[1].Name)
}
