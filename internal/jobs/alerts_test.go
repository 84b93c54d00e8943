package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercadopos/internal/repositories"
)

func newAlertFixture(t *testing.T) (pgxmock.PgxPoolIface, *AlertService) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	svc := NewAlertService(
		repositories.NewProductRepo(mock),
		repositories.NewInstallmentRepo(mock),
		repositories.NewStoreRepo(mock),
	)
	return mock, svc
}

func TestCheckLowStock(t *testing.T) {
	mock, svc := newAlertFixture(t)
	storeID := uuid.New()

	rows := pgxmock.NewRows([]string{"id", "store_id", "category_id", "name", "price_cents", "stock_quantity", "unit", "barcode", "active", "created_at", "updated_at"}).
		AddRow(uuid.New(), storeID, nil, "Azeite", int64(3990), 2, "un", nil, true, time.Now(), time.Now()).
		AddRow(uuid.New(), storeID, nil, "Farinha", int64(890), 0, "kg", nil, true, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT (.+) FROM products`).
		WithArgs(storeID, 10).
		WillReturnRows(rows)

	alerts, err := svc.CheckLowStock(context.Background(), storeID, 0) // zero falls back to the default threshold
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "Azeite", alerts[0].ProductName)
	assert.Equal(t, 2, alerts[0].CurrentStock)
	assert.Equal(t, 10, alerts[0].Threshold)
}

func TestCheckOverdueInstallments(t *testing.T) {
	mock, svc := newAlertFixture(t)
	storeID := uuid.New()
	saleID := uuid.New()
	dueDate := time.Now().AddDate(0, 0, -15)

	rows := pgxmock.NewRows([]string{"id", "sale_id", "installment_number", "amount_cents", "due_date", "status", "paid_date"}).
		AddRow(uuid.New(), saleID, 1, int64(5000), dueDate, "pending", nil)
	mock.ExpectQuery(`SELECT (.+) FROM installments i`).
		WithArgs(storeID, pgxmock.AnyArg()).
		WillReturnRows(rows)

	alerts, err := svc.CheckOverdueInstallments(context.Background(), storeID)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, saleID, alerts[0].SaleID)
	assert.Equal(t, int64(5000), alerts[0].AmountCents)
	assert.Equal(t, 1, alerts[0].InstallmentNumber)
}

func TestRunLowStockSweepCoversEveryStore(t *testing.T) {
	mock, svc := newAlertFixture(t)
	storeA := uuid.New()
	storeB := uuid.New()

	mock.ExpectQuery(`SELECT id FROM stores`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(storeA).AddRow(storeB))

	for _, storeID := range []uuid.UUID{storeA, storeB} {
		mock.ExpectQuery(`SELECT (.+) FROM products`).
			WithArgs(storeID, 10).
			WillReturnRows(pgxmock.NewRows([]string{"id", "store_id", "category_id", "name", "price_cents", "stock_quantity", "unit", "barcode", "active", "created_at", "updated_at"}))
	}

	err := svc.RunLowStockSweep(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunOverdueSweepContinuesPastFailingStore(t *testing.T) {
	mock, svc := newAlertFixture(t)
	storeA := uuid.New()
	storeB := uuid.New()

	mock.ExpectQuery(`SELECT id FROM stores`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(storeA).AddRow(storeB))

	mock.ExpectQuery(`SELECT (.+) FROM installments i`).
		WithArgs(storeA, pgxmock.AnyArg()).
		WillReturnError(assert.AnError)
	mock.ExpectQuery(`SELECT (.+) FROM installments i`).
		WithArgs(storeB, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "sale_id", "installment_number", "amount_cents", "due_date", "status", "paid_date"}))

	err := svc.RunOverdueSweep(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
