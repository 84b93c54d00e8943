package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"mercadopos/internal/checkout"
	"mercadopos/internal/models"
	"mercadopos/internal/repositories"
)

type PendingSaleServiceTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	svc     PendingSaleServiceInterface
	storeID uuid.UUID
	ctx     context.Context
}

func (suite *PendingSaleServiceTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.svc = NewPendingSaleService(repositories.NewPendingSaleRepo(mock))
	suite.storeID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *PendingSaleServiceTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestPendingSaleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PendingSaleServiceTestSuite))
}

func (suite *PendingSaleServiceTestSuite) TestSuspend() {
	product := &models.Product{ID: uuid.New(), Name: "Arroz 5kg", Unit: "un", PriceCents: 2590, StockQuantity: 10, Active: true}
	cart := checkout.NewCart()
	require.NoError(suite.T(), cart.AddProduct(product))
	require.NoError(suite.T(), cart.SetQuantity(product.ID, 2))

	expectedCart, err := json.Marshal(cart.Snapshot())
	require.NoError(suite.T(), err)

	suite.mock.ExpectExec(`INSERT INTO pending_sales`).
		WithArgs(pgxmock.AnyArg(), suite.storeID, expectedCart).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	pending, err := suite.svc.Suspend(suite.ctx, suite.storeID, cart)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.storeID, pending.StoreID)
	require.Len(suite.T(), pending.Cart, 1)
	assert.Equal(suite.T(), 2, pending.Cart[0].Quantity)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PendingSaleServiceTestSuite) TestSuspendEmptyCart() {
	_, err := suite.svc.Suspend(suite.ctx, suite.storeID, checkout.NewCart())
	assert.ErrorIs(suite.T(), err, checkout.ErrEmptyCart)
}

func (suite *PendingSaleServiceTestSuite) TestResumeConsumesRow() {
	pendingID := uuid.New()
	productID := uuid.New()
	cart, err := json.Marshal([]models.PendingCartItem{
		{ProductID: productID, Name: "Feijão 1kg", Quantity: 3, PriceCents: 799},
	})
	require.NoError(suite.T(), err)

	suite.mock.ExpectQuery(`DELETE FROM pending_sales`).
		WithArgs(suite.storeID, pendingID).
		WillReturnRows(pgxmock.NewRows([]string{"cart"}).AddRow(cart))

	items, err := suite.svc.Resume(suite.ctx, suite.storeID, pendingID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), items, 1)
	assert.Equal(suite.T(), productID, items[0].ProductID)
	assert.Equal(suite.T(), 3, items[0].Quantity)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PendingSaleServiceTestSuite) TestResumeTwiceFailsSecondTime() {
	pendingID := uuid.New()

	// The row was already consumed by the first resume.
	suite.mock.ExpectQuery(`DELETE FROM pending_sales`).
		WithArgs(suite.storeID, pendingID).
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.svc.Resume(suite.ctx, suite.storeID, pendingID)
	assert.ErrorIs(suite.T(), err, ErrPendingSaleNotFound)
}

func (suite *PendingSaleServiceTestSuite) TestList() {
	cart, err := json.Marshal([]models.PendingCartItem{
		{ProductID: uuid.New(), Name: "Café", Quantity: 1, PriceCents: 1890},
	})
	require.NoError(suite.T(), err)

	rows := pgxmock.NewRows([]string{"id", "store_id", "cart", "created_at"}).
		AddRow(uuid.New(), suite.storeID, cart, time.Now().Add(-time.Hour)).
		AddRow(uuid.New(), suite.storeID, cart, time.Now())
	suite.mock.ExpectQuery(`SELECT (.+) FROM pending_sales`).
		WithArgs(suite.storeID).
		WillReturnRows(rows)

	pending, err := suite.svc.List(suite.ctx, suite.storeID)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), pending, 2)
}
