package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"mercadopos/internal/checkout"
	"mercadopos/internal/models"
	"mercadopos/internal/repositories"
)

type CheckoutServiceTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	svc     CheckoutServiceInterface
	storeID uuid.UUID
	userID  uuid.UUID
	ctx     context.Context
}

func (suite *CheckoutServiceTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock

	suite.svc = NewCheckoutService(
		mock,
		repositories.NewSaleRepo(mock),
		repositories.NewSaleItemRepo(mock),
		repositories.NewSalePaymentRepo(mock),
		repositories.NewInstallmentRepo(mock),
		repositories.NewProductRepo(mock),
		repositories.NewStoreRepo(mock),
		nil, // no cache in tests
	)
	suite.storeID = uuid.New()
	suite.userID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *CheckoutServiceTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestCheckoutServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CheckoutServiceTestSuite))
}

func (suite *CheckoutServiceTestSuite) cartWith(products ...*models.Product) *checkout.Cart {
	cart := checkout.NewCart()
	for _, p := range products {
		require.NoError(suite.T(), cart.AddProduct(p))
	}
	return cart
}

func (suite *CheckoutServiceTestSuite) expectStoreLookup() {
	rows := pgxmock.NewRows([]string{"id", "name", "cnpj", "phone", "email", "address", "city", "state", "zip_code", "logo_object", "created_at", "updated_at"}).
		AddRow(suite.storeID, "Mercadinho Teste", nil, nil, nil, nil, nil, nil, nil, nil, time.Now(), time.Now())
	suite.mock.ExpectQuery(`SELECT (.+) FROM stores`).
		WithArgs(suite.storeID).
		WillReturnRows(rows)
}

func (suite *CheckoutServiceTestSuite) TestSettleSingleCashTender() {
	product := &models.Product{ID: uuid.New(), StoreID: suite.storeID, Name: "Arroz 5kg", Unit: "un", PriceCents: 2500, StockQuantity: 10, Active: true}
	cart := suite.cartWith(product)
	require.NoError(suite.T(), cart.SetQuantity(product.ID, 2))

	tenders := checkout.NewTenderList()
	require.NoError(suite.T(), tenders.Add(models.PaymentCash, 5000))

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`INSERT INTO sales`).
		WithArgs(pgxmock.AnyArg(), suite.storeID, suite.userID, int64(5000), int64(0), int64(5000), models.PaymentCash, models.SaleTypeCash, models.SaleStatusCompleted).
		WillReturnRows(pgxmock.NewRows([]string{"sale_number", "created_at"}).AddRow(int64(7), time.Now()))
	suite.mock.ExpectExec(`INSERT INTO sale_items`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), product.ID, 2, int64(2500), int64(5000)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`UPDATE products`).
		WithArgs(2, suite.storeID, product.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()
	suite.expectStoreLookup()

	result, err := suite.svc.Settle(suite.ctx, suite.storeID, suite.userID, &SettleRequest{
		Cart:     cart,
		Tenders:  tenders,
		SaleType: models.SaleTypeCash,
	})
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), StateCompleted, result.State)
	assert.Equal(suite.T(), int64(7), result.Sale.SaleNumber)
	assert.Equal(suite.T(), models.PaymentCash, result.Sale.PaymentMethod)
	assert.Equal(suite.T(), models.SaleStatusCompleted, result.Sale.Status)
	assert.Equal(suite.T(), int64(0), result.ChangeCents)
	assert.Empty(suite.T(), result.Installments)
	assert.Equal(suite.T(), "Mercadinho Teste", result.Receipt.StoreName)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *CheckoutServiceTestSuite) TestSettleMultipleTendersWritesPaymentRows() {
	product := &models.Product{ID: uuid.New(), StoreID: suite.storeID, Name: "Feijão", Unit: "un", PriceCents: 4000, StockQuantity: 5, Active: true}
	cart := suite.cartWith(product)

	tenders := checkout.NewTenderList()
	require.NoError(suite.T(), tenders.Add(models.PaymentCash, 1500))
	require.NoError(suite.T(), tenders.Add(models.PaymentPix, 2500))

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`INSERT INTO sales`).
		WithArgs(pgxmock.AnyArg(), suite.storeID, suite.userID, int64(4000), int64(0), int64(4000), models.PaymentMultiple, models.SaleTypeCash, models.SaleStatusCompleted).
		WillReturnRows(pgxmock.NewRows([]string{"sale_number", "created_at"}).AddRow(int64(8), time.Now()))
	suite.mock.ExpectExec(`INSERT INTO sale_items`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), product.ID, 1, int64(4000), int64(4000)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO sale_payments`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), models.PaymentCash, int64(1500)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO sale_payments`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), models.PaymentPix, int64(2500)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`UPDATE products`).
		WithArgs(1, suite.storeID, product.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()
	suite.expectStoreLookup()

	result, err := suite.svc.Settle(suite.ctx, suite.storeID, suite.userID, &SettleRequest{
		Cart:     cart,
		Tenders:  tenders,
		SaleType: models.SaleTypeCash,
	})
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), models.PaymentMultiple, result.Sale.PaymentMethod)
	assert.Len(suite.T(), result.Receipt.Payments, 2)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *CheckoutServiceTestSuite) TestSettleInstallmentWritesSchedule() {
	product := &models.Product{ID: uuid.New(), StoreID: suite.storeID, Name: "Geladeira", Unit: "un", PriceCents: 100000, StockQuantity: 2, Active: true}
	cart := suite.cartWith(product)

	tenders := checkout.NewTenderList()
	require.NoError(suite.T(), tenders.Add(models.PaymentCredit, 100000))

	firstDue := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`INSERT INTO sales`).
		WithArgs(pgxmock.AnyArg(), suite.storeID, suite.userID, int64(100000), int64(0), int64(100000), models.PaymentCredit, models.SaleTypeInstallment, models.SaleStatusPending).
		WillReturnRows(pgxmock.NewRows([]string{"sale_number", "created_at"}).AddRow(int64(9), time.Now()))
	suite.mock.ExpectExec(`INSERT INTO sale_items`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), product.ID, 1, int64(100000), int64(100000)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`UPDATE products`).
		WithArgs(1, suite.storeID, product.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	for i := 1; i <= 3; i++ {
		amount := int64(33333)
		if i == 3 {
			amount = 33334
		}
		suite.mock.ExpectExec(`INSERT INTO installments`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), i, amount, firstDue.AddDate(0, i-1, 0), models.InstallmentPending).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	suite.mock.ExpectCommit()
	suite.expectStoreLookup()

	result, err := suite.svc.Settle(suite.ctx, suite.storeID, suite.userID, &SettleRequest{
		Cart:             cart,
		Tenders:          tenders,
		SaleType:         models.SaleTypeInstallment,
		InstallmentCount: 3,
		FirstDueDate:     firstDue,
	})
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), models.SaleStatusPending, result.Sale.Status)
	require.Len(suite.T(), result.Installments, 3)

	var sum int64
	for _, inst := range result.Installments {
		sum += inst.AmountCents
	}
	assert.Equal(suite.T(), int64(100000), sum)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *CheckoutServiceTestSuite) TestSettleInsufficientStockRollsBack() {
	product := &models.Product{ID: uuid.New(), StoreID: suite.storeID, Name: "Óleo", Unit: "un", PriceCents: 800, StockQuantity: 3, Active: true}
	cart := suite.cartWith(product)
	require.NoError(suite.T(), cart.SetQuantity(product.ID, 3))

	tenders := checkout.NewTenderList()
	require.NoError(suite.T(), tenders.Add(models.PaymentCash, 2400))

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`INSERT INTO sales`).
		WithArgs(pgxmock.AnyArg(), suite.storeID, suite.userID, int64(2400), int64(0), int64(2400), models.PaymentCash, models.SaleTypeCash, models.SaleStatusCompleted).
		WillReturnRows(pgxmock.NewRows([]string{"sale_number", "created_at"}).AddRow(int64(10), time.Now()))
	suite.mock.ExpectExec(`INSERT INTO sale_items`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), product.ID, 3, int64(800), int64(2400)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	// Another terminal drained the stock between cart build and commit.
	suite.mock.ExpectExec(`UPDATE products`).
		WithArgs(3, suite.storeID, product.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectRollback()

	_, err := suite.svc.Settle(suite.ctx, suite.storeID, suite.userID, &SettleRequest{
		Cart:     cart,
		Tenders:  tenders,
		SaleType: models.SaleTypeCash,
	})
	require.Error(suite.T(), err)
	assert.True(suite.T(), errors.Is(err, repositories.ErrInsufficientStock))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *CheckoutServiceTestSuite) TestSettleEmptyCart() {
	tenders := checkout.NewTenderList()
	require.NoError(suite.T(), tenders.Add(models.PaymentCash, 100))

	_, err := suite.svc.Settle(suite.ctx, suite.storeID, suite.userID, &SettleRequest{
		Cart:     checkout.NewCart(),
		Tenders:  tenders,
		SaleType: models.SaleTypeCash,
	})
	assert.ErrorIs(suite.T(), err, checkout.ErrEmptyCart)
}

func (suite *CheckoutServiceTestSuite) TestSettleTenderImbalance() {
	product := &models.Product{ID: uuid.New(), StoreID: suite.storeID, Name: "Café", Unit: "un", PriceCents: 1890, StockQuantity: 4, Active: true}
	cart := suite.cartWith(product)

	tenders := checkout.NewTenderList()
	require.NoError(suite.T(), tenders.Add(models.PaymentCash, 1000))

	_, err := suite.svc.Settle(suite.ctx, suite.storeID, suite.userID, &SettleRequest{
		Cart:     cart,
		Tenders:  tenders,
		SaleType: models.SaleTypeCash,
	})
	assert.ErrorIs(suite.T(), err, checkout.ErrTenderImbalance)
	// Nothing touched the database.
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *CheckoutServiceTestSuite) TestSettleCashChange() {
	product := &models.Product{ID: uuid.New(), StoreID: suite.storeID, Name: "Leite", Unit: "un", PriceCents: 550, StockQuantity: 6, Active: true}
	cart := suite.cartWith(product)

	tenders := checkout.NewTenderList()
	require.NoError(suite.T(), tenders.Add(models.PaymentCash, 550))

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`INSERT INTO sales`).
		WithArgs(pgxmock.AnyArg(), suite.storeID, suite.userID, int64(550), int64(0), int64(550), models.PaymentCash, models.SaleTypeCash, models.SaleStatusCompleted).
		WillReturnRows(pgxmock.NewRows([]string{"sale_number", "created_at"}).AddRow(int64(11), time.Now()))
	suite.mock.ExpectExec(`INSERT INTO sale_items`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), product.ID, 1, int64(550), int64(550)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`UPDATE products`).
		WithArgs(1, suite.storeID, product.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()
	suite.expectStoreLookup()

	result, err := suite.svc.Settle(suite.ctx, suite.storeID, suite.userID, &SettleRequest{
		Cart:                cart,
		Tenders:             tenders,
		SaleType:            models.SaleTypeCash,
		AmountReceivedCents: 1000,
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(450), result.ChangeCents)
	assert.Equal(suite.T(), int64(450), result.Receipt.ChangeCents)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *CheckoutServiceTestSuite) TestSettleChangeRequiresSingleCashTender() {
	product := &models.Product{ID: uuid.New(), StoreID: suite.storeID, Name: "Sabão", Unit: "un", PriceCents: 1200, StockQuantity: 4, Active: true}
	cart := suite.cartWith(product)

	tenders := checkout.NewTenderList()
	require.NoError(suite.T(), tenders.Add(models.PaymentPix, 1200))

	_, err := suite.svc.Settle(suite.ctx, suite.storeID, suite.userID, &SettleRequest{
		Cart:                cart,
		Tenders:             tenders,
		SaleType:            models.SaleTypeCash,
		AmountReceivedCents: 2000,
	})
	assert.ErrorIs(suite.T(), err, ErrCashOnlyChange)
}

func (suite *CheckoutServiceTestSuite) TestSettleInsufficientCash() {
	product := &models.Product{ID: uuid.New(), StoreID: suite.storeID, Name: "Açúcar", Unit: "un", PriceCents: 450, StockQuantity: 9, Active: true}
	cart := suite.cartWith(product)

	tenders := checkout.NewTenderList()
	require.NoError(suite.T(), tenders.Add(models.PaymentCash, 450))

	_, err := suite.svc.Settle(suite.ctx, suite.storeID, suite.userID, &SettleRequest{
		Cart:                cart,
		Tenders:             tenders,
		SaleType:            models.SaleTypeCash,
		AmountReceivedCents: 300,
	})
	assert.ErrorIs(suite.T(), err, ErrInsufficientCash)
}
