package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"mercadopos/internal/repositories"
)

var productTestColumns = []string{"id", "store_id", "category_id", "name", "price_cents", "stock_quantity", "unit", "barcode", "active", "created_at", "updated_at"}

type CatalogServiceTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	svc     CatalogServiceInterface
	storeID uuid.UUID
	ctx     context.Context
}

func (suite *CatalogServiceTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.svc = NewCatalogService(repositories.NewProductRepo(mock), nil)
	suite.storeID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *CatalogServiceTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestCatalogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}

func (suite *CatalogServiceTestSuite) TestFindByBarcode() {
	productID := uuid.New()
	barcode := "7891234567890"

	rows := pgxmock.NewRows(productTestColumns).
		AddRow(productID, suite.storeID, nil, "Arroz 5kg", int64(2590), 10, "un", &barcode, true, time.Now(), time.Now())
	suite.mock.ExpectQuery(`SELECT (.+) FROM products WHERE store_id = \$1 AND barcode = \$2`).
		WithArgs(suite.storeID, barcode).
		WillReturnRows(rows)

	product, err := suite.svc.FindByBarcode(suite.ctx, suite.storeID, barcode)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), productID, product.ID)
	assert.Equal(suite.T(), int64(2590), product.PriceCents)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *CatalogServiceTestSuite) TestFindByBarcodeTrimsInput() {
	productID := uuid.New()
	barcode := "7891234567890"

	rows := pgxmock.NewRows(productTestColumns).
		AddRow(productID, suite.storeID, nil, "Arroz 5kg", int64(2590), 10, "un", &barcode, true, time.Now(), time.Now())
	suite.mock.ExpectQuery(`SELECT (.+) FROM products`).
		WithArgs(suite.storeID, barcode).
		WillReturnRows(rows)

	product, err := suite.svc.FindByBarcode(suite.ctx, suite.storeID, "  7891234567890  ")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), productID, product.ID)
}

func (suite *CatalogServiceTestSuite) TestFindByBarcodeNotFound() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM products`).
		WithArgs(suite.storeID, "0000000000000").
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.svc.FindByBarcode(suite.ctx, suite.storeID, "0000000000000")
	assert.ErrorIs(suite.T(), err, ErrProductNotFound)

	_, err = suite.svc.FindByBarcode(suite.ctx, suite.storeID, "   ")
	assert.ErrorIs(suite.T(), err, ErrProductNotFound)
}

func (suite *CatalogServiceTestSuite) TestSearchShortTermReturnsEmpty() {
	products, err := suite.svc.Search(suite.ctx, suite.storeID, "a", 20)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), products)
	// No query reached the database.
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *CatalogServiceTestSuite) TestSearchMatches() {
	barcode := "7891000100103"
	rows := pgxmock.NewRows(productTestColumns).
		AddRow(uuid.New(), suite.storeID, nil, "Leite Integral", int64(549), 24, "un", &barcode, true, time.Now(), time.Now()).
		AddRow(uuid.New(), suite.storeID, nil, "Leite Desnatado", int64(579), 12, "un", nil, true, time.Now(), time.Now())
	suite.mock.ExpectQuery(`SELECT (.+) FROM products`).
		WithArgs(suite.storeID, "%leite%", "leite", 20).
		WillReturnRows(rows)

	products, err := suite.svc.Search(suite.ctx, suite.storeID, "leite", 20)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), products, 2)
	assert.Equal(suite.T(), "Leite Integral", products[0].Name)
}

func (suite *CatalogServiceTestSuite) TestSearchDegradesToEmptyOnError() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM products`).
		WithArgs(suite.storeID, "%caf%", "caf", 20).
		WillReturnError(errors.New("connection reset"))

	products, err := suite.svc.Search(suite.ctx, suite.storeID, "caf", 20)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), products)
}
