package services

import (
	"context"
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

type InstallmentServiceTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	svc     InstallmentServiceInterface
	storeID uuid.UUID
	ctx     context.Context
}

func (suite *InstallmentServiceTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.svc = NewInstallmentService(repositories.NewInstallmentRepo(mock), repositories.NewSaleRepo(mock))
	suite.storeID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *InstallmentServiceTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestInstallmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InstallmentServiceTestSuite))
}

func (suite *InstallmentServiceTestSuite) TestMarkPaidKeepsSalePendingWhileInstallmentsRemain() {
	installmentID := uuid.New()
	saleID := uuid.New()

	suite.mock.ExpectQuery(`UPDATE installments`).
		WithArgs(pgxmock.AnyArg(), suite.storeID, installmentID).
		WillReturnRows(pgxmock.NewRows([]string{"sale_id"}).AddRow(saleID))
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM installments`).
		WithArgs(saleID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	err := suite.svc.MarkPaid(suite.ctx, suite.storeID, installmentID)
	require.NoError(suite.T(), err)
	// No sale status update expected while two installments are pending.
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InstallmentServiceTestSuite) TestMarkPaidLastInstallmentCompletesSale() {
	installmentID := uuid.New()
	saleID := uuid.New()

	suite.mock.ExpectQuery(`UPDATE installments`).
		WithArgs(pgxmock.AnyArg(), suite.storeID, installmentID).
		WillReturnRows(pgxmock.NewRows([]string{"sale_id"}).AddRow(saleID))
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM installments`).
		WithArgs(saleID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	suite.mock.ExpectExec(`UPDATE sales SET status`).
		WithArgs("completed", suite.storeID, saleID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.svc.MarkPaid(suite.ctx, suite.storeID, installmentID)
	require.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InstallmentServiceTestSuite) TestMarkPaidAlreadyPaid() {
	installmentID := uuid.New()

	suite.mock.ExpectQuery(`UPDATE installments`).
		WithArgs(pgxmock.AnyArg(), suite.storeID, installmentID).
		WillReturnError(pgx.ErrNoRows)

	err := suite.svc.MarkPaid(suite.ctx, suite.storeID, installmentID)
	assert.ErrorIs(suite.T(), err, ErrInstallmentNotFound)
}

func (suite *InstallmentServiceTestSuite) TestListOverdue() {
	saleID := uuid.New()
	dueDate := time.Now().AddDate(0, -1, 0)

	rows := pgxmock.NewRows([]string{"id", "sale_id", "installment_number", "amount_cents", "due_date", "status", "paid_date"}).
		AddRow(uuid.New(), saleID, 2, int64(3333), dueDate, "pending", nil)
	suite.mock.ExpectQuery(`SELECT (.+) FROM installments i`).
		WithArgs(suite.storeID, pgxmock.AnyArg()).
		WillReturnRows(rows)

	overdue, err := suite.svc.ListOverdue(suite.ctx, suite.storeID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), overdue, 1)
	assert.Equal(suite.T(), saleID, overdue[0].SaleID)
	assert.Equal(suite.T(), int64(3333), overdue[0].AmountCents)
}
