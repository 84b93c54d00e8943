package repositories

import (
	"context"
	"time"

	"mercadopos/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InstallmentRepository interface {
	CreateBatchTx(ctx context.Context, tx pgx.Tx, installments []*models.Installment) error
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]*models.Installment, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, status string, limit, offset int) ([]*models.Installment, error)
	ListOverdue(ctx context.Context, storeID uuid.UUID, asOf time.Time) ([]*models.Installment, error)
	MarkPaid(ctx context.Context, storeID, id uuid.UUID, paidDate time.Time) (uuid.UUID, error)
	CountPendingBySale(ctx context.Context, saleID uuid.UUID) (int, error)
}

type installmentRepo struct {
	db Database
}

func NewInstallmentRepo(db Database) InstallmentRepository {
	return &installmentRepo{db: db}
}

const installmentColumns = `id, sale_id, installment_number, amount_cents, due_date, status, paid_date`

func (r *installmentRepo) CreateBatchTx(ctx context.Context, tx pgx.Tx, installments []*models.Installment) error {
	query := `
		INSERT INTO installments (id, sale_id, installment_number, amount_cents, due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, inst := range installments {
		if _, err := tx.Exec(ctx, query, inst.ID, inst.SaleID, inst.InstallmentNumber, inst.AmountCents, inst.DueDate, inst.Status); err != nil {
			return err
		}
	}
	return nil
}

func (r *installmentRepo) ListBySale(ctx context.Context, saleID uuid.UUID) ([]*models.Installment, error) {
	query := `
		SELECT ` + installmentColumns + `
		FROM installments
		WHERE sale_id = $1
		ORDER BY installment_number
	`
	rows, err := r.db.Query(ctx, query, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInstallments(rows)
}

func (r *installmentRepo) ListByStore(ctx context.Context, storeID uuid.UUID, status string, limit, offset int) ([]*models.Installment, error) {
	query := `
		SELECT i.id, i.sale_id, i.installment_number, i.amount_cents, i.due_date, i.status, i.paid_date
		FROM installments i
		JOIN sales s ON s.id = i.sale_id
		WHERE s.store_id = $1 AND ($2 = '' OR i.status = $2)
		ORDER BY i.due_date
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, storeID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInstallments(rows)
}

func (r *installmentRepo) ListOverdue(ctx context.Context, storeID uuid.UUID, asOf time.Time) ([]*models.Installment, error) {
	query := `
		SELECT i.id, i.sale_id, i.installment_number, i.amount_cents, i.due_date, i.status, i.paid_date
		FROM installments i
		JOIN sales s ON s.id = i.sale_id
		WHERE s.store_id = $1 AND i.status = 'pending' AND i.due_date < $2
		ORDER BY i.due_date
	`
	rows, err := r.db.Query(ctx, query, storeID, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInstallments(rows)
}

// MarkPaid flips a pending installment to paid and returns the sale it
// belongs to. The join through sales keeps the update store-scoped.
func (r *installmentRepo) MarkPaid(ctx context.Context, storeID, id uuid.UUID, paidDate time.Time) (uuid.UUID, error) {
	query := `
		UPDATE installments i
		SET status = 'paid', paid_date = $1
		FROM sales s
		WHERE s.id = i.sale_id AND s.store_id = $2 AND i.id = $3 AND i.status = 'pending'
		RETURNING i.sale_id
	`
	var saleID uuid.UUID
	if err := r.db.QueryRow(ctx, query, paidDate, storeID, id).Scan(&saleID); err != nil {
		return uuid.Nil, err
	}
	return saleID, nil
}

func (r *installmentRepo) CountPendingBySale(ctx context.Context, saleID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM installments WHERE sale_id = $1 AND status = 'pending'`
	var count int
	err := r.db.QueryRow(ctx, query, saleID).Scan(&count)
	return count, err
}

func collectInstallments(rows pgx.Rows) ([]*models.Installment, error) {
	var installments []*models.Installment
	for rows.Next() {
		inst := &models.Installment{}
		if err := rows.Scan(&inst.ID, &inst.SaleID, &inst.InstallmentNumber, &inst.AmountCents, &inst.DueDate, &inst.Status, &inst.PaidDate); err != nil {
			return nil, err
		}
		installments = append(installments, inst)
	}
	return installments, rows.Err()
}
