package repositories

import (
	"context"

	"mercadopos/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SalePaymentRepository interface {
	CreateBatchTx(ctx context.Context, tx pgx.Tx, payments []*models.SalePayment) error
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]*models.SalePayment, error)
}

type salePaymentRepo struct {
	db Database
}

func NewSalePaymentRepo(db Database) SalePaymentRepository {
	return &salePaymentRepo{db: db}
}

func (r *salePaymentRepo) CreateBatchTx(ctx context.Context, tx pgx.Tx, payments []*models.SalePayment) error {
	query := `
		INSERT INTO sale_payments (id, sale_id, payment_method, amount_cents)
		VALUES ($1, $2, $3, $4)
	`
	for _, p := range payments {
		if _, err := tx.Exec(ctx, query, p.ID, p.SaleID, p.PaymentMethod, p.AmountCents); err != nil {
			return err
		}
	}
	return nil
}

func (r *salePaymentRepo) ListBySale(ctx context.Context, saleID uuid.UUID) ([]*models.SalePayment, error) {
	query := `
		SELECT id, sale_id, payment_method, amount_cents
		FROM sale_payments
		WHERE sale_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.SalePayment
	for rows.Next() {
		p := &models.SalePayment{}
		if err := rows.Scan(&p.ID, &p.SaleID, &p.PaymentMethod, &p.AmountCents); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
