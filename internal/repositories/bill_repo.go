package repositories

import (
	"context"
	"time"

	"mercadopos/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BillRepository interface {
	Create(ctx context.Context, bill *models.Bill) error
	GetByID(ctx context.Context, storeID, id uuid.UUID) (*models.Bill, error)
	Update(ctx context.Context, bill *models.Bill) error
	Delete(ctx context.Context, storeID, id uuid.UUID) error
	List(ctx context.Context, storeID uuid.UUID, kind, status string, limit, offset int) ([]*models.Bill, error)
	MarkPaid(ctx context.Context, storeID, id uuid.UUID, paidDate time.Time) error
}

type billRepo struct {
	db Database
}

func NewBillRepo(db Database) BillRepository {
	return &billRepo{db: db}
}

const billColumns = `id, store_id, description, kind, amount_cents, due_date, status, paid_date, created_at, updated_at`

func (r *billRepo) Create(ctx context.Context, bill *models.Bill) error {
	query := `
		INSERT INTO bills (id, store_id, description, kind, amount_cents, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, bill.ID, bill.StoreID, bill.Description, bill.Kind, bill.AmountCents, bill.DueDate, bill.Status)
	return err
}

func (r *billRepo) GetByID(ctx context.Context, storeID, id uuid.UUID) (*models.Bill, error) {
	b := &models.Bill{}
	query := `
		SELECT ` + billColumns + `
		FROM bills
		WHERE store_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, storeID, id).Scan(&b.ID, &b.StoreID, &b.Description, &b.Kind, &b.AmountCents, &b.DueDate, &b.Status, &b.PaidDate, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *billRepo) Update(ctx context.Context, bill *models.Bill) error {
	query := `
		UPDATE bills
		SET description = $1, kind = $2, amount_cents = $3, due_date = $4, updated_at = NOW()
		WHERE store_id = $5 AND id = $6
	`
	_, err := r.db.Exec(ctx, query, bill.Description, bill.Kind, bill.AmountCents, bill.DueDate, bill.StoreID, bill.ID)
	return err
}

func (r *billRepo) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	query := `DELETE FROM bills WHERE store_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, storeID, id)
	return err
}

func (r *billRepo) List(ctx context.Context, storeID uuid.UUID, kind, status string, limit, offset int) ([]*models.Bill, error) {
	query := `
		SELECT ` + billColumns + `
		FROM bills
		WHERE store_id = $1 AND ($2 = '' OR kind = $2) AND ($3 = '' OR status = $3)
		ORDER BY due_date
		LIMIT $4 OFFSET $5
	`
	rows, err := r.db.Query(ctx, query, storeID, kind, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		b := &models.Bill{}
		if err := rows.Scan(&b.ID, &b.StoreID, &b.Description, &b.Kind, &b.AmountCents, &b.DueDate, &b.Status, &b.PaidDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func (r *billRepo) MarkPaid(ctx context.Context, storeID, id uuid.UUID, paidDate time.Time) error {
	query := `
		UPDATE bills
		SET status = 'paid', paid_date = $1, updated_at = NOW()
		WHERE store_id = $2 AND id = $3 AND status = 'pending'
	`
	tag, err := r.db.Exec(ctx, query, paidDate, storeID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
