package repositories

import (
	"context"
	"time"

	"mercadopos/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PaymentBreakdown is the per-method slice of a day's takings. Multi-tender
// sales contribute through their sale_payments rows, single-tender sales
// through the header.
type PaymentBreakdown struct {
	Method      string `json:"method"`
	SaleCount   int    `json:"sale_count"`
	AmountCents int64  `json:"amount_cents"`
}

// DailySummary is the cash-register view of one day.
type DailySummary struct {
	Date          string             `json:"date"`
	SaleCount     int                `json:"sale_count"`
	GrossCents    int64              `json:"gross_cents"`
	DiscountCents int64              `json:"discount_cents"`
	NetCents      int64              `json:"net_cents"`
	ByMethod      []PaymentBreakdown `json:"by_method"`
}

type SaleRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, sale *models.Sale) error
	GetByID(ctx context.Context, storeID, id uuid.UUID) (*models.Sale, error)
	List(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]*models.Sale, error)
	ListByDateRange(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]*models.Sale, error)
	UpdateStatus(ctx context.Context, storeID, id uuid.UUID, status string) error
	DailySummary(ctx context.Context, storeID uuid.UUID, day time.Time) (*DailySummary, error)
}

type saleRepo struct {
	db Database
}

func NewSaleRepo(db Database) SaleRepository {
	return &saleRepo{db: db}
}

const saleColumns = `id, store_id, user_id, sale_number, total_cents, discount_cents, final_cents, payment_method, sale_type, status, created_at`

// CreateTx inserts the sale header inside the settlement transaction.
// sale_number is assigned by the database sequence and read back along with
// the creation timestamp.
func (r *saleRepo) CreateTx(ctx context.Context, tx pgx.Tx, sale *models.Sale) error {
	query := `
		INSERT INTO sales (id, store_id, user_id, total_cents, discount_cents, final_cents, payment_method, sale_type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING sale_number, created_at
	`
	return tx.QueryRow(ctx, query, sale.ID, sale.StoreID, sale.UserID, sale.TotalCents, sale.DiscountCents, sale.FinalCents, sale.PaymentMethod, sale.SaleType, sale.Status).
		Scan(&sale.SaleNumber, &sale.CreatedAt)
}

func scanSale(row pgx.Row) (*models.Sale, error) {
	s := &models.Sale{}
	err := row.Scan(&s.ID, &s.StoreID, &s.UserID, &s.SaleNumber, &s.TotalCents, &s.DiscountCents, &s.FinalCents, &s.PaymentMethod, &s.SaleType, &s.Status, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *saleRepo) GetByID(ctx context.Context, storeID, id uuid.UUID) (*models.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE store_id = $1 AND id = $2
	`
	return scanSale(r.db.QueryRow(ctx, query, storeID, id))
}

func (r *saleRepo) List(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]*models.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE store_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSales(rows)
}

func (r *saleRepo) ListByDateRange(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]*models.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE store_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, storeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSales(rows)
}

func (r *saleRepo) UpdateStatus(ctx context.Context, storeID, id uuid.UUID, status string) error {
	query := `UPDATE sales SET status = $1 WHERE store_id = $2 AND id = $3`
	_, err := r.db.Exec(ctx, query, status, storeID, id)
	return err
}

// DailySummary aggregates one calendar day. The per-method breakdown
// expands "multiple" sales into their sale_payments rows so that every
// tendered centavo is attributed to a concrete method.
func (r *saleRepo) DailySummary(ctx context.Context, storeID uuid.UUID, day time.Time) (*DailySummary, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	summary := &DailySummary{Date: from.Format("2006-01-02")}

	totalsQuery := `
		SELECT COUNT(*), COALESCE(SUM(total_cents), 0), COALESCE(SUM(discount_cents), 0), COALESCE(SUM(final_cents), 0)
		FROM sales
		WHERE store_id = $1 AND created_at >= $2 AND created_at < $3
	`
	err := r.db.QueryRow(ctx, totalsQuery, storeID, from, to).
		Scan(&summary.SaleCount, &summary.GrossCents, &summary.DiscountCents, &summary.NetCents)
	if err != nil {
		return nil, err
	}

	breakdownQuery := `
		SELECT method, COUNT(*), SUM(amount_cents) FROM (
			SELECT s.payment_method AS method, s.final_cents AS amount_cents
			FROM sales s
			WHERE s.store_id = $1 AND s.created_at >= $2 AND s.created_at < $3 AND s.payment_method <> 'multiple'
			UNION ALL
			SELECT sp.payment_method AS method, sp.amount_cents
			FROM sales s
			JOIN sale_payments sp ON sp.sale_id = s.id
			WHERE s.store_id = $1 AND s.created_at >= $2 AND s.created_at < $3 AND s.payment_method = 'multiple'
		) t
		GROUP BY method
		ORDER BY method
	`
	rows, err := r.db.Query(ctx, breakdownQuery, storeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var b PaymentBreakdown
		if err := rows.Scan(&b.Method, &b.SaleCount, &b.AmountCents); err != nil {
			return nil, err
		}
		summary.ByMethod = append(summary.ByMethod, b)
	}
	return summary, rows.Err()
}

func collectSales(rows pgx.Rows) ([]*models.Sale, error) {
	var sales []*models.Sale
	for rows.Next() {
		s := &models.Sale{}
		if err := rows.Scan(&s.ID, &s.StoreID, &s.UserID, &s.SaleNumber, &s.TotalCents, &s.DiscountCents, &s.FinalCents, &s.PaymentMethod, &s.SaleType, &s.Status, &s.CreatedAt); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
