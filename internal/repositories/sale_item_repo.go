package repositories

import (
	"context"

	"mercadopos/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReceiptItem is a sale item joined with the product's display name, the
// shape the receipt renderer consumes.
type ReceiptItem struct {
	ProductName    string `json:"product_name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	SubtotalCents  int64  `json:"subtotal_cents"`
}

type SaleItemRepository interface {
	CreateBatchTx(ctx context.Context, tx pgx.Tx, items []*models.SaleItem) error
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]*models.SaleItem, error)
	ListReceiptItems(ctx context.Context, saleID uuid.UUID) ([]ReceiptItem, error)
}

type saleItemRepo struct {
	db Database
}

func NewSaleItemRepo(db Database) SaleItemRepository {
	return &saleItemRepo{db: db}
}

func (r *saleItemRepo) CreateBatchTx(ctx context.Context, tx pgx.Tx, items []*models.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price_cents, subtotal_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, item := range items {
		if _, err := tx.Exec(ctx, query, item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPriceCents, item.SubtotalCents); err != nil {
			return err
		}
	}
	return nil
}

func (r *saleItemRepo) ListBySale(ctx context.Context, saleID uuid.UUID) ([]*models.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price_cents, subtotal_cents
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.SaleItem
	for rows.Next() {
		item := &models.SaleItem{}
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity, &item.UnitPriceCents, &item.SubtotalCents); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *saleItemRepo) ListReceiptItems(ctx context.Context, saleID uuid.UUID) ([]ReceiptItem, error) {
	query := `
		SELECT p.name, si.quantity, si.unit_price_cents, si.subtotal_cents
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
		WHERE si.sale_id = $1
		ORDER BY si.id
	`
	rows, err := r.db.Query(ctx, query, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ReceiptItem
	for rows.Next() {
		var item ReceiptItem
		if err := rows.Scan(&item.ProductName, &item.Quantity, &item.UnitPriceCents, &item.SubtotalCents); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
