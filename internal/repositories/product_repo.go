package repositories

import (
	"context"
	"errors"

	"mercadopos/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrInsufficientStock is returned by DecrementStockTx when the conditional
// decrement matches no row, meaning the product does not exist or has fewer
// units than requested.
var ErrInsufficientStock = errors.New("insufficient stock")

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error)
	GetByBarcode(ctx context.Context, storeID uuid.UUID, barcode string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, storeID, id uuid.UUID) error
	List(ctx context.Context, storeID uuid.UUID, activeOnly bool, limit, offset int) ([]*models.Product, error)
	Search(ctx context.Context, storeID uuid.UUID, query string, limit int) ([]*models.Product, error)
	ListLowStock(ctx context.Context, storeID uuid.UUID, threshold int) ([]*models.Product, error)
	DecrementStockTx(ctx context.Context, tx pgx.Tx, storeID, id uuid.UUID, quantity int) error
}

type productRepo struct {
	db Database
}

func NewProductRepo(db Database) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, store_id, category_id, name, price_cents, stock_quantity, unit, barcode, active, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(&p.ID, &p.StoreID, &p.CategoryID, &p.Name, &p.PriceCents, &p.StockQuantity, &p.Unit, &p.Barcode, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, store_id, category_id, name, price_cents, stock_quantity, unit, barcode, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.StoreID, product.CategoryID, product.Name, product.PriceCents, product.StockQuantity, product.Unit, product.Barcode, product.Active)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE store_id = $1 AND id = $2
	`
	return scanProduct(r.db.QueryRow(ctx, query, storeID, id))
}

func (r *productRepo) GetByBarcode(ctx context.Context, storeID uuid.UUID, barcode string) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE store_id = $1 AND barcode = $2 AND active = true
	`
	return scanProduct(r.db.QueryRow(ctx, query, storeID, barcode))
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET category_id = $1, name = $2, price_cents = $3, stock_quantity = $4, unit = $5, barcode = $6, active = $7, updated_at = NOW()
		WHERE store_id = $8 AND id = $9
	`
	_, err := r.db.Exec(ctx, query, product.CategoryID, product.Name, product.PriceCents, product.StockQuantity, product.Unit, product.Barcode, product.Active, product.StoreID, product.ID)
	return err
}

func (r *productRepo) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	query := `DELETE FROM products WHERE store_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, storeID, id)
	return err
}

func (r *productRepo) List(ctx context.Context, storeID uuid.UUID, activeOnly bool, limit, offset int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE store_id = $1 AND ($2 = false OR active = true)
		ORDER BY name
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, storeID, activeOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

// Search matches a case-insensitive substring of the name or the exact
// barcode, active products only.
func (r *productRepo) Search(ctx context.Context, storeID uuid.UUID, query string, limit int) ([]*models.Product, error) {
	querySQL := `
		SELECT ` + productColumns + `
		FROM products
		WHERE store_id = $1 AND active = true AND (name ILIKE $2 OR barcode = $3)
		ORDER BY name
		LIMIT $4
	`
	rows, err := r.db.Query(ctx, querySQL, storeID, "%"+query+"%", query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *productRepo) ListLowStock(ctx context.Context, storeID uuid.UUID, threshold int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE store_id = $1 AND active = true AND stock_quantity <= $2
		ORDER BY stock_quantity
	`
	rows, err := r.db.Query(ctx, query, storeID, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

// DecrementStockTx performs the conditional decrement inside the settlement
// transaction. The WHERE guard keeps stock from going negative under
// concurrent terminals; zero rows affected aborts the sale.
func (r *productRepo) DecrementStockTx(ctx context.Context, tx pgx.Tx, storeID, id uuid.UUID, quantity int) error {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity - $1, updated_at = NOW()
		WHERE store_id = $2 AND id = $3 AND stock_quantity >= $1
	`
	tag, err := tx.Exec(ctx, query, quantity, storeID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func collectProducts(rows pgx.Rows) ([]*models.Product, error) {
	var products []*models.Product
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.ID, &p.StoreID, &p.CategoryID, &p.Name, &p.PriceCents, &p.StockQuantity, &p.Unit, &p.Barcode, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
