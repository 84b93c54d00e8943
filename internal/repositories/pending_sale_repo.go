package repositories

import (
	"context"
	"encoding/json"

	"mercadopos/internal/models"

	"github.com/google/uuid"
)

type PendingSaleRepository interface {
	Create(ctx context.Context, pending *models.PendingSale) error
	List(ctx context.Context, storeID uuid.UUID) ([]*models.PendingSale, error)
	DeleteReturning(ctx context.Context, storeID, id uuid.UUID) ([]models.PendingCartItem, error)
}

type pendingSaleRepo struct {
	db Database
}

func NewPendingSaleRepo(db Database) PendingSaleRepository {
	return &pendingSaleRepo{db: db}
}

func (r *pendingSaleRepo) Create(ctx context.Context, pending *models.PendingSale) error {
	cart, err := json.Marshal(pending.Cart)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO pending_sales (id, store_id, cart, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err = r.db.Exec(ctx, query, pending.ID, pending.StoreID, cart)
	return err
}

func (r *pendingSaleRepo) List(ctx context.Context, storeID uuid.UUID) ([]*models.PendingSale, error) {
	query := `
		SELECT id, store_id, cart, created_at
		FROM pending_sales
		WHERE store_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pendings []*models.PendingSale
	for rows.Next() {
		p := &models.PendingSale{}
		var cart []byte
		if err := rows.Scan(&p.ID, &p.StoreID, &cart, &p.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(cart, &p.Cart); err != nil {
			return nil, err
		}
		pendings = append(pendings, p)
	}
	return pendings, rows.Err()
}

// DeleteReturning consumes a suspended sale in a single statement. A second
// resume of the same id finds no row and gets pgx.ErrNoRows, which is what
// makes resume at-most-once.
func (r *pendingSaleRepo) DeleteReturning(ctx context.Context, storeID, id uuid.UUID) ([]models.PendingCartItem, error) {
	query := `
		DELETE FROM pending_sales
		WHERE store_id = $1 AND id = $2
		RETURNING cart
	`
	var cart []byte
	if err := r.db.QueryRow(ctx, query, storeID, id).Scan(&cart); err != nil {
		return nil, err
	}
	var items []models.PendingCartItem
	if err := json.Unmarshal(cart, &items); err != nil {
		return nil, err
	}
	return items, nil
}
