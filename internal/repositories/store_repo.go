package repositories

import (
	"context"

	"mercadopos/internal/models"

	"github.com/google/uuid"
)

type StoreRepository interface {
	Create(ctx context.Context, store *models.Store) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	Update(ctx context.Context, store *models.Store) error
	SetLogoObject(ctx context.Context, id uuid.UUID, object string) error
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

type storeRepo struct {
	db Database
}

func NewStoreRepo(db Database) StoreRepository {
	return &storeRepo{db: db}
}

const storeColumns = `id, name, cnpj, phone, email, address, city, state, zip_code, logo_object, created_at, updated_at`

func (r *storeRepo) Create(ctx context.Context, store *models.Store) error {
	query := `
		INSERT INTO stores (id, name, cnpj, phone, email, address, city, state, zip_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, store.ID, store.Name, store.CNPJ, store.Phone, store.Email, store.Address, store.City, store.State, store.ZipCode)
	return err
}

func (r *storeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	s := &models.Store{}
	query := `
		SELECT ` + storeColumns + `
		FROM stores
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.CNPJ, &s.Phone, &s.Email, &s.Address, &s.City, &s.State, &s.ZipCode, &s.LogoObject, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *storeRepo) Update(ctx context.Context, store *models.Store) error {
	query := `
		UPDATE stores
		SET name = $1, cnpj = $2, phone = $3, email = $4, address = $5, city = $6, state = $7, zip_code = $8, updated_at = NOW()
		WHERE id = $9
	`
	_, err := r.db.Exec(ctx, query, store.Name, store.CNPJ, store.Phone, store.Email, store.Address, store.City, store.State, store.ZipCode, store.ID)
	return err
}

func (r *storeRepo) SetLogoObject(ctx context.Context, id uuid.UUID, object string) error {
	query := `UPDATE stores SET logo_object = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, object, id)
	return err
}

// ListIDs feeds the background jobs that iterate every store.
func (r *storeRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM stores ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
