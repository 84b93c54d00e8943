package repositories

import (
	"context"

	"mercadopos/internal/models"

	"github.com/google/uuid"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, storeID, id uuid.UUID) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, storeID, id uuid.UUID) error
	List(ctx context.Context, storeID uuid.UUID) ([]*models.Category, error)
}

type categoryRepo struct {
	db Database
}

func NewCategoryRepo(db Database) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, store_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, category.ID, category.StoreID, category.Name)
	return err
}

func (r *categoryRepo) GetByID(ctx context.Context, storeID, id uuid.UUID) (*models.Category, error) {
	c := &models.Category{}
	query := `
		SELECT id, store_id, name, created_at, updated_at
		FROM categories
		WHERE store_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, storeID, id).Scan(&c.ID, &c.StoreID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $1, updated_at = NOW()
		WHERE store_id = $2 AND id = $3
	`
	_, err := r.db.Exec(ctx, query, category.Name, category.StoreID, category.ID)
	return err
}

func (r *categoryRepo) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	query := `DELETE FROM categories WHERE store_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, storeID, id)
	return err
}

func (r *categoryRepo) List(ctx context.Context, storeID uuid.UUID) ([]*models.Category, error) {
	query := `
		SELECT id, store_id, name, created_at, updated_at
		FROM categories
		WHERE store_id = $1
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.StoreID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
