package repositories

import (
	"context"

	"mercadopos/internal/models"

	"github.com/google/uuid"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) error
	BindStore(ctx context.Context, userID, storeID uuid.UUID) error
}

type profileRepo struct {
	db Database
}

func NewProfileRepo(db Database) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	p := &models.Profile{}
	query := `
		SELECT id, email, store_id, created_at
		FROM profiles
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Email, &p.StoreID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *profileRepo) Upsert(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, email, store_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email
	`
	_, err := r.db.Exec(ctx, query, profile.ID, profile.Email, profile.StoreID)
	return err
}

func (r *profileRepo) BindStore(ctx context.Context, userID, storeID uuid.UUID) error {
	query := `UPDATE profiles SET store_id = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, storeID, userID)
	return err
}
