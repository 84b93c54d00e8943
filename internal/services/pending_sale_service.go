package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mercadopos/internal/checkout"
	"mercadopos/internal/models"
	"mercadopos/internal/repositories"
)

var ErrPendingSaleNotFound = errors.New("pending sale not found")

// PendingSaleServiceInterface parks and resumes carts. A resumed pending
// sale is consumed atomically, so two terminals racing for the same parked
// cart cannot both get it.
type PendingSaleServiceInterface interface {
	Suspend(ctx context.Context, storeID uuid.UUID, cart *checkout.Cart) (*models.PendingSale, error)
	List(ctx context.Context, storeID uuid.UUID) ([]*models.PendingSale, error)
	Resume(ctx context.Context, storeID, pendingID uuid.UUID) ([]models.PendingCartItem, error)
}

type pendingSaleService struct {
	pendingRepo repositories.PendingSaleRepository
}

func NewPendingSaleService(pendingRepo repositories.PendingSaleRepository) PendingSaleServiceInterface {
	return &pendingSaleService{pendingRepo: pendingRepo}
}

// Suspend serializes the current cart and parks it. The discount is not
// carried over: a resumed cart starts with discount zero and the operator
// re-applies it if still wanted.
func (s *pendingSaleService) Suspend(ctx context.Context, storeID uuid.UUID, cart *checkout.Cart) (*models.PendingSale, error) {
	if cart == nil || cart.Len() == 0 {
		return nil, checkout.ErrEmptyCart
	}

	pending := &models.PendingSale{
		ID:      uuid.New(),
		StoreID: storeID,
		Cart:    cart.Snapshot(),
	}
	if err := s.pendingRepo.Create(ctx, pending); err != nil {
		return nil, fmt.Errorf("park cart: %w", err)
	}
	return pending, nil
}

func (s *pendingSaleService) List(ctx context.Context, storeID uuid.UUID) ([]*models.PendingSale, error) {
	pending, err := s.pendingRepo.List(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list pending sales: %w", err)
	}
	return pending, nil
}

// Resume claims a parked cart and deletes it in the same statement. A
// second resume of the same id reports ErrPendingSaleNotFound.
func (s *pendingSaleService) Resume(ctx context.Context, storeID, pendingID uuid.UUID) ([]models.PendingCartItem, error) {
	items, err := s.pendingRepo.DeleteReturning(ctx, storeID, pendingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPendingSaleNotFound
		}
		return nil, fmt.Errorf("resume pending sale: %w", err)
	}
	return items, nil
}
