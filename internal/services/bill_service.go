package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mercadopos/internal/models"
	"mercadopos/internal/repositories"
)

var ErrBillNotFound = errors.New("bill not found")

// BillServiceInterface manages standalone payables and receivables that
// are tracked outside the sale flow (rent, suppliers, utilities).
type BillServiceInterface interface {
	Create(ctx context.Context, bill *models.Bill) error
	GetByID(ctx context.Context, storeID, id uuid.UUID) (*models.Bill, error)
	Update(ctx context.Context, bill *models.Bill) error
	Delete(ctx context.Context, storeID, id uuid.UUID) error
	List(ctx context.Context, storeID uuid.UUID, kind, status string, limit, offset int) ([]*models.Bill, error)
	MarkPaid(ctx context.Context, storeID, id uuid.UUID) error
}

type billService struct {
	billRepo repositories.BillRepository
}

func NewBillService(billRepo repositories.BillRepository) BillServiceInterface {
	return &billService{billRepo: billRepo}
}

func (s *billService) Create(ctx context.Context, bill *models.Bill) error {
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	if bill.Status == "" {
		bill.Status = models.BillPending
	}
	if err := s.billRepo.Create(ctx, bill); err != nil {
		return fmt.Errorf("create bill: %w", err)
	}
	return nil
}

func (s *billService) GetByID(ctx context.Context, storeID, id uuid.UUID) (*models.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, storeID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("load bill: %w", err)
	}
	return bill, nil
}

func (s *billService) Update(ctx context.Context, bill *models.Bill) error {
	if err := s.billRepo.Update(ctx, bill); err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	return nil
}

func (s *billService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	if err := s.billRepo.Delete(ctx, storeID, id); err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	return nil
}

func (s *billService) List(ctx context.Context, storeID uuid.UUID, kind, status string, limit, offset int) ([]*models.Bill, error) {
	return s.billRepo.List(ctx, storeID, kind, status, limit, offset)
}

func (s *billService) MarkPaid(ctx context.Context, storeID, id uuid.UUID) error {
	if err := s.billRepo.MarkPaid(ctx, storeID, id, time.Now()); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrBillNotFound
		}
		return fmt.Errorf("mark bill paid: %w", err)
	}
	return nil
}
