package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mercadopos/internal/models"
	"mercadopos/internal/repositories"
)

var ErrInstallmentNotFound = errors.New("installment not found or already paid")

type InstallmentServiceInterface interface {
	ListBySale(ctx context.Context, storeID, saleID uuid.UUID) ([]*models.Installment, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, status string, limit, offset int) ([]*models.Installment, error)
	ListOverdue(ctx context.Context, storeID uuid.UUID) ([]*models.Installment, error)
	MarkPaid(ctx context.Context, storeID, installmentID uuid.UUID) error
}

type installmentService struct {
	installmentRepo repositories.InstallmentRepository
	saleRepo        repositories.SaleRepository
}

func NewInstallmentService(installmentRepo repositories.InstallmentRepository, saleRepo repositories.SaleRepository) InstallmentServiceInterface {
	return &installmentService{installmentRepo: installmentRepo, saleRepo: saleRepo}
}

// ListBySale verifies the sale belongs to the store before listing, so an
// installment schedule can never leak across stores through a guessed sale
// id.
func (s *installmentService) ListBySale(ctx context.Context, storeID, saleID uuid.UUID) ([]*models.Installment, error) {
	if _, err := s.saleRepo.GetByID(ctx, storeID, saleID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("load sale: %w", err)
	}
	return s.installmentRepo.ListBySale(ctx, saleID)
}

func (s *installmentService) ListByStore(ctx context.Context, storeID uuid.UUID, status string, limit, offset int) ([]*models.Installment, error) {
	return s.installmentRepo.ListByStore(ctx, storeID, status, limit, offset)
}

func (s *installmentService) ListOverdue(ctx context.Context, storeID uuid.UUID) ([]*models.Installment, error) {
	return s.installmentRepo.ListOverdue(ctx, storeID, time.Now())
}

// MarkPaid settles one installment. When it is the last pending one, the
// parent sale moves from pending to completed.
func (s *installmentService) MarkPaid(ctx context.Context, storeID, installmentID uuid.UUID) error {
	saleID, err := s.installmentRepo.MarkPaid(ctx, storeID, installmentID, time.Now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInstallmentNotFound
		}
		return fmt.Errorf("mark installment paid: %w", err)
	}

	remaining, err := s.installmentRepo.CountPendingBySale(ctx, saleID)
	if err != nil {
		log.Printf("WARN: failed to count pending installments for sale %s: %v", saleID, err)
		return nil
	}
	if remaining == 0 {
		if err := s.saleRepo.UpdateStatus(ctx, storeID, saleID, models.SaleStatusCompleted); err != nil {
			log.Printf("WARN: failed to complete sale %s after last installment: %v", saleID, err)
		}
	}
	return nil
}
