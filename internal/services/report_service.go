package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mercadopos/internal/caching"
	"mercadopos/internal/models"
	"mercadopos/internal/repositories"
)

var ErrSaleNotFound = errors.New("sale not found")

const summaryCacheTTL = time.Minute

// ReportServiceInterface covers the sale history and register (caixa)
// reporting surface.
type ReportServiceInterface interface {
	GetSale(ctx context.Context, storeID, saleID uuid.UUID) (*models.Sale, []*models.SaleItem, error)
	ListSales(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]*models.Sale, error)
	ListSalesByDateRange(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]*models.Sale, error)
	DailySummary(ctx context.Context, storeID uuid.UUID, day time.Time) (*repositories.DailySummary, error)
}

type reportService struct {
	saleRepo     repositories.SaleRepository
	saleItemRepo repositories.SaleItemRepository
	cacheSvc     caching.CacheService
}

func NewReportService(saleRepo repositories.SaleRepository, saleItemRepo repositories.SaleItemRepository, cacheSvc caching.CacheService) ReportServiceInterface {
	return &reportService{saleRepo: saleRepo, saleItemRepo: saleItemRepo, cacheSvc: cacheSvc}
}

func (s *reportService) GetSale(ctx context.Context, storeID, saleID uuid.UUID) (*models.Sale, []*models.SaleItem, error) {
	sale, err := s.saleRepo.GetByID(ctx, storeID, saleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrSaleNotFound
		}
		return nil, nil, fmt.Errorf("load sale: %w", err)
	}
	items, err := s.saleItemRepo.ListBySale(ctx, saleID)
	if err != nil {
		return nil, nil, fmt.Errorf("load sale items: %w", err)
	}
	return sale, items, nil
}

func (s *reportService) ListSales(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]*models.Sale, error) {
	return s.saleRepo.List(ctx, storeID, limit, offset)
}

func (s *reportService) ListSalesByDateRange(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]*models.Sale, error) {
	return s.saleRepo.ListByDateRange(ctx, storeID, from, to)
}

// DailySummary aggregates the register for one day, multiple-tender sales
// broken down into their actual payment rows. Past days are immutable so
// the cached copy is safe; today's entry is invalidated on every
// settlement.
func (s *reportService) DailySummary(ctx context.Context, storeID uuid.UUID, day time.Time) (*repositories.DailySummary, error) {
	key := day.Format("2006-01-02")

	if s.cacheSvc != nil {
		if cached, err := s.cacheSvc.GetDailySummary(ctx, storeID, key); err == nil && cached != nil {
			return cached, nil
		}
	}

	summary, err := s.saleRepo.DailySummary(ctx, storeID, day)
	if err != nil {
		return nil, fmt.Errorf("build daily summary: %w", err)
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetDailySummary(ctx, storeID, key, summary, summaryCacheTTL); err != nil {
			log.Printf("WARN: failed to cache daily summary %s: %v", key, err)
		}
	}
	return summary, nil
}
