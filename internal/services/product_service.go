package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mercadopos/internal/caching"
	"mercadopos/internal/models"
	"mercadopos/internal/repositories"
)

type ProductServiceInterface interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, storeID, id uuid.UUID) error
	List(ctx context.Context, storeID uuid.UUID, activeOnly bool, limit, offset int) ([]*models.Product, error)
	ListLowStock(ctx context.Context, storeID uuid.UUID, threshold int) ([]*models.Product, error)
}

type productService struct {
	productRepo repositories.ProductRepository
	cacheSvc    caching.CacheService
}

func NewProductService(productRepo repositories.ProductRepository, cacheSvc caching.CacheService) ProductServiceInterface {
	return &productService{productRepo: productRepo, cacheSvc: cacheSvc}
}

func (s *productService) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (s *productService) GetByID(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error) {
	if s.cacheSvc != nil {
		if cached, err := s.cacheSvc.GetProduct(ctx, storeID, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	product, err := s.productRepo.GetByID(ctx, storeID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("load product: %w", err)
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetProduct(ctx, storeID, product, productCacheTTL); err != nil {
			log.Printf("WARN: failed to cache product %s: %v", id, err)
		}
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, product *models.Product) error {
	if err := s.productRepo.Update(ctx, product); err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	s.invalidate(ctx, product.StoreID, product.ID)
	return nil
}

// Delete deactivates the product rather than removing the row, so settled
// sale items keep their reference.
func (s *productService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, storeID, id); err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	s.invalidate(ctx, storeID, id)
	return nil
}

func (s *productService) List(ctx context.Context, storeID uuid.UUID, activeOnly bool, limit, offset int) ([]*models.Product, error) {
	return s.productRepo.List(ctx, storeID, activeOnly, limit, offset)
}

func (s *productService) ListLowStock(ctx context.Context, storeID uuid.UUID, threshold int) ([]*models.Product, error) {
	return s.productRepo.ListLowStock(ctx, storeID, threshold)
}

func (s *productService) invalidate(ctx context.Context, storeID, id uuid.UUID) {
	if s.cacheSvc == nil {
		return
	}
	if err := s.cacheSvc.DeleteProduct(ctx, storeID, id); err != nil {
		log.Printf("WARN: failed to invalidate product cache %s: %v", id, err)
	}
}
