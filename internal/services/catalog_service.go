package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mercadopos/internal/caching"
	"mercadopos/internal/models"
	"mercadopos/internal/repositories"
)

var ErrProductNotFound = errors.New("product not found")

const productCacheTTL = 5 * time.Minute

// CatalogServiceInterface is the read path the PDV screen hits on every
// scan and keystroke.
type CatalogServiceInterface interface {
	FindByBarcode(ctx context.Context, storeID uuid.UUID, barcode string) (*models.Product, error)
	Search(ctx context.Context, storeID uuid.UUID, term string, limit int) ([]*models.Product, error)
}

type catalogService struct {
	productRepo repositories.ProductRepository
	cacheSvc    caching.CacheService
}

func NewCatalogService(productRepo repositories.ProductRepository, cacheSvc caching.CacheService) CatalogServiceInterface {
	return &catalogService{productRepo: productRepo, cacheSvc: cacheSvc}
}

// FindByBarcode resolves a scanned code to an active product. Inactive and
// unknown codes both report ErrProductNotFound so the PDV shows a single
// "not found" path.
func (s *catalogService) FindByBarcode(ctx context.Context, storeID uuid.UUID, barcode string) (*models.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, ErrProductNotFound
	}

	product, err := s.productRepo.GetByBarcode(ctx, storeID, barcode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("lookup barcode %s: %w", barcode, err)
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetProduct(ctx, storeID, product, productCacheTTL); err != nil {
			log.Printf("WARN: failed to cache product %s: %v", product.ID, err)
		}
	}
	return product, nil
}

// Search matches products by name prefix/substring or exact barcode. Terms
// shorter than two characters return no rows rather than scanning the whole
// catalog, and lookup failures degrade to an empty list so typing in the
// PDV search box never surfaces an error.
func (s *catalogService) Search(ctx context.Context, storeID uuid.UUID, term string, limit int) ([]*models.Product, error) {
	term = strings.TrimSpace(term)
	if len(term) < 2 {
		return []*models.Product{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	products, err := s.productRepo.Search(ctx, storeID, term, limit)
	if err != nil {
		log.Printf("WARN: product search %q failed: %v", term, err)
		return []*models.Product{}, nil
	}
	return products, nil
}
