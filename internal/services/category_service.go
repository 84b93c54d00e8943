package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mercadopos/internal/models"
	"mercadopos/internal/repositories"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryServiceInterface interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, storeID, id uuid.UUID) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, storeID, id uuid.UUID) error
	List(ctx context.Context, storeID uuid.UUID) ([]*models.Category, error)
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository) CategoryServiceInterface {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) Create(ctx context.Context, category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *categoryService) GetByID(ctx context.Context, storeID, id uuid.UUID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, storeID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("load category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, category *models.Category) error {
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (s *categoryService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, storeID, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *categoryService) List(ctx context.Context, storeID uuid.UUID) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx, storeID)
}
