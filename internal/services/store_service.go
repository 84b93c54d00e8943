package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mercadopos/internal/caching"
	"mercadopos/internal/models"
	"mercadopos/internal/repositories"
)

var ErrStoreNotFound = errors.New("store not found")

const logoBucket = "store-logos"

type StoreServiceInterface interface {
	Setup(ctx context.Context, userID uuid.UUID, store *models.Store) error
	Get(ctx context.Context, storeID uuid.UUID) (*models.Store, error)
	Update(ctx context.Context, store *models.Store) error
	UploadLogo(ctx context.Context, storeID uuid.UUID, contentType string, reader io.Reader, size int64) error
	LogoURL(ctx context.Context, storeID uuid.UUID) (string, error)
}

type storeService struct {
	storeRepo   repositories.StoreRepository
	profileRepo repositories.ProfileRepository
	storageSvc  StorageService
	cacheSvc    caching.CacheService
}

func NewStoreService(storeRepo repositories.StoreRepository, profileRepo repositories.ProfileRepository, storageSvc StorageService, cacheSvc caching.CacheService) StoreServiceInterface {
	return &storeService{storeRepo: storeRepo, profileRepo: profileRepo, storageSvc: storageSvc, cacheSvc: cacheSvc}
}

// Setup creates the store record and binds it to the calling user's
// profile. Until this runs, checkout endpoints answer with the
// setup-required status.
func (s *storeService) Setup(ctx context.Context, userID uuid.UUID, store *models.Store) error {
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	if err := s.storeRepo.Create(ctx, store); err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	if err := s.profileRepo.BindStore(ctx, userID, store.ID); err != nil {
		return fmt.Errorf("bind store to profile: %w", err)
	}
	return nil
}

func (s *storeService) Get(ctx context.Context, storeID uuid.UUID) (*models.Store, error) {
	if s.cacheSvc != nil {
		if cached, err := s.cacheSvc.GetStore(ctx, storeID); err == nil && cached != nil {
			return cached, nil
		}
	}
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("load store: %w", err)
	}
	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetStore(ctx, store, 10*time.Minute); err != nil {
			log.Printf("WARN: failed to cache store %s: %v", storeID, err)
		}
	}
	return store, nil
}

func (s *storeService) Update(ctx context.Context, store *models.Store) error {
	if err := s.storeRepo.Update(ctx, store); err != nil {
		return fmt.Errorf("update store: %w", err)
	}
	s.invalidate(ctx, store.ID)
	return nil
}

// UploadLogo stores the image object and records its key on the store row.
func (s *storeService) UploadLogo(ctx context.Context, storeID uuid.UUID, contentType string, reader io.Reader, size int64) error {
	if s.storageSvc == nil {
		return errors.New("object storage is not configured")
	}
	if err := s.storageSvc.EnsureBucketExists(ctx, logoBucket); err != nil {
		return fmt.Errorf("ensure logo bucket: %w", err)
	}

	objectName := fmt.Sprintf("%s/logo", storeID)
	if err := s.storageSvc.UploadObject(ctx, logoBucket, objectName, contentType, reader, size); err != nil {
		return fmt.Errorf("upload logo: %w", err)
	}
	if err := s.storeRepo.SetLogoObject(ctx, storeID, objectName); err != nil {
		return fmt.Errorf("record logo object: %w", err)
	}
	s.invalidate(ctx, storeID)
	return nil
}

func (s *storeService) LogoURL(ctx context.Context, storeID uuid.UUID) (string, error) {
	if s.storageSvc == nil {
		return "", errors.New("object storage is not configured")
	}
	store, err := s.Get(ctx, storeID)
	if err != nil {
		return "", err
	}
	if store.LogoObject == nil || *store.LogoObject == "" {
		return "", ErrStoreNotFound
	}
	return s.storageSvc.GetPresignedURL(ctx, logoBucket, *store.LogoObject, 15*time.Minute)
}

func (s *storeService) invalidate(ctx context.Context, storeID uuid.UUID) {
	if s.cacheSvc == nil {
		return
	}
	if err := s.cacheSvc.DeleteStore(ctx, storeID); err != nil {
		log.Printf("WARN: failed to invalidate store cache %s: %v", storeID, err)
	}
}
