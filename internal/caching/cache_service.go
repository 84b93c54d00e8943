package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"mercadopos/internal/models"
	"mercadopos/internal/repositories"
)

type CacheService interface {
	// Product caching
	GetProduct(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error)
	SetProduct(ctx context.Context, storeID uuid.UUID, product *models.Product, ttl time.Duration) error
	DeleteProduct(ctx context.Context, storeID, productID uuid.UUID) error

	// Store identity caching (receipt header data)
	GetStore(ctx context.Context, storeID uuid.UUID) (*models.Store, error)
	SetStore(ctx context.Context, store *models.Store, ttl time.Duration) error
	DeleteStore(ctx context.Context, storeID uuid.UUID) error

	// Cash register daily summary caching
	GetDailySummary(ctx context.Context, storeID uuid.UUID, day string) (*repositories.DailySummary, error)
	SetDailySummary(ctx context.Context, storeID uuid.UUID, day string, summary *repositories.DailySummary, ttl time.Duration) error
	DeleteDailySummary(ctx context.Context, storeID uuid.UUID, day string) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetProduct(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error) {
	key := fmt.Sprintf("mercadopos:product:%s:%s", storeID.String(), productID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *redisCacheService) SetProduct(ctx context.Context, storeID uuid.UUID, product *models.Product, ttl time.Duration) error {
	key := fmt.Sprintf("mercadopos:product:%s:%s", storeID.String(), product.ID.String())
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteProduct(ctx context.Context, storeID, productID uuid.UUID) error {
	key := fmt.Sprintf("mercadopos:product:%s:%s", storeID.String(), productID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetStore(ctx context.Context, storeID uuid.UUID) (*models.Store, error) {
	key := fmt.Sprintf("mercadopos:store:%s", storeID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var store models.Store
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *redisCacheService) SetStore(ctx context.Context, store *models.Store, ttl time.Duration) error {
	key := fmt.Sprintf("mercadopos:store:%s", store.ID.String())
	data, err := json.Marshal(store)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteStore(ctx context.Context, storeID uuid.UUID) error {
	key := fmt.Sprintf("mercadopos:store:%s", storeID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetDailySummary(ctx context.Context, storeID uuid.UUID, day string) (*repositories.DailySummary, error) {
	key := fmt.Sprintf("mercadopos:caixa:%s:%s", storeID.String(), day)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var summary repositories.DailySummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *redisCacheService) SetDailySummary(ctx context.Context, storeID uuid.UUID, day string, summary *repositories.DailySummary, ttl time.Duration) error {
	key := fmt.Sprintf("mercadopos:caixa:%s:%s", storeID.String(), day)
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteDailySummary(ctx context.Context, storeID uuid.UUID, day string) error {
	key := fmt.Sprintf("mercadopos:caixa:%s:%s", storeID.String(), day)
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
