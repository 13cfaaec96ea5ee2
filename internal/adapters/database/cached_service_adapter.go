package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lokafix/marketplace/backend/internal/domain/entities"
	"github.com/lokafix/marketplace/backend/internal/domain/providers"
	"github.com/lokafix/marketplace/backend/internal/domain/repositories"
)

// Cache TTLs (in seconds). Catalog reads only; scored recommendation
// output is never cached because it depends on per-customer state.
const (
	serviceByIDTTL = 300
	serviceListTTL = 120
)

// CachedServiceAdapter wraps a ServiceRepository with a Redis read cache.
// Writes pass through and invalidate, so a review-driven rating update is
// visible on the next read.
type CachedServiceAdapter struct {
	adapter repositories.ServiceRepository
	cache   providers.CacheProvider
}

var _ repositories.ServiceRepository = (*CachedServiceAdapter)(nil)

// NewCachedServiceAdapter creates a new cached service adapter
func NewCachedServiceAdapter(adapter repositories.ServiceRepository, cache providers.CacheProvider) *CachedServiceAdapter {
	return &CachedServiceAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

func serviceCacheKey(id string) string {
	return fmt.Sprintf("service:%s", id)
}

func serviceListCacheKey(filter repositories.ServiceFilter) string {
	active := "any"
	if filter.IsActive != nil {
		active = fmt.Sprintf("%t", *filter.IsActive)
	}
	return fmt.Sprintf("services:list:%s:%s:%s:%d:%d",
		filter.ProviderID, filter.CategoryID, active, filter.Limit, filter.Offset)
}

// Create passes through and drops stale list entries
func (a *CachedServiceAdapter) Create(ctx context.Context, service *entities.Service) error {
	if err := a.adapter.Create(ctx, service); err != nil {
		return err
	}
	a.invalidate(ctx, service.ID)
	return nil
}

// GetByID retrieves a service by ID with caching
func (a *CachedServiceAdapter) GetByID(ctx context.Context, id string) (*entities.Service, error) {
	cacheKey := serviceCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var service entities.Service
		if err := json.Unmarshal(cached, &service); err == nil {
			return &service, nil
		}
		log.Warn().Str("service_id", id).Msg("failed to unmarshal cached service")
	}

	service, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(service); err == nil {
		_ = a.cache.Set(ctx, cacheKey, data, serviceByIDTTL)
	}

	return service, nil
}

// Update passes through and invalidates
func (a *CachedServiceAdapter) Update(ctx context.Context, service *entities.Service) error {
	if err := a.adapter.Update(ctx, service); err != nil {
		return err
	}
	a.invalidate(ctx, service.ID)
	return nil
}

// Delete passes through and invalidates
func (a *CachedServiceAdapter) Delete(ctx context.Context, id string) error {
	if err := a.adapter.Delete(ctx, id); err != nil {
		return err
	}
	a.invalidate(ctx, id)
	return nil
}

// List retrieves services with short-lived list caching
func (a *CachedServiceAdapter) List(ctx context.Context, filter repositories.ServiceFilter) ([]*entities.Service, error) {
	cacheKey := serviceListCacheKey(filter)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var services []*entities.Service
		if err := json.Unmarshal(cached, &services); err == nil {
			return services, nil
		}
	}

	services, err := a.adapter.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(services); err == nil {
		_ = a.cache.Set(ctx, cacheKey, data, serviceListTTL)
	}

	return services, nil
}

// ListStats always reads through: stats feed the scorers, which must see
// every committed review immediately.
func (a *CachedServiceAdapter) ListStats(ctx context.Context, categoryID string) ([]*entities.ServiceStats, error) {
	return a.adapter.ListStats(ctx, categoryID)
}

// ListStatsSince always reads through, same reasoning as ListStats.
func (a *CachedServiceAdapter) ListStatsSince(ctx context.Context, cutoff time.Time) ([]*entities.ServiceStats, error) {
	return a.adapter.ListStatsSince(ctx, cutoff)
}

// Invalidate drops the cached entry for a service. Called by the review
// pipeline after a committed mutation changes the denormalized rating.
func (a *CachedServiceAdapter) Invalidate(ctx context.Context, serviceID string) {
	a.invalidate(ctx, serviceID)
}

func (a *CachedServiceAdapter) invalidate(ctx context.Context, serviceID string) {
	if err := a.cache.Delete(ctx, serviceCacheKey(serviceID)); err != nil {
		log.Warn().Err(err).Str("service_id", serviceID).Msg("failed to invalidate service cache")
	}
}
