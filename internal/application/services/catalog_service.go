package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lokafix/marketplace/backend/internal/adapters/events"
	"github.com/lokafix/marketplace/backend/internal/domain/entities"
	"github.com/lokafix/marketplace/backend/internal/domain/providers"
	"github.com/lokafix/marketplace/backend/internal/domain/repositories"
	"github.com/lokafix/marketplace/backend/internal/infrastructure/observability"
	apperrors "github.com/lokafix/marketplace/backend/pkg/errors"
)

// CatalogService handles business logic for the service catalog
type CatalogService struct {
	repo       repositories.ServiceRepository
	searchRepo repositories.ServiceSearchRepository
	eventBus   providers.EventBus
}

// NewCatalogService creates a new catalog service. searchRepo and
// eventBus are optional.
func NewCatalogService(repo repositories.ServiceRepository, searchRepo repositories.ServiceSearchRepository, eventBus providers.EventBus) *CatalogService {
	return &CatalogService{
		repo:       repo,
		searchRepo: searchRepo,
		eventBus:   eventBus,
	}
}

// Create creates a new service and indexes it
func (s *CatalogService) Create(ctx context.Context, service *entities.Service) error {
	if strings.TrimSpace(service.Name) == "" {
		return apperrors.NewValidationError("service name is required")
	}
	if service.ProviderID == "" {
		return apperrors.NewValidationError("provider id is required")
	}
	if service.ID == "" {
		service.ID = uuid.New().String()
	}
	service.IsActive = true
	service.CreatedAt = time.Now()
	service.UpdatedAt = service.CreatedAt

	if err := s.repo.Create(ctx, service); err != nil {
		return err
	}

	s.index(ctx, service)
	s.publish(ctx, service.ID, entities.CatalogEventTypeServiceUpserted)
	return nil
}

// GetByID retrieves a service by ID
func (s *CatalogService) GetByID(ctx context.Context, id string) (*entities.Service, error) {
	return s.repo.GetByID(ctx, id)
}

// Update updates a service and refreshes its index entry
func (s *CatalogService) Update(ctx context.Context, service *entities.Service) error {
	service.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, service); err != nil {
		return err
	}

	s.index(ctx, service)
	s.publish(ctx, service.ID, entities.CatalogEventTypeServiceUpserted)
	return nil
}

// Delete deactivates a service and removes it from the index
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger := observability.LoggerFromContext(ctx)
	if s.searchRepo != nil {
		if err := s.searchRepo.Delete(ctx, id); err != nil {
			logger.Warn().Err(err).Str("service_id", id).Msg("failed to remove service from index")
		}
	}

	s.publish(ctx, id, entities.CatalogEventTypeServiceDeleted)
	return nil
}

// List retrieves services matching the filter
func (s *CatalogService) List(ctx context.Context, filter repositories.ServiceFilter) ([]*entities.Service, error) {
	return s.repo.List(ctx, filter)
}

// Search finds services via the search index when available, falling
// back to a database listing
func (s *CatalogService) Search(ctx context.Context, query, categoryID string, limit int) ([]*entities.Service, error) {
	if s.searchRepo != nil {
		return s.searchRepo.Search(ctx, query, categoryID, limit)
	}

	active := true
	return s.repo.List(ctx, repositories.ServiceFilter{
		CategoryID: categoryID,
		IsActive:   &active,
		Limit:      limit,
	})
}

func (s *CatalogService) index(ctx context.Context, service *entities.Service) {
	if s.searchRepo == nil {
		return
	}
	if err := s.searchRepo.Index(ctx, service); err != nil {
		// Eventual consistency: the indexer catches up from the event
		// stream, so a failed inline index is not fatal.
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("service_id", service.ID).Msg("failed to index service")
	}
}

func (s *CatalogService) publish(ctx context.Context, serviceID string, eventType entities.CatalogEventType) {
	if s.eventBus == nil {
		return
	}
	event := entities.NewCatalogEvent(serviceID, eventType, nil)
	if err := s.eventBus.Publish(ctx, events.ChannelCatalog, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("service_id", serviceID).Msg("failed to publish catalog event")
	}
}
