package repositories

import (
	"context"
	"time"

	"github.com/lokafix/marketplace/backend/internal/domain/entities"
)

// ServiceFilter narrows service listings
type ServiceFilter struct {
	ProviderID string
	CategoryID string
	IsActive   *bool
	Limit      int
	Offset     int
}

// ServiceRepository defines the interface for service catalog operations
type ServiceRepository interface {
	Create(ctx context.Context, service *entities.Service) error
	GetByID(ctx context.Context, id string) (*entities.Service, error)
	Update(ctx context.Context, service *entities.Service) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ServiceFilter) ([]*entities.Service, error)

	// ListStats returns active services joined with their review
	// aggregates (average rating, average sentiment, review count) and
	// provider/category names. Services without reviews are included
	// with nil aggregates.
	ListStats(ctx context.Context, categoryID string) ([]*entities.ServiceStats, error)

	// ListStatsSince returns active services with at least one review
	// created at or after the cutoff, aggregated over those reviews only.
	ListStatsSince(ctx context.Context, cutoff time.Time) ([]*entities.ServiceStats, error)
}

// ServiceSearchRepository defines the interface for the search index
type ServiceSearchRepository interface {
	InitSchema(ctx context.Context) error
	Index(ctx context.Context, service *entities.Service) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, categoryID string, limit int) ([]*entities.Service, error)
}
