package repositories

import (
	"context"

	"github.com/lokafix/marketplace/backend/internal/domain/entities"
)

// ProviderRepository defines the interface for service provider operations
type ProviderRepository interface {
	Create(ctx context.Context, provider *entities.ServiceProvider) error
	GetByID(ctx context.Context, id string) (*entities.ServiceProvider, error)
	GetByUserID(ctx context.Context, userID string) (*entities.ServiceProvider, error)
	Update(ctx context.Context, provider *entities.ServiceProvider) error
	List(ctx context.Context, limit, offset int) ([]*entities.ServiceProvider, error)
}
