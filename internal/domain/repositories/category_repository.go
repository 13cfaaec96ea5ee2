package repositories

import (
	"context"

	"github.com/lokafix/marketplace/backend/internal/domain/entities"
)

// CategoryRepository defines the interface for service category operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entities.ServiceCategory) error
	GetByID(ctx context.Context, id string) (*entities.ServiceCategory, error)
	List(ctx context.Context) ([]*entities.ServiceCategory, error)
}
