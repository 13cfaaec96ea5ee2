package repositories

import (
	"context"

	"github.com/lokafix/marketplace/backend/internal/domain/entities"
)

// ReviewRepository defines the interface for review operations.
// Create, Update and Delete each run the review mutation and the
// service-average recompute inside a single transaction: if the
// aggregate cannot be persisted, the review mutation rolls back too.
type ReviewRepository interface {
	Create(ctx context.Context, review *entities.Review) error
	GetByID(ctx context.Context, id string) (*entities.Review, error)
	GetByServiceAndUser(ctx context.Context, serviceID, userID string) (*entities.Review, error)
	Update(ctx context.Context, review *entities.Review) error
	Delete(ctx context.Context, id string) error
	ListByService(ctx context.Context, serviceID string, limit, offset int) ([]*entities.ReviewWithAuthor, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.Review, error)
}
