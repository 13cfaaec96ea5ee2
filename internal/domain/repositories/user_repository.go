package repositories

import (
	"context"

	"github.com/lokafix/marketplace/backend/internal/domain/entities"
)

// UserRepository defines the read-only identity lookups this service needs
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entities.User, error)
}
