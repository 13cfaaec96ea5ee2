package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lokafix/marketplace/backend/internal/domain/entities"
	"github.com/lokafix/marketplace/backend/internal/domain/repositories"
	"github.com/lokafix/marketplace/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/lokafix/marketplace/backend/pkg/errors"
)

// UserAdapter implements read-only user lookups in Postgres
type UserAdapter struct {
	client *postgres.Client
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{client: client}
}

// GetByID retrieves an active user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	query := `
		SELECT id, email, role, COALESCE(first_name, ''), COALESCE(last_name, ''), is_active, created_at
		FROM users
		WHERE id = $1 AND is_active = true
	`

	var user entities.User
	err := a.client.DB().QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Role,
		&user.FirstName,
		&user.LastName,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	return &user, nil
}
