package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lokafix/marketplace/backend/internal/domain/entities"
	"github.com/lokafix/marketplace/backend/internal/domain/repositories"
	apperrors "github.com/lokafix/marketplace/backend/pkg/errors"
)

// ProviderService handles business logic for service providers
type ProviderService struct {
	repo repositories.ProviderRepository
}

// NewProviderService creates a new provider service
func NewProviderService(repo repositories.ProviderRepository) *ProviderService {
	return &ProviderService{repo: repo}
}

// Create registers a provider profile for a user
func (s *ProviderService) Create(ctx context.Context, provider *entities.ServiceProvider) error {
	if strings.TrimSpace(provider.BusinessName) == "" {
		return apperrors.NewValidationError("business name is required")
	}
	if provider.UserID == "" {
		return apperrors.NewValidationError("user id is required")
	}

	if existing, err := s.repo.GetByUserID(ctx, provider.UserID); err == nil && existing != nil {
		return apperrors.NewConflictError("user already has a provider profile")
	} else if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return err
	}

	if provider.ID == "" {
		provider.ID = uuid.New().String()
	}
	provider.CreatedAt = time.Now()

	return s.repo.Create(ctx, provider)
}

// GetByID retrieves a provider by ID
func (s *ProviderService) GetByID(ctx context.Context, id string) (*entities.ServiceProvider, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves providers
func (s *ProviderService) List(ctx context.Context, limit, offset int) ([]*entities.ServiceProvider, error) {
	return s.repo.List(ctx, limit, offset)
}
