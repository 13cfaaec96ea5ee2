package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/lokafix/marketplace/backend/internal/domain/entities"
	"github.com/lokafix/marketplace/backend/internal/domain/repositories"
	apperrors "github.com/lokafix/marketplace/backend/pkg/errors"
)

// CategoryService handles the service category taxonomy
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// Create adds a category
func (s *CategoryService) Create(ctx context.Context, category *entities.ServiceCategory) error {
	if strings.TrimSpace(category.Name) == "" {
		return apperrors.NewValidationError("category name is required")
	}
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	return s.repo.Create(ctx, category)
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id string) (*entities.ServiceCategory, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves all categories
func (s *CategoryService) List(ctx context.Context) ([]*entities.ServiceCategory, error) {
	return s.repo.List(ctx)
}
