package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/lokafix/marketplace/backend/internal/domain/entities"
	"github.com/lokafix/marketplace/backend/internal/domain/repositories"
	"github.com/lokafix/marketplace/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/lokafix/marketplace/backend/pkg/errors"
)

// CategoryAdapter implements service category persistence in Postgres
type CategoryAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCategoryAdapter creates a new category adapter
func NewCategoryAdapter(client *postgres.Client) repositories.CategoryRepository {
	return &CategoryAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a category record
func (a *CategoryAdapter) Create(ctx context.Context, category *entities.ServiceCategory) error {
	record := goqu.Record{
		"id":          category.ID,
		"name":        category.Name,
		"description": category.Description,
	}

	query, args, err := a.db.Insert("service_categories").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build category insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create category", err)
	}

	return nil
}

// GetByID retrieves a category by ID
func (a *CategoryAdapter) GetByID(ctx context.Context, id string) (*entities.ServiceCategory, error) {
	query := `SELECT id, name, description FROM service_categories WHERE id = $1`

	var category entities.ServiceCategory
	err := a.client.DB().QueryRowContext(ctx, query, id).Scan(
		&category.ID, &category.Name, &category.Description,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("category with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get category", err)
	}

	return &category, nil
}

// List retrieves all categories ordered by name
func (a *CategoryAdapter) List(ctx context.Context) ([]*entities.ServiceCategory, error) {
	query := `SELECT id, name, description FROM service_categories ORDER BY name`

	rows, err := a.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list categories", err)
	}
	defer rows.Close()

	categories := []*entities.ServiceCategory{}
	for rows.Next() {
		var category entities.ServiceCategory
		if err := rows.Scan(&category.ID, &category.Name, &category.Description); err != nil {
			return nil, apperrors.NewInternalError("failed to scan category", err)
		}
		categories = append(categories, &category)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating categories", err)
	}

	return categories, nil
}
