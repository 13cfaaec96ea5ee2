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

// ProviderAdapter implements service provider persistence in Postgres
type ProviderAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProviderAdapter creates a new provider adapter
func NewProviderAdapter(client *postgres.Client) repositories.ProviderRepository {
	return &ProviderAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

const providerColumns = `
	id, user_id, business_name, description, contact_phone, address,
	average_rating, sentiment_score, total_reviews, is_verified, created_at
`

// Create inserts a provider record
func (a *ProviderAdapter) Create(ctx context.Context, provider *entities.ServiceProvider) error {
	record := goqu.Record{
		"id":              provider.ID,
		"user_id":         provider.UserID,
		"business_name":   provider.BusinessName,
		"description":     provider.Description,
		"contact_phone":   provider.ContactPhone,
		"address":         provider.Address,
		"average_rating":  provider.AverageRating,
		"sentiment_score": provider.SentimentScore,
		"total_reviews":   provider.TotalReviews,
		"is_verified":     provider.IsVerified,
		"created_at":      provider.CreatedAt,
	}

	query, args, err := a.db.Insert("service_providers").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build provider insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create provider", err)
	}

	return nil
}

// GetByID retrieves a provider by ID
func (a *ProviderAdapter) GetByID(ctx context.Context, id string) (*entities.ServiceProvider, error) {
	query := `SELECT ` + providerColumns + ` FROM service_providers WHERE id = $1`
	return a.getOne(ctx, query, id, fmt.Sprintf("provider with id %s not found", id))
}

// GetByUserID retrieves the provider owned by a user
func (a *ProviderAdapter) GetByUserID(ctx context.Context, userID string) (*entities.ServiceProvider, error) {
	query := `SELECT ` + providerColumns + ` FROM service_providers WHERE user_id = $1`
	return a.getOne(ctx, query, userID, "provider not found for user")
}

// Update updates a provider's business metadata and verification flag
func (a *ProviderAdapter) Update(ctx context.Context, provider *entities.ServiceProvider) error {
	record := goqu.Record{
		"business_name": provider.BusinessName,
		"description":   provider.Description,
		"contact_phone": provider.ContactPhone,
		"address":       provider.Address,
		"is_verified":   provider.IsVerified,
	}

	query, args, err := a.db.Update("service_providers").Set(record).Where(goqu.C("id").Eq(provider.ID)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build provider update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update provider", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("provider with id %s not found", provider.ID))
}

// List retrieves providers, newest first
func (a *ProviderAdapter) List(ctx context.Context, limit, offset int) ([]*entities.ServiceProvider, error) {
	query := `SELECT ` + providerColumns + ` FROM service_providers ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := a.client.DB().QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list providers", err)
	}
	defer rows.Close()

	providers := []*entities.ServiceProvider{}
	for rows.Next() {
		provider, err := scanProvider(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan provider", err)
		}
		providers = append(providers, provider)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating providers", err)
	}

	return providers, nil
}

func (a *ProviderAdapter) getOne(ctx context.Context, query, arg, notFoundMsg string) (*entities.ServiceProvider, error) {
	provider, err := scanProvider(a.client.DB().QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(notFoundMsg)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get provider", err)
	}
	return provider, nil
}

func scanProvider(row rowScanner) (*entities.ServiceProvider, error) {
	var provider entities.ServiceProvider
	err := row.Scan(
		&provider.ID,
		&provider.UserID,
		&provider.BusinessName,
		&provider.Description,
		&provider.ContactPhone,
		&provider.Address,
		&provider.AverageRating,
		&provider.SentimentScore,
		&provider.TotalReviews,
		&provider.IsVerified,
		&provider.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &provider, nil
}
