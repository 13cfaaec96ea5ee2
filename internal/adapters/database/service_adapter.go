package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lokafix/marketplace/backend/internal/domain/entities"
	"github.com/lokafix/marketplace/backend/internal/domain/repositories"
	"github.com/lokafix/marketplace/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/lokafix/marketplace/backend/pkg/errors"
)

// ServiceAdapter implements the ServiceRepository interface
type ServiceAdapter struct {
	client *postgres.Client
}

// NewServiceAdapter creates a new service adapter
func NewServiceAdapter(client *postgres.Client) repositories.ServiceRepository {
	return &ServiceAdapter{client: client}
}

const serviceColumns = `
	id, provider_id, category_id, name, description, price_range,
	duration_minutes, average_rating, is_active, created_at, updated_at
`

// Create creates a new service
func (a *ServiceAdapter) Create(ctx context.Context, service *entities.Service) error {
	query := `
		INSERT INTO services (
			id, provider_id, category_id, name, description, price_range,
			duration_minutes, average_rating, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := a.client.DB().ExecContext(ctx, query,
		service.ID,
		service.ProviderID,
		nullString(service.CategoryID),
		service.Name,
		service.Description,
		nullBytes(service.PriceRange),
		service.DurationMinutes,
		service.AverageRating,
		service.IsActive,
		service.CreatedAt,
		service.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to create service", err)
	}

	return nil
}

// GetByID retrieves a service by ID. Soft-deleted services are not returned.
func (a *ServiceAdapter) GetByID(ctx context.Context, id string) (*entities.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1 AND is_active = true`

	service, err := scanService(a.client.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("service with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get service", err)
	}

	return service, nil
}

// Update updates a service
func (a *ServiceAdapter) Update(ctx context.Context, service *entities.Service) error {
	query := `
		UPDATE services SET
			category_id = $2, name = $3, description = $4, price_range = $5,
			duration_minutes = $6, is_active = $7, updated_at = $8
		WHERE id = $1
	`

	service.UpdatedAt = time.Now()

	result, err := a.client.DB().ExecContext(ctx, query,
		service.ID,
		nullString(service.CategoryID),
		service.Name,
		service.Description,
		nullBytes(service.PriceRange),
		service.DurationMinutes,
		service.IsActive,
		service.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to update service", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("service with id %s not found", service.ID))
}

// Delete soft-deletes a service
func (a *ServiceAdapter) Delete(ctx context.Context, id string) error {
	query := `UPDATE services SET is_active = false, updated_at = $2 WHERE id = $1`

	result, err := a.client.DB().ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return apperrors.NewInternalError("failed to delete service", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("service with id %s not found", id))
}

// List retrieves services with filters
func (a *ServiceAdapter) List(ctx context.Context, filter repositories.ServiceFilter) ([]*entities.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE 1=1`

	args := []interface{}{}
	argCount := 1

	if filter.ProviderID != "" {
		query += fmt.Sprintf(" AND provider_id = $%d", argCount)
		args = append(args, filter.ProviderID)
		argCount++
	}

	if filter.CategoryID != "" {
		query += fmt.Sprintf(" AND category_id = $%d", argCount)
		args = append(args, filter.CategoryID)
		argCount++
	}

	if filter.IsActive != nil {
		query += fmt.Sprintf(" AND is_active = $%d", argCount)
		args = append(args, *filter.IsActive)
		argCount++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filter.Limit)
		argCount++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filter.Offset)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list services", err)
	}
	defer rows.Close()

	services := []*entities.Service{}
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan service", err)
		}
		services = append(services, service)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating services", err)
	}

	return services, nil
}

const statsSelect = `
	SELECT
		s.id, s.provider_id, s.category_id, s.name, s.description, s.price_range,
		s.duration_minutes, s.average_rating, s.is_active, s.created_at, s.updated_at,
		AVG(r.rating), AVG(r.sentiment_score), COUNT(r.id),
		p.business_name, COALESCE(c.name, '')
`

// ListStats returns active services with their review aggregates.
// Services without reviews come back with nil averages and a zero count.
func (a *ServiceAdapter) ListStats(ctx context.Context, categoryID string) ([]*entities.ServiceStats, error) {
	query := statsSelect + `
		FROM services s
		JOIN service_providers p ON p.id = s.provider_id
		LEFT JOIN service_categories c ON c.id = s.category_id
		LEFT JOIN reviews r ON r.service_id = s.id
		WHERE s.is_active = true
	`

	args := []interface{}{}
	if categoryID != "" {
		query += " AND s.category_id = $1"
		args = append(args, categoryID)
	}

	query += `
		GROUP BY s.id, p.business_name, c.name
		ORDER BY s.id
	`

	return a.queryStats(ctx, query, args...)
}

// ListStatsSince returns active services aggregated over reviews created at
// or after the cutoff. Services without a qualifying review are excluded.
func (a *ServiceAdapter) ListStatsSince(ctx context.Context, cutoff time.Time) ([]*entities.ServiceStats, error) {
	query := statsSelect + `
		FROM services s
		JOIN service_providers p ON p.id = s.provider_id
		LEFT JOIN service_categories c ON c.id = s.category_id
		JOIN reviews r ON r.service_id = s.id AND r.created_at >= $1
		WHERE s.is_active = true
		GROUP BY s.id, p.business_name, c.name
		HAVING COUNT(r.id) >= 1
		ORDER BY s.id
	`

	return a.queryStats(ctx, query, cutoff)
}

func (a *ServiceAdapter) queryStats(ctx context.Context, query string, args ...interface{}) ([]*entities.ServiceStats, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query service stats", err)
	}
	defer rows.Close()

	stats := []*entities.ServiceStats{}
	for rows.Next() {
		var (
			st           entities.ServiceStats
			categoryID   sql.NullString
			priceRange   []byte
			avgRating    sql.NullFloat64
			avgSentiment sql.NullFloat64
		)

		err := rows.Scan(
			&st.Service.ID,
			&st.Service.ProviderID,
			&categoryID,
			&st.Service.Name,
			&st.Service.Description,
			&priceRange,
			&st.Service.DurationMinutes,
			&st.Service.AverageRating,
			&st.Service.IsActive,
			&st.Service.CreatedAt,
			&st.Service.UpdatedAt,
			&avgRating,
			&avgSentiment,
			&st.ReviewCount,
			&st.ProviderName,
			&st.CategoryName,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan service stats", err)
		}

		st.Service.CategoryID = categoryID.String
		st.Service.PriceRange = priceRange
		if avgRating.Valid {
			v := avgRating.Float64
			st.AvgRating = &v
		}
		if avgSentiment.Valid {
			v := avgSentiment.Float64
			st.AvgSentiment = &v
		}

		stats = append(stats, &st)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating service stats", err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (*entities.Service, error) {
	var (
		service    entities.Service
		categoryID sql.NullString
		priceRange []byte
	)

	err := row.Scan(
		&service.ID,
		&service.ProviderID,
		&categoryID,
		&service.Name,
		&service.Description,
		&priceRange,
		&service.DurationMinutes,
		&service.AverageRating,
		&service.IsActive,
		&service.CreatedAt,
		&service.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	service.CategoryID = categoryID.String
	service.PriceRange = priceRange
	return &service, nil
}

func requireRowsAffected(result sql.Result, notFoundMsg string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(notFoundMsg)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
