package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/lokafix/marketplace/backend/internal/domain/entities"
	"github.com/lokafix/marketplace/backend/internal/domain/repositories"
	"github.com/lokafix/marketplace/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/lokafix/marketplace/backend/pkg/errors"
)

const pqUniqueViolation = "23505"

// ReviewAdapter implements review persistence in Postgres. Every mutation
// recomputes the owning service's average rating and the provider's
// informational aggregates inside the same transaction, so a review is
// never visible with a stale service average.
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a review and recomputes the service average atomically.
// A duplicate (service_id, user_id) pair surfaces as a Conflict.
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	record := goqu.Record{
		"id":              review.ID,
		"service_id":      review.ServiceID,
		"user_id":         review.UserID,
		"rating":          review.Rating,
		"comment":         review.Comment,
		"sentiment_score": nullFloat(review.SentimentScore),
		"created_at":      review.CreatedAt,
	}

	query, args, err := a.db.Insert("reviews").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build review insert query", err)
	}

	return a.inReviewTx(ctx, review.ServiceID, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
				return apperrors.NewConflictError("user has already reviewed this service")
			}
			return apperrors.NewInternalError("failed to create review", err)
		}
		return nil
	})
}

// GetByID retrieves a review by ID
func (a *ReviewAdapter) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	query := `
		SELECT id, service_id, user_id, rating, comment, sentiment_score, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`

	review, err := scanReview(a.client.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("review with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get review", err)
	}

	return review, nil
}

// GetByServiceAndUser retrieves a user's review of a service, if any
func (a *ReviewAdapter) GetByServiceAndUser(ctx context.Context, serviceID, userID string) (*entities.Review, error) {
	query := `
		SELECT id, service_id, user_id, rating, comment, sentiment_score, created_at, updated_at
		FROM reviews
		WHERE service_id = $1 AND user_id = $2
	`

	review, err := scanReview(a.client.DB().QueryRowContext(ctx, query, serviceID, userID))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("review not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get review", err)
	}

	return review, nil
}

// Update rewrites a review in place and recomputes the service average
// atomically
func (a *ReviewAdapter) Update(ctx context.Context, review *entities.Review) error {
	record := goqu.Record{
		"rating":          review.Rating,
		"comment":         review.Comment,
		"sentiment_score": nullFloat(review.SentimentScore),
		"updated_at":      review.UpdatedAt,
	}

	query, args, err := a.db.Update("reviews").Set(record).Where(goqu.C("id").Eq(review.ID)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build review update query", err)
	}

	return a.inReviewTx(ctx, review.ServiceID, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return apperrors.NewInternalError("failed to update review", err)
		}
		return requireRowsAffected(result, fmt.Sprintf("review with id %s not found", review.ID))
	})
}

// Delete removes a review and recomputes the service average atomically
func (a *ReviewAdapter) Delete(ctx context.Context, id string) error {
	review, err := a.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return a.inReviewTx(ctx, review.ServiceID, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
		if err != nil {
			return apperrors.NewInternalError("failed to delete review", err)
		}
		return requireRowsAffected(result, fmt.Sprintf("review with id %s not found", id))
	})
}

// ListByService retrieves a service's reviews joined with author names,
// newest first
func (a *ReviewAdapter) ListByService(ctx context.Context, serviceID string, limit, offset int) ([]*entities.ReviewWithAuthor, error) {
	query := `
		SELECT r.id, r.service_id, r.user_id, r.rating, r.comment, r.sentiment_score,
			r.created_at, r.updated_at, COALESCE(u.first_name, '')
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.service_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := a.client.DB().QueryContext(ctx, query, serviceID, limit, offset)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list service reviews", err)
	}
	defer rows.Close()

	reviews := []*entities.ReviewWithAuthor{}
	for rows.Next() {
		var (
			rw        entities.ReviewWithAuthor
			sentiment sql.NullFloat64
			updatedAt sql.NullTime
		)
		err := rows.Scan(
			&rw.ID, &rw.ServiceID, &rw.UserID, &rw.Rating, &rw.Comment,
			&sentiment, &rw.CreatedAt, &updatedAt, &rw.AuthorFirstName,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}
		if sentiment.Valid {
			v := sentiment.Float64
			rw.SentimentScore = &v
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			rw.UpdatedAt = &t
		}
		reviews = append(reviews, &rw)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating reviews", err)
	}

	return reviews, nil
}

// ListByUser retrieves all of a user's reviews, newest first
func (a *ReviewAdapter) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.Review, error) {
	query := `
		SELECT id, service_id, user_id, rating, comment, sentiment_score, created_at, updated_at
		FROM reviews
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT $2 OFFSET $3"
		args = append(args, limit, offset)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list user reviews", err)
	}
	defer rows.Close()

	reviews := []*entities.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating reviews", err)
	}

	return reviews, nil
}

// inReviewTx runs the review mutation and the aggregate recomputes as one
// unit. Rollback on any failure keeps review and service average mutually
// consistent.
func (a *ReviewAdapter) inReviewTx(ctx context.Context, serviceID string, mutate func(tx *sql.Tx) error) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewUnavailableError("failed to begin review transaction", err)
	}

	if err := mutate(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := recomputeServiceAverage(ctx, tx, serviceID); err != nil {
		tx.Rollback()
		return err
	}

	if err := syncProviderAggregates(ctx, tx, serviceID); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewUnavailableError("failed to commit review transaction", err)
	}

	return nil
}

// recomputeServiceAverage sets the service's denormalized average rating to
// the mean of its current reviews, or 0 when none remain.
func recomputeServiceAverage(ctx context.Context, tx *sql.Tx, serviceID string) error {
	query := `
		UPDATE services
		SET average_rating = COALESCE(
			(SELECT AVG(rating) FROM reviews WHERE service_id = $1), 0
		)
		WHERE id = $1
	`

	if _, err := tx.ExecContext(ctx, query, serviceID); err != nil {
		return apperrors.NewInternalError("failed to recompute service average rating", err)
	}
	return nil
}

// syncProviderAggregates refreshes the provider's informational rating,
// sentiment and review-count mirrors from all reviews of its services.
func syncProviderAggregates(ctx context.Context, tx *sql.Tx, serviceID string) error {
	query := `
		UPDATE service_providers p
		SET average_rating  = COALESCE(agg.avg_rating, 0),
			sentiment_score = COALESCE(agg.avg_sentiment, 0),
			total_reviews   = COALESCE(agg.review_count, 0)
		FROM (
			SELECT s.provider_id,
				AVG(r.rating) AS avg_rating,
				AVG(r.sentiment_score) AS avg_sentiment,
				COUNT(r.id) AS review_count
			FROM services s
			LEFT JOIN reviews r ON r.service_id = s.id
			WHERE s.provider_id = (SELECT provider_id FROM services WHERE id = $1)
			GROUP BY s.provider_id
		) agg
		WHERE p.id = agg.provider_id
	`

	if _, err := tx.ExecContext(ctx, query, serviceID); err != nil {
		return apperrors.NewInternalError("failed to sync provider aggregates", err)
	}
	return nil
}

func scanReview(row rowScanner) (*entities.Review, error) {
	var (
		review    entities.Review
		sentiment sql.NullFloat64
		updatedAt sql.NullTime
	)

	err := row.Scan(
		&review.ID,
		&review.ServiceID,
		&review.UserID,
		&review.Rating,
		&review.Comment,
		&sentiment,
		&review.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if sentiment.Valid {
		v := sentiment.Float64
		review.SentimentScore = &v
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		review.UpdatedAt = &t
	}

	return &review, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
