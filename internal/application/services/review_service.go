package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lokafix/marketplace/backend/internal/adapters/events"
	"github.com/lokafix/marketplace/backend/internal/domain/entities"
	"github.com/lokafix/marketplace/backend/internal/domain/providers"
	"github.com/lokafix/marketplace/backend/internal/domain/repositories"
	"github.com/lokafix/marketplace/backend/internal/infrastructure/observability"
	apperrors "github.com/lokafix/marketplace/backend/pkg/errors"
)

// Comments shorter than this are rejected before any I/O happens.
const minCommentLength = 5

// ServiceCacheInvalidator drops a cached service entry after a committed
// review mutation changes its denormalized rating.
type ServiceCacheInvalidator interface {
	Invalidate(ctx context.Context, serviceID string)
}

// SubmitReviewInput carries a new review submission
type SubmitReviewInput struct {
	ServiceID string `json:"service_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// UpdateReviewInput carries a partial review update; nil fields keep
// their current value
type UpdateReviewInput struct {
	Rating  *int    `json:"rating,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

// ReviewService handles review submission, mutation and listing, plus
// the sentiment scoring and downstream propagation each mutation needs
type ReviewService struct {
	reviewRepo  repositories.ReviewRepository
	serviceRepo repositories.ServiceRepository
	userRepo    repositories.UserRepository
	searchRepo  repositories.ServiceSearchRepository
	analyzer    providers.SentimentAnalyzer
	eventBus    providers.EventBus
	invalidator ServiceCacheInvalidator
	metrics     *observability.Metrics
}

// NewReviewService creates a new review service. searchRepo, eventBus,
// invalidator and metrics are optional; pass nil to skip that concern.
func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	serviceRepo repositories.ServiceRepository,
	userRepo repositories.UserRepository,
	searchRepo repositories.ServiceSearchRepository,
	analyzer providers.SentimentAnalyzer,
	eventBus providers.EventBus,
	invalidator ServiceCacheInvalidator,
	metrics *observability.Metrics,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		serviceRepo: serviceRepo,
		userRepo:    userRepo,
		searchRepo:  searchRepo,
		analyzer:    analyzer,
		eventBus:    eventBus,
		invalidator: invalidator,
		metrics:     metrics,
	}
}

// Submit creates a review for a service. One review per customer per
// service; a second submission conflicts rather than overwriting.
func (s *ReviewService) Submit(ctx context.Context, userID string, input SubmitReviewInput) (*entities.Review, error) {
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}
	comment := strings.TrimSpace(input.Comment)
	if len(comment) < minCommentLength {
		return nil, apperrors.NewValidationError("comment must be at least 5 characters")
	}

	if _, err := s.serviceRepo.GetByID(ctx, input.ServiceID); err != nil {
		return nil, err
	}

	if existing, err := s.reviewRepo.GetByServiceAndUser(ctx, input.ServiceID, userID); err == nil && existing != nil {
		return nil, apperrors.NewConflictError("you have already reviewed this service")
	} else if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}

	sentiment := s.analyzer.Analyze(comment)
	review := &entities.Review{
		ID:             uuid.New().String(),
		ServiceID:      input.ServiceID,
		UserID:         userID,
		Rating:         input.Rating,
		Comment:        comment,
		SentimentScore: &sentiment,
		CreatedAt:      time.Now(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	observability.RecordReviewMetric(ctx, s.metrics, "create")
	s.propagate(ctx, review.ServiceID, entities.CatalogEventTypeReviewCreated)
	return review, nil
}

// Update modifies a review. Only the author or an admin may update, and
// a changed comment gets a fresh sentiment score.
func (s *ReviewService) Update(ctx context.Context, actorID, reviewID string, input UpdateReviewInput) (*entities.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeActor(ctx, actorID, review.UserID); err != nil {
		return nil, err
	}

	if input.Rating != nil {
		if err := validateRating(*input.Rating); err != nil {
			return nil, err
		}
		review.Rating = *input.Rating
	}
	if input.Comment != nil {
		comment := strings.TrimSpace(*input.Comment)
		if len(comment) < minCommentLength {
			return nil, apperrors.NewValidationError("comment must be at least 5 characters")
		}
		if comment != review.Comment {
			review.Comment = comment
			sentiment := s.analyzer.Analyze(comment)
			review.SentimentScore = &sentiment
		}
	}

	now := time.Now()
	review.UpdatedAt = &now

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	observability.RecordReviewMetric(ctx, s.metrics, "update")
	s.propagate(ctx, review.ServiceID, entities.CatalogEventTypeReviewUpdated)
	return review, nil
}

// Delete removes a review. Only the author or an admin may delete.
func (s *ReviewService) Delete(ctx context.Context, actorID, reviewID string) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if err := s.authorizeActor(ctx, actorID, review.UserID); err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}

	observability.RecordReviewMetric(ctx, s.metrics, "delete")
	s.propagate(ctx, review.ServiceID, entities.CatalogEventTypeReviewDeleted)
	return nil
}

// ListByService returns a service's reviews, newest first, with author
// display names
func (s *ReviewService) ListByService(ctx context.Context, serviceID string, limit, offset int) ([]*entities.ReviewWithAuthor, error) {
	if _, err := s.serviceRepo.GetByID(ctx, serviceID); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByService(ctx, serviceID, limit, offset)
}

// ListByUser returns a customer's own reviews, newest first
func (s *ReviewService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.Review, error) {
	return s.reviewRepo.ListByUser(ctx, userID, limit, offset)
}

// authorizeActor permits the review author and admins, nobody else
func (s *ReviewService) authorizeActor(ctx context.Context, actorID, authorID string) error {
	if actorID == authorID {
		return nil
	}
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return apperrors.NewForbiddenError("you may only modify your own reviews")
	}
	if !actor.IsAdmin() {
		return apperrors.NewForbiddenError("you may only modify your own reviews")
	}
	return nil
}

// propagate pushes a committed mutation downstream: cache invalidation,
// catalog event, search reindex. All best-effort; the review is already
// durable and readers converge on the next pass.
func (s *ReviewService) propagate(ctx context.Context, serviceID string, eventType entities.CatalogEventType) {
	logger := observability.LoggerFromContext(ctx)

	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, serviceID)
	}

	if s.eventBus != nil {
		event := entities.NewCatalogEvent(serviceID, eventType, nil)
		if err := s.eventBus.Publish(ctx, events.ChannelCatalog, event); err != nil {
			logger.Warn().Err(err).Str("service_id", serviceID).Msg("failed to publish catalog event")
		}
	}

	if s.searchRepo != nil {
		service, err := s.serviceRepo.GetByID(ctx, serviceID)
		if err != nil {
			logger.Warn().Err(err).Str("service_id", serviceID).Msg("failed to reload service for reindex")
			return
		}
		if err := s.searchRepo.Index(ctx, service); err != nil {
			logger.Warn().Err(err).Str("service_id", serviceID).Msg("failed to reindex service")
		}
	}
}

// validateRating enforces the 1-5 star scale. An out-of-scale rating
// conflicts with the storage constraint rather than failing validation,
// matching the database check it mirrors.
func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return apperrors.NewConflictError("rating must be between 1 and 5")
	}
	return nil
}
