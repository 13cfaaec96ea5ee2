package services

import (
	"context"
	"sort"
	"time"

	"github.com/lokafix/marketplace/backend/internal/domain/entities"
	"github.com/lokafix/marketplace/backend/internal/domain/repositories"
	"github.com/lokafix/marketplace/backend/internal/infrastructure/observability"
	"github.com/lokafix/marketplace/backend/pkg/config"
	"github.com/lokafix/marketplace/backend/pkg/pricing"
)

// Score blend weights. The four factors always sum a score into [0, 1].
const (
	weightBaseRating = 0.4
	weightSentiment  = 0.3
	weightReviews    = 0.2
	weightCategory   = 0.1

	// Neutral factor values used when a service has no reviews.
	defaultBaseScore       = 0.5
	neutralSentimentFactor = 0.5
	defaultReviewFactor    = 0.5

	// Review counts at or above this saturate the review-volume factor.
	reviewSaturation = 10.0

	// How much of a customer's review history feeds preference
	// estimation. Enough to cover any realistic reviewer.
	historyFetchLimit = 500
)

// RecommendationFilters narrows the recommendation candidate set.
type RecommendationFilters struct {
	CategoryID      string
	MinRating       *float64
	MaxPrice        *float64
	IncludeReviewed bool
	Limit           int
}

// RecommendationService scores and ranks services for customers
type RecommendationService struct {
	serviceRepo repositories.ServiceRepository
	reviewRepo  repositories.ReviewRepository
	cfg         config.RecommendationConfig
	metrics     *observability.Metrics
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(
	serviceRepo repositories.ServiceRepository,
	reviewRepo repositories.ReviewRepository,
	cfg config.RecommendationConfig,
	metrics *observability.Metrics,
) *RecommendationService {
	return &RecommendationService{
		serviceRepo: serviceRepo,
		reviewRepo:  reviewRepo,
		cfg:         cfg,
		metrics:     metrics,
	}
}

// GetRecommendations returns services ranked for the given customer.
// Scoring reads committed review aggregates only, so repeated calls with
// unchanged data return identical rankings.
func (s *RecommendationService) GetRecommendations(ctx context.Context, customerID string, filters RecommendationFilters) ([]*entities.ServiceRecommendation, error) {
	logger := observability.LoggerFromContext(ctx)

	reviewed, estimator, err := s.loadCustomerHistory(ctx, customerID)
	if err != nil {
		return nil, err
	}

	stats, err := s.serviceRepo.ListStats(ctx, filters.CategoryID)
	if err != nil {
		return nil, err
	}

	recommendations := make([]*entities.ServiceRecommendation, 0, len(stats))
	for _, st := range stats {
		if !filters.IncludeReviewed {
			if _, ok := reviewed[st.Service.ID]; ok {
				continue
			}
		}
		// Unreviewed services are exempt from the rating floor so new
		// listings are not invisible.
		if filters.MinRating != nil && st.AvgRating != nil && *st.AvgRating < *filters.MinRating {
			continue
		}
		if filters.MaxPrice != nil && !pricing.MaxWithin(st.Service.PriceRange, *filters.MaxPrice) {
			continue
		}

		recommendations = append(recommendations, s.scoreCandidate(st, estimator))
	}

	sortByScore(recommendations)
	recommendations = truncate(recommendations, s.clampLimit(filters.Limit))

	observability.RecordScoredServices(ctx, s.metrics, "recommendations", len(recommendations))
	logger.Debug().
		Str("customer_id", customerID).
		Int("candidates", len(stats)).
		Int("returned", len(recommendations)).
		Msg("scored recommendations")

	return recommendations, nil
}

// GetTrending returns services ranked by recent review momentum. Only
// services with at least one review inside the window qualify.
func (s *RecommendationService) GetTrending(ctx context.Context, days, limit int) ([]*entities.ServiceRecommendation, error) {
	if days <= 0 {
		days = s.cfg.DefaultDays
	}
	if days > s.cfg.MaxTrendingDays {
		days = s.cfg.MaxTrendingDays
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	stats, err := s.serviceRepo.ListStatsSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	trending := make([]*entities.ServiceRecommendation, 0, len(stats))
	for _, st := range stats {
		if st.AvgRating == nil || st.ReviewCount == 0 {
			continue
		}

		sentimentFactor := neutralSentimentFactor
		if st.AvgSentiment != nil {
			sentimentFactor = (*st.AvgSentiment + 1) / 2
		}
		volume := float64(st.ReviewCount)
		if volume > reviewSaturation {
			volume = reviewSaturation
		}

		rec := newRecommendation(st)
		rec.RecommendationScore = *st.AvgRating * sentimentFactor * (volume / reviewSaturation)
		trending = append(trending, rec)
	}

	sortByScore(trending)
	trending = truncate(trending, s.clampLimit(limit))

	observability.RecordScoredServices(ctx, s.metrics, "trending", len(trending))
	return trending, nil
}

// loadCustomerHistory fetches the customer's reviews, remembering which
// services they already reviewed and accumulating category affinity.
// Reviews for services that no longer resolve still mark the service as
// reviewed but contribute nothing to affinity.
func (s *RecommendationService) loadCustomerHistory(ctx context.Context, customerID string) (map[string]struct{}, *preferenceEstimator, error) {
	reviews, err := s.reviewRepo.ListByUser(ctx, customerID, historyFetchLimit, 0)
	if err != nil {
		return nil, nil, err
	}

	logger := observability.LoggerFromContext(ctx)
	reviewed := make(map[string]struct{}, len(reviews))
	estimator := newPreferenceEstimator()
	categoryByService := make(map[string]string)

	for _, review := range reviews {
		reviewed[review.ServiceID] = struct{}{}

		categoryID, ok := categoryByService[review.ServiceID]
		if !ok {
			service, err := s.serviceRepo.GetByID(ctx, review.ServiceID)
			if err != nil {
				logger.Debug().Str("service_id", review.ServiceID).
					Msg("reviewed service not resolvable, skipping for affinity")
				categoryByService[review.ServiceID] = ""
			} else {
				categoryByService[review.ServiceID] = service.CategoryID
			}
			categoryID = categoryByService[review.ServiceID]
		}

		estimator.Observe(review, categoryID)
	}

	return reviewed, estimator, nil
}

// scoreCandidate blends the four scoring factors for one service.
func (s *RecommendationService) scoreCandidate(st *entities.ServiceStats, estimator *preferenceEstimator) *entities.ServiceRecommendation {
	base := defaultBaseScore
	if st.AvgRating != nil {
		base = *st.AvgRating / 5.0
	}

	sentimentFactor := neutralSentimentFactor
	if st.AvgSentiment != nil {
		sentimentFactor = (*st.AvgSentiment + 1) / 2
	}

	reviewFactor := defaultReviewFactor
	if st.ReviewCount > 0 {
		reviewFactor = float64(st.ReviewCount) / reviewSaturation
		if reviewFactor > 1 {
			reviewFactor = 1
		}
	}

	categoryFactor := estimator.Affinity(st.Service.CategoryID)

	rec := newRecommendation(st)
	rec.RecommendationScore = weightBaseRating*base +
		weightSentiment*sentimentFactor +
		weightReviews*reviewFactor +
		weightCategory*categoryFactor
	return rec
}

func (s *RecommendationService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return limit
}

func newRecommendation(st *entities.ServiceStats) *entities.ServiceRecommendation {
	rec := &entities.ServiceRecommendation{
		ServiceID:    st.Service.ID,
		Name:         st.Service.Name,
		Description:  st.Service.Description,
		ProviderID:   st.Service.ProviderID,
		ProviderName: st.ProviderName,
		CategoryID:   st.Service.CategoryID,
		CategoryName: st.CategoryName,
		PriceRange:   st.Service.PriceRange,
	}
	if st.AvgRating != nil {
		rec.AverageRating = *st.AvgRating
	}
	if st.AvgSentiment != nil {
		score := *st.AvgSentiment
		rec.SentimentScore = &score
	}
	return rec
}

// sortByScore orders by score descending with service ID as a stable
// tie-break, so equal-scored services always rank the same way.
func sortByScore(recs []*entities.ServiceRecommendation) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].RecommendationScore != recs[j].RecommendationScore {
			return recs[i].RecommendationScore > recs[j].RecommendationScore
		}
		return recs[i].ServiceID < recs[j].ServiceID
	})
}

func truncate(recs []*entities.ServiceRecommendation, limit int) []*entities.ServiceRecommendation {
	if len(recs) > limit {
		return recs[:limit]
	}
	return recs
}
