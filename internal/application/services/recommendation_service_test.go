package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokafix/marketplace/backend/internal/domain/entities"
	"github.com/lokafix/marketplace/backend/pkg/config"
)

func recoConfig() config.RecommendationConfig {
	return config.RecommendationConfig{
		DefaultLimit:    10,
		MaxLimit:        50,
		DefaultDays:     30,
		MaxTrendingDays: 365,
	}
}

func activeService(id, categoryID string) entities.Service {
	return entities.Service{
		ID:         id,
		ProviderID: "provider-1",
		CategoryID: categoryID,
		Name:       "service " + id,
		IsActive:   true,
	}
}

func statsFor(id, categoryID string, avgRating, avgSentiment *float64, count int) *entities.ServiceStats {
	return &entities.ServiceStats{
		Service:      activeService(id, categoryID),
		AvgRating:    avgRating,
		AvgSentiment: avgSentiment,
		ReviewCount:  count,
		ProviderName: "Acme Services",
	}
}

// seedHistory records a past review and makes the reviewed service
// resolvable so affinity can pick up its category.
func seedHistory(serviceRepo *fakeServiceRepo, reviewRepo *fakeReviewRepo, reviewID, serviceID, categoryID string, rating int, sentiment *float64) {
	service := activeService(serviceID, categoryID)
	serviceRepo.services[serviceID] = &service
	review := &entities.Review{
		ID:             reviewID,
		ServiceID:      serviceID,
		UserID:         "customer-1",
		Rating:         rating,
		Comment:        "seeded history review",
		SentimentScore: sentiment,
		CreatedAt:      time.Now(),
	}
	reviewRepo.reviews[reviewID] = review
	reviewRepo.byUser["customer-1"] = append(reviewRepo.byUser["customer-1"], review)
}

func TestRecommendationService_ScoreBlend(t *testing.T) {
	serviceRepo := newFakeServiceRepo()
	reviewRepo := newFakeReviewRepo()

	// History: full-strength plumbing review (weight 1.0) and a weaker
	// cleaning review (weight 0.5), so cleaning affinity normalizes to 0.5.
	seedHistory(serviceRepo, reviewRepo, "r1", "svc-plumbing", "cat-plumbing", 5, floatPtr(1.0))
	seedHistory(serviceRepo, reviewRepo, "r2", "svc-cleaning", "cat-cleaning", 5, floatPtr(0.5))

	// Candidate: rating 4.0, sentiment 0.5, 3 reviews, cleaning category.
	// 0.4*(4/5) + 0.3*((0.5+1)/2) + 0.2*(3/10) + 0.1*0.5 = 0.655
	serviceRepo.stats = []*entities.ServiceStats{
		statsFor("svc-candidate", "cat-cleaning", floatPtr(4.0), floatPtr(0.5), 3),
	}

	svc := NewRecommendationService(serviceRepo, reviewRepo, recoConfig(), nil)
	recs, err := svc.GetRecommendations(context.Background(), "customer-1", RecommendationFilters{})

	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "svc-candidate", recs[0].ServiceID)
	assert.InDelta(t, 0.655, recs[0].RecommendationScore, 1e-9)
	assert.Equal(t, 4.0, recs[0].AverageRating)
	assert.Equal(t, "Acme Services", recs[0].ProviderName)
}

func TestRecommendationService_UnreviewedServiceGetsNeutralFactors(t *testing.T) {
	serviceRepo := newFakeServiceRepo()
	serviceRepo.stats = []*entities.ServiceStats{
		statsFor("svc-new", "cat-cleaning", nil, nil, 0),
	}

	svc := NewRecommendationService(serviceRepo, newFakeReviewRepo(), recoConfig(), nil)
	recs, err := svc.GetRecommendations(context.Background(), "customer-new", RecommendationFilters{})

	require.NoError(t, err)
	require.Len(t, recs, 1)
	// No history means neutral affinity 1.0:
	// 0.4*0.5 + 0.3*0.5 + 0.2*0.5 + 0.1*1.0 = 0.55
	assert.InDelta(t, 0.55, recs[0].RecommendationScore, 1e-9)
}

func TestRecommendationService_CategoryAffinityFactors(t *testing.T) {
	serviceRepo := newFakeServiceRepo()
	reviewRepo := newFakeReviewRepo()
	// Strong plumbing signal (weight 1.0), weaker tutoring signal (0.5).
	seedHistory(serviceRepo, reviewRepo, "r1", "svc-old-plumbing", "cat-plumbing", 5, floatPtr(1.0))
	seedHistory(serviceRepo, reviewRepo, "r2", "svc-old-tutoring", "cat-tutoring", 5, floatPtr(0.5))

	serviceRepo.stats = []*entities.ServiceStats{
		statsFor("svc-plumbing-2", "cat-plumbing", nil, nil, 0),
		statsFor("svc-tutoring-2", "cat-tutoring", nil, nil, 0),
		statsFor("svc-cleaning-1", "cat-cleaning", nil, nil, 0),
	}

	svc := NewRecommendationService(serviceRepo, reviewRepo, recoConfig(), nil)
	recs, err := svc.GetRecommendations(context.Background(), "customer-1", RecommendationFilters{})

	require.NoError(t, err)
	require.Len(t, recs, 3)

	byID := map[string]float64{}
	for _, rec := range recs {
		byID[rec.ServiceID] = rec.RecommendationScore
	}
	// Same neutral base factors; only the category factor differs. The
	// strongest reviewed category normalizes to affinity 1.0, the weaker
	// one to 0.5, and a category with no history at all stays neutral
	// rather than being treated as disliked.
	assert.InDelta(t, 0.55, byID["svc-plumbing-2"], 1e-9)
	assert.InDelta(t, 0.50, byID["svc-tutoring-2"], 1e-9)
	assert.InDelta(t, 0.55, byID["svc-cleaning-1"], 1e-9)
}

func TestRecommendationService_MinRatingExemptsUnreviewed(t *testing.T) {
	serviceRepo := newFakeServiceRepo()
	serviceRepo.stats = []*entities.ServiceStats{
		statsFor("svc-low", "cat-cleaning", floatPtr(3.0), floatPtr(0.2), 5),
		statsFor("svc-high", "cat-cleaning", floatPtr(4.5), floatPtr(0.6), 5),
		statsFor("svc-unrated", "cat-cleaning", nil, nil, 0),
	}

	svc := NewRecommendationService(serviceRepo, newFakeReviewRepo(), recoConfig(), nil)
	minRating := 4.0
	recs, err := svc.GetRecommendations(context.Background(), "customer-1", RecommendationFilters{MinRating: &minRating})

	require.NoError(t, err)
	ids := map[string]bool{}
	for _, rec := range recs {
		ids[rec.ServiceID] = true
	}
	assert.False(t, ids["svc-low"])
	assert.True(t, ids["svc-high"])
	assert.True(t, ids["svc-unrated"], "services without reviews bypass the rating floor")
}

func TestRecommendationService_MaxPriceFailsOpen(t *testing.T) {
	affordable := statsFor("svc-cheap", "cat-cleaning", nil, nil, 0)
	affordable.Service.PriceRange = json.RawMessage(`{"min": 20, "max": 60}`)

	expensive := statsFor("svc-dear", "cat-cleaning", nil, nil, 0)
	expensive.Service.PriceRange = json.RawMessage(`{"min": 200, "max": 900}`)

	garbled := statsFor("svc-garbled", "cat-cleaning", nil, nil, 0)
	garbled.Service.PriceRange = json.RawMessage(`"call for pricing"`)

	serviceRepo := newFakeServiceRepo()
	serviceRepo.stats = []*entities.ServiceStats{affordable, expensive, garbled}

	svc := NewRecommendationService(serviceRepo, newFakeReviewRepo(), recoConfig(), nil)
	maxPrice := 100.0
	recs, err := svc.GetRecommendations(context.Background(), "customer-1", RecommendationFilters{MaxPrice: &maxPrice})

	require.NoError(t, err)
	ids := map[string]bool{}
	for _, rec := range recs {
		ids[rec.ServiceID] = true
	}
	assert.True(t, ids["svc-cheap"])
	assert.False(t, ids["svc-dear"])
	assert.True(t, ids["svc-garbled"], "unparseable price data must not hide a service")
}

func TestRecommendationService_ReviewedServicesExcludedByDefault(t *testing.T) {
	serviceRepo := newFakeServiceRepo()
	reviewRepo := newFakeReviewRepo()
	seedHistory(serviceRepo, reviewRepo, "r1", "svc-reviewed", "cat-cleaning", 5, floatPtr(0.9))

	serviceRepo.stats = []*entities.ServiceStats{
		statsFor("svc-reviewed", "cat-cleaning", floatPtr(5.0), floatPtr(0.9), 1),
		statsFor("svc-fresh", "cat-cleaning", nil, nil, 0),
	}

	svc := NewRecommendationService(serviceRepo, reviewRepo, recoConfig(), nil)

	recs, err := svc.GetRecommendations(context.Background(), "customer-1", RecommendationFilters{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "svc-fresh", recs[0].ServiceID)

	recs, err = svc.GetRecommendations(context.Background(), "customer-1", RecommendationFilters{IncludeReviewed: true})
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestRecommendationService_EqualScoresTieBreakByServiceID(t *testing.T) {
	serviceRepo := newFakeServiceRepo()
	serviceRepo.stats = []*entities.ServiceStats{
		statsFor("svc-b", "cat-cleaning", nil, nil, 0),
		statsFor("svc-a", "cat-cleaning", nil, nil, 0),
		statsFor("svc-c", "cat-cleaning", nil, nil, 0),
	}

	svc := NewRecommendationService(serviceRepo, newFakeReviewRepo(), recoConfig(), nil)
	recs, err := svc.GetRecommendations(context.Background(), "customer-1", RecommendationFilters{})

	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "svc-a", recs[0].ServiceID)
	assert.Equal(t, "svc-b", recs[1].ServiceID)
	assert.Equal(t, "svc-c", recs[2].ServiceID)
}

func TestRecommendationService_LimitClamping(t *testing.T) {
	serviceRepo := newFakeServiceRepo()
	for i := 0; i < 60; i++ {
		serviceRepo.stats = append(serviceRepo.stats,
			statsFor(string(rune('a'+i%26))+string(rune('0'+i/26)), "cat-cleaning", nil, nil, 0))
	}

	svc := NewRecommendationService(serviceRepo, newFakeReviewRepo(), recoConfig(), nil)

	recs, err := svc.GetRecommendations(context.Background(), "c", RecommendationFilters{})
	require.NoError(t, err)
	assert.Len(t, recs, 10, "zero limit falls back to the default")

	recs, err = svc.GetRecommendations(context.Background(), "c", RecommendationFilters{Limit: 200})
	require.NoError(t, err)
	assert.Len(t, recs, 50, "limit is capped at the maximum")

	recs, err = svc.GetRecommendations(context.Background(), "c", RecommendationFilters{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, recs, 5)
}

func TestRecommendationService_RepeatedCallsAreIdentical(t *testing.T) {
	serviceRepo := newFakeServiceRepo()
	reviewRepo := newFakeReviewRepo()
	seedHistory(serviceRepo, reviewRepo, "r1", "svc-old", "cat-plumbing", 4, floatPtr(0.3))
	serviceRepo.stats = []*entities.ServiceStats{
		statsFor("svc-1", "cat-plumbing", floatPtr(4.2), floatPtr(0.4), 7),
		statsFor("svc-2", "cat-cleaning", floatPtr(3.8), floatPtr(0.1), 2),
	}

	svc := NewRecommendationService(serviceRepo, reviewRepo, recoConfig(), nil)

	first, err := svc.GetRecommendations(context.Background(), "customer-1", RecommendationFilters{})
	require.NoError(t, err)
	second, err := svc.GetRecommendations(context.Background(), "customer-1", RecommendationFilters{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecommendationService_GetTrending(t *testing.T) {
	serviceRepo := newFakeServiceRepo()
	serviceRepo.statsSince = []*entities.ServiceStats{
		// 5.0 * 1.0 * (10/10) = 5.0
		statsFor("svc-hot", "cat-cleaning", floatPtr(5.0), floatPtr(1.0), 12),
		// 4.0 * 0.5 * (2/10) = 0.4 (missing sentiment is neutral)
		statsFor("svc-warm", "cat-cleaning", floatPtr(4.0), nil, 2),
	}

	svc := NewRecommendationService(serviceRepo, newFakeReviewRepo(), recoConfig(), nil)
	recs, err := svc.GetTrending(context.Background(), 30, 10)

	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "svc-hot", recs[0].ServiceID)
	assert.InDelta(t, 5.0, recs[0].RecommendationScore, 1e-9)
	assert.Equal(t, "svc-warm", recs[1].ServiceID)
	assert.InDelta(t, 0.4, recs[1].RecommendationScore, 1e-9)
}

func TestRecommendationService_TrendingExcludesReviewsOutsideWindow(t *testing.T) {
	serviceRepo := newFakeServiceRepo()
	serviceRepo.statsSince = []*entities.ServiceStats{
		statsFor("svc-recent", "cat-cleaning", floatPtr(4.0), floatPtr(0.5), 3),
		statsFor("svc-stale", "cat-cleaning", floatPtr(5.0), floatPtr(1.0), 8),
	}
	serviceRepo.statsSinceTimes = map[string]time.Time{
		"svc-recent": time.Now().AddDate(0, 0, -10),
		"svc-stale":  time.Now().AddDate(0, 0, -100),
	}

	svc := NewRecommendationService(serviceRepo, newFakeReviewRepo(), recoConfig(), nil)
	recs, err := svc.GetTrending(context.Background(), 30, 10)

	require.NoError(t, err)
	require.Len(t, recs, 1, "a service whose reviews all predate the window must not trend")
	assert.Equal(t, "svc-recent", recs[0].ServiceID)
}

func TestRecommendationService_TrendingWindow(t *testing.T) {
	serviceRepo := newFakeServiceRepo()
	svc := NewRecommendationService(serviceRepo, newFakeReviewRepo(), recoConfig(), nil)

	t.Run("default window when days is zero", func(t *testing.T) {
		_, err := svc.GetTrending(context.Background(), 0, 10)
		require.NoError(t, err)
		expected := time.Now().AddDate(0, 0, -30)
		assert.WithinDuration(t, expected, serviceRepo.lastCutoff, time.Minute)
	})

	t.Run("window capped at maximum", func(t *testing.T) {
		_, err := svc.GetTrending(context.Background(), 10000, 10)
		require.NoError(t, err)
		expected := time.Now().AddDate(0, 0, -365)
		assert.WithinDuration(t, expected, serviceRepo.lastCutoff, time.Minute)
	})
}
