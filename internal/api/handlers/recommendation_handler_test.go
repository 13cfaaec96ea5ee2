package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokafix/marketplace/backend/internal/api/middleware"
	"github.com/lokafix/marketplace/backend/internal/application/services"
	"github.com/lokafix/marketplace/backend/internal/domain/entities"
	apperrors "github.com/lokafix/marketplace/backend/pkg/errors"
)

type stubRecommendationOps struct {
	recs        []*entities.ServiceRecommendation
	trending    []*entities.ServiceRecommendation
	err         error
	lastUserID  string
	lastFilters services.RecommendationFilters
	lastDays    int
	lastLimit   int
}

func (s *stubRecommendationOps) GetRecommendations(ctx context.Context, customerID string, filters services.RecommendationFilters) ([]*entities.ServiceRecommendation, error) {
	s.lastUserID = customerID
	s.lastFilters = filters
	return s.recs, s.err
}

func (s *stubRecommendationOps) GetTrending(ctx context.Context, days, limit int) ([]*entities.ServiceRecommendation, error) {
	s.lastDays = days
	s.lastLimit = limit
	return s.trending, s.err
}

func serveRecommendation(h *RecommendationHandler, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/recommendations", h.GetRecommendations)
	mux.HandleFunc("GET /api/recommendations/trending", h.GetTrending)

	rr := httptest.NewRecorder()
	middleware.IdentityMiddleware(mux).ServeHTTP(rr, req)
	return rr
}

func TestRecommendationHandler_GetRecommendations(t *testing.T) {
	t.Run("returns scored services for authenticated caller", func(t *testing.T) {
		stub := &stubRecommendationOps{recs: []*entities.ServiceRecommendation{
			{ServiceID: "svc-1", Name: "Deep Clean", RecommendationScore: 0.655},
		}}
		h := NewRecommendationHandler(stub)

		req := httptest.NewRequest(http.MethodGet, "/api/recommendations?limit=5&min_rating=4&include_reviewed=true", nil)
		req.Header.Set(middleware.HeaderUserID, "customer-1")

		rr := serveRecommendation(h, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "customer-1", stub.lastUserID)
		assert.Equal(t, 5, stub.lastFilters.Limit)
		require.NotNil(t, stub.lastFilters.MinRating)
		assert.Equal(t, 4.0, *stub.lastFilters.MinRating)
		assert.True(t, stub.lastFilters.IncludeReviewed)

		var body struct {
			Recommendations []entities.ServiceRecommendation `json:"recommendations"`
			Count           int                              `json:"count"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Count)
		assert.InDelta(t, 0.655, body.Recommendations[0].RecommendationScore, 1e-9)
	})

	t.Run("anonymous caller is unauthorized", func(t *testing.T) {
		h := NewRecommendationHandler(&stubRecommendationOps{})

		req := httptest.NewRequest(http.MethodGet, "/api/recommendations", nil)
		rr := serveRecommendation(h, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("out of range min_rating is rejected", func(t *testing.T) {
		h := NewRecommendationHandler(&stubRecommendationOps{})

		req := httptest.NewRequest(http.MethodGet, "/api/recommendations?min_rating=9", nil)
		req.Header.Set(middleware.HeaderUserID, "customer-1")

		rr := serveRecommendation(h, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed filter values are rejected", func(t *testing.T) {
		for _, query := range []string{
			"max_price=abc",
			"min_rating=four",
			"limit=ten",
			"include_reviewed=maybe",
		} {
			stub := &stubRecommendationOps{}
			h := NewRecommendationHandler(stub)

			req := httptest.NewRequest(http.MethodGet, "/api/recommendations?"+query, nil)
			req.Header.Set(middleware.HeaderUserID, "customer-1")

			rr := serveRecommendation(h, req)
			assert.Equal(t, http.StatusBadRequest, rr.Code, "query=%s", query)
			assert.Empty(t, stub.lastUserID, "scoring must not run for query=%s", query)
		}
	})

	t.Run("store outage maps to service unavailable", func(t *testing.T) {
		stub := &stubRecommendationOps{err: apperrors.NewUnavailableError("database down", nil)}
		h := NewRecommendationHandler(stub)

		req := httptest.NewRequest(http.MethodGet, "/api/recommendations", nil)
		req.Header.Set(middleware.HeaderUserID, "customer-1")

		rr := serveRecommendation(h, req)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

func TestRecommendationHandler_GetTrending(t *testing.T) {
	t.Run("works without authentication", func(t *testing.T) {
		stub := &stubRecommendationOps{trending: []*entities.ServiceRecommendation{
			{ServiceID: "svc-hot", RecommendationScore: 5.0},
		}}
		h := NewRecommendationHandler(stub)

		req := httptest.NewRequest(http.MethodGet, "/api/recommendations/trending?days=7&limit=3", nil)
		rr := serveRecommendation(h, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 7, stub.lastDays)
		assert.Equal(t, 3, stub.lastLimit)
	})

	t.Run("malformed days is rejected", func(t *testing.T) {
		h := NewRecommendationHandler(&stubRecommendationOps{})

		req := httptest.NewRequest(http.MethodGet, "/api/recommendations/trending?days=week", nil)
		rr := serveRecommendation(h, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("negative days is rejected", func(t *testing.T) {
		h := NewRecommendationHandler(&stubRecommendationOps{})

		req := httptest.NewRequest(http.MethodGet, "/api/recommendations/trending?days=-5", nil)
		rr := serveRecommendation(h, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
