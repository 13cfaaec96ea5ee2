package handlers

import (
	"context"
	"net/http"

	"github.com/lokafix/marketplace/backend/internal/api/middleware"
	"github.com/lokafix/marketplace/backend/internal/application/services"
	"github.com/lokafix/marketplace/backend/internal/domain/entities"
)

// RecommendationOperations defines the scoring operations used by the
// handler
type RecommendationOperations interface {
	GetRecommendations(ctx context.Context, customerID string, filters services.RecommendationFilters) ([]*entities.ServiceRecommendation, error)
	GetTrending(ctx context.Context, days, limit int) ([]*entities.ServiceRecommendation, error)
}

// RecommendationHandler handles recommendation endpoints
type RecommendationHandler struct {
	service RecommendationOperations
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(service RecommendationOperations) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

// GetRecommendations handles GET /api/recommendations
func (h *RecommendationHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	minRating, err := parseFloatParam(r, "min_rating")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	maxPrice, err := parseFloatParam(r, "max_price")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	includeReviewed, err := parseBoolParam(r, "include_reviewed")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := parseIntParam(r, "limit")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	filters := services.RecommendationFilters{
		CategoryID:      r.URL.Query().Get("category_id"),
		MinRating:       minRating,
		MaxPrice:        maxPrice,
		IncludeReviewed: includeReviewed,
		Limit:           limit,
	}

	if filters.MinRating != nil && (*filters.MinRating < 0 || *filters.MinRating > 5) {
		respondWithError(w, http.StatusBadRequest, "min_rating must be between 0 and 5")
		return
	}
	if filters.MaxPrice != nil && *filters.MaxPrice < 0 {
		respondWithError(w, http.StatusBadRequest, "max_price must not be negative")
		return
	}

	recommendations, err := h.service.GetRecommendations(r.Context(), userID, filters)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": recommendations,
		"count":           len(recommendations),
	})
}

// GetTrending handles GET /api/recommendations/trending
func (h *RecommendationHandler) GetTrending(w http.ResponseWriter, r *http.Request) {
	days, err := parseIntParam(r, "days")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if days < 0 {
		respondWithError(w, http.StatusBadRequest, "days must not be negative")
		return
	}
	limit, err := parseIntParam(r, "limit")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	trending, err := h.service.GetTrending(r.Context(), days, limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"trending": trending,
		"count":    len(trending),
	})
}
