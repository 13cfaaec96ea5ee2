package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/lokafix/marketplace/backend/internal/api/middleware"
	"github.com/lokafix/marketplace/backend/internal/application/services"
	"github.com/lokafix/marketplace/backend/internal/domain/entities"
)

// ReviewOperations defines the review operations used by the handler
type ReviewOperations interface {
	Submit(ctx context.Context, userID string, input services.SubmitReviewInput) (*entities.Review, error)
	Update(ctx context.Context, actorID, reviewID string, input services.UpdateReviewInput) (*entities.Review, error)
	Delete(ctx context.Context, actorID, reviewID string) error
	ListByService(ctx context.Context, serviceID string, limit, offset int) ([]*entities.ReviewWithAuthor, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.Review, error)
}

// ReviewHandler handles review endpoints
type ReviewHandler struct {
	service ReviewOperations
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service ReviewOperations) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// SubmitReview handles POST /api/reviews
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var input services.SubmitReviewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if input.ServiceID == "" {
		respondWithError(w, http.StatusBadRequest, "service_id is required")
		return
	}

	review, err := h.service.Submit(r.Context(), userID, input)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, review)
}

// UpdateReview handles PATCH /api/reviews/{id}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	reviewID := r.PathValue("id")
	if reviewID == "" {
		respondWithError(w, http.StatusBadRequest, "review ID is required")
		return
	}

	var input services.UpdateReviewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if input.Rating == nil && input.Comment == nil {
		respondWithError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	review, err := h.service.Update(r.Context(), userID, reviewID, input)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, review)
}

// DeleteReview handles DELETE /api/reviews/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	reviewID := r.PathValue("id")
	if reviewID == "" {
		respondWithError(w, http.StatusBadRequest, "review ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), userID, reviewID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListServiceReviews handles GET /api/services/{id}/reviews
func (h *ReviewHandler) ListServiceReviews(w http.ResponseWriter, r *http.Request) {
	serviceID := r.PathValue("id")
	if serviceID == "" {
		respondWithError(w, http.StatusBadRequest, "service ID is required")
		return
	}

	limit, offset := parsePagination(r, 20, 100)

	reviews, err := h.service.ListByService(r.Context(), serviceID, limit, offset)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// ListMyReviews handles GET /api/users/me/reviews
func (h *ReviewHandler) ListMyReviews(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit, offset := parsePagination(r, 20, 100)

	reviews, err := h.service.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"count":   len(reviews),
	})
}
