package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/lokafix/marketplace/backend/internal/domain/entities"
)

// CategoryOperations defines the taxonomy operations used by the handler
type CategoryOperations interface {
	Create(ctx context.Context, category *entities.ServiceCategory) error
	GetByID(ctx context.Context, id string) (*entities.ServiceCategory, error)
	List(ctx context.Context) ([]*entities.ServiceCategory, error)
}

// CategoryHandler handles service category endpoints
type CategoryHandler struct {
	service CategoryOperations
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(service CategoryOperations) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// ListCategories handles GET /api/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

// GetCategory handles GET /api/categories/{id}
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "category ID is required")
		return
	}

	category, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, category)
}

// CreateCategory handles POST /api/categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var category entities.ServiceCategory
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.service.Create(r.Context(), &category); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, category)
}
