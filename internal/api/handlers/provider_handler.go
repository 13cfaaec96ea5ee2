package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/lokafix/marketplace/backend/internal/api/middleware"
	"github.com/lokafix/marketplace/backend/internal/domain/entities"
)

// ProviderOperations defines the provider operations used by the handler
type ProviderOperations interface {
	Create(ctx context.Context, provider *entities.ServiceProvider) error
	GetByID(ctx context.Context, id string) (*entities.ServiceProvider, error)
	List(ctx context.Context, limit, offset int) ([]*entities.ServiceProvider, error)
}

// ProviderHandler handles service provider endpoints
type ProviderHandler struct {
	service ProviderOperations
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(service ProviderOperations) *ProviderHandler {
	return &ProviderHandler{service: service}
}

// ListProviders handles GET /api/providers
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r, 20, 100)

	providerList, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"providers": providerList,
		"count":     len(providerList),
	})
}

// GetProvider handles GET /api/providers/{id}
func (h *ProviderHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	provider, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, provider)
}

// CreateProvider handles POST /api/providers
func (h *ProviderHandler) CreateProvider(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var provider entities.ServiceProvider
	if err := json.NewDecoder(r.Body).Decode(&provider); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	provider.UserID = userID

	if err := h.service.Create(r.Context(), &provider); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, provider)
}
