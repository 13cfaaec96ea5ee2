package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/lokafix/marketplace/backend/internal/application/services"
	"github.com/lokafix/marketplace/backend/internal/domain/entities"
	"github.com/lokafix/marketplace/backend/internal/domain/repositories"
)

// CatalogOperations defines the catalog operations used by the handler
type CatalogOperations interface {
	Create(ctx context.Context, service *entities.Service) error
	GetByID(ctx context.Context, id string) (*entities.Service, error)
	Update(ctx context.Context, service *entities.Service) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter repositories.ServiceFilter) ([]*entities.Service, error)
	Search(ctx context.Context, query, categoryID string, limit int) ([]*entities.Service, error)
}

// ServiceHandler handles service catalog endpoints
type ServiceHandler struct {
	service CatalogOperations
}

// NewServiceHandler creates a new service handler
func NewServiceHandler(service CatalogOperations) *ServiceHandler {
	return &ServiceHandler{service: service}
}

// ListServices handles GET /api/services
func (h *ServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r, 20, 100)
	active := true

	filter := repositories.ServiceFilter{
		ProviderID: r.URL.Query().Get("provider_id"),
		CategoryID: r.URL.Query().Get("category_id"),
		IsActive:   &active,
		Limit:      limit,
		Offset:     offset,
	}

	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"services": list,
		"count":    len(list),
	})
}

// SearchServices handles GET /api/services/search
func (h *ServiceHandler) SearchServices(w http.ResponseWriter, r *http.Request) {
	limit, _ := parsePagination(r, 20, 100)

	results, err := h.service.Search(r.Context(), r.URL.Query().Get("q"), r.URL.Query().Get("category_id"), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"services": results,
		"count":    len(results),
	})
}

// GetService handles GET /api/services/{id}
func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "service ID is required")
		return
	}

	service, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, service)
}

// CreateService handles POST /api/services
func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var service entities.Service
	if err := json.NewDecoder(r.Body).Decode(&service); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.service.Create(r.Context(), &service); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, service)
}

// UpdateService handles PATCH /api/services/{id}
func (h *ServiceHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "service ID is required")
		return
	}

	existing, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	var patch struct {
		Name            *string          `json:"name"`
		Description     *string          `json:"description"`
		CategoryID      *string          `json:"category_id"`
		PriceRange      *json.RawMessage `json:"price_range"`
		DurationMinutes *int             `json:"duration_minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if patch.Name != nil {
		existing.Name = *patch.Name
	}
	if patch.Description != nil {
		existing.Description = *patch.Description
	}
	if patch.CategoryID != nil {
		existing.CategoryID = *patch.CategoryID
	}
	if patch.PriceRange != nil {
		existing.PriceRange = *patch.PriceRange
	}
	if patch.DurationMinutes != nil {
		existing.DurationMinutes = *patch.DurationMinutes
	}

	if err := h.service.Update(r.Context(), existing); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, existing)
}

// DeleteService handles DELETE /api/services/{id}
func (h *ServiceHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "service ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

var _ CatalogOperations = (*services.CatalogService)(nil)
