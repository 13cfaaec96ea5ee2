package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/lokafix/marketplace/backend/internal/domain/entities"
	"github.com/lokafix/marketplace/backend/internal/domain/repositories"
	tsclient "github.com/lokafix/marketplace/backend/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter implements service catalog search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.ServiceSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the services collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(tsclient.ServicesCollection).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	schema := &api.CollectionSchema{
		Name: tsclient.ServicesCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "description", Type: "string", Optional: pointer.True()},
			{Name: "provider_id", Type: "string"},
			{Name: "category_id", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "average_rating", Type: "float", Facet: pointer.True()},
			{Name: "is_active", Type: "bool"},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index upserts a service document
func (a *TypesenseAdapter) Index(ctx context.Context, service *entities.Service) error {
	document := map[string]interface{}{
		"id":             service.ID,
		"name":           service.Name,
		"description":    service.Description,
		"provider_id":    service.ProviderID,
		"category_id":    service.CategoryID,
		"average_rating": service.AverageRating,
		"is_active":      service.IsActive,
		"created_at":     service.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(tsclient.ServicesCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index service: %w", err)
	}

	return nil
}

// Delete removes a service from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.ServicesCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete service from index: %w", err)
	}
	return nil
}

// Search finds active services by name/description, optionally scoped to
// a category
func (a *TypesenseAdapter) Search(ctx context.Context, query string, categoryID string, limit int) ([]*entities.Service, error) {
	if query == "" {
		query = "*"
	}
	if limit <= 0 {
		limit = 20
	}

	filterBy := "is_active:=true"
	if categoryID != "" {
		filterBy += fmt.Sprintf(" && category_id:=%s", categoryID)
	}

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(query),
		QueryBy:  pointer.String("name,description"),
		FilterBy: pointer.String(filterBy),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.ServicesCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search services: %w", err)
	}

	services := []*entities.Service{}
	if result.Hits == nil {
		return services, nil
	}

	for _, hit := range *result.Hits {
		doc := *hit.Document

		service := &entities.Service{}
		if v, ok := doc["id"].(string); ok {
			service.ID = v
		}
		if v, ok := doc["name"].(string); ok {
			service.Name = v
		}
		if v, ok := doc["description"].(string); ok {
			service.Description = v
		}
		if v, ok := doc["provider_id"].(string); ok {
			service.ProviderID = v
		}
		if v, ok := doc["category_id"].(string); ok {
			service.CategoryID = v
		}
		if v, ok := doc["average_rating"].(float64); ok {
			service.AverageRating = v
		}
		if v, ok := doc["is_active"].(bool); ok {
			service.IsActive = v
		}

		services = append(services, service)
	}

	return services, nil
}
