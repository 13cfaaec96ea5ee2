package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/lokafix/marketplace/backend/internal/adapters/database"
	"github.com/lokafix/marketplace/backend/internal/adapters/search"
	"github.com/lokafix/marketplace/backend/internal/adapters/sentiment"
	"github.com/lokafix/marketplace/backend/internal/application/services"
	"github.com/lokafix/marketplace/backend/internal/domain/entities"
	"github.com/lokafix/marketplace/backend/internal/domain/repositories"
	"github.com/lokafix/marketplace/backend/internal/infrastructure/clients/postgres"
	"github.com/lokafix/marketplace/backend/internal/infrastructure/clients/typesense"
	"github.com/lokafix/marketplace/backend/pkg/config"
)

// Development seed: a few categories, providers and services, plus
// reviews submitted through the review service so sentiment scores and
// rating aggregates come out exactly as they would in production.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	var searchRepo *search.TypesenseAdapter
	if err == nil {
		searchRepo = search.NewTypesenseAdapter(tsClient)
		if err := searchRepo.InitSchema(context.Background()); err != nil {
			log.Printf("Failed to init search schema: %v", err)
		}
	}

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				reviews,
				services,
				service_providers,
				service_categories,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	serviceRepo := database.NewServiceAdapter(pgClient)
	reviewRepo := database.NewReviewAdapter(pgClient)
	providerRepo := database.NewProviderAdapter(pgClient)
	categoryRepo := database.NewCategoryAdapter(pgClient)
	userRepo := database.NewUserAdapter(pgClient)

	catalogService := services.NewCatalogService(serviceRepo, seedSearchRepo(searchRepo), nil)
	reviewService := services.NewReviewService(
		reviewRepo, serviceRepo, userRepo, seedSearchRepo(searchRepo),
		sentiment.NewVaderAnalyzer(), nil, nil, nil,
	)

	// 1. Categories
	categories := map[string]*entities.ServiceCategory{
		"cleaning": {ID: uuid.New().String(), Name: "Home Cleaning", Description: "Residential cleaning services"},
		"plumbing": {ID: uuid.New().String(), Name: "Plumbing", Description: "Repairs and installations"},
		"tutoring": {ID: uuid.New().String(), Name: "Tutoring", Description: "Private lessons"},
	}
	for _, c := range categories {
		if err := categoryRepo.Create(ctx, c); err != nil {
			log.Printf("Failed to create category %s: %v", c.Name, err)
		}
	}

	// 2. Users (customers and provider owners)
	dialect := goqu.Dialect("postgres")
	users := []map[string]interface{}{
		{"id": "11111111-1111-1111-1111-111111111111", "email": "amina@example.com", "role": entities.RoleCustomer, "first_name": "Amina", "last_name": "Diallo"},
		{"id": "22222222-2222-2222-2222-222222222222", "email": "kofi@example.com", "role": entities.RoleCustomer, "first_name": "Kofi", "last_name": "Mensah"},
		{"id": "33333333-3333-3333-3333-333333333333", "email": "owner@sparkle.example.com", "role": entities.RoleProvider, "first_name": "Ngozi", "last_name": "Okafor"},
		{"id": "44444444-4444-4444-4444-444444444444", "email": "owner@pipes.example.com", "role": entities.RoleProvider, "first_name": "Tunde", "last_name": "Bello"},
	}
	for _, u := range users {
		u["is_active"] = true
		u["created_at"] = time.Now()
		query, args, err := dialect.Insert("users").Rows(u).ToSQL()
		if err != nil {
			log.Fatalf("Failed to build user insert: %v", err)
		}
		if _, err := pgClient.DB().ExecContext(ctx, query, args...); err != nil {
			log.Printf("Failed to create user %v: %v", u["email"], err)
		}
	}

	// 3. Providers
	providers := []*entities.ServiceProvider{
		{ID: uuid.New().String(), UserID: "33333333-3333-3333-3333-333333333333", BusinessName: "Sparkle Cleaners", Description: "Deep cleans and regular upkeep", IsVerified: true, CreatedAt: time.Now()},
		{ID: uuid.New().String(), UserID: "44444444-4444-4444-4444-444444444444", BusinessName: "Pipes & Sons", Description: "Emergency plumbing around the clock", IsVerified: true, CreatedAt: time.Now()},
	}
	for _, p := range providers {
		if err := providerRepo.Create(ctx, p); err != nil {
			log.Printf("Failed to create provider %s: %v", p.BusinessName, err)
		}
	}

	// 4. Services
	serviceIDs := []string{}
	seedServices := []*entities.Service{
		{ProviderID: providers[0].ID, CategoryID: categories["cleaning"].ID, Name: "Standard Apartment Clean", Description: "Two-bedroom apartment, supplies included", PriceRange: json.RawMessage(`{"min": 40, "max": 80}`), DurationMinutes: 120},
		{ProviderID: providers[0].ID, CategoryID: categories["cleaning"].ID, Name: "Move-Out Deep Clean", Description: "Full deep clean for end of tenancy", PriceRange: json.RawMessage(`{"min": 120, "max": 250}`), DurationMinutes: 300},
		{ProviderID: providers[1].ID, CategoryID: categories["plumbing"].ID, Name: "Leak Repair", Description: "Diagnosis and repair of household leaks", PriceRange: json.RawMessage(`{"min": 60, "max": 150}`), DurationMinutes: 90},
	}
	for _, s := range seedServices {
		if err := catalogService.Create(ctx, s); err != nil {
			log.Printf("Failed to create service %s: %v", s.Name, err)
			continue
		}
		serviceIDs = append(serviceIDs, s.ID)
	}

	// 5. Reviews, routed through the review service for real sentiment
	reviews := []struct {
		userID  string
		service int
		rating  int
		comment string
	}{
		{"11111111-1111-1111-1111-111111111111", 0, 5, "Fantastic job, the apartment has never looked better!"},
		{"22222222-2222-2222-2222-222222222222", 0, 4, "Good thorough clean, arrived a little late though."},
		{"11111111-1111-1111-1111-111111111111", 2, 2, "Leak came back after two days, disappointing work."},
	}
	for _, r := range reviews {
		if r.service >= len(serviceIDs) {
			continue
		}
		_, err := reviewService.Submit(ctx, r.userID, services.SubmitReviewInput{
			ServiceID: serviceIDs[r.service],
			Rating:    r.rating,
			Comment:   r.comment,
		})
		if err != nil {
			log.Printf("Failed to create review: %v", err)
		}
	}

	log.Printf("Seed complete: %d categories, %d providers, %d services, %d reviews",
		len(categories), len(providers), len(serviceIDs), len(reviews))
}

// seedSearchRepo avoids handing a typed nil pointer to an interface field
func seedSearchRepo(repo *search.TypesenseAdapter) repositories.ServiceSearchRepository {
	if repo == nil {
		return nil
	}
	return repo
}
