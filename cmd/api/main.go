package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lokafix/marketplace/backend/internal/adapters/cache"
	"github.com/lokafix/marketplace/backend/internal/adapters/database"
	"github.com/lokafix/marketplace/backend/internal/adapters/events"
	"github.com/lokafix/marketplace/backend/internal/adapters/search"
	"github.com/lokafix/marketplace/backend/internal/adapters/sentiment"
	"github.com/lokafix/marketplace/backend/internal/api/handlers"
	"github.com/lokafix/marketplace/backend/internal/api/routes"
	"github.com/lokafix/marketplace/backend/internal/application/services"
	"github.com/lokafix/marketplace/backend/internal/domain/providers"
	"github.com/lokafix/marketplace/backend/internal/domain/repositories"
	"github.com/lokafix/marketplace/backend/internal/infrastructure/clients/postgres"
	"github.com/lokafix/marketplace/backend/internal/infrastructure/clients/redis"
	"github.com/lokafix/marketplace/backend/internal/infrastructure/clients/typesense"
	"github.com/lokafix/marketplace/backend/internal/infrastructure/observability"
	"github.com/lokafix/marketplace/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// OpenTelemetry traces are optional; the service runs fine without a
	// collector.
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Redis is optional: without it the service runs uncached and
	// without the event bus.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without cache and event bus")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized")
	}

	// Typesense is optional: search falls back to database listings.
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("Typesense unavailable, search falls back to database")
		typesenseClient = nil
	} else {
		log.Info().Msg("Typesense client initialized")
	}

	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		defer eventBus.Close()
	}

	baseServiceAdapter := database.NewServiceAdapter(pgClient)
	var serviceRepo repositories.ServiceRepository = baseServiceAdapter
	var invalidator services.ServiceCacheInvalidator
	if cacheProvider != nil {
		cached := database.NewCachedServiceAdapter(baseServiceAdapter, cacheProvider)
		serviceRepo = cached
		invalidator = cached
	}

	reviewRepo := database.NewReviewAdapter(pgClient)
	providerRepo := database.NewProviderAdapter(pgClient)
	categoryRepo := database.NewCategoryAdapter(pgClient)
	userRepo := database.NewUserAdapter(pgClient)

	var searchRepo repositories.ServiceSearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to init Typesense schema")
		}
		searchRepo = adapter
	}

	analyzer := sentiment.NewVaderAnalyzer()

	catalogService := services.NewCatalogService(serviceRepo, searchRepo, eventBus)
	reviewService := services.NewReviewService(
		reviewRepo, serviceRepo, userRepo, searchRepo,
		analyzer, eventBus, invalidator, metrics,
	)
	recommendationService := services.NewRecommendationService(serviceRepo, reviewRepo, cfg.Recommendation, metrics)
	providerService := services.NewProviderService(providerRepo)
	categoryService := services.NewCategoryService(categoryRepo)

	router := routes.NewRouter(
		handlers.NewServiceHandler(catalogService),
		handlers.NewReviewHandler(reviewService),
		handlers.NewRecommendationHandler(recommendationService),
		handlers.NewProviderHandler(providerService),
		handlers.NewCategoryHandler(categoryService),
		metrics,
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
