package main

import (
	"context"
	"flag"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lokafix/marketplace/backend/internal/adapters/database"
	"github.com/lokafix/marketplace/backend/internal/adapters/events"
	"github.com/lokafix/marketplace/backend/internal/adapters/search"
	"github.com/lokafix/marketplace/backend/internal/domain/entities"
	"github.com/lokafix/marketplace/backend/internal/domain/providers"
	"github.com/lokafix/marketplace/backend/internal/domain/repositories"
	"github.com/lokafix/marketplace/backend/internal/infrastructure/clients/postgres"
	"github.com/lokafix/marketplace/backend/internal/infrastructure/clients/redis"
	"github.com/lokafix/marketplace/backend/internal/infrastructure/clients/typesense"
	"github.com/lokafix/marketplace/backend/internal/infrastructure/observability"
	"github.com/lokafix/marketplace/backend/pkg/config"
)

const reindexBatchSize = 200

// The indexer keeps the Typesense catalog in sync with Postgres: a full
// sweep on startup (and optionally on an interval), plus live updates
// from the catalog event stream when -follow is set.
func main() {
	var follow bool
	var intervalFlag string
	flag.BoolVar(&follow, "follow", false, "subscribe to catalog events and index incrementally")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for full reindexing (e.g. 6h, 30m)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger("marketplace-indexer", cfg.Server.Env)

	var interval time.Duration
	if v := strings.TrimSpace(intervalFlag); v != "" {
		interval, err = time.ParseDuration(v)
		if err != nil || interval <= 0 {
			log.Fatal().Str("interval", v).Msg("invalid interval")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Typesense client")
	}

	serviceRepo := database.NewServiceAdapter(pgClient)
	searchRepo := search.NewTypesenseAdapter(typesenseClient)
	if err := searchRepo.InitSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to init Typesense schema")
	}

	if follow {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Redis client for -follow")
		}
		defer redisClient.Close()

		bus := events.NewRedisEventBus(redisClient)
		defer bus.Close()

		go followEvents(ctx, bus, serviceRepo, searchRepo)
	}

	for {
		if err := reindexAll(ctx, serviceRepo, searchRepo); err != nil {
			log.Error().Err(err).Msg("reindex failed")
		}

		if interval <= 0 && !follow {
			return
		}

		wait := interval
		if wait <= 0 {
			// Follow-only mode: block until shutdown.
			<-ctx.Done()
			log.Info().Msg("indexer shutting down")
			return
		}

		select {
		case <-ctx.Done():
			log.Info().Msg("indexer shutting down")
			return
		case <-time.After(wait):
		}
	}
}

// reindexAll sweeps every active service into the search index in batches
func reindexAll(ctx context.Context, serviceRepo repositories.ServiceRepository, searchRepo repositories.ServiceSearchRepository) error {
	active := true
	indexed := 0

	for offset := 0; ; offset += reindexBatchSize {
		batch, err := serviceRepo.List(ctx, repositories.ServiceFilter{
			IsActive: &active,
			Limit:    reindexBatchSize,
			Offset:   offset,
		})
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			break
		}

		for _, service := range batch {
			if err := searchRepo.Index(ctx, service); err != nil {
				log.Warn().Err(err).Str("service_id", service.ID).Msg("failed to index service")
				continue
			}
			indexed++
		}

		if len(batch) < reindexBatchSize {
			break
		}
	}

	log.Info().Int("indexed", indexed).Msg("full reindex complete")
	return nil
}

// followEvents applies catalog events to the index as they arrive
func followEvents(ctx context.Context, bus providers.EventBus, serviceRepo repositories.ServiceRepository, searchRepo repositories.ServiceSearchRepository) {
	ch, err := bus.Subscribe(ctx, events.ChannelCatalog)
	if err != nil {
		log.Error().Err(err).Msg("failed to subscribe to catalog events")
		return
	}
	log.Info().Str("channel", events.ChannelCatalog).Msg("following catalog events")

	for event := range ch {
		switch event.EventType {
		case entities.CatalogEventTypeServiceDeleted:
			if err := searchRepo.Delete(ctx, event.ServiceID); err != nil {
				log.Warn().Err(err).Str("service_id", event.ServiceID).Msg("failed to remove service from index")
			}
		default:
			// Upserts and review changes both refresh the document; the
			// denormalized rating lives on the service row.
			service, err := serviceRepo.GetByID(ctx, event.ServiceID)
			if err != nil {
				log.Debug().Err(err).Str("service_id", event.ServiceID).Msg("service not resolvable, skipping")
				continue
			}
			if err := searchRepo.Index(ctx, service); err != nil {
				log.Warn().Err(err).Str("service_id", event.ServiceID).Msg("failed to index service")
			}
		}
	}
}
