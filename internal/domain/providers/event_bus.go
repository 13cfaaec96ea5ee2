package providers

import (
	"context"

	"github.com/lokafix/marketplace/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// catalog change events
type EventBus interface {
	Publish(ctx context.Context, channel string, event *entities.CatalogEvent) error
	Subscribe(ctx context.Context, channel string) (<-chan *entities.CatalogEvent, error)
	Close() error
}
