package entities

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// CatalogEventType represents the type of catalog change event
type CatalogEventType string

const (
	CatalogEventTypeServiceUpserted CatalogEventType = "service_upserted"
	CatalogEventTypeServiceDeleted  CatalogEventType = "service_deleted"
	CatalogEventTypeReviewCreated   CatalogEventType = "review_created"
	CatalogEventTypeReviewUpdated   CatalogEventType = "review_updated"
	CatalogEventTypeReviewDeleted   CatalogEventType = "review_deleted"
)

// CatalogEvent is published on every catalog mutation so the search
// indexer and cache layers can follow along without polling.
type CatalogEvent struct {
	ID            string                 `json:"id"`
	ServiceID     string                 `json:"service_id"`
	EventType     CatalogEventType       `json:"event_type"`
	Timestamp     time.Time              `json:"timestamp"`
	ChangedFields map[string]interface{} `json:"changed_fields,omitempty"`
}

// NewCatalogEvent creates a new catalog event
func NewCatalogEvent(serviceID string, eventType CatalogEventType, changedFields map[string]interface{}) *CatalogEvent {
	return &CatalogEvent{
		ID:            generateEventID(),
		ServiceID:     serviceID,
		EventType:     eventType,
		Timestamp:     time.Now(),
		ChangedFields: changedFields,
	}
}

func generateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomString(8)
}

func randomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		return time.Now().Format("150405.000")
	}
	return hex.EncodeToString(bytes)[:length]
}
