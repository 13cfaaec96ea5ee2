package entities

import (
	"encoding/json"
	"time"
)

// Service represents a bookable service offered by a provider.
// AverageRating is denormalized and only ever written by the review
// aggregation transaction; 0 means "no reviews yet".
type Service struct {
	ID              string          `json:"id" db:"id"`
	ProviderID      string          `json:"provider_id" db:"provider_id"`
	CategoryID      string          `json:"category_id,omitempty" db:"category_id"`
	Name            string          `json:"name" db:"name"`
	Description     string          `json:"description" db:"description"`
	PriceRange      json.RawMessage `json:"price_range,omitempty" db:"price_range"`
	DurationMinutes int             `json:"duration_minutes" db:"duration_minutes"`
	AverageRating   float64         `json:"average_rating" db:"average_rating"`
	IsActive        bool            `json:"is_active" db:"is_active"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// ServiceStats is a service row joined with its review aggregates,
// the candidate shape the recommendation and trending scorers consume.
type ServiceStats struct {
	Service      Service
	AvgRating    *float64
	AvgSentiment *float64
	ReviewCount  int
	ProviderName string
	CategoryName string
}
