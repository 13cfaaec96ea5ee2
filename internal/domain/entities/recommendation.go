package entities

import "encoding/json"

// ServiceRecommendation is the scored row returned by the recommendation
// and trending endpoints.
type ServiceRecommendation struct {
	ServiceID           string          `json:"service_id"`
	Name                string          `json:"name"`
	Description         string          `json:"description,omitempty"`
	ProviderID          string          `json:"provider_id"`
	ProviderName        string          `json:"provider_name"`
	CategoryID          string          `json:"category_id,omitempty"`
	CategoryName        string          `json:"category_name,omitempty"`
	AverageRating       float64         `json:"average_rating"`
	SentimentScore      *float64        `json:"sentiment_score,omitempty"`
	RecommendationScore float64         `json:"recommendation_score"`
	PriceRange          json.RawMessage `json:"price_range,omitempty"`
}
