package entities

import "time"

// ServiceProvider represents a business offering services on the
// marketplace. The rating/sentiment/review-count aggregates are
// informational mirrors of its services' reviews, refreshed inside the
// same transaction that recomputes a service average.
type ServiceProvider struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	BusinessName   string    `json:"business_name" db:"business_name"`
	Description    string    `json:"description" db:"description"`
	ContactPhone   string    `json:"contact_phone" db:"contact_phone"`
	Address        string    `json:"address" db:"address"`
	AverageRating  float64   `json:"average_rating" db:"average_rating"`
	SentimentScore float64   `json:"sentiment_score" db:"sentiment_score"`
	TotalReviews   int       `json:"total_reviews" db:"total_reviews"`
	IsVerified     bool      `json:"is_verified" db:"is_verified"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
