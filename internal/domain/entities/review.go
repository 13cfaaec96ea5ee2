package entities

import "time"

// Review represents a customer review of a service. A customer may hold
// at most one review per service.
type Review struct {
	ID             string     `json:"id" db:"id"`
	ServiceID      string     `json:"service_id" db:"service_id"`
	UserID         string     `json:"user_id" db:"user_id"`
	Rating         int        `json:"rating" db:"rating"` // 1-5
	Comment        string     `json:"comment" db:"comment"`
	SentimentScore *float64   `json:"sentiment_score,omitempty" db:"sentiment_score"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// ReviewWithAuthor is a review joined with the author's display name,
// used by the per-service review listing.
type ReviewWithAuthor struct {
	Review
	AuthorFirstName string `json:"user_first_name"`
}
