package services

import (
	"github.com/lokafix/marketplace/backend/internal/domain/entities"
)

// Preference estimation constants. A review's contribution to its
// service's category is (rating/5) * max(0, sentiment); a review with
// no sentiment score contributes at half strength.
const (
	missingSentimentMultiplier = 0.5
	neutralAffinity            = 1.0
)

// preferenceEstimator accumulates a customer's per-category affinity
// from their review history. Zero value is ready to use.
type preferenceEstimator struct {
	weights map[string]float64
}

func newPreferenceEstimator() *preferenceEstimator {
	return &preferenceEstimator{weights: make(map[string]float64)}
}

// Observe folds one of the customer's reviews into the accumulator.
// Reviews for services without a category, or for services that no
// longer resolve, are skipped by passing categoryID == "".
func (p *preferenceEstimator) Observe(review *entities.Review, categoryID string) {
	if categoryID == "" {
		return
	}

	multiplier := missingSentimentMultiplier
	if review.SentimentScore != nil {
		s := *review.SentimentScore
		if s < 0 {
			s = 0
		}
		multiplier = s
	}

	p.weights[categoryID] += (float64(review.Rating) / 5.0) * multiplier
}

// Affinity returns the normalized affinity for a category in [0, 1],
// scaled so the customer's strongest category maps to 1. A category the
// customer has never reviewed carries no signal and stays neutral;
// a category observed only through non-positive reviews, while the
// customer has positive signal elsewhere, scores 0. A customer whose
// whole history is non-positive is treated as indifferent everywhere.
func (p *preferenceEstimator) Affinity(categoryID string) float64 {
	weight, seen := p.weights[categoryID]
	if !seen {
		return neutralAffinity
	}

	max := 0.0
	for _, w := range p.weights {
		if w > max {
			max = w
		}
	}
	if max == 0 {
		return neutralAffinity
	}
	return weight / max
}
