package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lokafix/marketplace/backend/internal/domain/entities"
)

func review(rating int, sentiment *float64) *entities.Review {
	return &entities.Review{Rating: rating, SentimentScore: sentiment}
}

func TestPreferenceEstimator(t *testing.T) {
	t.Run("weights scale with rating and sentiment", func(t *testing.T) {
		e := newPreferenceEstimator()
		e.Observe(review(5, floatPtr(1.0)), "cat-a") // weight 1.0
		e.Observe(review(4, floatPtr(0.5)), "cat-b") // weight 0.4

		assert.InDelta(t, 1.0, e.Affinity("cat-a"), 1e-9)
		assert.InDelta(t, 0.4, e.Affinity("cat-b"), 1e-9)
	})

	t.Run("negative sentiment contributes nothing", func(t *testing.T) {
		e := newPreferenceEstimator()
		e.Observe(review(5, floatPtr(-0.8)), "cat-a")
		e.Observe(review(3, floatPtr(0.5)), "cat-b")

		assert.InDelta(t, 0.0, e.Affinity("cat-a"), 1e-9)
		assert.InDelta(t, 1.0, e.Affinity("cat-b"), 1e-9)
	})

	t.Run("missing sentiment counts at half strength", func(t *testing.T) {
		e := newPreferenceEstimator()
		e.Observe(review(5, nil), "cat-a")        // 1.0 * 0.5 = 0.5
		e.Observe(review(5, floatPtr(1)), "cat-b") // 1.0

		assert.InDelta(t, 0.5, e.Affinity("cat-a"), 1e-9)
	})

	t.Run("repeat reviews in a category accumulate", func(t *testing.T) {
		e := newPreferenceEstimator()
		e.Observe(review(5, floatPtr(0.5)), "cat-a")
		e.Observe(review(5, floatPtr(0.5)), "cat-a")
		e.Observe(review(5, floatPtr(0.6)), "cat-b")

		assert.InDelta(t, 1.0, e.Affinity("cat-a"), 1e-9)
		assert.InDelta(t, 0.6, e.Affinity("cat-b"), 1e-9)
	})

	t.Run("unreviewed category is neutral despite other history", func(t *testing.T) {
		e := newPreferenceEstimator()
		e.Observe(review(5, floatPtr(1.0)), "cat-a")

		assert.Equal(t, neutralAffinity, e.Affinity("cat-never-seen"))
		assert.InDelta(t, 1.0, e.Affinity("cat-a"), 1e-9)
	})

	t.Run("no history is indifferent", func(t *testing.T) {
		e := newPreferenceEstimator()
		assert.Equal(t, neutralAffinity, e.Affinity("cat-a"))
	})

	t.Run("all-negative history is indifferent", func(t *testing.T) {
		e := newPreferenceEstimator()
		e.Observe(review(1, floatPtr(-0.9)), "cat-a")
		e.Observe(review(2, floatPtr(-0.4)), "cat-b")

		assert.Equal(t, neutralAffinity, e.Affinity("cat-a"))
		assert.Equal(t, neutralAffinity, e.Affinity("cat-c"))
	})

	t.Run("uncategorized reviews are skipped", func(t *testing.T) {
		e := newPreferenceEstimator()
		e.Observe(review(5, floatPtr(1.0)), "")
		assert.Equal(t, neutralAffinity, e.Affinity("cat-a"))
	})

	t.Run("affinity never negative", func(t *testing.T) {
		e := newPreferenceEstimator()
		e.Observe(review(1, floatPtr(-1.0)), "cat-a")
		e.Observe(review(5, floatPtr(1.0)), "cat-b")

		assert.GreaterOrEqual(t, e.Affinity("cat-a"), 0.0)
		assert.GreaterOrEqual(t, e.Affinity("cat-b"), 0.0)
	})
}
