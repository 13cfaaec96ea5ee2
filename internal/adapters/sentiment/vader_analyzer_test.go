package sentiment

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVaderAnalyzer_Analyze(t *testing.T) {
	analyzer := NewVaderAnalyzer()

	t.Run("positive comment scores positive", func(t *testing.T) {
		score := analyzer.Analyze("Excellent service, the plumber was great and very professional!")
		assert.Greater(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	})

	t.Run("negative comment scores negative", func(t *testing.T) {
		score := analyzer.Analyze("Terrible experience, awful work and rude staff.")
		assert.Less(t, score, 0.0)
		assert.GreaterOrEqual(t, score, -1.0)
	})

	t.Run("empty comment is neutral", func(t *testing.T) {
		assert.Equal(t, 0.0, analyzer.Analyze(""))
		assert.Equal(t, 0.0, analyzer.Analyze("   "))
	})

	t.Run("score stays within bounds", func(t *testing.T) {
		comments := []string{
			"amazing amazing amazing best best best!!!",
			"worst worst worst horrible horrible horrible!!!",
			"the appointment was on a tuesday",
		}
		for _, c := range comments {
			score := analyzer.Analyze(c)
			assert.GreaterOrEqual(t, score, -1.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		first := analyzer.Analyze("Good value, arrived on time.")
		second := analyzer.Analyze("Good value, arrived on time.")
		assert.Equal(t, first, second)
	})
}

func TestVaderAnalyzer_ConcurrentUse(t *testing.T) {
	analyzer := NewVaderAnalyzer()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			score := analyzer.Analyze("Very helpful and friendly electrician.")
			assert.GreaterOrEqual(t, score, -1.0)
			assert.LessOrEqual(t, score, 1.0)
		}()
	}
	wg.Wait()
}
