// Package sentiment provides the lexicon-based comment polarity analyzer
// used by the review pipeline.
package sentiment

import (
	"strings"
	"sync"

	"github.com/jonreiter/govader"

	"github.com/lokafix/marketplace/backend/internal/domain/providers"
)

// VaderAnalyzer scores review comments with VADER (Valence Aware
// Dictionary and sEntiment Reasoner). The compound score is already
// normalized to [-1, 1], matching the sentiment_score column. Pure
// in-process computation; no network or I/O.
type VaderAnalyzer struct {
	mu       sync.Mutex
	analyzer *govader.SentimentIntensityAnalyzer
}

var _ providers.SentimentAnalyzer = (*VaderAnalyzer)(nil)

// NewVaderAnalyzer creates a new VADER-backed analyzer
func NewVaderAnalyzer() *VaderAnalyzer {
	return &VaderAnalyzer{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
	}
}

// Analyze returns the compound polarity of the comment in [-1, 1].
// Blank text is neutral; unknown tokens contribute nothing.
func (v *VaderAnalyzer) Analyze(comment string) float64 {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return 0
	}

	// govader's analyzer keeps internal scratch state, so serialize access.
	v.mu.Lock()
	scores := v.analyzer.PolarityScores(comment)
	v.mu.Unlock()

	compound := scores.Compound
	if compound < -1 {
		compound = -1
	}
	if compound > 1 {
		compound = 1
	}
	return compound
}
