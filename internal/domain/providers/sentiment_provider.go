package providers

// SentimentAnalyzer maps free-text review comments to a polarity score.
// Implementations must be deterministic, side-effect free, and safe for
// concurrent use.
type SentimentAnalyzer interface {
	// Analyze returns a score in [-1, 1]; -1 most negative, +1 most
	// positive, 0 neutral. Unknown tokens contribute neutrally and
	// empty text scores 0.
	Analyze(comment string) float64
}
