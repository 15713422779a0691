package service

import (
	"math"

	"github.com/startupguru/startupguru/internal/domain"
)

const (
	topicBoost      = 0.1
	perResultBoost  = 0.02
	maxResultsBoost = 0.1
)

// scoreConfidence derives a scalar in [0,1] from retrieval results and the
// intent signal: the average similarity, boosted when a specific topic was
// detected and when multiple results agree. Zero results short-circuit to
// exactly 0.0 so "nothing found" is unambiguous and never divides by zero.
func scoreConfidence(results []domain.SearchResult, intent domain.IntentInfo) float64 {
	if len(results) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, r := range results {
		sum += r.Similarity
	}
	avg := sum / float64(len(results))

	boost := 0.0
	if intent.Topic != domain.TopicGeneral {
		boost += topicBoost
	}
	boost += math.Min(maxResultsBoost, perResultBoost*float64(len(results)))

	return math.Min(1.0, avg+boost)
}
