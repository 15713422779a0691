package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/startupguru/startupguru/internal/domain"
)

func resultsWithSimilarity(sims ...float64) []domain.SearchResult {
	out := make([]domain.SearchResult, len(sims))
	for i, s := range sims {
		out[i] = domain.SearchResult{Similarity: s}
	}
	return out
}

func TestConfidenceZeroResultsIsExactlyZero(t *testing.T) {
	got := scoreConfidence(nil, domain.IntentInfo{Topic: domain.TopicGeneral})
	assert.Equal(t, 0.0, got)
}

func TestConfidenceAverageWithResultCountBoost(t *testing.T) {
	got := scoreConfidence(resultsWithSimilarity(0.5, 0.5), domain.IntentInfo{Topic: domain.TopicGeneral})
	assert.InDelta(t, 0.54, got, 1e-9)
}

func TestConfidenceTopicBoost(t *testing.T) {
	general := scoreConfidence(resultsWithSimilarity(0.5, 0.5), domain.IntentInfo{Topic: domain.TopicGeneral})
	specific := scoreConfidence(resultsWithSimilarity(0.5, 0.5), domain.IntentInfo{Topic: "funding"})
	assert.InDelta(t, 0.1, specific-general, 1e-9)
}

func TestConfidenceResultBoostIsCapped(t *testing.T) {
	got := scoreConfidence(resultsWithSimilarity(0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5), domain.IntentInfo{Topic: domain.TopicGeneral})
	assert.InDelta(t, 0.6, got, 1e-9)
}

func TestConfidenceNeverExceedsOne(t *testing.T) {
	got := scoreConfidence(resultsWithSimilarity(0.99, 0.99), domain.IntentInfo{Topic: "funding"})
	assert.Equal(t, 1.0, got)
}
