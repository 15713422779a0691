package service

import (
	"context"
	"log/slog"

	"github.com/startupguru/startupguru/internal/domain"
	"github.com/startupguru/startupguru/internal/port"
)

// minOverFetch is the floor on how many candidates we pull before the
// similarity filter runs.
const minOverFetch = 20

// Retriever turns a query into ranked, threshold-filtered search results.
type Retriever struct {
	ai             port.AIProvider
	store          port.ChunkStore
	topK           int
	scoreThreshold float64
}

// NewRetriever creates a retriever returning at most topK results above the
// similarity threshold.
func NewRetriever(ai port.AIProvider, store port.ChunkStore, topK int, scoreThreshold float64) *Retriever {
	if topK <= 0 {
		topK = 8
	}
	return &Retriever{ai: ai, store: store, topK: topK, scoreThreshold: scoreThreshold}
}

// Retrieve embeds the query and searches the chunk store. It over-fetches
// to compensate for the similarity filter, and constrains by topic only when
// the keyword evidence is strong (score above 1); a single incidental match
// is not enough to risk narrowing the search to zero results.
//
// Retrieval never fails the caller: embedding or store errors degrade to an
// empty result set.
func (r *Retriever) Retrieve(ctx context.Context, query string, intent domain.IntentInfo) []domain.SearchResult {
	vector, err := r.ai.Embed(ctx, query)
	if err != nil {
		slog.Error("embed query failed", "error", err)
		return nil
	}

	var filter map[string]string
	if intent.Topic != domain.TopicGeneral && intent.IntentScores[intent.Topic] > 1 {
		filter = map[string]string{"topic": intent.Topic}
	}

	fetch := 3 * r.topK
	if fetch < minOverFetch {
		fetch = minOverFetch
	}

	results, err := r.store.Query(ctx, vector, fetch, filter)
	if err != nil {
		slog.Error("chunk store query failed", "error", err)
		return nil
	}

	kept := results[:0]
	for _, res := range results {
		if res.Similarity >= r.scoreThreshold {
			kept = append(kept, res)
		}
	}
	if len(kept) > r.topK {
		kept = kept[:r.topK]
	}

	slog.Info("retrieved chunks", "query_len", len(query), "topic", intent.Topic,
		"filtered", filter != nil, "count", len(kept))
	return kept
}
