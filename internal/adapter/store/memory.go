package store

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/startupguru/startupguru/internal/domain"
	"github.com/startupguru/startupguru/internal/port"
)

// MemoryStore is an in-memory port.ChunkStore using brute-force cosine
// distance. It backs tests and small local deployments; semantics mirror the
// pgvector store, including last-writer-wins upserts by chunk id.
type MemoryStore struct {
	mu      sync.RWMutex
	chunks  map[string]domain.Chunk
	vectors map[string][]float32
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		chunks:  make(map[string]domain.Chunk),
		vectors: make(map[string][]float32),
	}
}

// Upsert inserts or overwrites chunks by id.
func (m *MemoryStore) Upsert(_ context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return port.ErrVectorMismatch
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range chunks {
		m.chunks[c.ID] = c
		m.vectors[c.ID] = vectors[i]
	}
	return nil
}

// Query returns at most k results by ascending cosine distance. Ties break
// on chunk id so ordering is deterministic.
func (m *MemoryStore) Query(_ context.Context, vector []float32, k int, filter map[string]string) ([]domain.SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]domain.SearchResult, 0, len(m.chunks))
	for id, c := range m.chunks {
		if !matchesFilter(c, filter) {
			continue
		}
		dist := cosineDistance(vector, m.vectors[id])
		results = append(results, domain.SearchResult{
			ChunkID:    id,
			Text:       c.Text,
			Metadata:   c.Metadata(),
			Distance:   dist,
			Similarity: 1 - dist,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ChunkID < results[j].ChunkID
	})

	if k >= 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Count returns the number of stored chunks.
func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks), nil
}

// DeleteAll removes every stored chunk.
func (m *MemoryStore) DeleteAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = make(map[string]domain.Chunk)
	m.vectors = make(map[string][]float32)
	return nil
}

// Stats summarises the corpus by topic, section and source type.
func (m *MemoryStore) Stats(_ context.Context) (domain.CollectionStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := domain.CollectionStats{
		TotalChunks: len(m.chunks),
		Topics:      map[string]int{},
		Sections:    map[string]int{},
		SourceTypes: map[string]int{},
	}
	for _, c := range m.chunks {
		stats.Topics[c.Topic]++
		stats.Sections[c.Section]++
		stats.SourceTypes[c.SourceType]++
	}
	return stats, nil
}

func matchesFilter(c domain.Chunk, filter map[string]string) bool {
	for key, want := range filter {
		var got string
		switch key {
		case "topic":
			got = c.Topic
		case "section":
			got = c.Section
		case "source_type":
			got = c.SourceType
		default:
			return false
		}
		if got != want {
			return false
		}
	}
	return true
}

// cosineDistance is 1 - cosine similarity, bounded in [0,2]; orthogonal
// vectors score 1 and identical directions score 0, matching pgvector <=>.
func cosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
