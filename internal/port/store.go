package port

import (
	"context"

	"github.com/startupguru/startupguru/internal/domain"
)

// ChunkStore persists chunks with their embeddings and supports
// nearest-neighbour search with exact-match metadata filtering.
//
// Upsert is last-writer-wins per chunk id; no further transactional
// guarantees. Implementations must tolerate concurrent readers and
// concurrent writers to independent ids.
type ChunkStore interface {
	// Upsert inserts or overwrites chunks by id. len(vectors) must equal
	// len(chunks).
	Upsert(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error

	// Query returns at most k results ordered by ascending distance.
	// A non-nil filter restricts results to chunks whose metadata fields
	// match exactly (supported keys: topic, section, source_type).
	Query(ctx context.Context, vector []float32, k int, filter map[string]string) ([]domain.SearchResult, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// DeleteAll removes every stored chunk.
	DeleteAll(ctx context.Context) error

	// Stats summarises the stored corpus by topic, section and source type.
	Stats(ctx context.Context) (domain.CollectionStats, error)
}

// QueryLog is the append-only analytics sink. Append must be atomic per
// record under concurrent appenders. Failures are reported to the caller,
// which logs and swallows them; logging never fails a user-facing query.
type QueryLog interface {
	Append(ctx context.Context, rec domain.QueryRecord) error
	Stats(ctx context.Context) (domain.QueryLogStats, error)
}
