package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/startupguru/startupguru/internal/domain"
	"github.com/startupguru/startupguru/internal/port"
)

// filterColumns whitelists the metadata fields a query filter may match on.
var filterColumns = map[string]string{
	"topic":       "topic",
	"section":     "section",
	"source_type": "source_type",
}

// VectorStore implements port.ChunkStore on Postgres with pgvector.
// Distances use the cosine operator <=>, bounded in [0,1] for normalised
// vectors, so similarity = 1 - distance holds.
type VectorStore struct {
	store     *PostgresStore
	dimension int
}

// NewVectorStore creates a vector store backed by the given Postgres store.
func NewVectorStore(store *PostgresStore, dimension int) *VectorStore {
	return &VectorStore{store: store, dimension: dimension}
}

// Upsert inserts or overwrites chunks by id, last-writer-wins.
func (v *VectorStore) Upsert(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return port.ErrVectorMismatch
	}
	if len(chunks) == 0 {
		return nil
	}

	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (chunk_id, content, title, url, topic, section, source_type,
		                     chunk_index, total_chunks, chunk_length, word_count, last_updated, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13::vector)
		 ON CONFLICT (chunk_id) DO UPDATE SET
			content      = EXCLUDED.content,
			title        = EXCLUDED.title,
			url          = EXCLUDED.url,
			topic        = EXCLUDED.topic,
			section      = EXCLUDED.section,
			source_type  = EXCLUDED.source_type,
			chunk_index  = EXCLUDED.chunk_index,
			total_chunks = EXCLUDED.total_chunks,
			chunk_length = EXCLUDED.chunk_length,
			word_count   = EXCLUDED.word_count,
			last_updated = EXCLUDED.last_updated,
			embedding    = EXCLUDED.embedding`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i, c := range chunks {
		if len(vectors[i]) != v.dimension {
			return fmt.Errorf("chunk %s: %w: got %d dims, want %d", c.ID, port.ErrVectorMismatch, len(vectors[i]), v.dimension)
		}
		if _, err := stmt.ExecContext(ctx,
			c.ID, c.Text, c.Title, c.SourceURL, c.Topic, c.Section, c.SourceType,
			c.Index, c.TotalInDoc, c.CharLength, c.WordCount, c.LastUpdated,
			vectorToString(vectors[i]),
		); err != nil {
			return fmt.Errorf("upsert chunk %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// Query performs a cosine nearest-neighbour search, ascending distance.
func (v *VectorStore) Query(ctx context.Context, vector []float32, k int, filter map[string]string) ([]domain.SearchResult, error) {
	args := []any{vectorToString(vector)}
	query := `SELECT chunk_id, content, title, url, topic, section, source_type,
	                 chunk_index, total_chunks, chunk_length, word_count, last_updated,
	                 embedding <=> $1::vector AS distance
	          FROM chunks`

	var where []string
	for key, val := range filter {
		col, ok := filterColumns[key]
		if !ok {
			return nil, fmt.Errorf("unsupported filter field %q", key)
		}
		args = append(args, val)
		where = append(where, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	args = append(args, k)
	query += fmt.Sprintf(" ORDER BY embedding <=> $1::vector LIMIT $%d", len(args))

	rows, err := v.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var r domain.SearchResult
		m := &r.Metadata
		if err := rows.Scan(
			&m.ChunkID, &r.Text, &m.Title, &m.URL, &m.Topic, &m.Section, &m.SourceType,
			&m.ChunkIndex, &m.TotalChunks, &m.ChunkLength, &m.WordCount, &m.LastUpdated,
			&r.Distance,
		); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		r.ChunkID = m.ChunkID
		r.Similarity = 1 - r.Distance
		results = append(results, r)
	}
	return results, rows.Err()
}

// Count returns the number of stored chunks.
func (v *VectorStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := v.store.db.QueryRowContext(ctx, `SELECT count(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

// DeleteAll removes every stored chunk.
func (v *VectorStore) DeleteAll(ctx context.Context) error {
	if _, err := v.store.db.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	return nil
}

// Stats summarises the corpus by topic, section and source type.
func (v *VectorStore) Stats(ctx context.Context) (domain.CollectionStats, error) {
	stats := domain.CollectionStats{
		Topics:      map[string]int{},
		Sections:    map[string]int{},
		SourceTypes: map[string]int{},
	}

	total, err := v.Count(ctx)
	if err != nil {
		return stats, err
	}
	stats.TotalChunks = total

	for col, dest := range map[string]map[string]int{
		"topic":       stats.Topics,
		"section":     stats.Sections,
		"source_type": stats.SourceTypes,
	} {
		rows, err := v.store.db.QueryContext(ctx,
			fmt.Sprintf(`SELECT %s, count(*) FROM chunks GROUP BY %s`, col, col))
		if err != nil {
			return stats, fmt.Errorf("stats by %s: %w", col, err)
		}
		for rows.Next() {
			var key string
			var n int
			if err := rows.Scan(&key, &n); err != nil {
				rows.Close()
				return stats, fmt.Errorf("scan stats: %w", err)
			}
			dest[key] = n
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return stats, err
		}
		rows.Close()
	}

	return stats, nil
}

// vectorToString converts a float32 slice to pgvector string format: [0.1,0.2,0.3].
func vectorToString(v []float32) string {
	parts := make([]string, len(v))
	for i, val := range v {
		parts[i] = fmt.Sprintf("%g", val)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
