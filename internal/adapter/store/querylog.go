package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/startupguru/startupguru/internal/domain"
)

// QueryLogStore implements port.QueryLog on the query_log table. Each append
// is a single INSERT, atomic per record under concurrent appenders.
type QueryLogStore struct {
	store *PostgresStore
}

// NewQueryLogStore creates a query log backed by the given Postgres store.
func NewQueryLogStore(store *PostgresStore) *QueryLogStore {
	return &QueryLogStore{store: store}
}

// Append writes one analytics row.
func (q *QueryLogStore) Append(ctx context.Context, rec domain.QueryRecord) error {
	_, err := q.store.db.ExecContext(ctx,
		`INSERT INTO query_log (ts, query, response_excerpt, confidence, retrieved_docs,
		                        processing_time, topic_detected, fallback_used, session_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.Timestamp, rec.Query, rec.ResponseExcerpt, rec.Confidence, rec.RetrievedDocs,
		rec.ProcessingTime, rec.TopicDetected, rec.FallbackUsed, rec.SessionID,
	)
	if err != nil {
		return fmt.Errorf("append query record: %w", err)
	}
	return nil
}

// Stats aggregates the query log.
func (q *QueryLogStore) Stats(ctx context.Context) (domain.QueryLogStats, error) {
	stats := domain.QueryLogStats{TopicDistribution: map[string]int{}}

	var last sql.NullTime
	var avgConf, avgTime sql.NullFloat64
	err := q.store.db.QueryRowContext(ctx,
		`SELECT count(*), avg(confidence), avg(processing_time), max(ts) FROM query_log`,
	).Scan(&stats.TotalQueries, &avgConf, &avgTime, &last)
	if err != nil {
		return stats, fmt.Errorf("query log stats: %w", err)
	}
	stats.AvgConfidence = avgConf.Float64
	stats.AvgProcessingTime = avgTime.Float64
	if last.Valid {
		stats.LastQueryTimestamp = last.Time
	}

	rows, err := q.store.db.QueryContext(ctx,
		`SELECT topic_detected, count(*) FROM query_log GROUP BY topic_detected`)
	if err != nil {
		return stats, fmt.Errorf("query log topics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var topic string
		var n int
		if err := rows.Scan(&topic, &n); err != nil {
			return stats, fmt.Errorf("scan query log topic: %w", err)
		}
		stats.TopicDistribution[topic] = n
	}
	return stats, rows.Err()
}
