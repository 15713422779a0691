package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresStore owns the database connection shared by the vector store and
// the query log.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// EnsureSchema creates the pgvector extension and the application tables if
// they do not exist. dimension fixes the embedding column width and must
// match the embedding model.
func (s *PostgresStore) EnsureSchema(ctx context.Context, dimension int) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunks (
			chunk_id     text PRIMARY KEY,
			content      text NOT NULL,
			title        text NOT NULL DEFAULT '',
			url          text NOT NULL,
			topic        text NOT NULL DEFAULT 'general',
			section      text NOT NULL DEFAULT '',
			source_type  text NOT NULL DEFAULT 'scraped',
			chunk_index  int  NOT NULL,
			total_chunks int  NOT NULL,
			chunk_length int  NOT NULL,
			word_count   int  NOT NULL,
			last_updated text NOT NULL DEFAULT '',
			embedding    vector(%d) NOT NULL,
			created_at   timestamptz NOT NULL DEFAULT now()
		)`, dimension),
		`CREATE INDEX IF NOT EXISTS chunks_topic_idx ON chunks (topic)`,
		`CREATE TABLE IF NOT EXISTS query_log (
			id               bigserial PRIMARY KEY,
			ts               timestamptz NOT NULL,
			query            text NOT NULL,
			response_excerpt text NOT NULL,
			confidence       double precision NOT NULL,
			retrieved_docs   int NOT NULL,
			processing_time  double precision NOT NULL,
			topic_detected   text NOT NULL,
			fallback_used    boolean NOT NULL,
			session_id       text NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
