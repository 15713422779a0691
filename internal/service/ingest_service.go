package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/startupguru/startupguru/internal/chunker"
	"github.com/startupguru/startupguru/internal/domain"
	"github.com/startupguru/startupguru/internal/port"
	"github.com/startupguru/startupguru/pkg/config"
)

// IngestService turns scraped documents into stored, embedded chunks.
// Chunk ids are content-derived, so re-running ingestion over the same
// corpus leaves the store in the same state as a single run.
type IngestService struct {
	ai        port.AIProvider
	store     port.ChunkStore
	splitter  *chunker.Splitter
	batchSize int
	faq       []config.FAQCategory
}

// NewIngestService creates an ingestion pipeline.
func NewIngestService(ai port.AIProvider, store port.ChunkStore, splitter *chunker.Splitter, batchSize int, faq []config.FAQCategory) *IngestService {
	if batchSize <= 0 {
		batchSize = 32
	}
	return &IngestService{ai: ai, store: store, splitter: splitter, batchSize: batchSize, faq: faq}
}

// Ingest processes all documents, best effort: invalid documents and failed
// batches are logged and skipped, never aborting the rest. Returns the
// number of chunks stored.
func (s *IngestService) Ingest(ctx context.Context, docs []domain.SourceDocument) (int, error) {
	stored := 0
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return stored, err
		}
		n, err := s.IngestDocument(ctx, doc)
		if err != nil {
			slog.Warn("skipping document", "url", doc.URL, "error", err)
			continue
		}
		stored += n
	}
	slog.Info("ingestion finished", "documents", len(docs), "chunks_stored", stored)
	return stored, nil
}

// IngestDocument validates, chunks, embeds and stores a single document,
// returning the number of chunks stored. Validation failures are returned
// so callers can count skips; embedding and store failures within batches
// are logged and absorbed.
func (s *IngestService) IngestDocument(ctx context.Context, doc domain.SourceDocument) (int, error) {
	if err := validateDocument(doc); err != nil {
		return 0, err
	}
	if doc.SourceType == "" {
		doc.SourceType = "scraped"
	}

	texts := s.splitter.Split(doc.Content)
	if len(texts) == 0 {
		return 0, nil
	}

	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.NewChunk(doc, i, len(texts), text)
	}

	stored := s.storeChunks(ctx, chunks)
	slog.Info("ingested document", "url", doc.URL, "chunks", stored)
	return stored, nil
}

// SeedFAQ stores canonical FAQ phrasings with deterministic ids so common
// question variants retrieve well even with few scraped documents. Safe to
// call repeatedly.
func (s *IngestService) SeedFAQ(ctx context.Context) (int, error) {
	var chunks []domain.Chunk
	for _, cat := range s.faq {
		for _, pattern := range cat.Patterns {
			chunks = append(chunks, domain.Chunk{
				ID:         domain.ChunkID(domain.FAQSourceURL+"/"+cat.Topic+"/"+pattern, 0),
				Text:       "FAQ: " + pattern,
				SourceURL:  domain.FAQSourceURL,
				Title:      "FAQ - " + cat.Topic,
				Topic:      cat.Topic,
				Section:    "faq",
				SourceType: "faq_pattern",
				Index:      0,
				TotalInDoc: 1,
				CharLength: len(pattern),
				WordCount:  len(strings.Fields(pattern)),
			})
		}
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	stored := s.storeChunks(ctx, chunks)
	slog.Info("seeded FAQ patterns", "stored", stored)
	return stored, nil
}

// storeChunks embeds and upserts chunks in sequential batches. A failed
// batch is logged and skipped; the remaining batches proceed.
func (s *IngestService) storeChunks(ctx context.Context, chunks []domain.Chunk) int {
	stored := 0
	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := s.ai.EmbedBatch(ctx, texts)
		if err != nil {
			slog.Error("embed batch failed", "batch_start", start, "size", len(batch), "error", err)
			continue
		}

		if err := s.store.Upsert(ctx, batch, vectors); err != nil {
			slog.Error("store batch failed", "batch_start", start, "size", len(batch), "error", err)
			continue
		}
		stored += len(batch)
	}
	return stored
}

func validateDocument(doc domain.SourceDocument) error {
	missing := func(field string) error {
		return fmt.Errorf("%w: %s", port.ErrMissingFields, field)
	}
	switch {
	case strings.TrimSpace(doc.Title) == "":
		return missing("title")
	case strings.TrimSpace(doc.Content) == "":
		return missing("content")
	case strings.TrimSpace(doc.URL) == "":
		return missing("url")
	case strings.TrimSpace(doc.Topic) == "":
		return missing("topic")
	case strings.TrimSpace(doc.Section) == "":
		return missing("section")
	}
	if len(doc.Content) < domain.MinContentLength {
		return fmt.Errorf("%w: %d chars, need %d", port.ErrContentTooShort, len(doc.Content), domain.MinContentLength)
	}
	return nil
}
