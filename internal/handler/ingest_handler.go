package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/startupguru/startupguru/internal/domain"
	"github.com/startupguru/startupguru/internal/loader"
	"github.com/startupguru/startupguru/internal/port"
	"github.com/startupguru/startupguru/internal/service"
)

// IngestHandler exposes knowledge-base management: reloading the scraped
// corpus from disk and inspecting collection and query-log statistics.
type IngestHandler struct {
	ingest   *service.IngestService
	chunks   port.ChunkStore
	queryLog port.QueryLog
	tracker  *JobTracker
	dataDir  string
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(ingest *service.IngestService, chunks port.ChunkStore, queryLog port.QueryLog, tracker *JobTracker, dataDir string) *IngestHandler {
	return &IngestHandler{ingest: ingest, chunks: chunks, queryLog: queryLog, tracker: tracker, dataDir: dataDir}
}

// Register sets up ingest routes.
func (h *IngestHandler) Register(router fiber.Router) {
	router.Post("/reload", h.Reload)
	router.Get("/stats", h.Stats)
}

// Reload loads every document from the data directory and re-ingests the
// corpus in the background. Returns 202 with a job id the client can poll
// or stream.
func (h *IngestHandler) Reload(c fiber.Ctx) error {
	docs, err := loader.LoadDir(h.dataDir)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	jobID := uuid.NewString()
	h.tracker.CreateJob(jobID, len(docs))

	go h.runIngest(jobID, docs)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"job_id":    jobID,
		"documents": len(docs),
	})
}

func (h *IngestHandler) runIngest(jobID string, docs []domain.SourceDocument) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	stored, skipped := 0, 0
	for i, doc := range docs {
		n, err := h.ingest.IngestDocument(ctx, doc)
		if err != nil {
			slog.Warn("reload skipped document", "url", doc.URL, "error", err)
			skipped++
		}
		stored += n
		h.tracker.Progress(jobID, i+1, stored, skipped)
	}

	if n, err := h.ingest.SeedFAQ(ctx); err != nil {
		slog.Error("FAQ seeding failed", "error", err)
	} else {
		stored += n
	}

	h.tracker.Complete(jobID, stored, skipped)
	slog.Info("reload finished", "job_id", jobID, "stored_chunks", stored, "skipped_documents", skipped)
}

// Stats reports the chunk collection breakdown plus query-log aggregates.
func (h *IngestHandler) Stats(c fiber.Ctx) error {
	collection, err := h.chunks.Stats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	queries, err := h.queryLog.Stats(c.Context())
	if err != nil {
		slog.Error("query log stats failed", "error", err)
	}

	return c.JSON(fiber.Map{
		"collection": collection,
		"queries":    queries,
	})
}
