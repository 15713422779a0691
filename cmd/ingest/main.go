// Command ingest loads scraped documents from disk and populates the vector
// store, without running the HTTP server. Meant for initial corpus loads and
// re-embedding after a model change.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/startupguru/startupguru/internal/adapter/ai"
	"github.com/startupguru/startupguru/internal/adapter/store"
	"github.com/startupguru/startupguru/internal/chunker"
	"github.com/startupguru/startupguru/internal/loader"
	"github.com/startupguru/startupguru/internal/port"
	"github.com/startupguru/startupguru/internal/service"
	"github.com/startupguru/startupguru/pkg/config"

	_ "github.com/lib/pq"
)

func main() {
	dir := flag.String("dir", "", "directory of scraped JSON documents (default: DATA_DIR)")
	reset := flag.Bool("reset", false, "delete all stored chunks before ingesting")
	skipFAQ := flag.Bool("skip-faq", false, "do not seed FAQ patterns")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *dir == "" {
		*dir = cfg.DataDir
	}

	taxonomy, err := config.LoadTaxonomy(cfg.TaxonomyPath)
	if err != nil {
		slog.Error("failed to load taxonomy", "error", err)
		os.Exit(1)
	}

	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	if err := pgStore.EnsureSchema(ctx, cfg.EmbeddingDimension); err != nil {
		slog.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	chunkStore := store.NewVectorStore(pgStore, cfg.EmbeddingDimension)
	provider := newAIProvider(cfg)

	splitter := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap, cfg.MinChunkLength)
	ingest := service.NewIngestService(provider, chunkStore, splitter, cfg.BatchSize, taxonomy.FAQ)

	if *reset {
		if err := chunkStore.DeleteAll(ctx); err != nil {
			slog.Error("failed to reset collection", "error", err)
			os.Exit(1)
		}
		slog.Info("collection reset")
	}

	docs, err := loader.LoadDir(*dir)
	if err != nil {
		slog.Error("failed to load documents", "dir", *dir, "error", err)
		os.Exit(1)
	}
	slog.Info("loaded documents", "dir", *dir, "count", len(docs))

	stored, err := ingest.Ingest(ctx, docs)
	if err != nil {
		slog.Error("ingestion aborted", "error", err)
		os.Exit(1)
	}

	if !*skipFAQ {
		n, err := ingest.SeedFAQ(ctx)
		if err != nil {
			slog.Error("FAQ seeding failed", "error", err)
		}
		stored += n
	}

	total, err := chunkStore.Count(ctx)
	if err != nil {
		slog.Warn("count failed", "error", err)
	}
	slog.Info("ingestion complete", "chunks_stored", stored, "collection_total", total)
}

func newAIProvider(cfg *config.Config) port.AIProvider {
	gen := ai.GenOptions{
		Temperature: cfg.ChatTemperature,
		MaxTokens:   cfg.ChatMaxTokens,
		Timeout:     time.Duration(cfg.AITimeoutSecs) * time.Second,
	}

	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		return ai.NewOpenAIProvider(ai.OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			ChatModel:  cfg.OpenAIChatModel,
			EmbedModel: cfg.OpenAIEmbedModel,
		}, gen)
	default:
		return ai.NewOllamaProvider(
			ai.OllamaEndpointConfig{
				BaseURL: cfg.OllamaEmbedURL,
				Model:   cfg.OllamaEmbedModel,
				Token:   cfg.OllamaEmbedToken,
			},
			ai.OllamaEndpointConfig{
				BaseURL: cfg.OllamaChatURL,
				Model:   cfg.OllamaChatModel,
				Token:   cfg.OllamaChatToken,
			},
			gen,
		)
	}
}
