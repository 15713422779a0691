package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/startupguru/startupguru/internal/adapter/ai"
	"github.com/startupguru/startupguru/internal/adapter/store"
	"github.com/startupguru/startupguru/internal/chunker"
	"github.com/startupguru/startupguru/internal/handler"
	"github.com/startupguru/startupguru/internal/port"
	"github.com/startupguru/startupguru/internal/service"
	"github.com/startupguru/startupguru/pkg/config"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	taxonomy, err := config.LoadTaxonomy(cfg.TaxonomyPath)
	if err != nil {
		slog.Error("failed to load taxonomy", "error", err)
		os.Exit(1)
	}

	slog.Info("🚀 Starting StartupGuru",
		"port", cfg.Port,
		"ai_provider", cfg.AIProvider,
		"embedding_dimension", cfg.EmbeddingDimension,
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	schemaCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := pgStore.EnsureSchema(schemaCtx, cfg.EmbeddingDimension); err != nil {
		cancel()
		slog.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}
	cancel()

	chunkStore := store.NewVectorStore(pgStore, cfg.EmbeddingDimension)
	queryLog := store.NewQueryLogStore(pgStore)

	// ── AI Provider ──────────────────────────────────────────────────────
	provider := newAIProvider(cfg)

	// ── Services ─────────────────────────────────────────────────────────
	splitter := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap, cfg.MinChunkLength)
	ingestService := service.NewIngestService(provider, chunkStore, splitter, cfg.BatchSize, taxonomy.FAQ)
	intents := service.NewIntentClassifier(taxonomy.Topics)
	retriever := service.NewRetriever(provider, chunkStore, cfg.TopK, cfg.ScoreThreshold)
	composer := service.NewComposer(provider, taxonomy.Templates, cfg.AppName, cfg.MinConfidence)
	queryService := service.NewQueryService(intents, retriever, composer, queryLog, cfg.MaxQueryLength, cfg.MinConfidence)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	// Health check
	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		count, err := chunkStore.Count(c.Context())
		status := "healthy"
		if err != nil {
			status = "degraded"
		}
		return c.JSON(fiber.Map{
			"status":       status,
			"app":          cfg.AppName,
			"version":      cfg.AppVersion,
			"total_chunks": count,
		})
	})

	// ── API Routes ───────────────────────────────────────────────────────
	api := app.Group("/api/v1")

	jobTracker := handler.NewJobTracker()

	chatHandler := handler.NewChatHandler(queryService)
	chatHandler.Register(api)

	ingestHandler := handler.NewIngestHandler(ingestService, chunkStore, queryLog, jobTracker, cfg.DataDir)
	ingestHandler.Register(api)

	jobsHandler := handler.NewJobsHandler(jobTracker)
	jobsHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// newAIProvider selects the embedding/completion backend from config.
// Config validation has already rejected unknown providers.
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
