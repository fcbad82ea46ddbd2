package builder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/fundfacts/internal/api"
	chatapi "github.com/futig/fundfacts/internal/api/chat"
	"github.com/futig/fundfacts/internal/chunker"
	"github.com/futig/fundfacts/internal/classifier"
	"github.com/futig/fundfacts/internal/config"
	"github.com/futig/fundfacts/internal/entity"
	"github.com/futig/fundfacts/internal/generator"
	"github.com/futig/fundfacts/internal/index"
	"github.com/futig/fundfacts/internal/integration/embedding"
	"github.com/futig/fundfacts/internal/integration/llm"
	"github.com/futig/fundfacts/internal/pkg/logger"
	"github.com/futig/fundfacts/internal/refusal"
	"github.com/futig/fundfacts/internal/repository"
	"github.com/futig/fundfacts/internal/retriever"
	"github.com/futig/fundfacts/internal/suggestion"
	"github.com/futig/fundfacts/internal/telegram"
	"github.com/futig/fundfacts/internal/usecase/chat"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Build wires the HTTP API around the published index.
func Build(environment string) (*App, error) {
	cfg, log, err := loadConfig(environment)
	if err != nil {
		return nil, err
	}

	log.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	chatUC, err := buildChatUsecase(cfg, log)
	if err != nil {
		return nil, err
	}

	chatHandler := chatapi.NewHandler(chatUC)
	router := api.SetupRouter(chatHandler, cfg.WriteTimeout, log)
	log.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		logger: log,
	}, nil
}

// BuildTelegramBot creates the Telegram front end over the same answer pipeline as the API.
func BuildTelegramBot(environment string) (telegram.Bot, *zap.Logger, error) {
	cfg, log, err := loadConfig(environment)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.ValidateTelegram(); err != nil {
		return nil, nil, err
	}

	log.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	chatUC, err := buildChatUsecase(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	bot, err := telegram.NewBot(&cfg.TelegramCfg, chatUC, cfg.WriteTimeout, log)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	log.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, log, nil
}

// BuildIndexer wires the offline rebuild and append flows. When DATABASE_URL is set,
// every published row is mirrored into PostgreSQL.
func BuildIndexer(environment string) (*Indexer, error) {
	ctx := context.Background()

	cfg, log, err := loadConfig(environment)
	if err != nil {
		return nil, err
	}

	embedder, err := embedding.New(cfg.EmbeddingCfg, log)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	ib := index.NewBuilder(
		chunker.New(cfg.ChunkCfg.MaxTokens, cfg.ChunkCfg.Overlap),
		embedder,
		cfg.EmbeddingCfg.BatchSize,
	)
	store := index.NewStore(cfg.IndexCfg.Dir, cfg.IndexCfg.KeepGenerations)

	var (
		db     *pgxpool.Pool
		mirror index.Mirror
	)
	if cfg.DatabaseURL != "" {
		db, err = setupDatabase(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}

		log.Info("Running database migrations")
		if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		log.Info("Database migrations completed successfully")

		mirror = repository.NewChunkPostgres(db)
	} else {
		log.Info("DATABASE_URL is not set, relational mirror disabled")
	}

	log.Info("Indexer built successfully",
		zap.String("index_dir", store.Root()),
		zap.String("embedding_model", embedder.Model()),
	)

	return &Indexer{
		service: index.NewService(ib, store, mirror),
		db:      db,
		logger:  log,
	}, nil
}

func loadConfig(environment string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(environment)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, isDevelopment(cfg.Environment))
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	return cfg, log, nil
}

func isDevelopment(environment string) bool {
	switch environment {
	case "", "local", "dev", "development":
		return true
	}
	return false
}

// buildChatUsecase loads the published index and assembles the guardrailed answer pipeline.
func buildChatUsecase(cfg *config.Config, log *zap.Logger) (*chat.ChatUsecase, error) {
	store := index.NewStore(cfg.IndexCfg.Dir, cfg.IndexCfg.KeepGenerations)
	ix, err := store.Load()
	if err != nil {
		if errors.Is(err, entity.ErrIndexNotFound) {
			return nil, fmt.Errorf("%w: run the indexer first (index dir %s)", err, store.Root())
		}
		return nil, fmt.Errorf("load index: %w", err)
	}

	stats := ix.Stats()
	log.Info("Index loaded",
		zap.Int("chunks", stats.Chunks),
		zap.Int("dimension", stats.Dimension),
		zap.String("embedding_model", stats.EmbeddingModel),
	)

	embedder, err := embedding.New(cfg.EmbeddingCfg, log)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	if stats.EmbeddingModel != "" && stats.EmbeddingModel != embedder.Model() {
		log.Warn("query embedder differs from the model the index was built with",
			zap.String("index_model", stats.EmbeddingModel),
			zap.String("query_model", embedder.Model()),
		)
	}
	cached := embedding.NewCached(embedder, cfg.EmbeddingCfg.CacheTTL)

	var policy config.Policy
	if cfg.Policy != nil {
		policy = *cfg.Policy
	}

	cls, err := classifier.New(&policy.Classifier, cfg.GuardrailCfg.AdvisoryConfidence)
	if err != nil {
		return nil, fmt.Errorf("create classifier: %w", err)
	}

	sampler := suggestion.NewSampler(&policy.Suggestions, nil)
	refusals := refusal.New(&policy.Refusal, sampler, cfg.GuardrailCfg.RefusalSuggestions)

	provider, err := llm.New(cfg.LLMCfg, log)
	if err != nil {
		if !errors.Is(err, entity.ErrMissingCredentials) {
			return nil, fmt.Errorf("create llm provider: %w", err)
		}
		log.Warn("language model is not configured, answers will carry a placeholder", zap.Error(err))
		provider = nil
	}

	gen := generator.New(provider, generator.Config{
		MinScore:        cfg.GuardrailCfg.MinScore,
		ContextMaxChars: cfg.GuardrailCfg.ContextMaxChars,
		Temperature:     cfg.LLMCfg.Temperature,
		MaxTokens:       cfg.LLMCfg.MaxTokens,
		Timeout:         cfg.LLMCfg.RequestTimeout,
	})

	log.Info("Answer pipeline initialized",
		zap.Float64("min_score", cfg.GuardrailCfg.MinScore),
		zap.Int("top_k", cfg.GuardrailCfg.TopK),
		zap.Bool("llm_configured", provider != nil),
	)

	return chat.NewUsecase(
		cls,
		refusals,
		retriever.New(ix, cached, cfg.EmbeddingCfg.RequestTimeout),
		gen,
		sampler,
		ix,
		chat.Config{
			TopK:                cfg.GuardrailCfg.TopK,
			NoAnswerSuggestions: cfg.GuardrailCfg.NoAnswerSuggestions,
		},
	), nil
}
