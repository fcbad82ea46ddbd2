package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/fundfacts/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr   string        `env:"SERVER_ADDR" envDefault:":8080"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"90s"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Database configuration for the optional relational mirror
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	IndexCfg     IndexConfig     `envPrefix:"INDEX_"`
	ChunkCfg     ChunkConfig     `envPrefix:"CHUNK_"`
	EmbeddingCfg EmbeddingConfig `envPrefix:"EMBEDDING_"`
	LLMCfg       LLMConfig       `envPrefix:"LLM_"`
	GuardrailCfg GuardrailConfig `envPrefix:"GUARDRAIL_"`
	TelegramCfg  TelegramConfig  `envPrefix:"TELEGRAM_"`

	// PolicyFile optionally overrides classifier, refusal and suggestion tables.
	PolicyFile string `env:"POLICY_FILE"`
	Policy     *Policy

	// Environment (set from flag, not from env var)
	Environment string
}

type IndexConfig struct {
	Dir             string `env:"DIR" envDefault:"data/index"`
	KeepGenerations int    `env:"KEEP_GENERATIONS" envDefault:"2"`
}

type ChunkConfig struct {
	MaxTokens int `env:"MAX_TOKENS" envDefault:"400"`
	Overlap   int `env:"OVERLAP" envDefault:"50"`
}

type EmbeddingConfig struct {
	HTTPClientConfig
	// Provider is one of tei, ollama, openai, mock.
	Provider  string               `env:"PROVIDER" envDefault:"tei"`
	Model     string               `env:"MODEL" envDefault:"sentence-transformers/all-MiniLM-L6-v2"`
	APIKey    string               `env:"API_KEY"`
	BatchSize int                  `env:"BATCH_SIZE" envDefault:"32"`
	CacheTTL  time.Duration        `env:"CACHE_TTL" envDefault:"10m"`
	Retry     pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type LLMConfig struct {
	HTTPClientConfig
	// Provider is one of openai, ollama, mock. The openai provider talks to any
	// OpenAI-compatible endpoint (OpenAI, Groq, Gemini) selected by SERVICE_URL.
	Provider    string               `env:"PROVIDER" envDefault:"openai"`
	Model       string               `env:"MODEL" envDefault:"llama-3.3-70b-versatile"`
	APIKey      string               `env:"API_KEY"`
	MaxTokens   int                  `env:"MAX_TOKENS" envDefault:"300"`
	Temperature float64              `env:"TEMPERATURE" envDefault:"0"`
	Retry       pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// GuardrailConfig holds the tunable thresholds of the answer pipeline.
type GuardrailConfig struct {
	MinScore            float64 `env:"MIN_SCORE" envDefault:"0.5"`
	AdvisoryConfidence  float64 `env:"ADVISORY_CONFIDENCE" envDefault:"0.9"`
	TopK                int     `env:"TOP_K" envDefault:"5"`
	RefusalSuggestions  int     `env:"REFUSAL_SUGGESTIONS" envDefault:"2"`
	NoAnswerSuggestions int     `env:"NO_ANSWER_SUGGESTIONS" envDefault:"3"`
	ContextMaxChars     int     `env:"CONTEXT_MAX_CHARS" envDefault:"12000"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
}

type HTTPClientConfig struct {
	Url                   string        `env:"SERVICE_URL"`
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"5s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"30s"`
}

// LoadConfig reads .env.<environment> when present, then the process environment.
func LoadConfig(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	policy, err := LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}
	cfg.Policy = policy

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	if cfg.ChunkCfg.MaxTokens < 1 {
		errs = append(errs, fmt.Sprintf("CHUNK_MAX_TOKENS must be positive, got %d", cfg.ChunkCfg.MaxTokens))
	}
	if cfg.ChunkCfg.Overlap < 0 || cfg.ChunkCfg.Overlap >= cfg.ChunkCfg.MaxTokens {
		errs = append(errs, fmt.Sprintf("CHUNK_OVERLAP must be between 0 and CHUNK_MAX_TOKENS-1, got %d", cfg.ChunkCfg.Overlap))
	}

	switch cfg.EmbeddingCfg.Provider {
	case "tei", "ollama", "openai", "mock":
	default:
		errs = append(errs, fmt.Sprintf("EMBEDDING_PROVIDER must be one of tei, ollama, openai, mock, got %q", cfg.EmbeddingCfg.Provider))
	}
	if cfg.EmbeddingCfg.BatchSize < 1 {
		errs = append(errs, fmt.Sprintf("EMBEDDING_BATCH_SIZE must be positive, got %d", cfg.EmbeddingCfg.BatchSize))
	}
	if cfg.EmbeddingCfg.Retry.Attempts < 1 || cfg.LLMCfg.Retry.Attempts < 1 {
		errs = append(errs, "RETRY_ATTEMPTS must be at least 1")
	}

	switch cfg.LLMCfg.Provider {
	case "openai", "ollama", "mock":
	default:
		errs = append(errs, fmt.Sprintf("LLM_PROVIDER must be one of openai, ollama, mock, got %q", cfg.LLMCfg.Provider))
	}
	if cfg.LLMCfg.MaxTokens < 1 {
		errs = append(errs, fmt.Sprintf("LLM_MAX_TOKENS must be positive, got %d", cfg.LLMCfg.MaxTokens))
	}

	g := cfg.GuardrailCfg
	if g.MinScore < -1 || g.MinScore > 1 {
		errs = append(errs, fmt.Sprintf("GUARDRAIL_MIN_SCORE must be between -1 and 1, got %v", g.MinScore))
	}
	if g.AdvisoryConfidence < 0 || g.AdvisoryConfidence > 1 {
		errs = append(errs, fmt.Sprintf("GUARDRAIL_ADVISORY_CONFIDENCE must be between 0 and 1, got %v", g.AdvisoryConfidence))
	}
	if g.TopK < 1 || g.TopK > 50 {
		errs = append(errs, fmt.Sprintf("GUARDRAIL_TOP_K must be between 1 and 50, got %d", g.TopK))
	}
	if g.RefusalSuggestions < 0 || g.NoAnswerSuggestions < 0 {
		errs = append(errs, "GUARDRAIL_*_SUGGESTIONS must not be negative")
	}
	if g.ContextMaxChars < 1 {
		errs = append(errs, fmt.Sprintf("GUARDRAIL_CONTEXT_MAX_CHARS must be positive, got %d", g.ContextMaxChars))
	}

	if cfg.IndexCfg.KeepGenerations < 1 {
		errs = append(errs, fmt.Sprintf("INDEX_KEEP_GENERATIONS must be at least 1, got %d", cfg.IndexCfg.KeepGenerations))
	}

	if cfg.DatabaseURL != "" {
		if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
			errs = append(errs, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
		}
		if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
			errs = append(errs, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// ValidateTelegram checks the settings only the bot binary needs.
func (c *Config) ValidateTelegram() error {
	t := c.TelegramCfg
	var errs []string
	if t.BotToken == "" {
		errs = append(errs, "TELEGRAM_BOT_TOKEN is required")
	}
	if t.RateLimitPerMinute < 1 || t.RateLimitPerMinute > 60 {
		errs = append(errs, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", t.RateLimitPerMinute))
	}
	if t.RateLimitBurst < 1 || t.RateLimitBurst > 20 {
		errs = append(errs, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", t.RateLimitBurst))
	}
	if t.ShutdownTimeout < 1 || t.ShutdownTimeout > 300 {
		errs = append(errs, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", t.ShutdownTimeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("telegram configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development", "":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
