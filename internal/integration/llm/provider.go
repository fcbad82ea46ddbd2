package llm

import (
	"context"
	"fmt"

	"github.com/futig/fundfacts/internal/config"
	"github.com/futig/fundfacts/internal/entity"
	"go.uber.org/zap"
)

// Provider completes one chat turn. Adapters differ only in transport; prompts are built by the caller.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req entity.CompletionRequest) (string, error)
}

// New builds the provider selected by cfg.Provider. A hosted provider without an API key
// yields entity.ErrMissingCredentials so the caller can degrade instead of failing.
func New(cfg config.LLMConfig, logger *zap.Logger) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: LLM_API_KEY is not set", entity.ErrMissingCredentials)
		}
		return NewOpenAIProvider(cfg, logger), nil
	case "ollama":
		return NewOllamaProvider(cfg, logger)
	case "mock":
		logger.Warn("using mock language model, answers echo the retrieved context")
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
