package llm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/futig/fundfacts/internal/config"
	"github.com/futig/fundfacts/internal/entity"
	"github.com/futig/fundfacts/internal/integration/common"
	"github.com/futig/fundfacts/internal/pkg/retry"
	pkghttp "github.com/futig/fundfacts/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
	"go.uber.org/zap"
)

// OllamaProvider runs completions on an Ollama server. No API key is needed.
type OllamaProvider struct {
	client *api.Client
	config config.LLMConfig
	logger *zap.Logger
}

func NewOllamaProvider(cfg config.LLMConfig, logger *zap.Logger) (*OllamaProvider, error) {
	base := envconfig.Host()
	if cfg.Url != "" {
		u, err := url.Parse(cfg.Url)
		if err != nil {
			return nil, fmt.Errorf("parse ollama url: %w", err)
		}
		base = u
	}

	return &OllamaProvider{
		client: api.NewClient(base, common.NewHTTPClient(cfg.HTTPClientConfig, "")),
		config: cfg,
		logger: logger,
	}, nil
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

func (p *OllamaProvider) Complete(ctx context.Context, req entity.CompletionRequest) (string, error) {
	ctxzap.Info(ctx, "requesting completion", zap.String("provider", p.Name()), zap.String("model", p.config.Model))

	stream := false
	options := map[string]any{"temperature": req.Temperature}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}

	answer, err := retry.Do(ctx, p.config.Retry, func() (string, error) {
		var sb strings.Builder
		err := p.client.Chat(ctx, &api.ChatRequest{
			Model: p.config.Model,
			Messages: []api.Message{
				{Role: "system", Content: req.System},
				{Role: "user", Content: req.User},
			},
			Stream:  &stream,
			Options: options,
		}, func(resp api.ChatResponse) error {
			sb.WriteString(resp.Message.Content)
			return nil
		})
		return sb.String(), fromOllamaError(err)
	})
	if err != nil {
		return "", fmt.Errorf("ollama completion: %w", err)
	}

	if strings.TrimSpace(answer) == "" {
		return "", entity.ErrEmptyCompletion
	}
	return answer, nil
}

func fromOllamaError(err error) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return &pkghttp.HTTPError{StatusCode: statusErr.StatusCode, Message: statusErr.ErrorMessage}
	}
	return err
}
