package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/url"

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

// OllamaEmbedder embeds through a local or remote Ollama server.
type OllamaEmbedder struct {
	client *api.Client
	config config.EmbeddingConfig
	logger *zap.Logger
}

// NewOllamaEmbedder uses SERVICE_URL when set, otherwise OLLAMA_HOST.
func NewOllamaEmbedder(cfg config.EmbeddingConfig, logger *zap.Logger) (*OllamaEmbedder, error) {
	base := envconfig.Host()
	if cfg.Url != "" {
		u, err := url.Parse(cfg.Url)
		if err != nil {
			return nil, fmt.Errorf("parse ollama url: %w", err)
		}
		base = u
	}

	return &OllamaEmbedder{
		client: api.NewClient(base, common.NewHTTPClient(cfg.HTTPClientConfig, "")),
		config: cfg,
		logger: logger,
	}, nil
}

func (e *OllamaEmbedder) Model() string {
	return e.config.Model
}

func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctxzap.Debug(ctx, "embedding texts via ollama",
		zap.String("model", e.config.Model),
		zap.Int("count", len(texts)),
	)

	resp, err := retry.Do(ctx, e.config.Retry, func() (*api.EmbedResponse, error) {
		r, err := e.client.Embed(ctx, &api.EmbedRequest{
			Model: e.config.Model,
			Input: texts,
		})
		return r, fromOllamaError(err)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: ollama: %w", entity.ErrEmbedding, err)
	}

	if err := checkCount(texts, resp.Embeddings); err != nil {
		return nil, fmt.Errorf("%w: ollama: %w", entity.ErrEmbedding, err)
	}
	return resp.Embeddings, nil
}

// fromOllamaError maps server status errors onto the shared HTTP error type so retry decisions match other providers.
func fromOllamaError(err error) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return &pkghttp.HTTPError{StatusCode: statusErr.StatusCode, Message: statusErr.ErrorMessage}
	}
	return err
}
