package embedding

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/futig/fundfacts/internal/config"
	"github.com/futig/fundfacts/internal/entity"
	"github.com/futig/fundfacts/internal/integration/common"
	"github.com/futig/fundfacts/internal/pkg/retry"
	pkghttp "github.com/futig/fundfacts/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// OpenAIEmbedder calls an OpenAI-compatible /embeddings endpoint.
type OpenAIEmbedder struct {
	client openai.Client
	config config.EmbeddingConfig
	logger *zap.Logger
}

func NewOpenAIEmbedder(cfg config.EmbeddingConfig, logger *zap.Logger) *OpenAIEmbedder {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(common.NewHTTPClient(cfg.HTTPClientConfig, "")),
		option.WithMaxRetries(0),
	}
	if cfg.Url != "" {
		opts = append(opts, option.WithBaseURL(cfg.Url))
	}

	return &OpenAIEmbedder{
		client: openai.NewClient(opts...),
		config: cfg,
		logger: logger,
	}
}

func (e *OpenAIEmbedder) Model() string {
	return e.config.Model
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctxzap.Debug(ctx, "embedding texts via openai",
		zap.String("model", e.config.Model),
		zap.Int("count", len(texts)),
	)

	resp, err := retry.Do(ctx, e.config.Retry, func() (*openai.CreateEmbeddingResponse, error) {
		r, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
			Model: openai.EmbeddingModel(e.config.Model),
		})
		return r, fromOpenAIError(err)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai: %w", entity.ErrEmbedding, err)
	}

	data := resp.Data
	sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	vectors := make([][]float32, len(data))
	for i, d := range data {
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}

	if err := checkCount(texts, vectors); err != nil {
		return nil, fmt.Errorf("%w: openai: %w", entity.ErrEmbedding, err)
	}
	return vectors, nil
}

func fromOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &pkghttp.HTTPError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}
	}
	return err
}
