package embedding

import (
	"context"
	"fmt"

	"github.com/futig/fundfacts/internal/config"
	"github.com/futig/fundfacts/internal/entity"
	"github.com/futig/fundfacts/internal/integration/common"
	"github.com/futig/fundfacts/internal/pkg/retry"
	pkghttp "github.com/futig/fundfacts/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const teiEmbedEndpoint = "/embed"

type teiEmbedRequest struct {
	Inputs    []string `json:"inputs"`
	Normalize bool     `json:"normalize"`
	Truncate  bool     `json:"truncate"`
}

// TEIEmbedder calls a text-embeddings-inference server hosting a sentence-transformers model.
type TEIEmbedder struct {
	config    config.EmbeddingConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewTEIEmbedder(cfg config.EmbeddingConfig, logger *zap.Logger) *TEIEmbedder {
	return &TEIEmbedder{
		config:    cfg,
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, cfg.APIKey, logger),
		logger:    logger,
	}
}

func (e *TEIEmbedder) Model() string {
	return e.config.Model
}

func (e *TEIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctxzap.Debug(ctx, "embedding texts via TEI", zap.Int("count", len(texts)))

	req := teiEmbedRequest{Inputs: texts, Truncate: true}
	vectors, err := retry.Do(ctx, e.config.Retry, func() ([][]float32, error) {
		var resp [][]float32
		if err := e.connector.PostJSON(ctx, teiEmbedEndpoint, req, &resp); err != nil {
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: tei: %w", entity.ErrEmbedding, err)
	}

	if err := checkCount(texts, vectors); err != nil {
		return nil, fmt.Errorf("%w: tei: %w", entity.ErrEmbedding, err)
	}
	return vectors, nil
}
