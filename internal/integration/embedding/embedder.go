package embedding

import (
	"context"
	"fmt"

	"github.com/futig/fundfacts/internal/config"
	"go.uber.org/zap"
)

// Embedder turns texts into fixed-length vectors. The returned slice has one vector per input, in order.
// Query and index vectors must come from the same model; nothing checks this at runtime beyond the dimension.
type Embedder interface {
	Model() string
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// New builds the embedder selected by cfg.Provider.
func New(cfg config.EmbeddingConfig, logger *zap.Logger) (Embedder, error) {
	switch cfg.Provider {
	case "tei":
		return NewTEIEmbedder(cfg, logger), nil
	case "ollama":
		return NewOllamaEmbedder(cfg, logger)
	case "openai":
		return NewOpenAIEmbedder(cfg, logger), nil
	case "mock":
		logger.Warn("using mock embedder, vectors are not semantic")
		return NewMockEmbedder(MockDimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

func checkCount(texts []string, vectors [][]float32) error {
	if len(vectors) != len(texts) {
		return fmt.Errorf("expected %d embeddings, got %d", len(texts), len(vectors))
	}
	return nil
}
