package embedding

import (
	"context"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Cached memoizes vectors per text for ttl. Repeated questions skip the embedding call.
type Cached struct {
	next  Embedder
	cache *cache.Cache
}

func NewCached(next Embedder, ttl time.Duration) *Cached {
	return &Cached{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *Cached) Model() string {
	return c.next.Model()
}

func (c *Cached) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var missing []string
	var missingPos []int
	for i, text := range texts {
		if v, ok := c.cache.Get(c.key(text)); ok {
			vectors[i] = v.([]float32)
			continue
		}
		missing = append(missing, text)
		missingPos = append(missingPos, i)
	}

	if len(missing) == 0 {
		ctxzap.Debug(ctx, "embedding cache hit", zap.Int("count", len(texts)))
		return vectors, nil
	}

	fresh, err := c.next.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	if err := checkCount(missing, fresh); err != nil {
		return nil, err
	}

	for j, pos := range missingPos {
		vectors[pos] = fresh[j]
		c.cache.SetDefault(c.key(missing[j]), fresh[j])
	}
	return vectors, nil
}

func (c *Cached) key(text string) string {
	return c.next.Model() + "\x00" + text
}
