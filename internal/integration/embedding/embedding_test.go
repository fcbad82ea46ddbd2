package embedding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futig/fundfacts/internal/config"
	"github.com/futig/fundfacts/internal/entity"
	pkgRetry "github.com/futig/fundfacts/internal/pkg/retry"
	"go.uber.org/zap"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

type countingEmbedder struct {
	calls [][]string
	inner Embedder
}

func (c *countingEmbedder) Model() string { return c.inner.Model() }

func (c *countingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls = append(c.calls, texts)
	return c.inner.Embed(ctx, texts)
}

func TestCachedOnlyEmbedsMisses(t *testing.T) {
	inner := &countingEmbedder{inner: NewMockEmbedder(16)}
	cached := NewCached(inner, time.Minute)
	ctx := context.Background()

	first, err := cached.Embed(ctx, []string{"expense ratio", "exit load"})
	assert.NilError(t, err)

	second, err := cached.Embed(ctx, []string{"exit load", "lock-in period", "expense ratio"})
	assert.NilError(t, err)

	assert.DeepEqual(t, inner.calls, [][]string{
		{"expense ratio", "exit load"},
		{"lock-in period"},
	})
	assert.DeepEqual(t, second[0], first[1])
	assert.DeepEqual(t, second[2], first[0])
}

func TestMockEmbedderSharesWords(t *testing.T) {
	m := NewMockEmbedder(32)
	vecs, err := m.Embed(context.Background(), []string{"Exit load", "exit LOAD!", ""})
	assert.NilError(t, err)
	assert.Assert(t, is.Len(vecs, 3))
	assert.DeepEqual(t, vecs[0], vecs[1])
	assert.DeepEqual(t, vecs[2], make([]float32, 32))
}

func teiConfig(url string) config.EmbeddingConfig {
	return config.EmbeddingConfig{
		HTTPClientConfig: config.HTTPClientConfig{Url: url, RequestTimeout: 5 * time.Second},
		Provider:         "tei",
		Model:            "all-MiniLM-L6-v2",
		BatchSize:        8,
		Retry:            pkgRetry.RetryConfig{Attempts: 2, Delay: time.Millisecond, MaxDelay: time.Millisecond},
	}
}

func TestTEIEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.URL.Path, "/embed")
		w.Write([]byte(`[[0.5,1.5],[2,3]]`))
	}))
	defer srv.Close()

	e := NewTEIEmbedder(teiConfig(srv.URL), zap.NewNop())
	vecs, err := e.Embed(context.Background(), []string{"a", "b"})
	assert.NilError(t, err)
	assert.DeepEqual(t, vecs, [][]float32{{0.5, 1.5}, {2, 3}})
}

func TestTEIEmbedderCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[0.5,1.5]]`))
	}))
	defer srv.Close()

	e := NewTEIEmbedder(teiConfig(srv.URL), zap.NewNop())
	_, err := e.Embed(context.Background(), []string{"a", "b"})
	assert.Assert(t, errors.Is(err, entity.ErrEmbedding))
}

func TestTEIEmbedderRetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[[1]]`))
	}))
	defer srv.Close()

	e := NewTEIEmbedder(teiConfig(srv.URL), zap.NewNop())
	vecs, err := e.Embed(context.Background(), []string{"a"})
	assert.NilError(t, err)
	assert.DeepEqual(t, vecs, [][]float32{{1}})
	assert.Equal(t, calls, 2)
}
