package retriever

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/futig/fundfacts/internal/entity"
	"github.com/futig/fundfacts/internal/index"
	"github.com/futig/fundfacts/internal/integration/embedding"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Retriever ranks every indexed chunk by cosine similarity to the query.
// The query must be embedded by the same model that built the index; only the dimension is checked.
type Retriever struct {
	ix       *index.Index
	embedder embedding.Embedder
	timeout  time.Duration
	norms    []float64
}

// New precomputes row norms. A positive timeout bounds each query embedding call.
func New(ix *index.Index, embedder embedding.Embedder, timeout time.Duration) *Retriever {
	norms := make([]float64, ix.Len())
	for i, v := range ix.Embeddings {
		norms[i] = norm(v)
	}
	return &Retriever{
		ix:       ix,
		embedder: embedder,
		timeout:  timeout,
		norms:    norms,
	}
}

// Retrieve returns at most k results sorted by descending score. Equal scores keep insertion order.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]entity.RetrievalResult, error) {
	if strings.TrimSpace(query) == "" || k <= 0 || r.ix.Len() == 0 {
		return []entity.RetrievalResult{}, nil
	}

	vectors, err := r.embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: got %d query vectors", entity.ErrEmbedding, len(vectors))
	}
	qv := vectors[0]
	if len(qv) != r.ix.Dimension() {
		return nil, fmt.Errorf("%w: query has %d values, index has %d",
			entity.ErrDimensionMismatch, len(qv), r.ix.Dimension())
	}

	scores := r.scores(qv)
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	k = min(k, len(order))
	results := make([]entity.RetrievalResult, k)
	for i, row := range order[:k] {
		results[i] = entity.RetrievalResult{
			ID:       r.ix.IDs[row],
			Text:     r.ix.Documents[row],
			Metadata: r.ix.Metadatas[row],
			Score:    scores[row],
		}
	}

	ctxzap.Debug(ctx, "chunks retrieved",
		zap.Int("k", k),
		zap.Float64("top_score", results[0].Score),
	)

	return results, nil
}

func (r *Retriever) embed(ctx context.Context, query string) ([][]float32, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.embedder.Embed(ctx, []string{query})
}

func (r *Retriever) scores(qv []float32) []float64 {
	qn := norm(qv)
	scores := make([]float64, r.ix.Len())
	if qn == 0 {
		return scores
	}
	for i, v := range r.ix.Embeddings {
		if r.norms[i] == 0 {
			continue
		}
		var dot float64
		for j := range v {
			dot += float64(v[j]) * float64(qv[j])
		}
		scores[i] = dot / (qn * r.norms[i])
	}
	return scores
}

func norm(v []float32) float64 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	return math.Sqrt(sum)
}

// BuildContext joins result texts with a blank line, in the given order.
func BuildContext(results []entity.RetrievalResult) string {
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}
	return strings.Join(texts, "\n\n")
}
