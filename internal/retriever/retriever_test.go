package retriever

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/futig/fundfacts/internal/entity"
	"github.com/futig/fundfacts/internal/index"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

type fixedEmbedder struct {
	vector []float32
	calls  int
	err    error
}

func (f *fixedEmbedder) Model() string { return "fixed" }

func (f *fixedEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vector
	}
	return out, nil
}

func testIndex() *index.Index {
	return &index.Index{
		IDs:       []string{"a", "b", "c", "d"},
		Documents: []string{"exit load", "expense ratio", "lock-in", "expense ratio copy"},
		Metadatas: []entity.ChunkMetadata{
			{SourceFile: "a.json"}, {SourceFile: "b.json"}, {SourceFile: "c.json"}, {SourceFile: "d.json"},
		},
		Embeddings: [][]float32{
			{0, 1, 0},
			{1, 0, 0},
			{1, 1, 0},
			{2, 0, 0},
		},
		Model: "fixed",
	}
}

func TestRetrieveRanksByCosine(t *testing.T) {
	r := New(testIndex(), &fixedEmbedder{vector: []float32{1, 0, 0}}, 0)

	results, err := r.Retrieve(context.Background(), "expense ratio", 3)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(results, 3))

	// b and d are parallel to the query; b was inserted first
	assert.Equal(t, results[0].ID, "b")
	assert.Equal(t, results[1].ID, "d")
	assert.Equal(t, results[2].ID, "c")
	assert.Assert(t, results[0].Score > 0.999)
	assert.Equal(t, results[0].Score, results[1].Score)
	assert.Equal(t, results[1].Metadata.SourceFile, "d.json")

	for i := 1; i < len(results); i++ {
		assert.Assert(t, results[i-1].Score >= results[i].Score)
	}
}

func TestRetrieveNeverExceedsK(t *testing.T) {
	r := New(testIndex(), &fixedEmbedder{vector: []float32{0, 1, 0}}, 0)

	for _, k := range []int{1, 2, 4, 10} {
		results, err := r.Retrieve(context.Background(), "exit load", k)
		assert.NilError(t, err)
		assert.Assert(t, len(results) <= k)
		assert.Equal(t, results[0].ID, "a")
	}
}

func TestRetrieveNoop(t *testing.T) {
	emb := &fixedEmbedder{vector: []float32{1, 0, 0}}
	r := New(testIndex(), emb, 0)

	results, err := r.Retrieve(context.Background(), "   ", 5)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(results, 0))

	results, err = r.Retrieve(context.Background(), "nav", 0)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(results, 0))

	assert.Equal(t, emb.calls, 0)
}

func TestRetrieveErrors(t *testing.T) {
	r := New(testIndex(), &fixedEmbedder{vector: []float32{1, 0}}, 0)
	_, err := r.Retrieve(context.Background(), "nav", 2)
	assert.Assert(t, errors.Is(err, entity.ErrDimensionMismatch))

	r = New(testIndex(), &fixedEmbedder{err: entity.ErrEmbedding}, 0)
	_, err = r.Retrieve(context.Background(), "nav", 2)
	assert.Assert(t, errors.Is(err, entity.ErrEmbedding))
}

type blockingEmbedder struct {
	hadDeadline bool
}

func (b *blockingEmbedder) Model() string { return "fixed" }

func (b *blockingEmbedder) Embed(ctx context.Context, _ []string) ([][]float32, error) {
	_, b.hadDeadline = ctx.Deadline()
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRetrieveQueryTimeout(t *testing.T) {
	emb := &blockingEmbedder{}
	r := New(testIndex(), emb, 20*time.Millisecond)

	_, err := r.Retrieve(context.Background(), "nav", 2)
	assert.Assert(t, errors.Is(err, context.DeadlineExceeded))
	assert.Assert(t, emb.hadDeadline)
}

func TestZeroQueryVectorScoresZero(t *testing.T) {
	r := New(testIndex(), &fixedEmbedder{vector: []float32{0, 0, 0}}, 0)

	results, err := r.Retrieve(context.Background(), "unknown words", 4)
	assert.NilError(t, err)
	for i, res := range results {
		assert.Equal(t, res.Score, 0.0)
		assert.Equal(t, res.ID, testIndex().IDs[i])
	}
}

func TestBuildContext(t *testing.T) {
	results := []entity.RetrievalResult{{Text: "second"}, {Text: "first"}}
	assert.Equal(t, BuildContext(results), "second\n\nfirst")
	assert.Equal(t, BuildContext(nil), "")
}
