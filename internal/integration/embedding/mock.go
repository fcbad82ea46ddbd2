package embedding

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

const MockDimension = 64

// MockEmbedder hashes lower-cased words into a fixed number of buckets.
// Texts sharing words get similar vectors, which is enough for local runs and tests.
type MockEmbedder struct {
	dim int
}

func NewMockEmbedder(dim int) *MockEmbedder {
	if dim <= 0 {
		dim = MockDimension
	}
	return &MockEmbedder{dim: dim}
}

func (m *MockEmbedder) Model() string {
	return "mock-hash"
}

func (m *MockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, m.dim)
		words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, w := range words {
			h := fnv.New32a()
			h.Write([]byte(w))
			vec[h.Sum32()%uint32(m.dim)]++
		}
		vectors[i] = vec
	}
	return vectors, nil
}
