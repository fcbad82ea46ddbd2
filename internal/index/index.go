package index

import (
	"fmt"

	"github.com/futig/fundfacts/internal/entity"
)

// Index holds chunks as parallel collections: position i of every slice describes the same chunk.
// It is read-only while queries are served.
type Index struct {
	IDs        []string
	Documents  []string
	Metadatas  []entity.ChunkMetadata
	Embeddings [][]float32

	// Model names the embedding model the vectors came from.
	Model string
	// Generation is the published generation the index was loaded from, empty for unsaved indexes.
	Generation string
}

func New(model string) *Index {
	return &Index{Model: model}
}

func (ix *Index) Len() int {
	return len(ix.IDs)
}

// Dimension is the vector length shared by every row, zero for an empty index.
func (ix *Index) Dimension() int {
	if len(ix.Embeddings) == 0 {
		return 0
	}
	return len(ix.Embeddings[0])
}

// Chunk returns row i.
func (ix *Index) Chunk(i int) entity.Chunk {
	return entity.Chunk{
		ID:        ix.IDs[i],
		Text:      ix.Documents[i],
		Metadata:  ix.Metadatas[i],
		Embedding: ix.Embeddings[i],
	}
}

// Chunks returns rows [from, Len()).
func (ix *Index) Chunks(from int) []entity.Chunk {
	if from < 0 {
		from = 0
	}
	chunks := make([]entity.Chunk, 0, max(ix.Len()-from, 0))
	for i := from; i < ix.Len(); i++ {
		chunks = append(chunks, ix.Chunk(i))
	}
	return chunks
}

// add appends rows; the caller guarantees equal lengths.
func (ix *Index) add(chunks []entity.Chunk) error {
	dim := ix.Dimension()
	for _, c := range chunks {
		if dim == 0 {
			dim = len(c.Embedding)
		}
		if len(c.Embedding) != dim || dim == 0 {
			return fmt.Errorf("%w: chunk %s has %d values, index has %d", entity.ErrDimensionMismatch, c.ID, len(c.Embedding), dim)
		}
	}

	for _, c := range chunks {
		ix.IDs = append(ix.IDs, c.ID)
		ix.Documents = append(ix.Documents, c.Text)
		ix.Metadatas = append(ix.Metadatas, c.Metadata)
		ix.Embeddings = append(ix.Embeddings, c.Embedding)
	}
	return nil
}

// Validate checks the structural invariants: equal lengths, one dimension, unique ids.
func (ix *Index) Validate() error {
	n := len(ix.IDs)
	if len(ix.Documents) != n || len(ix.Metadatas) != n || len(ix.Embeddings) != n {
		return fmt.Errorf("%w: ids=%d documents=%d metadatas=%d embeddings=%d",
			entity.ErrIndexCorrupt, n, len(ix.Documents), len(ix.Metadatas), len(ix.Embeddings))
	}

	dim := ix.Dimension()
	seen := make(map[string]struct{}, n)
	for i, id := range ix.IDs {
		if len(ix.Embeddings[i]) != dim {
			return fmt.Errorf("%w: row %d has %d values, expected %d", entity.ErrIndexCorrupt, i, len(ix.Embeddings[i]), dim)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate id %s", entity.ErrIndexCorrupt, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Stats summarises the index for the stats endpoint.
func (ix *Index) Stats() entity.IndexStats {
	byScheme := make(map[string]int)
	for _, m := range ix.Metadatas {
		byScheme[m.Scheme]++
	}
	return entity.IndexStats{
		Chunks:         ix.Len(),
		Dimension:      ix.Dimension(),
		EmbeddingModel: ix.Model,
		Generation:     ix.Generation,
		ChunksByScheme: byScheme,
	}
}
