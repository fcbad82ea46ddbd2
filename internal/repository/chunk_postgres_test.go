package repository

import (
	"io/fs"
	"testing"

	"github.com/futig/fundfacts/internal/entity"
	"github.com/futig/fundfacts/internal/index"
	"github.com/pgvector/pgvector-go"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestUpsertArgs(t *testing.T) {
	c := entity.Chunk{
		ID:   "6f1c2b0e-0000-4000-8000-000000000001",
		Text: "Exit load is 1% if redeemed within 1 year.",
		Metadata: entity.ChunkMetadata{
			Scheme:     "HDFC Mid-Cap Opportunities Fund",
			Category:   "Mid Cap",
			SourceURL:  "https://www.hdfcfund.com/midcap",
			SourceType: "fund_page",
			SourceFile: "midcap.json",
		},
		Embedding: []float32{0.25, -1, 3.5},
	}

	args := upsertArgs(c)
	assert.Assert(t, is.Len(args, 9))
	assert.Equal(t, args[0], c.ID)

	blob := args[2].([]byte)
	assert.DeepEqual(t, index.DecodeVector(blob), c.Embedding)
	assert.DeepEqual(t, args[3].(pgvector.Vector).Slice(), c.Embedding)
	assert.Equal(t, args[8], "midcap.json")
}

func TestMigrationsAreEmbedded(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	assert.NilError(t, err)
	assert.DeepEqual(t, files, []string{
		"migrations/000001_create_embeddings.down.sql",
		"migrations/000001_create_embeddings.up.sql",
	})
}
