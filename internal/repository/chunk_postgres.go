package repository

import (
	"context"
	"fmt"

	"github.com/futig/fundfacts/internal/entity"
	"github.com/futig/fundfacts/internal/index"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

const upsertChunkSQL = `
INSERT INTO embeddings (
    id, text_chunk, embedding, embedding_vector,
    scheme, category, source_url, source_type, source_file, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
ON CONFLICT (id) DO UPDATE SET
    text_chunk       = EXCLUDED.text_chunk,
    embedding        = EXCLUDED.embedding,
    embedding_vector = EXCLUDED.embedding_vector,
    scheme           = EXCLUDED.scheme,
    category         = EXCLUDED.category,
    source_url       = EXCLUDED.source_url,
    source_type      = EXCLUDED.source_type,
    source_file      = EXCLUDED.source_file,
    updated_at       = NOW()`

// upsertBatchSize bounds the statements queued in one pgx batch.
const upsertBatchSize = 500

var _ index.Mirror = &ChunkPostgres{}

// ChunkPostgres mirrors index rows into a PostgreSQL table keyed by chunk id, with a pgvector column
type ChunkPostgres struct {
	db *pgxpool.Pool
}

func NewChunkPostgres(db *pgxpool.Pool) *ChunkPostgres {
	return &ChunkPostgres{db: db}
}

// UpsertChunks writes every chunk in one transaction; re-inserting an id replaces the row.
func (r *ChunkPostgres) UpsertChunks(ctx context.Context, chunks []entity.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for start := 0; start < len(chunks); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(chunks))

		batch := &pgx.Batch{}
		for _, c := range chunks[start:end] {
			batch.Queue(upsertChunkSQL, upsertArgs(c)...)
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("upsert chunks %d-%d: %w", start, end, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func upsertArgs(c entity.Chunk) []any {
	m := c.Metadata
	return []any{
		c.ID,
		c.Text,
		index.VectorBytes(c.Embedding),
		pgvector.NewVector(c.Embedding),
		m.Scheme,
		m.Category,
		m.SourceURL,
		m.SourceType,
		m.SourceFile,
	}
}
