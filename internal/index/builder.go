package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/fundfacts/internal/chunker"
	"github.com/futig/fundfacts/internal/entity"
	"github.com/futig/fundfacts/internal/integration/embedding"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const defaultBatchSize = 32

// AppendOptions controls how new documents are merged into an existing index.
type AppendOptions struct {
	// SkipDuplicates drops chunks whose exact text is already indexed.
	// Off by default: duplicates are reported and appended anyway.
	SkipDuplicates bool
}

// Report describes one build or append pass.
type Report struct {
	Documents  int    `json:"documents"`
	Skipped    int    `json:"skipped_documents"`
	Added      int    `json:"added_chunks"`
	Duplicates int    `json:"duplicate_chunks"`
	Total      int    `json:"total_chunks"`
	Generation string `json:"generation,omitempty"`
}

// Builder chunks and embeds documents into index rows.
type Builder struct {
	chunker   *chunker.Chunker
	embedder  embedding.Embedder
	batchSize int
	newID     func() string
}

func NewBuilder(ch *chunker.Chunker, embedder embedding.Embedder, batchSize int) *Builder {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Builder{
		chunker:   ch,
		embedder:  embedder,
		batchSize: batchSize,
		newID:     uuid.NewString,
	}
}

// Build creates a fresh index from docs.
func (b *Builder) Build(ctx context.Context, docs []entity.DocumentRecord) (*Index, *Report, error) {
	ix := New(b.embedder.Model())
	report, err := b.Append(ctx, ix, docs, AppendOptions{})
	if err != nil {
		return nil, nil, err
	}
	return ix, report, nil
}

// Append chunks and embeds docs and adds the rows to ix. Rows are added only after every
// embedding succeeded, so a failed call leaves ix untouched.
func (b *Builder) Append(ctx context.Context, ix *Index, docs []entity.DocumentRecord, opts AppendOptions) (*Report, error) {
	if ix.Len() > 0 && ix.Model != "" && ix.Model != b.embedder.Model() {
		return nil, fmt.Errorf("%w: index uses %q, embedder uses %q", entity.ErrModelMismatch, ix.Model, b.embedder.Model())
	}
	report := &Report{Documents: len(docs)}

	known := make(map[string]struct{}, ix.Len())
	for _, text := range ix.Documents {
		known[text] = struct{}{}
	}

	var pending []entity.Chunk
	usable := 0
	for _, doc := range docs {
		if strings.TrimSpace(doc.ExtractedText) == "" {
			ctxzap.Warn(ctx, "document has no text, skipping", zap.String("source_file", doc.SourceFile))
			report.Skipped++
			continue
		}
		usable++

		meta := doc.Metadata()
		for _, text := range b.chunker.Chunk(doc.ExtractedText) {
			if _, dup := known[text]; dup {
				report.Duplicates++
				ctxzap.Warn(ctx, "chunk text already indexed",
					zap.String("source_file", meta.SourceFile),
					zap.Bool("skipped", opts.SkipDuplicates),
				)
				if opts.SkipDuplicates {
					continue
				}
			}
			known[text] = struct{}{}
			pending = append(pending, entity.Chunk{ID: b.newID(), Text: text, Metadata: meta})
		}
	}

	if usable == 0 {
		return nil, entity.ErrNoDocuments
	}

	for start := 0; start < len(pending); start += b.batchSize {
		end := min(start+b.batchSize, len(pending))
		batch := pending[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := b.embedder.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed chunks %d-%d: %w", start, end, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("%w: got %d vectors for %d chunks", entity.ErrEmbedding, len(vectors), len(batch))
		}
		for i := range batch {
			batch[i].Embedding = vectors[i]
		}

		ctxzap.Debug(ctx, "embedded chunk batch", zap.Int("from", start), zap.Int("to", end))
	}

	if err := ix.add(pending); err != nil {
		return nil, err
	}
	if ix.Model == "" {
		ix.Model = b.embedder.Model()
	}

	report.Added = len(pending)
	report.Total = ix.Len()

	ctxzap.Info(ctx, "documents indexed",
		zap.Int("documents", report.Documents),
		zap.Int("skipped", report.Skipped),
		zap.Int("added_chunks", report.Added),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("total_chunks", report.Total),
	)

	return report, nil
}
