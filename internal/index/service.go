package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/fundfacts/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Mirror receives every persisted row. Implementations upsert on chunk id.
type Mirror interface {
	UpsertChunks(ctx context.Context, chunks []entity.Chunk) error
}

// Service runs the single-writer rebuild and append flows.
type Service struct {
	builder *Builder
	store   *Store
	mirror  Mirror
}

// NewService wires the flows; mirror may be nil.
func NewService(builder *Builder, store *Store, mirror Mirror) *Service {
	return &Service{
		builder: builder,
		store:   store,
		mirror:  mirror,
	}
}

// Rebuild indexes docs from scratch and publishes the result as a new generation.
func (s *Service) Rebuild(ctx context.Context, docs []entity.DocumentRecord) (*Report, error) {
	unlock, err := s.store.Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	ix, report, err := s.builder.Build(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	return s.publish(ctx, ix, report, 0)
}

// Append loads the published index, adds docs and publishes the combined index.
func (s *Service) Append(ctx context.Context, docs []entity.DocumentRecord, opts AppendOptions) (*Report, error) {
	unlock, err := s.store.Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	ix, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	before := ix.Len()

	report, err := s.builder.Append(ctx, ix, docs, opts)
	if err != nil {
		return nil, fmt.Errorf("append to index: %w", err)
	}

	if report.Added == 0 {
		ctxzap.Info(ctx, "nothing new to index, keeping current generation",
			zap.String("generation", ix.Generation))
		report.Generation = ix.Generation
		return report, nil
	}

	return s.publish(ctx, ix, report, before)
}

func (s *Service) publish(ctx context.Context, ix *Index, report *Report, mirrorFrom int) (*Report, error) {
	generation, err := s.store.Save(ctx, ix)
	if err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}
	report.Generation = generation

	if s.mirror == nil {
		return report, nil
	}

	rows := ix.Chunks(mirrorFrom)
	if err := s.mirror.UpsertChunks(ctx, rows); err != nil {
		ctxzap.Error(ctx, "index published but mirror update failed",
			zap.String("generation", generation),
			zap.Error(err),
		)
		return report, errors.Join(ErrMirror, err)
	}

	ctxzap.Info(ctx, "mirror updated", zap.Int("rows", len(rows)))
	return report, nil
}

// ErrMirror marks a failure after the index itself was published.
var ErrMirror = errors.New("relational mirror update failed")
