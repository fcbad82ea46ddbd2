package builder

import (
	"context"
	"fmt"

	"github.com/futig/fundfacts/internal/index"
	"github.com/futig/fundfacts/internal/ingest"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Index build modes accepted by Indexer.Run.
const (
	ModeBuild  = "build"
	ModeAppend = "append"
)

// Indexer runs one offline indexing pass.
type Indexer struct {
	service *index.Service
	db      *pgxpool.Pool
	logger  *zap.Logger
}

// Logger returns the process logger.
func (i *Indexer) Logger() *zap.Logger {
	return i.logger
}

// Run loads the documents under inputs and rebuilds or appends to the published index.
func (i *Indexer) Run(ctx context.Context, mode string, inputs []string, opts index.AppendOptions) (*index.Report, error) {
	if mode != ModeBuild && mode != ModeAppend {
		return nil, fmt.Errorf("unknown mode %q, want %s or %s", mode, ModeBuild, ModeAppend)
	}

	ctx = ctxzap.ToContext(ctx, i.logger.With(zap.String("mode", mode)))

	docs, err := ingest.Load(ctx, inputs...)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}

	if mode == ModeAppend {
		return i.service.Append(ctx, docs, opts)
	}
	return i.service.Rebuild(ctx, docs)
}

// Close releases the database pool when the mirror is enabled.
func (i *Indexer) Close() {
	if i.db != nil {
		i.db.Close()
	}
	_ = i.logger.Sync()
}
