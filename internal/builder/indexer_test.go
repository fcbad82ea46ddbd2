package builder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/futig/fundfacts/internal/chunker"
	"github.com/futig/fundfacts/internal/index"
	"github.com/futig/fundfacts/internal/integration/embedding"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func newTestIndexer(t *testing.T) (*Indexer, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	builder := index.NewBuilder(chunker.New(50, 5), embedding.NewMockEmbedder(0), 8)
	service := index.NewService(builder, index.NewStore(filepath.Join(t.TempDir(), "index"), 2), nil)
	return &Indexer{service: service, logger: zap.New(core)}, logs
}

func writeInput(t *testing.T, dir, name, content string) {
	t.Helper()
	assert.NilError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestIndexerRunLogsThroughContext(t *testing.T) {
	indexer, logs := newTestIndexer(t)

	input := t.TempDir()
	doc := `{"scheme": "HDFC Mid Cap", "extracted_text": "The expense ratio is 0.75 percent.", "source_file": "hdfc.pdf"}`
	writeInput(t, input, "good.json", doc)
	writeInput(t, input, "same.json", doc)
	writeInput(t, input, "broken.json", `{"scheme": `)

	report, err := indexer.Run(context.Background(), ModeBuild, []string{input}, index.AppendOptions{})
	assert.NilError(t, err)
	assert.Equal(t, report.Documents, 2)
	assert.Equal(t, report.Duplicates, 1)

	skipped := logs.FilterMessage("skipping unreadable document").All()
	assert.Assert(t, is.Len(skipped, 1))
	assert.Equal(t, skipped[0].Level, zapcore.WarnLevel)
	assert.Equal(t, skipped[0].ContextMap()["path"], filepath.Join(input, "broken.json"))
	assert.Equal(t, skipped[0].ContextMap()["mode"], ModeBuild)

	assert.Equal(t, logs.FilterMessage("chunk text already indexed").Len(), 1)
	assert.Equal(t, logs.FilterMessage("index generation published").Len(), 1)
}

func TestIndexerRunRejectsUnknownMode(t *testing.T) {
	indexer, _ := newTestIndexer(t)

	_, err := indexer.Run(context.Background(), "merge", []string{t.TempDir()}, index.AppendOptions{})
	assert.ErrorContains(t, err, "unknown mode")
}
