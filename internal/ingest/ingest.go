package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/futig/fundfacts/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Source type recorded for documents read from non-JSON files.
const (
	SourceTypePDF      = "pdf"
	SourceTypeMarkdown = "markdown"
)

// Load reads document records from files and directories. Directories are walked recursively
// and unsupported files are ignored. A file that fails to parse is logged and skipped.
func Load(ctx context.Context, paths ...string) ([]entity.DocumentRecord, error) {
	files, err := collect(paths)
	if err != nil {
		return nil, err
	}

	var docs []entity.DocumentRecord
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records, err := LoadFile(file)
		if err != nil {
			ctxzap.Warn(ctx, "skipping unreadable document", zap.String("path", file), zap.Error(err))
			continue
		}
		ctxzap.Debug(ctx, "document loaded", zap.String("path", file), zap.Int("records", len(records)))
		docs = append(docs, records...)
	}

	ctxzap.Info(ctx, "documents loaded", zap.Int("files", len(files)), zap.Int("records", len(docs)))
	return docs, nil
}

// LoadFile reads one file. JSON holds one record or an array of records; PDF and Markdown
// files become a single record with the file text.
func LoadFile(path string) ([]entity.DocumentRecord, error) {
	var (
		records []entity.DocumentRecord
		err     error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		records, err = loadJSON(path)
	case ".pdf":
		records, err = loadText(path, SourceTypePDF, extractPDF)
	case ".md", ".markdown":
		records, err = loadText(path, SourceTypeMarkdown, extractMarkdown)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %s", entity.ErrInvalidFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].SourceFile == "" {
			records[i].SourceFile = filepath.Base(path)
		}
	}
	return records, nil
}

func loadJSON(path string) ([]entity.DocumentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var records []entity.DocumentRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrInvalidFormat, err)
		}
		return records, nil
	}

	var record entity.DocumentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidFormat, err)
	}
	return []entity.DocumentRecord{record}, nil
}

func loadText(path, sourceType string, extract func(string) (string, error)) ([]entity.DocumentRecord, error) {
	text, err := extract(path)
	if err != nil {
		return nil, err
	}
	return []entity.DocumentRecord{{
		ExtractedText: text,
		SourceType:    sourceType,
	}}, nil
}

func supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".pdf", ".md", ".markdown":
		return true
	}
	return false
}

func collect(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && supported(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
	}
	sort.Strings(files)
	return files, nil
}
