package index

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/futig/fundfacts/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	currentFile     = "CURRENT"
	lockFile        = ".lock"
	documentsFile   = "vector_store.json"
	matrixFile      = "embeddings.f32"
	generationGlob  = "gen-*"
	generationStamp = "20060102T150405.000000000"
)

// ErrLocked is returned when another writer holds the index lock.
var ErrLocked = errors.New("index is locked by another writer")

type documentStore struct {
	Documents      []string               `json:"documents"`
	Metadatas      []entity.ChunkMetadata `json:"metadatas"`
	IDs            []string               `json:"ids"`
	EmbeddingModel string                 `json:"embedding_model,omitempty"`
}

// Store publishes indexes under root as immutable generation directories.
// CURRENT names the live generation and is replaced with an atomic rename,
// so readers always see a matching pair of artifacts.
type Store struct {
	root string
	keep int
}

func NewStore(root string, keepGenerations int) *Store {
	if keepGenerations < 1 {
		keepGenerations = 1
	}
	return &Store{root: root, keep: keepGenerations}
}

func (s *Store) Root() string {
	return s.root
}

// Lock takes the single-writer lock. The returned func releases it.
// A lock left behind by a crashed writer must be removed by hand.
func (s *Store) Lock() (func(), error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}

	path := filepath.Join(s.root, lockFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: remove %s if no indexer is running", ErrLocked, path)
		}
		return nil, fmt.Errorf("create lock: %w", err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()

	return func() { os.Remove(path) }, nil
}

// Save writes ix as a new generation and makes it current.
func (s *Store) Save(ctx context.Context, ix *Index) (string, error) {
	if err := ix.Validate(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("gen-%s-%s", time.Now().UTC().Format(generationStamp), uuid.NewString()[:8])
	dir := filepath.Join(s.root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create generation dir: %w", err)
	}

	docs, err := json.MarshalIndent(documentStore{
		Documents:      ix.Documents,
		Metadatas:      ix.Metadatas,
		IDs:            ix.IDs,
		EmbeddingModel: ix.Model,
	}, "", "  ")
	if err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("marshal documents: %w", err)
	}

	if err := writeFileSync(filepath.Join(dir, documentsFile), docs); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("write documents: %w", err)
	}

	var matrix bytes.Buffer
	if err := writeMatrix(&matrix, ix.Embeddings); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("encode embeddings: %w", err)
	}
	if err := writeFileSync(filepath.Join(dir, matrixFile), matrix.Bytes()); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("write embeddings: %w", err)
	}

	if err := s.publish(name); err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	ix.Generation = name

	ctxzap.Info(ctx, "index generation published",
		zap.String("generation", name),
		zap.Int("chunks", ix.Len()),
		zap.Int("dimension", ix.Dimension()),
	)

	s.prune(ctx, name)
	return name, nil
}

func (s *Store) publish(name string) error {
	tmp := filepath.Join(s.root, currentFile+".tmp")
	if err := writeFileSync(tmp, []byte(name+"\n")); err != nil {
		return fmt.Errorf("write current pointer: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(s.root, currentFile)); err != nil {
		return fmt.Errorf("swap current pointer: %w", err)
	}
	return nil
}

// prune removes the oldest generations beyond the retention count. The current one is never removed.
func (s *Store) prune(ctx context.Context, current string) {
	dirs, err := filepath.Glob(filepath.Join(s.root, generationGlob))
	if err != nil {
		return
	}
	sort.Strings(dirs)

	for len(dirs) > s.keep {
		old := dirs[0]
		dirs = dirs[1:]
		if filepath.Base(old) == current {
			continue
		}
		if err := os.RemoveAll(old); err != nil {
			ctxzap.Warn(ctx, "failed to prune index generation", zap.String("dir", old), zap.Error(err))
			continue
		}
		ctxzap.Debug(ctx, "pruned index generation", zap.String("dir", old))
	}
}

// Load reads the current generation. A missing pointer or artifact yields ErrIndexNotFound,
// unreadable or length-inconsistent artifacts yield ErrIndexCorrupt.
func (s *Store) Load() (*Index, error) {
	pointer, err := os.ReadFile(filepath.Join(s.root, currentFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: no published index under %s", entity.ErrIndexNotFound, s.root)
		}
		return nil, fmt.Errorf("read current pointer: %w", err)
	}

	name := strings.TrimSpace(string(pointer))
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: invalid current pointer %q", entity.ErrIndexCorrupt, name)
	}
	dir := filepath.Join(s.root, name)

	docsData, err := readArtifact(filepath.Join(dir, documentsFile))
	if err != nil {
		return nil, err
	}
	matrixData, err := readArtifact(filepath.Join(dir, matrixFile))
	if err != nil {
		return nil, err
	}

	var docs documentStore
	if err := json.Unmarshal(docsData, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", entity.ErrIndexCorrupt, documentsFile, err)
	}

	embeddings, err := readMatrix(matrixData)
	if err != nil {
		return nil, err
	}

	ix := &Index{
		IDs:        docs.IDs,
		Documents:  docs.Documents,
		Metadatas:  docs.Metadatas,
		Embeddings: embeddings,
		Model:      docs.EmbeddingModel,
		Generation: name,
	}
	if err := ix.Validate(); err != nil {
		return nil, err
	}
	return ix, nil
}

func readArtifact(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: missing %s", entity.ErrIndexNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
