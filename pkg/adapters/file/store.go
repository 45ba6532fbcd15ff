package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/ports"
)

// Store implements ports.Repository on the local filesystem.
// Each model is a directory under BasePath; each artifact is a file in it
// named by its stream kind (e.g. "geometry.nodes").
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".eio/models".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".eio", "models")
	}
	return &Store{BasePath: basePath}
}

// Manager returns the manager of one model directory. The directory is only
// created when the first stream is opened for writing.
func (s *Store) Manager(ctx context.Context, model string) (ports.ModelManager, error) {
	if err := domain.ValidateModelName(model); err != nil {
		return nil, err
	}
	return &manager{model: model, dir: filepath.Join(s.BasePath, model)}, nil
}

// List returns the names of all model directories, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	models := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			models = append(models, entry.Name())
		}
	}
	sort.Strings(models)
	return models, nil
}

// Delete removes a model directory with all its artifacts.
func (s *Store) Delete(ctx context.Context, model string) error {
	if err := domain.ValidateModelName(model); err != nil {
		return err
	}
	dir := filepath.Join(s.BasePath, model)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("delete %s: %w", model, domain.ErrModelNotFound)
		}
		return fmt.Errorf("failed to stat model %s: %w", model, err)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete model %s: %w", model, err)
	}
	return nil
}

type manager struct {
	model string
	dir   string
}

func (m *manager) Model() string {
	return m.model
}

// OpenStream opens the artifact of kind. Read streams are plain files.
// Write streams go to a temp file in the model directory that replaces the
// artifact on Close, so readers never observe a partial artifact.
func (m *manager) OpenStream(ctx context.Context, kind domain.StreamKind, mode domain.Mode) (ports.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dest := filepath.Join(m.dir, string(kind))

	if mode == domain.ModeRead {
		f, err := os.Open(dest)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%s/%s: %w", m.model, kind, domain.ErrArtifactNotFound)
			}
			return nil, fmt.Errorf("failed to open %s/%s: %w", m.model, kind, err)
		}
		return &readStream{File: f}, nil
	}

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to ensure model directory: %w", err)
	}
	// Same directory as the destination so the final rename stays on one filesystem.
	tmp, err := os.CreateTemp(m.dir, "tmp-"+string(kind)+"-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	return &writeStream{tmp: tmp, dest: dest}, nil
}
