package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/eio/pkg/adapters/bufstream"
	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/ports"
)

// Store implements ports.Repository in memory.
// Safe for concurrent use.
type Store struct {
	models map[string]map[domain.StreamKind][]byte
	mu     sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		models: make(map[string]map[domain.StreamKind][]byte),
	}
}

// NewStoreFrom creates a store seeded with raw artifact text, keyed by model and kind.
// This improves DX for tests that start from hand-written artifacts.
func NewStoreFrom(models map[string]map[domain.StreamKind]string) *Store {
	s := NewStore()
	for model, artifacts := range models {
		for kind, text := range artifacts {
			s.put(model, kind, []byte(text))
		}
	}
	return s
}

// Manager returns the manager of model.
func (s *Store) Manager(ctx context.Context, model string) (ports.ModelManager, error) {
	if err := domain.ValidateModelName(model); err != nil {
		return nil, err
	}
	return &manager{store: s, model: model}, nil
}

// List returns the models holding at least one artifact, sorted by name.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	models := make([]string, 0, len(s.models))
	for name, artifacts := range s.models {
		if len(artifacts) > 0 {
			models = append(models, name)
		}
	}
	sort.Strings(models)
	return models, nil
}

// Delete removes every artifact of model.
func (s *Store) Delete(ctx context.Context, model string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.models[model]) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrModelNotFound, model)
	}
	delete(s.models, model)
	return nil
}

// put stores a private copy of data, so later writes by the caller cannot leak in.
func (s *Store) put(model string, kind domain.StreamKind, data []byte) {
	copied := append([]byte(nil), data...)

	s.mu.Lock()
	defer s.mu.Unlock()
	artifacts, ok := s.models[model]
	if !ok {
		artifacts = make(map[domain.StreamKind][]byte)
		s.models[model] = artifacts
	}
	artifacts[kind] = copied
}

func (s *Store) get(model string, kind domain.StreamKind) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.models[model][kind]
	if !ok {
		return nil, false
	}
	// Copy on read so an open stream is isolated from later commits
	return append([]byte(nil), data...), true
}

type manager struct {
	store *Store
	model string
}

func (m *manager) Model() string {
	return m.model
}

func (m *manager) OpenStream(ctx context.Context, kind domain.StreamKind, mode domain.Mode) (ports.Stream, error) {
	switch mode {
	case domain.ModeRead:
		data, ok := m.store.get(m.model, kind)
		if !ok {
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrArtifactNotFound, m.model, kind)
		}
		return bufstream.NewReader(kind, data), nil
	case domain.ModeWrite:
		return bufstream.NewWriter(kind, func(data []byte) error {
			m.store.put(m.model, kind, data)
			return nil
		}), nil
	default:
		return nil, fmt.Errorf("open %s: %w", kind, domain.ErrWrongMode)
	}
}
