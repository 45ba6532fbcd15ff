package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/eio/internal/logging"
	"github.com/aretw0/eio/pkg/geometry"
	"github.com/aretw0/eio/pkg/modeldata"
	"github.com/aretw0/eio/pkg/observability"
	"github.com/aretw0/eio/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates model access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	repo ports.Repository

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.Locker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.Locker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager and the agents it creates.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics instruments the agents created by the Manager.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// NewManager creates a new Manager over repo.
func NewManager(repo ports.Repository, opts ...Option) *Manager {
	m := &Manager{
		repo:    repo,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(model) after unlocking.
func (m *Manager) acquire(model string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[model]
	if !exists {
		entry = &lockEntry{}
		m.locks[model] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(model string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[model]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, model)
	}
}

// WithLock executes fn while holding the lock of model.
func (m *Manager) WithLock(ctx context.Context, model string, fn func(context.Context) error) error {
	entry := m.acquire(model)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(model)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, model, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"model", model,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// WithModel executes fn with the manager of model while holding its lock.
func (m *Manager) WithModel(ctx context.Context, model string, fn func(context.Context, ports.ModelManager) error) error {
	return m.WithLock(ctx, model, func(ctx context.Context) error {
		mgr, err := m.repo.Manager(ctx, model)
		if err != nil {
			return err
		}
		return fn(ctx, mgr)
	})
}

// Geometry returns a geometry agent configured like the Manager.
// The caller is responsible for holding the model lock while using it.
func (m *Manager) Geometry(mgr ports.ModelManager) *geometry.Agent {
	return geometry.New(mgr, geometry.WithLogger(m.logger), geometry.WithMetrics(m.metrics))
}

// ModelData returns a model data agent configured like the Manager.
// The caller is responsible for holding the model lock while using it.
func (m *Manager) ModelData(mgr ports.ModelManager) *modeldata.Agent {
	return modeldata.New(mgr, modeldata.WithLogger(m.logger), modeldata.WithMetrics(m.metrics))
}

// LoadGeometry reads the whole geometry of model.
func (m *Manager) LoadGeometry(ctx context.Context, model string) (*geometry.Snapshot, error) {
	var snap *geometry.Snapshot
	err := m.WithModel(ctx, model, func(ctx context.Context, mgr ports.ModelManager) error {
		var err error
		snap, err = m.Geometry(mgr).Load(ctx)
		return err
	})
	return snap, err
}

// SaveGeometry replaces the geometry of model.
func (m *Manager) SaveGeometry(ctx context.Context, model string, snap *geometry.Snapshot) error {
	return m.WithModel(ctx, model, func(ctx context.Context, mgr ports.ModelManager) error {
		return m.Geometry(mgr).Save(ctx, snap)
	})
}

// LoadModelData reads the whole model description of model.
func (m *Manager) LoadModelData(ctx context.Context, model string) (*modeldata.Document, error) {
	var doc *modeldata.Document
	err := m.WithModel(ctx, model, func(ctx context.Context, mgr ports.ModelManager) error {
		var err error
		doc, err = m.ModelData(mgr).Load(ctx)
		return err
	})
	return doc, err
}

// SaveModelData replaces the model description of model.
func (m *Manager) SaveModelData(ctx context.Context, model string, doc *modeldata.Document) error {
	return m.WithModel(ctx, model, func(ctx context.Context, mgr ports.ModelManager) error {
		return m.ModelData(mgr).Save(ctx, doc)
	})
}

// Delete removes model from the repository.
func (m *Manager) Delete(ctx context.Context, model string) error {
	return m.WithLock(ctx, model, func(ctx context.Context) error {
		return m.repo.Delete(ctx, model)
	})
}

// List delegates to the repository.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.repo.List(ctx)
}

// Repository returns the underlying repository.
func (m *Manager) Repository() ports.Repository {
	return m.repo
}
