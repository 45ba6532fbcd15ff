package eio

import (
	"context"
	"log/slog"

	"github.com/aretw0/eio/internal/logging"
	"github.com/aretw0/eio/pkg/adapters/file"
	"github.com/aretw0/eio/pkg/geometry"
	"github.com/aretw0/eio/pkg/mesher"
	"github.com/aretw0/eio/pkg/modeldata"
	"github.com/aretw0/eio/pkg/observability"
	"github.com/aretw0/eio/pkg/persistence/middleware"
	"github.com/aretw0/eio/pkg/ports"
	"github.com/aretw0/eio/pkg/session"
)

// Workspace is the high-level entry point of the library.
// It owns a repository of models and hands out agents bound to one model.
type Workspace struct {
	repo        ports.Repository
	middlewares []middleware.Middleware
	locker      ports.Locker
	meshers     []mesher.Mesher
	logger      *slog.Logger
	metrics     *observability.Metrics

	sessions *session.Manager
	registry *mesher.Registry
}

// Option defines a functional option for configuring the Workspace.
type Option func(*Workspace)

// WithRepository replaces the default filesystem repository.
func WithRepository(repo ports.Repository) Option {
	return func(w *Workspace) {
		w.repo = repo
	}
}

// WithMiddleware wraps the repository. The first middleware is the outermost.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(w *Workspace) {
		w.middlewares = append(w.middlewares, mws...)
	}
}

// WithLocker adds a distributed lock around every model session.
func WithLocker(l ports.Locker) Option {
	return func(w *Workspace) {
		w.locker = l
	}
}

// WithMeshers registers mesh generators.
func WithMeshers(ms ...mesher.Mesher) Option {
	return func(w *Workspace) {
		w.meshers = append(w.meshers, ms...)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workspace) {
		w.logger = logger
	}
}

// WithMetrics sets the collectors shared by every agent.
func WithMetrics(m *observability.Metrics) Option {
	return func(w *Workspace) {
		w.metrics = m
	}
}

// New creates a workspace whose models live under dir.
// An empty dir uses the default location of the filesystem repository.
func New(dir string, opts ...Option) *Workspace {
	w := &Workspace{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.repo == nil {
		w.repo = file.New(dir)
	}
	w.repo = middleware.Chain(w.repo, w.middlewares...)

	sessOpts := []session.Option{
		session.WithLogger(w.logger),
		session.WithMetrics(w.metrics),
	}
	if w.locker != nil {
		sessOpts = append(sessOpts, session.WithLocker(w.locker))
	}
	w.sessions = session.NewManager(w.repo, sessOpts...)
	w.registry = mesher.NewRegistry(w.meshers...)
	return w
}

// Sessions returns the lock-holding session manager.
func (w *Workspace) Sessions() *session.Manager {
	return w.sessions
}

// Meshers returns the mesh generator registry.
func (w *Workspace) Meshers() *mesher.Registry {
	return w.registry
}

// Models lists the stored models.
func (w *Workspace) Models(ctx context.Context) ([]string, error) {
	return w.sessions.List(ctx)
}

// Geometry returns a geometry agent for model. The agent is not locked;
// use Sessions().WithModel when other writers may be active.
func (w *Workspace) Geometry(ctx context.Context, model string) (*geometry.Agent, error) {
	mgr, err := w.repo.Manager(ctx, model)
	if err != nil {
		return nil, err
	}
	return w.sessions.Geometry(mgr), nil
}

// ModelData returns a model data agent for model, unlocked like Geometry.
func (w *Workspace) ModelData(ctx context.Context, model string) (*modeldata.Agent, error) {
	mgr, err := w.repo.Manager(ctx, model)
	if err != nil {
		return nil, err
	}
	return w.sessions.ModelData(mgr), nil
}

// Mesh generates a mesh with the generator selected by c.
func (w *Workspace) Mesh(ctx context.Context, c mesher.Control) (*mesher.Mesh, error) {
	return w.registry.Generate(ctx, c)
}
