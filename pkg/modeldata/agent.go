package modeldata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/eio/internal/logging"
	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/observability"
	"github.com/aretw0/eio/pkg/ports"
	"github.com/aretw0/eio/pkg/record"
)

// Agent reads or writes the model description of one model.
// An Agent is not safe for concurrent use.
type Agent struct {
	manager ports.ModelManager
	set     *record.Set
	pending pending

	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures the Agent.
type Option func(*Agent)

// WithLogger configures a logger for session events.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// WithMetrics enables record instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Agent) {
		a.metrics = m
	}
}

// New creates a closed model data agent over mgr.
func New(mgr ports.ModelManager, opts ...Option) *Agent {
	a := &Agent{
		manager: mgr,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Model returns the name of the model this agent addresses.
func (a *Agent) Model() string {
	return a.manager.Model()
}

// IsOpen reports whether a session is active.
func (a *Agent) IsOpen() bool {
	return a.set != nil
}

// Create opens the model data streams in write mode.
func (a *Agent) Create(ctx context.Context) error {
	return a.start(ctx, domain.ModeWrite)
}

// Open opens the model data streams in read mode.
func (a *Agent) Open(ctx context.Context) error {
	return a.start(ctx, domain.ModeRead)
}

func (a *Agent) start(ctx context.Context, mode domain.Mode) error {
	op := "create"
	if mode == domain.ModeRead {
		op = "open"
	}
	if a.set != nil {
		return fmt.Errorf("%s model data %s: %w", op, a.Model(), domain.ErrAlreadyOpen)
	}
	set, err := record.OpenSet(ctx, a.manager, domain.ModelDataKinds(), mode, a.metrics)
	if err != nil {
		return fmt.Errorf("%s model data %s: %w", op, a.Model(), err)
	}
	a.set = set
	a.pending = pending{}
	a.logger.Debug("Model data opened", "model", a.Model(), "mode", mode)
	return nil
}

// Close closes every stream of the session. A write session that still owes
// field records is closed anyway and reported with domain.ErrFieldCount.
func (a *Agent) Close() error {
	if a.set == nil {
		return domain.ErrClosed
	}
	mode := a.set.Mode()
	err := a.set.Close()
	a.set = nil
	if err != nil {
		err = fmt.Errorf("close model data %s: %w", a.Model(), err)
	}

	if mode == domain.ModeWrite && a.pending.remaining > 0 {
		a.logger.Warn("Model data closed with pending fields",
			"model", a.Model(),
			"category", a.pending.category.String(),
			"owner", a.pending.owner,
			"missing", a.pending.remaining,
		)
		err = errors.Join(err, fmt.Errorf("close model data %s: %s %d is missing %d fields: %w",
			a.Model(), a.pending.category, a.pending.owner, a.pending.remaining, domain.ErrFieldCount))
	}
	a.pending = pending{}

	if err != nil {
		return err
	}
	a.logger.Debug("Model data closed", "model", a.Model())
	return nil
}

func (a *Agent) reader(kind domain.StreamKind) (*record.Reader, error) {
	return a.set.Reader(kind)
}

func (a *Agent) writer(kind domain.StreamKind) (*record.Writer, error) {
	return a.set.Writer(kind)
}

func (a *Agent) commit(w *record.Writer) error {
	if err := w.Flush(); err != nil {
		a.metrics.Failed(w.Kind(), err)
		return fmt.Errorf("write %s: %w", w.Kind(), err)
	}
	a.metrics.RecordWritten(w.Kind())
	return nil
}

func (a *Agent) done(kind domain.StreamKind, err error) error {
	if err != nil {
		a.metrics.Failed(kind, err)
		return err
	}
	a.metrics.RecordRead(kind)
	return nil
}
