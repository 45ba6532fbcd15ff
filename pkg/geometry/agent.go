package geometry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/eio/internal/logging"
	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/observability"
	"github.com/aretw0/eio/pkg/ports"
	"github.com/aretw0/eio/pkg/record"
)

// Agent reads or writes the geometry of one model.
// An Agent is not safe for concurrent use.
type Agent struct {
	manager ports.ModelManager
	set     *record.Set

	descriptor    domain.GeometryDescriptor
	headerWritten bool

	nodes      record.Cursor
	elements   record.Cursor
	bodies     record.Cursor
	loops      record.Cursor
	boundaries record.Cursor

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

// New creates a closed geometry agent over mgr.
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

// Create opens all geometry streams in write mode. No record is written yet.
func (a *Agent) Create(ctx context.Context) error {
	if a.set != nil {
		return fmt.Errorf("create geometry %s: %w", a.Model(), domain.ErrAlreadyOpen)
	}
	set, err := record.OpenSet(ctx, a.manager, domain.GeometryKinds(), domain.ModeWrite, a.metrics)
	if err != nil {
		return fmt.Errorf("create geometry %s: %w", a.Model(), err)
	}

	a.set = set
	a.descriptor = domain.GeometryDescriptor{}
	a.headerWritten = false
	a.resetCursors()

	a.logger.Debug("Geometry created", "model", a.Model())
	return nil
}

// Open opens all geometry streams in read mode and loads the descriptor header.
func (a *Agent) Open(ctx context.Context) error {
	if a.set != nil {
		return fmt.Errorf("open geometry %s: %w", a.Model(), domain.ErrAlreadyOpen)
	}
	set, err := record.OpenSet(ctx, a.manager, domain.GeometryKinds(), domain.ModeRead, a.metrics)
	if err != nil {
		return fmt.Errorf("open geometry %s: %w", a.Model(), err)
	}

	d, err := readDescriptor(set)
	if err != nil {
		a.metrics.Failed(domain.KindGeometryHeader, err)
		_ = set.Close()
		return fmt.Errorf("open geometry %s: %w", a.Model(), err)
	}

	a.set = set
	a.descriptor = d
	a.headerWritten = true
	a.resetCursors()

	a.logger.Debug("Geometry opened", "model", a.Model(), "descriptor", d)
	return nil
}

func readDescriptor(set *record.Set) (domain.GeometryDescriptor, error) {
	var d domain.GeometryDescriptor
	r, err := set.Reader(domain.KindGeometryHeader)
	if err != nil {
		return d, err
	}

	fields := []struct {
		name string
		dst  *int
	}{
		{"bodies", &d.Bodies},
		{"boundaries", &d.Boundaries},
		{"outer", &d.Outer},
		{"inner", &d.Inner},
		{"vertices", &d.Vertices},
		{"loops", &d.Loops},
		{"maxloop", &d.MaxLoop},
	}
	for _, f := range fields {
		v, err := r.Int(f.name)
		if err != nil {
			return domain.GeometryDescriptor{}, err
		}
		*f.dst = v
	}
	return d, nil
}

// Close closes every stream of the session. Closing a closed agent returns
// domain.ErrClosed and leaves the agent untouched.
func (a *Agent) Close() error {
	if a.set == nil {
		return domain.ErrClosed
	}
	err := a.set.Close()
	a.set = nil
	if err != nil {
		a.logger.Warn("Geometry closed with error", "model", a.Model(), "err", err)
		return fmt.Errorf("close geometry %s: %w", a.Model(), err)
	}
	a.logger.Debug("Geometry closed", "model", a.Model())
	return nil
}

// Descriptor returns the header counts of the session.
func (a *Agent) Descriptor() domain.GeometryDescriptor {
	return a.descriptor
}

// SetDescriptor replaces the header counts and serializes them immediately.
// The header artifact always holds exactly one full header line.
func (a *Agent) SetDescriptor(ctx context.Context, d domain.GeometryDescriptor) error {
	kind := domain.KindGeometryHeader
	w, err := a.set.Writer(kind)
	if err != nil {
		return err
	}
	if a.headerWritten {
		if w, err = a.set.Truncate(ctx, kind); err != nil {
			return err
		}
	}

	w.Int(d.Bodies).
		Int(d.Boundaries).
		Int(d.Outer).
		Int(d.Inner).
		Int(d.Vertices).
		Int(d.Loops).
		Int(d.MaxLoop).
		EOL()
	if err := w.Flush(); err != nil {
		a.metrics.Failed(kind, err)
		return fmt.Errorf("write %s: %w", kind, err)
	}

	a.descriptor = d
	a.headerWritten = true
	a.metrics.RecordWritten(kind)
	return nil
}

func (a *Agent) resetCursors() {
	d := a.descriptor
	a.nodes.Reset(d.Vertices)
	a.bodies.Reset(d.Bodies)
	a.elements.Reset(d.Boundaries)
	a.boundaries.Reset(d.Outer + d.Inner)
	a.loops.Reset(d.Loops)
}
