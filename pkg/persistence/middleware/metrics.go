package middleware

import (
	"context"

	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/observability"
	"github.com/aretw0/eio/pkg/ports"
)

type metricsMiddleware struct {
	next    ports.Repository
	metrics *observability.Metrics
}

// NewMetricsMiddleware creates a middleware that counts the bytes moved
// through every stream of the repository.
func NewMetricsMiddleware(m *observability.Metrics) Middleware {
	return func(next ports.Repository) ports.Repository {
		return &metricsMiddleware{next: next, metrics: m}
	}
}

func (m *metricsMiddleware) Manager(ctx context.Context, model string) (ports.ModelManager, error) {
	mgr, err := m.next.Manager(ctx, model)
	if err != nil {
		return nil, err
	}
	return &meteredManager{next: mgr, metrics: m.metrics}, nil
}

func (m *metricsMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *metricsMiddleware) Delete(ctx context.Context, model string) error {
	return m.next.Delete(ctx, model)
}

type meteredManager struct {
	next    ports.ModelManager
	metrics *observability.Metrics
}

func (m *meteredManager) Model() string {
	return m.next.Model()
}

func (m *meteredManager) OpenStream(ctx context.Context, kind domain.StreamKind, mode domain.Mode) (ports.Stream, error) {
	s, err := m.next.OpenStream(ctx, kind, mode)
	if err != nil {
		return nil, err
	}
	return &meteredStream{Stream: s, kind: kind, metrics: m.metrics}, nil
}

type meteredStream struct {
	ports.Stream
	kind    domain.StreamKind
	metrics *observability.Metrics
}

func (s *meteredStream) Read(p []byte) (int, error) {
	n, err := s.Stream.Read(p)
	s.metrics.BytesRead(s.kind, n)
	return n, err
}

func (s *meteredStream) Write(p []byte) (int, error) {
	n, err := s.Stream.Write(p)
	s.metrics.BytesWritten(s.kind, n)
	return n, err
}
