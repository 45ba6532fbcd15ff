// Package http serves a read-only inspection API over a model repository.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/geometry"
	"github.com/aretw0/eio/pkg/ports"
	"github.com/aretw0/eio/pkg/session"
)

// Server holds the handlers. Every model access goes through Sessions so
// requests never observe a model while it is being rewritten.
type Server struct {
	Sessions *session.Manager
	Version  string

	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithGatherer exposes gatherer on /metrics. Without it /metrics is not routed.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// NewHandler creates the HTTP handler.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		Sessions: sessions,
		Version:  "dev",
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.Route("/models", func(r chi.Router) {
		r.Get("/", s.ListModels)
		r.Route("/{model}", func(r chi.Router) {
			r.Get("/geometry", s.GetDescriptor)
			r.Get("/geometry/{kind}", s.GetGeometryRecords)
			r.Get("/modeldata", s.GetModelData)
		})
	})
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "eio-http",
		"version": s.Version,
	})
}

// ListModels handles GET /models.
func (s *Server) ListModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, "ListModels", err)
		return
	}
	if models == nil {
		models = []string{}
	}
	s.writeJSON(w, models)
}

// GetDescriptor handles GET /models/{model}/geometry.
func (s *Server) GetDescriptor(w http.ResponseWriter, r *http.Request) {
	var desc domain.GeometryDescriptor
	err := s.withGeometry(r, func(_ context.Context, a *geometry.Agent) error {
		desc = a.Descriptor()
		return nil
	})
	if err != nil {
		s.fail(w, "GetDescriptor", err)
		return
	}
	s.writeJSON(w, desc)
}

// GetGeometryRecords handles GET /models/{model}/geometry/{kind}.
func (s *Server) GetGeometryRecords(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	switch kind {
	case "nodes", "elements", "bodies", "loops", "boundaries":
	default:
		http.Error(w, "unknown geometry kind: "+kind, http.StatusNotFound)
		return
	}

	snap, err := s.Sessions.LoadGeometry(r.Context(), chi.URLParam(r, "model"))
	if err != nil {
		s.fail(w, "GetGeometryRecords", err)
		return
	}

	var out any
	switch kind {
	case "nodes":
		out = orEmpty(snap.Nodes)
	case "elements":
		out = orEmpty(snap.Elements)
	case "bodies":
		out = orEmpty(snap.Bodies)
	case "loops":
		out = orEmpty(snap.Loops)
	case "boundaries":
		out = orEmpty(snap.Boundaries)
	}
	s.writeJSON(w, out)
}

// ModelDataSummary is the body of GET /models/{model}/modeldata.
type ModelDataSummary struct {
	Description domain.ModelDescription `json:"description"`
	Constants   domain.Constants        `json:"constants"`
	Coordinates domain.Coordinates      `json:"coordinates"`
}

// GetModelData handles GET /models/{model}/modeldata.
func (s *Server) GetModelData(w http.ResponseWriter, r *http.Request) {
	var out ModelDataSummary
	err := s.Sessions.WithModel(r.Context(), chi.URLParam(r, "model"), func(ctx context.Context, mgr ports.ModelManager) error {
		a := s.Sessions.ModelData(mgr)
		if err := a.Open(ctx); err != nil {
			return err
		}
		defer a.Close()

		var err error
		if out.Description, err = a.ReadDescription(); err != nil {
			return err
		}
		if out.Constants, err = a.ReadConstants(); err != nil {
			return err
		}
		out.Coordinates, err = a.ReadCoordinates()
		return err
	})
	if err != nil {
		s.fail(w, "GetModelData", err)
		return
	}
	s.writeJSON(w, out)
}

func (s *Server) withGeometry(r *http.Request, fn func(context.Context, *geometry.Agent) error) error {
	return s.Sessions.WithModel(r.Context(), chi.URLParam(r, "model"), func(ctx context.Context, mgr ports.ModelManager) error {
		a := s.Sessions.Geometry(mgr)
		if err := a.Open(ctx); err != nil {
			return err
		}
		defer a.Close()
		return fn(ctx, a)
	})
}

func orEmpty[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

func statusOf(err error) int {
	var parseErr *domain.ParseError
	switch {
	case errors.Is(err, domain.ErrInvalidModelName):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrModelNotFound), errors.Is(err, domain.ErrArtifactNotFound):
		return http.StatusNotFound
	case errors.As(err, &parseErr), errors.Is(err, domain.ErrFieldCount):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Warn(op+" rejected", "error", err, "status", status)
	}
	http.Error(w, err.Error(), status)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
