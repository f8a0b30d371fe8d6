// Package http serves a workstate model over a read-only JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grigi/workstate"
	"github.com/grigi/workstate/internal/logging"
	"github.com/grigi/workstate/internal/metrics"
	render "github.com/grigi/workstate/internal/presentation/graph"
	"github.com/grigi/workstate/internal/validator"
	"github.com/grigi/workstate/pkg/domain"
	"github.com/grigi/workstate/pkg/graph"
	"github.com/grigi/workstate/pkg/ports"
)

// Source loads the served model. *workstate.Workstate implements it.
type Source interface {
	Load(ctx context.Context) (*workstate.Model, error)
	Snapshot(ctx context.Context, name string) (*graph.Snapshot, error)
	Store() ports.SnapshotStore
}

// Server handles the API routes.
type Server struct {
	Source   Source
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithMetrics records metrics in m and serves reg on /metrics.
func WithMetrics(m *metrics.Metrics, reg prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Metrics = m
		s.Gatherer = reg
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates a new HTTP handler for the model source.
func NewHandler(src Source, opts ...Option) http.Handler {
	s := &Server{Source: src}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = logging.NewNop()
	}
	if s.Metrics == nil {
		reg := prometheus.NewRegistry()
		s.Metrics = metrics.New(reg)
		s.Gatherer = reg
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.Health)
	r.Get("/info", s.Info)
	r.Get("/scopes", s.Scopes)
	r.Get("/validate", s.Validate)
	r.Get("/graph", s.Graph)
	r.Route("/snapshots", func(r chi.Router) {
		r.Get("/", s.ListSnapshots)
		r.Post("/", s.CreateSnapshot)
		r.Get("/{name}", s.GetSnapshot)
		r.Delete("/{name}", s.DeleteSnapshot)
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.Logger)
}

// Info handles GET /info.
func (s *Server) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "workstate-http",
		"version": workstate.Version,
	}, s.Logger)
}

// ScopeInfo describes one member scope.
type ScopeInfo struct {
	Name    string   `json:"name"`
	Initial string   `json:"initial,omitempty"`
	States  []string `json:"states"`
}

// Scopes handles GET /scopes.
func (s *Server) Scopes(w http.ResponseWriter, r *http.Request) {
	m, ok := s.load(w, r)
	if !ok {
		return
	}
	ordered := m.OrderedStates()
	out := make([]ScopeInfo, 0, len(m.Scopes))
	for _, sc := range m.Scopes {
		states := ordered[sc.Name()]
		if states == nil {
			states = []string{}
		}
		out = append(out, ScopeInfo{Name: sc.Name(), Initial: sc.Initial(), States: states})
	}
	writeJSON(w, http.StatusOK, out, s.Logger)
}

// ValidationResult is the body of GET /validate.
type ValidationResult struct {
	Model  string       `json:"model"`
	Valid  bool         `json:"valid"`
	Scopes []string     `json:"scopes"`
	Error  *ErrorDetail `json:"error,omitempty"`

	Findings []validator.Finding `json:"findings,omitempty"`
}

// ErrorDetail carries a broken model error.
type ErrorDetail struct {
	Code    domain.Code `json:"code,omitempty"`
	Message string      `json:"message"`
	Scope   string      `json:"scope,omitempty"`
	States  []string    `json:"states,omitempty"`
}

func errorDetail(err error) *ErrorDetail {
	d := &ErrorDetail{Message: err.Error()}
	var bse *domain.BrokenStateModelError
	if errors.As(err, &bse) {
		d.Code = bse.Code
		d.Scope = bse.Scope
		d.States = bse.States
	}
	return d
}

// Validate handles GET /validate. Broken models answer 422.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	m, ok := s.load(w, r)
	if !ok {
		return
	}
	res := ValidationResult{Model: m.Name, Valid: m.Valid(), Scopes: m.ScopeNames()}
	status := http.StatusOK
	if m.Valid() {
		res.Findings = validator.Lint(m.Engine.Registries())
	} else {
		res.Error = errorDetail(m.Err)
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, res, s.Logger)
}

// Graph handles GET /graph?format=json|dot|mermaid|png|svg.
// With draft=true a broken model is drawn with its unreachable states
// highlighted instead of failing.
func (s *Server) Graph(w http.ResponseWriter, r *http.Request) {
	format := render.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := render.ParseFormat(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err, s.Logger)
			return
		}
		format = f
	}

	m, ok := s.load(w, r)
	if !ok {
		return
	}

	var g *graph.Graph
	var overlay *render.Overlay
	switch {
	case m.Valid():
		var err error
		if g, err = m.Graph(); err != nil {
			writeError(w, http.StatusInternalServerError, err, s.Logger)
			return
		}
	case r.URL.Query().Get("draft") == "true":
		g = m.DraftGraph()
		overlay = &render.Overlay{Unreachable: m.Unreachable()}
	default:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": errorDetail(m.Err)}, s.Logger)
		return
	}

	out, err := render.Render(r.Context(), g, format, overlay)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, render.ErrGraphvizNotFound) {
			status = http.StatusNotImplemented
		}
		writeError(w, status, err, s.Logger)
		return
	}
	s.Metrics.ObserveRender(string(format))

	w.Header().Set("Content-Type", format.ContentType())
	if _, err := w.Write(out); err != nil {
		s.Logger.Error("graph response write failed", "error", err)
	}
}

// ListSnapshots handles GET /snapshots.
func (s *Server) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w)
	if !ok {
		return
	}
	names, err := store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err, s.Logger)
		return
	}
	sort.Strings(names)
	writeJSON(w, http.StatusOK, names, s.Logger)
}

// CreateSnapshot handles POST /snapshots?name=. The name defaults to the
// model name.
func (s *Server) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.store(w); !ok {
		return
	}
	snap, err := s.Source.Snapshot(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, statusFor(err), err, s.Logger)
		return
	}
	writeJSON(w, http.StatusCreated, snap, s.Logger)
}

// GetSnapshot handles GET /snapshots/{name}.
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w)
	if !ok {
		return
	}
	snap, err := store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, statusFor(err), err, s.Logger)
		return
	}
	writeJSON(w, http.StatusOK, snap, s.Logger)
}

// DeleteSnapshot handles DELETE /snapshots/{name}.
func (s *Server) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w)
	if !ok {
		return
	}
	if err := store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, statusFor(err), err, s.Logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (*workstate.Model, bool) {
	m, err := s.Source.Load(r.Context())
	if err != nil {
		s.Metrics.ObserveValidation("http", err, false)
		writeError(w, statusFor(err), err, s.Logger)
		return nil, false
	}
	s.Metrics.ObserveValidation("http", m.Err, true)

	counts := make(map[string]int, len(m.Scopes))
	for _, sc := range m.Scopes {
		counts[sc.Name()] = len(sc.Registries().StatesOf(sc.Name()))
	}
	s.Metrics.SetStates(counts)
	return m, true
}

func (s *Server) store(w http.ResponseWriter) (ports.SnapshotStore, bool) {
	store := s.Source.Store()
	if store == nil {
		writeError(w, http.StatusNotImplemented, fmt.Errorf("no snapshot store configured"), s.Logger)
		return nil, false
	}
	return store, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSnapshotNotFound):
		return http.StatusNotFound
	case domain.IsBroken(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error, logger *slog.Logger) {
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err, "status", status)
	} else {
		logger.Warn("request rejected", "error", err, "status", status)
	}
	writeJSON(w, status, map[string]any{"error": errorDetail(err)}, logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
