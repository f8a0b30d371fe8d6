package workstate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/grigi/workstate/internal/logging"
	"github.com/grigi/workstate/pkg/adapters/file"
	"github.com/grigi/workstate/pkg/domain"
	"github.com/grigi/workstate/pkg/engine"
	"github.com/grigi/workstate/pkg/graph"
	"github.com/grigi/workstate/pkg/ports"
	"github.com/grigi/workstate/pkg/scope"
)

// Workstate is the high-level entry point of the toolkit.
// It loads a model through a ports.ModelLoader, builds its scopes, validates
// them as an engine and exports the result.
type Workstate struct {
	Name       string
	loader     ports.ModelLoader
	store      ports.SnapshotStore
	conditions map[string]domain.Condition
	logger     *slog.Logger
}

// Option defines a functional option for configuring a Workstate.
type Option func(*Workstate)

// WithLoader injects a custom ModelLoader, bypassing the default file loader.
func WithLoader(l ports.ModelLoader) Option {
	return func(w *Workstate) {
		w.loader = l
	}
}

// WithStore sets where snapshots are saved.
func WithStore(s ports.SnapshotStore) Option {
	return func(w *Workstate) {
		w.store = s
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workstate) {
		w.logger = logger
	}
}

// WithConditions binds condition names used in definition files.
// It only affects the default file loader.
func WithConditions(conditions map[string]domain.Condition) Option {
	return func(w *Workstate) {
		if w.conditions == nil {
			w.conditions = make(map[string]domain.Condition)
		}
		for name, c := range conditions {
			w.conditions[name] = c
		}
	}
}

// New creates a Workstate reading definitions from dir.
// If WithLoader is given, dir is only used as the model name and may be empty.
func New(dir string, opts ...Option) (*Workstate, error) {
	w := &Workstate{}
	for _, opt := range opts {
		opt(w)
	}

	if w.loader == nil {
		if dir == "" {
			return nil, fmt.Errorf("dir is required when no custom loader is provided")
		}
		absPath, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		w.Name = filepath.Base(absPath)
		w.loader = file.NewLoader(absPath, file.WithConditions(w.conditions))
	} else if dir != "" {
		w.Name = filepath.Base(dir)
	}

	if w.logger == nil {
		w.logger = logging.NewNop()
	}
	if w.Name != "" {
		w.logger = w.logger.With("model", w.Name)
	}
	return w, nil
}

// Store returns the configured snapshot store, or nil.
func (w *Workstate) Store() ports.SnapshotStore {
	return w.store
}

// Load reads and builds the model.
// Loader failures and malformed declarations are returned as errors. A model
// that builds but fails validation is returned with Err set and no Engine.
func (w *Workstate) Load(ctx context.Context) (*Model, error) {
	raw, err := w.loader.LoadModel(ctx)
	if err != nil {
		return nil, err
	}

	m := &Model{Name: raw.Name}
	if m.Name == "" {
		m.Name = w.Name
	}
	for _, def := range raw.Definitions {
		s, err := scope.Build(def)
		if err != nil {
			w.logger.Warn("scope build failed", "scope", def.Name, "error", err)
			return nil, err
		}
		m.Scopes = append(m.Scopes, s)
	}

	m.Engine, m.Err = engine.New(m.Scopes, engine.WithLogger(w.logger))
	if m.Err != nil {
		w.logger.Info("model is broken", "error", m.Err, "code", domain.CodeOf(m.Err))
	} else {
		w.logger.Debug("model loaded", "scopes", len(m.Scopes))
	}
	return m, nil
}

// Validate loads the model and returns its first soundness error.
func (w *Workstate) Validate(ctx context.Context) error {
	m, err := w.Load(ctx)
	if err != nil {
		return err
	}
	return m.Err
}

// Graph loads the model and exports it.
func (w *Workstate) Graph(ctx context.Context) (*graph.Graph, error) {
	m, err := w.Load(ctx)
	if err != nil {
		return nil, err
	}
	return m.Graph()
}

// Snapshot records the current model under name and saves it when a store
// is configured. Broken models produce a snapshot carrying the error.
// An empty name defaults to the model name.
func (w *Workstate) Snapshot(ctx context.Context, name string) (*graph.Snapshot, error) {
	m, err := w.Load(ctx)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = m.Name
	}

	snap, err := m.Snapshot(name)
	if err != nil {
		return nil, err
	}
	if w.store != nil {
		if err := w.store.Save(ctx, snap); err != nil {
			return nil, fmt.Errorf("failed to save snapshot %s: %w", name, err)
		}
		w.logger.Debug("snapshot saved", "snapshot", name, "valid", snap.Valid)
	}
	return snap, nil
}

// Model is a loaded model: its built scopes and, when sound, the engine.
type Model struct {
	Name   string
	Scopes []*scope.Scope
	Engine *engine.Engine
	Err    error
}

// Valid reports whether the model passed validation.
func (m *Model) Valid() bool {
	return m.Err == nil && m.Engine != nil
}

// ScopeNames returns the member scope names in order.
func (m *Model) ScopeNames() []string {
	names := make([]string, 0, len(m.Scopes))
	for _, s := range m.Scopes {
		names = append(names, s.Name())
	}
	return names
}

// Graph exports the engine. Broken models return their validation error.
func (m *Model) Graph() (*graph.Graph, error) {
	if !m.Valid() {
		return nil, m.Err
	}
	return graph.FromEngine(m.Engine)
}

// DraftGraph exports the model whether or not it is valid. Broken models
// are drawn scope by scope, including their unreachable states.
func (m *Model) DraftGraph() *graph.Graph {
	if g, err := m.Graph(); err == nil {
		return g
	}
	return graph.Draft(m.Scopes)
}

// Snapshot records the model under name.
func (m *Model) Snapshot(name string) (*graph.Snapshot, error) {
	if !m.Valid() {
		return graph.BrokenSnapshot(name, m.ScopeNames(), m.Err), nil
	}
	return graph.NewSnapshot(name, m.Engine)
}

// OrderedStates returns each member scope's states in traversal order,
// keyed by scope name.
func (m *Model) OrderedStates() map[string][]string {
	out := make(map[string][]string, len(m.Scopes))
	for _, s := range m.Scopes {
		if m.Engine != nil {
			out[s.Name()] = m.Engine.OrderStates(s.Name())
			continue
		}
		out[s.Name()] = s.OrderStates()
	}
	return out
}

// Unreachable returns the states a broken model cannot reach, for overlays.
func (m *Model) Unreachable() []string {
	var bse *domain.BrokenStateModelError
	if errors.As(m.Err, &bse) && bse.Code == domain.CodeUnreachableStates {
		return bse.States
	}
	return nil
}
