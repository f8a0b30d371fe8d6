// Package engine composes several scopes into one validated state model.
//
// Member scopes are merged by value into fresh registries, so an Engine
// never shares state with the scopes it was built from. Construction runs
// the full validation; an Engine returned without error is Ready and
// immutable.
package engine

import (
	"errors"
	"io"
	"log/slog"
	"slices"

	"github.com/grigi/workstate/pkg/domain"
	"github.com/grigi/workstate/pkg/registry"
	"github.com/grigi/workstate/pkg/scope"
)

// Engine is the merged, validated view over its member scopes.
type Engine struct {
	scopes   []*scope.Scope
	set      *registry.Set
	names    []string
	initials map[string]string
	phase    Phase
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger used during construction.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New merges scopes and validates the result.
// It fails with a MALFORMED_ENGINE error when no scopes are given or one of
// them was not produced by scope.Build, and with the validation error when
// the merged model is unsound.
func New(scopes []*scope.Scope, opts ...Option) (*Engine, error) {
	e := &Engine{
		initials: make(map[string]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if len(scopes) == 0 {
		return nil, domain.MalformedEngine("")
	}
	for _, s := range scopes {
		if s == nil || s.Registries() == nil {
			return nil, domain.MalformedEngine("element is not a built scope")
		}
	}
	e.scopes = slices.Clone(scopes)

	if err := e.merge(); err != nil {
		e.phase = PhaseBroken
		e.logger.Warn("engine merge failed", "error", err)
		return nil, err
	}

	e.phase = PhaseValidating
	if err := e.validate(); err != nil {
		e.phase = PhaseBroken
		e.logger.Warn("engine validation failed", "error", err, "code", domain.CodeOf(err))
		return nil, err
	}

	e.phase = PhaseReady
	e.logger.Debug("engine ready",
		"scopes", len(e.names),
		"states", e.set.States.Len(),
		"transitions", e.set.Transitions.Len(),
	)
	return e, nil
}

func (e *Engine) merge() error {
	e.phase = PhaseMerging
	e.set = registry.NewSet("")

	for _, s := range e.scopes {
		e.logger.Debug("merging scope", "scope", s.Name())
		if err := e.set.Merge(s.Registries()); err != nil {
			return err
		}
	}

	for _, s := range e.scopes {
		if !slices.Contains(e.names, s.Name()) {
			e.names = append(e.names, s.Name())
		}
	}
	for _, name := range e.set.ScopeNames() {
		if !slices.Contains(e.names, name) {
			e.names = append(e.names, name)
		}
	}

	for _, name := range e.names {
		for _, s := range e.scopes {
			if s.Name() == name {
				e.initials[name] = s.Initial()
				break
			}
		}
	}
	return nil
}

func (e *Engine) validate() error {
	for _, s := range e.scopes {
		if err := s.Validate(); err != nil {
			return err
		}
	}

	events := registry.BuildEventMap(e.set)
	if err := registry.CheckEdges(e.set, events); err != nil {
		return err
	}

	for _, name := range e.names {
		initial := e.initials[name]
		if initial == "" {
			continue
		}
		pool := registry.NewPool(e.set.StatesOf(name))
		registry.Mark(e.set, domain.Canonical(name, initial), pool, events)
		if pool.Len() > 0 {
			return domain.UnreachableStates(name, pool.Remaining(), true)
		}
	}
	return nil
}

// Validate re-runs the validation of a constructed engine. The outcome is
// the same on every call.
func (e *Engine) Validate() error {
	if e.set == nil {
		return domain.MalformedEngine("engine was not constructed with New")
	}
	return e.validate()
}

// Phase returns the lifecycle phase. A zero Engine is Uninitialized.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Ready reports whether the engine may be exported.
func (e *Engine) Ready() bool {
	return e.phase == PhaseReady
}

// Scopes returns the member scopes in declaration order.
func (e *Engine) Scopes() []*scope.Scope {
	return slices.Clone(e.scopes)
}

// ScopeNames lists member scope names in declaration order, followed by
// scopes only known through cross-scope references.
func (e *Engine) ScopeNames() []string {
	return slices.Clone(e.names)
}

// Initial returns the initial state of a scope and whether one is declared.
func (e *Engine) Initial(scopeName string) (string, bool) {
	initial := e.initials[scopeName]
	return initial, initial != ""
}

// InitialID returns the canonical initial state of a scope, or "".
func (e *Engine) InitialID(scopeName string) string {
	initial, ok := e.Initial(scopeName)
	if !ok {
		return ""
	}
	return domain.Canonical(scopeName, initial)
}

// Initials returns a copy of the scope name to initial state mapping.
// Scopes without an initial state map to "".
func (e *Engine) Initials() map[string]string {
	out := make(map[string]string, len(e.initials))
	for _, name := range e.names {
		out[name] = e.initials[name]
	}
	return out
}

// Registries exposes the merged registries for read-only traversal.
func (e *Engine) Registries() *registry.Set {
	return e.set
}

// EventMap inverts the merged event registry.
func (e *Engine) EventMap() *registry.EventMap {
	return registry.BuildEventMap(e.set)
}

// OrderStates lists the merged states of one scope for presentation, in
// the same manner as scope.OrderStates but restricted to that scope.
func (e *Engine) OrderStates(scopeName string) []string {
	ids := e.set.StatesOf(scopeName)
	initial, ok := e.Initial(scopeName)
	if !ok {
		return ids
	}
	pool := registry.NewPool(ids)
	return registry.Mark(e.set, domain.Canonical(scopeName, initial), pool, e.EventMap())
}

// ErrNotReady is returned by consumers that require a Ready engine.
var ErrNotReady = errors.New("engine is not ready")
