package registry

import (
	"fmt"

	"github.com/grigi/workstate/pkg/domain"
)

// States stores states by canonical name, in first-seen order.
// A States bound to a scope resolves bare names against it; an unbound
// one (scope "") resolves against the fallback supplied per call.
type States struct {
	scope  string
	order  []string
	states map[string]*domain.State
}

// NewStates creates an empty state registry.
func NewStates(scope string) *States {
	return &States{
		scope:  scope,
		states: make(map[string]*domain.State),
	}
}

// Scope returns the scope the registry is bound to, or "".
func (r *States) Scope() string {
	return r.scope
}

// Resolve canonicalizes name.
func (r *States) Resolve(name, fallback string) string {
	return domain.Resolve(name, r.scope, fallback)
}

// Ensure returns the state for name, creating it when absent.
// doc is only recorded on creation.
func (r *States) Ensure(name, doc string) *domain.State {
	id := r.Resolve(name, "")
	if s, ok := r.states[id]; ok {
		return s
	}
	scope, local := domain.SplitName(id)
	s := &domain.State{
		Scope:       scope,
		Name:        local,
		DestEdges:   []string{},
		SourceEdges: []string{},
		Triggers:    []string{},
		Doc:         doc,
	}
	r.states[id] = s
	r.order = append(r.order, id)
	return s
}

// Merge ensures a local copy of a foreign state. Only identity and doc
// are carried over; edges are rebuilt by the transition merge.
func (r *States) Merge(other *domain.State) *domain.State {
	return r.Ensure(other.ID(), other.Doc)
}

// Get returns the state for name or an error wrapping domain.ErrNotFound.
func (r *States) Get(name, fallback string) (*domain.State, error) {
	id := r.Resolve(name, fallback)
	s, ok := r.states[id]
	if !ok {
		return nil, fmt.Errorf("state %s: %w", id, domain.ErrNotFound)
	}
	return s, nil
}

// Lookup returns the state with canonical id.
func (r *States) Lookup(id string) (*domain.State, bool) {
	s, ok := r.states[id]
	return s, ok
}

// IDs returns canonical names in first-seen order.
func (r *States) IDs() []string {
	return append([]string(nil), r.order...)
}

// All returns the states in first-seen order.
func (r *States) All() []*domain.State {
	out := make([]*domain.State, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.states[id])
	}
	return out
}

// Len returns the number of states.
func (r *States) Len() int {
	return len(r.order)
}
