package registry

import (
	"github.com/grigi/workstate/pkg/domain"
)

// Transitions stores edges by canonical id and keeps the endpoint states'
// edge lists in sync.
type Transitions struct {
	scope       string
	states      *States
	order       []string
	transitions map[string]*domain.Transition
}

// NewTransitions creates an empty transition registry backed by states.
func NewTransitions(scope string, states *States) *Transitions {
	return &Transitions{
		scope:       scope,
		states:      states,
		transitions: make(map[string]*domain.Transition),
	}
}

// Resolve canonicalizes a transition name.
func (r *Transitions) Resolve(name string) (string, error) {
	if r.scope == "" && !domain.IsCanonical(name) {
		return "", domain.MalformedDeclaration("", "Transition %s needs a scope", name)
	}
	id, ok := domain.ResolveTransition(name, r.scope)
	if !ok {
		return "", domain.MalformedDeclaration(r.scope,
			"Transition %s must be named from%sto", name, domain.EdgeSeparator)
	}
	return id, nil
}

// Ensure registers the transition if absent and returns its canonical id.
// Condition and doc of an already registered transition are left untouched.
func (r *Transitions) Ensure(name string, condition domain.Condition, doc string) (string, error) {
	id, err := r.Resolve(name)
	if err != nil {
		return "", err
	}
	if _, ok := r.transitions[id]; ok {
		return id, nil
	}

	scope, from, to, _ := domain.SplitEdge(id)
	if from != domain.Wildcard {
		fs := r.states.Ensure(domain.Canonical(scope, from), "")
		fs.DestEdges = append(fs.DestEdges, id)
	}
	ts := r.states.Ensure(domain.Canonical(scope, to), "")
	ts.SourceEdges = append(ts.SourceEdges, id)

	r.transitions[id] = &domain.Transition{
		Scope:     scope,
		From:      from,
		To:        to,
		Condition: condition,
		Doc:       doc,
	}
	r.order = append(r.order, id)
	return id, nil
}

// Merge registers a foreign transition by its canonical id.
func (r *Transitions) Merge(other *domain.Transition) error {
	_, err := r.Ensure(other.ID(), other.Condition, other.Doc)
	return err
}

// Lookup returns the transition with canonical id.
func (r *Transitions) Lookup(id string) (*domain.Transition, bool) {
	t, ok := r.transitions[id]
	return t, ok
}

// IDs returns canonical ids in registration order.
func (r *Transitions) IDs() []string {
	return append([]string(nil), r.order...)
}

// All returns the transitions in registration order.
func (r *Transitions) All() []*domain.Transition {
	out := make([]*domain.Transition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.transitions[id])
	}
	return out
}

// Len returns the number of transitions.
func (r *Transitions) Len() int {
	return len(r.order)
}
