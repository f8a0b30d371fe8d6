package graph

import (
	"github.com/grigi/workstate/pkg/domain"
	"github.com/grigi/workstate/pkg/engine"
	"github.com/grigi/workstate/pkg/registry"
	"github.com/grigi/workstate/pkg/scope"
)

// Option configures FromScope.
type Option func(*options)

type options struct {
	triggerEdges bool
	allStates    bool
}

// WithTriggerEdges adds the edges derived from triggers.
func WithTriggerEdges() Option {
	return func(o *options) {
		o.triggerEdges = true
	}
}

// WithAllStates keeps states that cannot be reached from the initial state,
// listed after the reachable ones.
func WithAllStates() Option {
	return func(o *options) {
		o.allStates = true
	}
}

// FromScope exports a single scope. It does not require the scope to be
// valid, so broken models can still be drawn.
func FromScope(s *scope.Scope, opts ...Option) *Graph {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	set := s.Registries()
	b := newBuilder(set, s.EventMap())
	b.cluster(s.Name(), 0, scopeStates(s, o.allStates), s.InitialID())
	b.edges()
	if o.triggerEdges {
		b.triggerEdges()
	}
	return b.g
}

// Draft exports scopes that may not form a valid engine, such as a model
// that failed validation. Each scope is exported on its own with all of its
// states and trigger edges, and the results are placed side by side.
func Draft(scopes []*scope.Scope) *Graph {
	g := &Graph{Clusters: []Cluster{}, Edges: []Edge{}}
	for i, s := range scopes {
		part := FromScope(s, WithTriggerEdges(), WithAllStates())
		for _, c := range part.Clusters {
			c.Color = i + 1
			g.Clusters = append(g.Clusters, c)
		}
		g.Edges = append(g.Edges, part.Edges...)
	}
	return g
}

func scopeStates(s *scope.Scope, all bool) []string {
	ordered := s.OrderStates()
	if !all {
		return ordered
	}
	pool := registry.NewPool(s.Registries().StatesOf(s.Name()))
	for _, id := range ordered {
		pool.Remove(id)
	}
	return append(ordered, pool.Remaining()...)
}

// FromEngine exports the merged model of a Ready engine, one cluster per
// scope, including trigger-derived edges.
func FromEngine(e *engine.Engine) (*Graph, error) {
	if e == nil || !e.Ready() {
		return nil, engine.ErrNotReady
	}

	b := newBuilder(e.Registries(), e.EventMap())
	for i, name := range e.ScopeNames() {
		b.cluster(name, i+1, e.OrderStates(name), e.InitialID(name))
	}
	b.edges()
	b.triggerEdges()
	return b.g, nil
}

type builder struct {
	set     *registry.Set
	events  *registry.EventMap
	trigger map[string]*domain.Trigger
	index   map[string]int
	g       *Graph
}

func newBuilder(set *registry.Set, events *registry.EventMap) *builder {
	b := &builder{
		set:     set,
		events:  events,
		trigger: make(map[string]*domain.Trigger),
		index:   make(map[string]int),
		g:       &Graph{Clusters: []Cluster{}, Edges: []Edge{}},
	}
	// The last trigger declared for an event annotates it.
	for _, tr := range set.Triggers.All() {
		b.trigger[tr.Event] = tr
	}
	return b
}

func (b *builder) cluster(scopeName string, color int, states []string, initial string) {
	c := Cluster{
		Scope: scopeName,
		Label: domain.Pretty(scopeName),
		Color: color,
		Nodes: []Node{},
	}
	for _, id := range states {
		st, ok := b.set.States.Lookup(id)
		if !ok {
			continue
		}
		c.Nodes = append(c.Nodes, Node{
			ID:      id,
			Label:   domain.Pretty(st.Name),
			Scope:   st.Scope,
			Initial: id == initial,
			Doc:     st.Doc,
		})
	}
	b.index[scopeName] = len(b.g.Clusters)
	b.g.Clusters = append(b.g.Clusters, c)
}

func (b *builder) wildcardNode(scopeName string) {
	id := domain.Canonical(scopeName, domain.Wildcard)
	if _, ok := b.g.Node(id); ok {
		return
	}
	idx, ok := b.index[scopeName]
	if !ok {
		// A scope only known through a canonical wildcard gets its own cluster.
		b.cluster(scopeName, 0, nil, "")
		idx = b.index[scopeName]
	}
	b.g.Clusters[idx].Nodes = append(b.g.Clusters[idx].Nodes, Node{
		ID:       id,
		Label:    "Any",
		Scope:    scopeName,
		Wildcard: true,
	})
}

func (b *builder) edges() {
	var wildcards []*domain.Transition
	for _, t := range b.set.Transitions.All() {
		if t.IsWildcard() {
			wildcards = append(wildcards, t)
			continue
		}
		b.transitionEdges(t)
	}
	for _, t := range wildcards {
		b.wildcardNode(t.Scope)
	}
	for _, t := range wildcards {
		b.transitionEdges(t)
	}
}

func (b *builder) transitionEdges(t *domain.Transition) {
	names := b.events.Events(t.ID())
	if len(names) == 0 {
		b.g.Edges = append(b.g.Edges, Edge{
			From:        t.FromID(),
			To:          t.ToID(),
			Conditional: t.Conditional(),
			Untriggered: true,
		})
		return
	}
	for _, ev := range names {
		e := Edge{
			From:        t.FromID(),
			To:          t.ToID(),
			Label:       domain.Pretty(ev),
			Event:       ev,
			Conditional: t.Conditional(),
		}
		if tr, ok := b.trigger[ev]; ok {
			e.Trigger = tr.LocalName()
		}
		b.g.Edges = append(b.g.Edges, e)
	}
}

// triggerEdges connects every state watched by an event's trigger to the
// targets of that event, skipping the edge's own source and watched
// states that were never registered.
func (b *builder) triggerEdges() {
	for _, t := range b.set.Transitions.All() {
		if t.IsWildcard() {
			continue
		}
		for _, ev := range b.events.Events(t.ID()) {
			tr, ok := b.trigger[ev]
			if !ok {
				continue
			}
			for _, watched := range tr.States {
				from := domain.Resolve(watched, tr.Scope(), "")
				if from == t.FromID() {
					continue
				}
				if _, ok := b.set.States.Lookup(from); !ok {
					continue
				}
				b.g.Edges = append(b.g.Edges, Edge{
					From:           from,
					To:             t.ToID(),
					Label:          tr.LocalName(),
					Event:          ev,
					Trigger:        tr.LocalName(),
					TriggerDerived: true,
				})
			}
		}
	}
}
