package dsl

import (
	"github.com/grigi/workstate/pkg/domain"
	"github.com/grigi/workstate/pkg/scope"
)

// Builder collects the declarations of one scope.
type Builder struct {
	name        string
	initial     string
	states      []scope.StateDecl
	transitions []*TransitionBuilder
	events      []*EventBuilder
	triggers    []*TriggerBuilder
}

// New creates a builder for the named scope.
func New(name string) *Builder {
	return &Builder{name: name}
}

// Initial sets the initial state.
func (b *Builder) Initial(state string) *Builder {
	b.initial = state
	return b
}

// State declares a state with its documentation.
func (b *Builder) State(name, doc string) *Builder {
	b.states = append(b.states, scope.StateDecl{Name: name, Doc: doc})
	return b
}

// Transition declares an edge named "from__to".
// Leave from empty ("__to") for a wildcard edge.
func (b *Builder) Transition(name string) *TransitionBuilder {
	tb := &TransitionBuilder{decl: scope.TransitionDecl{Name: name}}
	b.transitions = append(b.transitions, tb)
	return tb
}

// Event declares an event firing the given transitions. Declaring the
// same event again adds to its transitions.
func (b *Builder) Event(name string, transitions ...string) *EventBuilder {
	eb := &EventBuilder{decl: scope.EventDecl{Name: name, Transitions: transitions}}
	b.events = append(b.events, eb)
	return eb
}

// Trigger declares a trigger. Use On and Watch to complete it.
func (b *Builder) Trigger(name string) *TriggerBuilder {
	tb := &TriggerBuilder{decl: scope.TriggerDecl{Name: name}}
	b.triggers = append(b.triggers, tb)
	return tb
}

// Definition returns the collected declarations.
func (b *Builder) Definition() scope.Definition {
	def := scope.Definition{
		Name:    b.name,
		Initial: b.initial,
		States:  append([]scope.StateDecl(nil), b.states...),
	}
	for _, t := range b.transitions {
		def.Transitions = append(def.Transitions, t.decl)
	}
	for _, e := range b.events {
		def.Events = append(def.Events, e.decl)
	}
	for _, t := range b.triggers {
		def.Triggers = append(def.Triggers, t.decl)
	}
	return def
}

// Build compiles the declarations into a scope.
func (b *Builder) Build() (*scope.Scope, error) {
	return scope.Build(b.Definition())
}

// TransitionBuilder configures a declared transition.
type TransitionBuilder struct {
	decl scope.TransitionDecl
}

// Doc sets the transition documentation.
func (t *TransitionBuilder) Doc(doc string) *TransitionBuilder {
	t.decl.Doc = doc
	return t
}

// When attaches a condition, which marks the transition as conditional.
func (t *TransitionBuilder) When(cond domain.Condition) *TransitionBuilder {
	t.decl.Condition = cond
	return t
}

// EventBuilder configures a declared event.
type EventBuilder struct {
	decl scope.EventDecl
}

// Doc sets the event documentation.
func (e *EventBuilder) Doc(doc string) *EventBuilder {
	e.decl.Doc = doc
	return e
}

// TriggerBuilder configures a declared trigger.
type TriggerBuilder struct {
	decl scope.TriggerDecl
}

// On sets the event the trigger supplements.
func (t *TriggerBuilder) On(event string) *TriggerBuilder {
	t.decl.Event = event
	return t
}

// Watch adds watched states. Bare names resolve against the trigger's scope.
func (t *TriggerBuilder) Watch(states ...string) *TriggerBuilder {
	t.decl.States = append(t.decl.States, states...)
	return t
}

// When attaches the trigger condition.
func (t *TriggerBuilder) When(cond domain.Condition) *TriggerBuilder {
	t.decl.Condition = cond
	return t
}

// Doc sets the trigger documentation.
func (t *TriggerBuilder) Doc(doc string) *TriggerBuilder {
	t.decl.Doc = doc
	return t
}
