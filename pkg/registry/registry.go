// Package registry holds the string-keyed containers of a state model and
// the graph checks that run over them.
package registry

// Set bundles the four registries of one container: a scope, or the merged
// view of an engine (Scope == "").
type Set struct {
	Scope       string
	States      *States
	Transitions *Transitions
	Events      *Events
	Triggers    *Triggers
}

// NewSet creates empty, interlinked registries.
func NewSet(scope string) *Set {
	states := NewStates(scope)
	transitions := NewTransitions(scope, states)
	events := NewEvents(transitions)
	return &Set{
		Scope:       scope,
		States:      states,
		Transitions: transitions,
		Events:      events,
		Triggers:    NewTriggers(events, states),
	}
}

// Merge copies another set into this one by value. States go first, then
// transitions, events and triggers, since each step resolves against the
// previous ones.
func (s *Set) Merge(other *Set) error {
	for _, st := range other.States.All() {
		s.States.Merge(st)
	}
	for _, t := range other.Transitions.All() {
		if err := s.Transitions.Merge(t); err != nil {
			return err
		}
	}
	for _, ev := range other.Events.All() {
		if err := s.Events.Merge(ev); err != nil {
			return err
		}
	}
	for _, tr := range other.Triggers.All() {
		if err := s.Triggers.Merge(tr); err != nil {
			return err
		}
	}
	return nil
}

// StatesOf returns the canonical names of states belonging to scope, in
// registry order.
func (s *Set) StatesOf(scope string) []string {
	var out []string
	for _, st := range s.States.All() {
		if st.Scope == scope {
			out = append(out, st.ID())
		}
	}
	return out
}

// ScopeNames returns the distinct scope names of registered states, in
// first-seen order.
func (s *Set) ScopeNames() []string {
	seen := make(map[string]bool)
	var out []string
	for _, st := range s.States.All() {
		if !seen[st.Scope] {
			seen[st.Scope] = true
			out = append(out, st.Scope)
		}
	}
	return out
}
