// Package scope builds and validates the state model of a single scope.
package scope

import (
	"errors"
	"strings"

	"github.com/grigi/workstate/pkg/domain"
	"github.com/grigi/workstate/pkg/registry"
)

// Scope is the immutable result of building a Definition.
type Scope struct {
	name    string
	initial string
	set     *registry.Set
}

// Build parses a definition into a Scope. It fails only on malformed
// declarations; structural soundness is checked by Validate.
func Build(def Definition) (*Scope, error) {
	name := strings.ToLower(strings.TrimSpace(def.Name))
	if name == "" {
		return nil, domain.MalformedDeclaration("", "Scope needs a name")
	}
	if strings.Contains(name, domain.ScopeSeparator) {
		return nil, domain.MalformedDeclaration(name, "Scope name %s must not contain %q", name, domain.ScopeSeparator)
	}

	initial, err := localInitial(name, def.Initial)
	if err != nil {
		return nil, err
	}

	s := &Scope{
		name:    name,
		initial: initial,
		set:     registry.NewSet(name),
	}

	for _, st := range def.States {
		if st.Name == "" {
			return nil, domain.MalformedDeclaration(name, "State in scope %s needs a name", name)
		}
		s.set.States.Ensure(st.Name, st.Doc)
	}

	if initial != "" {
		s.set.States.Ensure(domain.Canonical(name, initial), "")
	}

	for _, t := range def.Transitions {
		if _, err := s.set.Transitions.Ensure(t.Name, t.Condition, t.Doc); err != nil {
			return nil, err
		}
	}

	for _, ev := range def.Events {
		if ev.Name == "" {
			return nil, domain.MalformedDeclaration(name, "Event in scope %s needs a name", name)
		}
		if _, err := s.set.Events.Update(ev.Name, ev.Transitions, ev.Doc); err != nil {
			return nil, err
		}
	}

	for _, tr := range def.Triggers {
		if tr.Name == "" || tr.Event == "" {
			return nil, domain.MalformedDeclaration(name, "Trigger in scope %s needs a name and an event", name)
		}
		if _, err := s.set.Triggers.Add(tr.Name, tr.Event, tr.States, tr.Condition, tr.Doc); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// localInitial strips the scope from a canonical initial state. The initial
// state must belong to the scope declaring it.
func localInitial(scopeName, initial string) (string, error) {
	if initial == "" {
		return "", nil
	}
	owner, local := domain.SplitName(domain.Resolve(initial, scopeName, ""))
	if owner != scopeName {
		return "", domain.MalformedDeclaration(scopeName, "Initial state %s is not in scope %s", initial, scopeName)
	}
	if local == "" {
		return "", domain.MalformedDeclaration(scopeName, "Initial state of scope %s needs a name", scopeName)
	}
	return local, nil
}

// Name returns the normalized scope name.
func (s *Scope) Name() string {
	return s.name
}

// Initial returns the local name of the initial state, or "".
func (s *Scope) Initial() string {
	return s.initial
}

// InitialID returns the canonical initial state, or "".
func (s *Scope) InitialID() string {
	if s.initial == "" {
		return ""
	}
	return domain.Canonical(s.name, s.initial)
}

// Registries exposes the scope's registries for read-only traversal.
// It is nil for a Scope that was not produced by Build.
func (s *Scope) Registries() *registry.Set {
	return s.set
}

// EventMap returns canonical transition ids mapped to the events firing them.
func (s *Scope) EventMap() *registry.EventMap {
	return registry.BuildEventMap(s.set)
}

// Validate checks that every transition has an event, that no event is
// empty and, when an initial state is declared, that every state of this
// scope is reachable from it.
func (s *Scope) Validate() error {
	events := s.EventMap()

	if err := registry.CheckEdges(s.set, events); err != nil {
		var broken *domain.BrokenStateModelError
		if errors.As(err, &broken) {
			broken.Scope = s.name
		}
		return err
	}

	if s.initial == "" {
		return nil
	}

	pool := registry.NewPool(s.set.StatesOf(s.name))
	registry.Mark(s.set, s.InitialID(), pool, events)
	if pool.Len() > 0 {
		return domain.UnreachableStates(s.name, pool.Remaining(), false)
	}
	return nil
}

// OrderStates lists canonical state names for presentation. Without an
// initial state the registry order is returned. Otherwise states are listed
// as reached from the initial state, wildcard targets last; states that
// cannot be reached are left out.
func (s *Scope) OrderStates() []string {
	if s.initial == "" {
		return s.set.States.IDs()
	}
	pool := registry.NewPool(s.set.States.IDs())
	return registry.Mark(s.set, s.InitialID(), pool, s.EventMap())
}
