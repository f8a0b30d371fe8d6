package registry

import (
	"slices"

	"github.com/grigi/workstate/pkg/domain"
)

// Triggers stores trigger rules and links them to their event and the
// watched states that exist at registration time.
type Triggers struct {
	events   *Events
	states   *States
	order    []string
	triggers map[string]*domain.Trigger
}

// NewTriggers creates an empty trigger registry.
func NewTriggers(events *Events, states *States) *Triggers {
	return &Triggers{
		events:   events,
		states:   states,
		triggers: make(map[string]*domain.Trigger),
	}
}

// Add registers a trigger. The event is created empty if it does not exist
// yet. Watched states that cannot be found are skipped: a trigger may be
// registered before the scope owning the state is merged.
func (r *Triggers) Add(name, event string, states []string, condition domain.Condition, doc string) (*domain.Trigger, error) {
	id := r.states.Resolve(name, "")
	scope, _ := domain.SplitName(id)
	if scope == "" {
		return nil, domain.MalformedDeclaration("", "Trigger %s needs a scope", name)
	}

	tr := &domain.Trigger{
		Name:      id,
		Event:     event,
		States:    append([]string(nil), states...),
		Condition: condition,
		Doc:       doc,
	}
	if _, ok := r.triggers[id]; !ok {
		r.order = append(r.order, id)
	}
	r.triggers[id] = tr

	ev, err := r.events.Update(event, nil, "")
	if err != nil {
		return nil, err
	}
	if !slices.Contains(ev.Triggers, id) {
		ev.Triggers = append(ev.Triggers, id)
	}

	for _, watched := range states {
		st, err := r.states.Get(watched, scope)
		if err != nil {
			continue
		}
		if !slices.Contains(st.Triggers, id) {
			st.Triggers = append(st.Triggers, id)
		}
	}
	return tr, nil
}

// Merge re-adds a foreign trigger with its own fields.
func (r *Triggers) Merge(other *domain.Trigger) error {
	_, err := r.Add(other.Name, other.Event, other.States, other.Condition, other.Doc)
	return err
}

// Lookup returns the trigger with canonical id.
func (r *Triggers) Lookup(id string) (*domain.Trigger, bool) {
	t, ok := r.triggers[id]
	return t, ok
}

// All returns the triggers in registration order.
func (r *Triggers) All() []*domain.Trigger {
	out := make([]*domain.Trigger, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.triggers[id])
	}
	return out
}

// Len returns the number of triggers.
func (r *Triggers) Len() int {
	return len(r.order)
}
