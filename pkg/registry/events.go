package registry

import (
	"github.com/grigi/workstate/pkg/domain"
)

// Events maps event names to the transitions they fire.
type Events struct {
	transitions *Transitions
	order       []string
	events      map[string]*domain.Event
}

// NewEvents creates an empty event registry.
func NewEvents(transitions *Transitions) *Events {
	return &Events{
		transitions: transitions,
		events:      make(map[string]*domain.Event),
	}
}

// Update ensures every listed transition and appends them to the named
// event, creating the event if needed. doc only applies on creation.
func (r *Events) Update(name string, transitions []string, doc string) (*domain.Event, error) {
	ids := make([]string, 0, len(transitions))
	for _, t := range transitions {
		id, err := r.transitions.Ensure(t, nil, "")
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if ev, ok := r.events[name]; ok {
		ev.Transitions = append(ev.Transitions, ids...)
		return ev, nil
	}

	ev := &domain.Event{
		Name:        name,
		Transitions: ids,
		Triggers:    []string{},
		Doc:         doc,
	}
	r.events[name] = ev
	r.order = append(r.order, name)
	return ev, nil
}

// Merge appends a foreign event's transitions under the same name.
func (r *Events) Merge(other *domain.Event) error {
	_, err := r.Update(other.Name, other.Transitions, other.Doc)
	return err
}

// Lookup returns the named event.
func (r *Events) Lookup(name string) (*domain.Event, bool) {
	ev, ok := r.events[name]
	return ev, ok
}

// Names returns event names in declaration order.
func (r *Events) Names() []string {
	return append([]string(nil), r.order...)
}

// All returns the events in declaration order.
func (r *Events) All() []*domain.Event {
	out := make([]*domain.Event, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.events[name])
	}
	return out
}

// Len returns the number of events.
func (r *Events) Len() int {
	return len(r.order)
}
