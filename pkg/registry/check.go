package registry

import "github.com/grigi/workstate/pkg/domain"

// CheckEdges verifies that every transition is fired by some event and
// that no event is empty.
func CheckEdges(s *Set, events *EventMap) error {
	for _, t := range s.Transitions.All() {
		if !events.Has(t.ID()) {
			return domain.UntriggerableTransition(t.ID())
		}
	}
	for _, ev := range s.Events.All() {
		if len(ev.Transitions) == 0 {
			return domain.EmptyEvent(ev.Name)
		}
	}
	return nil
}
