package registry

// EventMap inverts the event registry: canonical transition id to the
// names of events that fire it.
type EventMap struct {
	edges  []string
	events map[string][]string
}

// BuildEventMap derives the event map from a set.
func BuildEventMap(s *Set) *EventMap {
	m := &EventMap{events: make(map[string][]string)}
	for _, ev := range s.Events.All() {
		for _, t := range ev.Transitions {
			id, err := s.Transitions.Resolve(t)
			if err != nil {
				continue
			}
			if _, ok := m.events[id]; !ok {
				m.edges = append(m.edges, id)
			}
			m.events[id] = append(m.events[id], ev.Name)
		}
	}
	return m
}

// Events returns the events firing edge.
func (m *EventMap) Events(edge string) []string {
	return m.events[edge]
}

// Has reports whether any event fires edge.
func (m *EventMap) Has(edge string) bool {
	return len(m.events[edge]) > 0
}

// Edges returns every edge fired by at least one event, in first-seen order.
func (m *EventMap) Edges() []string {
	return append([]string(nil), m.edges...)
}
