package registry

import "github.com/grigi/workstate/pkg/domain"

// Pool is the ordered working set of states not yet shown reachable.
type Pool struct {
	ids     []string
	present map[string]bool
}

// NewPool creates a pool holding ids.
func NewPool(ids []string) *Pool {
	p := &Pool{present: make(map[string]bool, len(ids))}
	for _, id := range ids {
		if !p.present[id] {
			p.present[id] = true
			p.ids = append(p.ids, id)
		}
	}
	return p
}

// Has reports whether id is still unmarked.
func (p *Pool) Has(id string) bool {
	return p.present[id]
}

// Remove marks id and reports whether it was present.
func (p *Pool) Remove(id string) bool {
	if !p.present[id] {
		return false
	}
	delete(p.present, id)
	return true
}

// Remaining returns the unmarked ids in insertion order.
func (p *Pool) Remaining() []string {
	out := make([]string, 0, len(p.present))
	for _, id := range p.ids {
		if p.present[id] {
			out = append(out, id)
		}
	}
	return out
}

// Len returns the number of unmarked ids.
func (p *Pool) Len() int {
	return len(p.present)
}

// Mark removes from pool every state reachable from start and returns
// them in visiting order. Plain edges are walked depth first with an
// explicit stack. Then, for every wildcard edge in events, pool states
// whose local name equals the edge target are marked too, whatever their
// scope; those are appended last.
func Mark(s *Set, start string, pool *Pool, events *EventMap) []string {
	var order []string
	var stack []string

	expand := func(id string) {
		st, ok := s.States.Lookup(id)
		if !ok {
			return
		}
		for i := len(st.DestEdges) - 1; i >= 0; i-- {
			t, ok := s.Transitions.Lookup(st.DestEdges[i])
			if !ok {
				continue
			}
			if next := t.ToID(); pool.Has(next) {
				stack = append(stack, next)
			}
		}
	}

	if pool.Remove(start) {
		order = append(order, start)
	}
	expand(start)

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !pool.Remove(id) {
			continue
		}
		order = append(order, id)
		expand(id)
	}

	for _, edge := range events.Edges() {
		_, from, to, ok := domain.SplitEdge(edge)
		if !ok || from != domain.Wildcard {
			continue
		}
		for _, id := range pool.Remaining() {
			if _, local := domain.SplitName(id); local == to {
				pool.Remove(id)
				order = append(order, id)
			}
		}
	}
	return order
}
