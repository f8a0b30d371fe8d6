// Package graph exports a validated state model as plain node and edge
// lists for renderers.
package graph

// Node is a state, or the placeholder source of a scope's wildcard edges.
type Node struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Scope    string `json:"scope"`
	Initial  bool   `json:"initial,omitempty"`
	Wildcard bool   `json:"wildcard,omitempty"`
	Doc      string `json:"doc,omitempty"`
}

// Edge is a drawable connection between two nodes.
// Plain edges carry the event that fires them; edges derived from a
// trigger connect a watched state to the target of the supplemented event.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
	// Event is the firing event name, "" for untriggered edges.
	Event string `json:"event,omitempty"`
	// Trigger is the local name of the trigger attached to Event.
	Trigger string `json:"trigger,omitempty"`

	Conditional    bool `json:"conditional,omitempty"`
	Untriggered    bool `json:"untriggered,omitempty"`
	TriggerDerived bool `json:"trigger_derived,omitempty"`
}

// Cluster groups the nodes of one scope.
type Cluster struct {
	Scope string `json:"scope"`
	Label string `json:"label"`
	// Color is an index into the renderer palette.
	Color int    `json:"color"`
	Nodes []Node `json:"nodes"`
}

// Graph is the export surface consumed by renderers.
type Graph struct {
	Clusters []Cluster `json:"clusters"`
	Edges    []Edge    `json:"edges"`
}

// Nodes flattens the clusters in order.
func (g *Graph) Nodes() []Node {
	var out []Node
	for _, c := range g.Clusters {
		out = append(out, c.Nodes...)
	}
	return out
}

// Node returns the node with id.
func (g *Graph) Node(id string) (Node, bool) {
	for _, c := range g.Clusters {
		for _, n := range c.Nodes {
			if n.ID == id {
				return n, true
			}
		}
	}
	return Node{}, false
}
