package domain

// State is a node of the model, identified by its canonical name scope:state.
// Edges and triggers are referenced by canonical id, never by pointer, so
// registries can be merged by value.
type State struct {
	Scope string `json:"scope" yaml:"scope"`
	Name  string `json:"name" yaml:"name"`

	// DestEdges lists outbound transition ids.
	DestEdges []string `json:"dest_edges" yaml:"dest_edges"`
	// SourceEdges lists inbound transition ids.
	SourceEdges []string `json:"source_edges" yaml:"source_edges"`
	// Triggers lists trigger ids watching this state.
	Triggers []string `json:"triggers" yaml:"triggers"`

	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// ID returns the canonical name of the state.
func (s *State) ID() string {
	return Canonical(s.Scope, s.Name)
}
