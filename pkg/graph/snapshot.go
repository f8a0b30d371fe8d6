package graph

import (
	"maps"
	"slices"
	"time"

	"github.com/grigi/workstate/pkg/engine"
)

// Snapshot records the outcome of validating a model, and its export
// when the model is sound.
type Snapshot struct {
	Name      string            `json:"name"`
	Scopes    []string          `json:"scopes"`
	Initials  map[string]string `json:"initials,omitempty"`
	Graph     *Graph            `json:"graph,omitempty"`
	Valid     bool              `json:"valid"`
	Error     string            `json:"error,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewSnapshot exports a Ready engine under name.
func NewSnapshot(name string, e *engine.Engine) (*Snapshot, error) {
	g, err := FromEngine(e)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Name:      name,
		Scopes:    e.ScopeNames(),
		Initials:  e.Initials(),
		Graph:     g,
		Valid:     true,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// BrokenSnapshot records a model that failed to build or validate.
func BrokenSnapshot(name string, scopes []string, cause error) *Snapshot {
	s := &Snapshot{
		Name:      name,
		Scopes:    scopes,
		CreatedAt: time.Now().UTC(),
	}
	if cause != nil {
		s.Error = cause.Error()
	}
	return s
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := *s
	out.Scopes = slices.Clone(s.Scopes)
	out.Initials = maps.Clone(s.Initials)
	if s.Graph != nil {
		g := Graph{
			Clusters: make([]Cluster, len(s.Graph.Clusters)),
			Edges:    slices.Clone(s.Graph.Edges),
		}
		for i, c := range s.Graph.Clusters {
			c.Nodes = slices.Clone(c.Nodes)
			g.Clusters[i] = c
		}
		out.Graph = &g
	}
	return &out
}
