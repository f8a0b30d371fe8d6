package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/grigi/workstate/pkg/dsl"
	"github.com/grigi/workstate/pkg/ports"
	"github.com/grigi/workstate/pkg/scope"
)

// Loader implements ports.ModelLoader over definitions held in memory.
type Loader struct {
	name string
	defs []scope.Definition
}

// NewLoader creates a loader serving the given definitions in order.
func NewLoader(name string, defs ...scope.Definition) *Loader {
	return &Loader{
		name: name,
		defs: slices.Clone(defs),
	}
}

// NewFromBuilders creates a loader from DSL builders.
// This improves DX for tests and for models declared in Go.
func NewFromBuilders(name string, builders ...*dsl.Builder) (*Loader, error) {
	defs := make([]scope.Definition, 0, len(builders))
	for i, b := range builders {
		def := b.Definition()
		if def.Name == "" {
			return nil, fmt.Errorf("builder %d: scope missing name", i)
		}
		defs = append(defs, def)
	}
	return &Loader{name: name, defs: defs}, nil
}

// LoadModel returns a copy of the held definitions.
func (l *Loader) LoadModel(ctx context.Context) (*ports.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &ports.Model{
		Name:        l.name,
		Definitions: slices.Clone(l.defs),
	}, nil
}
