package ports

import (
	"context"

	"github.com/grigi/workstate/pkg/scope"
)

// Model is a named, ordered list of scope definitions.
// The order is the engine's member order.
type Model struct {
	Name        string
	Definitions []scope.Definition
}

// ModelLoader defines how a model's declarations are retrieved.
type ModelLoader interface {
	// LoadModel reads every definition of the model.
	// Malformed declarations are reported as *domain.BrokenStateModelError.
	LoadModel(ctx context.Context) (*Model, error)
}
