package tests

import (
	"context"
	"testing"

	"github.com/grigi/workstate/pkg/engine"
	"github.com/grigi/workstate/pkg/ports"
	"github.com/grigi/workstate/pkg/scope"
)

// ModelLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.ModelLoader.
// scopes lists the expected definition names in member order.
func ModelLoaderContractTest(t *testing.T, loader ports.ModelLoader, scopes []string) {
	t.Helper()
	ctx := context.Background()

	// 1. Load in member order
	t.Run("LoadModel_Order", func(t *testing.T) {
		model, err := loader.LoadModel(ctx)
		if err != nil {
			t.Fatalf("unexpected error loading model: %v", err)
		}
		if len(model.Definitions) != len(scopes) {
			t.Fatalf("expected %d definitions, got %d", len(scopes), len(model.Definitions))
		}
		for i, def := range model.Definitions {
			if def.Name != scopes[i] {
				t.Errorf("definition %d: got %q, want %q", i, def.Name, scopes[i])
			}
		}
	})

	// 2. Loading is repeatable
	t.Run("LoadModel_Repeatable", func(t *testing.T) {
		first, err := loader.LoadModel(ctx)
		if err != nil {
			t.Fatalf("unexpected error loading model: %v", err)
		}
		second, err := loader.LoadModel(ctx)
		if err != nil {
			t.Fatalf("unexpected error reloading model: %v", err)
		}
		if first.Name != second.Name || len(first.Definitions) != len(second.Definitions) {
			t.Errorf("reload differs: %q/%d vs %q/%d",
				first.Name, len(first.Definitions), second.Name, len(second.Definitions))
		}
	})

	// 3. The definitions compose into a valid engine
	t.Run("LoadModel_Engine", func(t *testing.T) {
		model, err := loader.LoadModel(ctx)
		if err != nil {
			t.Fatalf("unexpected error loading model: %v", err)
		}
		members := make([]*scope.Scope, 0, len(model.Definitions))
		for _, def := range model.Definitions {
			s, err := scope.Build(def)
			if err != nil {
				t.Fatalf("building %s: %v", def.Name, err)
			}
			members = append(members, s)
		}
		if _, err := engine.New(members); err != nil {
			t.Errorf("engine rejected loaded model: %v", err)
		}
	})
}
