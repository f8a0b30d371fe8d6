package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grigi/workstate/pkg/adapters/memory"
	"github.com/grigi/workstate/pkg/graph"
	"github.com/grigi/workstate/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSnapshotStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	snap := &graph.Snapshot{Name: "a", Scopes: []string{"scope1"}}
	require.NoError(t, store.Save(ctx, snap))
	snap.Scopes[0] = "mutated"

	loaded, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"scope1"}, loaded.Scopes)

	loaded.Scopes[0] = "mutated"
	again, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"scope1"}, again.Scopes)
}
