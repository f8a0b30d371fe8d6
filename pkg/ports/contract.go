package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grigi/workstate/pkg/domain"
	"github.com/grigi/workstate/pkg/graph"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore
// implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	sample := func(name string) *graph.Snapshot {
		return &graph.Snapshot{
			Name:     name,
			Scopes:   []string{"scope1"},
			Initials: map[string]string{"scope1": "first"},
			Graph: &graph.Graph{
				Clusters: []graph.Cluster{{
					Scope: "scope1",
					Label: "Scope1",
					Color: 1,
					Nodes: []graph.Node{
						{ID: "scope1:first", Label: "First", Scope: "scope1", Initial: true},
						{ID: "scope1:second", Label: "Second", Scope: "scope1"},
					},
				}},
				Edges: []graph.Edge{
					{From: "scope1:first", To: "scope1:second", Label: "Goo", Event: "goo"},
				},
			},
			Valid:     true,
			CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		snap := sample(name)
		require.NoError(t, store.Save(ctx, snap), "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.Name, loaded.Name)
		assert.Equal(t, snap.Scopes, loaded.Scopes)
		assert.Equal(t, snap.Initials, loaded.Initials)
		assert.True(t, loaded.Valid)
		assert.True(t, snap.CreatedAt.Equal(loaded.CreatedAt))
		require.NotNil(t, loaded.Graph)
		assert.Equal(t, snap.Graph.Edges, loaded.Graph.Edges)
		assert.Equal(t, snap.Graph.Nodes(), loaded.Graph.Nodes())
	})

	t.Run("Save Replaces", func(t *testing.T) {
		snap := sample(name)
		snap.Valid = false
		snap.Graph = nil
		snap.Error = "Event goo contains no transitions"
		require.NoError(t, store.Save(ctx, snap))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.False(t, loaded.Valid)
		assert.Nil(t, loaded.Graph)
		assert.Equal(t, snap.Error, loaded.Error)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sample(name)))
		require.NoError(t, store.Delete(ctx, name), "Delete should not return error")

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")

		assert.NoError(t, store.Delete(ctx, name), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-1"
		id2 := name + "-2"
		require.NoError(t, store.Save(ctx, sample(id1)))
		require.NoError(t, store.Save(ctx, sample(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
	})
}
