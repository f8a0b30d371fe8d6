package ports

import (
	"context"

	"github.com/grigi/workstate/pkg/graph"
)

// SnapshotStore persists exported model snapshots by name.
type SnapshotStore interface {
	// Save stores the snapshot under snap.Name, replacing any previous one.
	Save(ctx context.Context, snap *graph.Snapshot) error

	// Load retrieves a snapshot.
	// Returns domain.ErrSnapshotNotFound if it does not exist.
	Load(ctx context.Context, name string) (*graph.Snapshot, error)

	// Delete removes a snapshot. Deleting a missing snapshot is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the stored snapshot names.
	List(ctx context.Context) ([]string, error)
}
