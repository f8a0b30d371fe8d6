/*
Package ports defines the driven ports (interfaces) of workstate.

These interfaces decouple the model packages from where definitions come
from and where exported snapshots go.

# Key Interfaces

  - ModelLoader: supplies the scope definitions of a model (files, memory).
  - SnapshotStore: persists validated model snapshots (memory, file, redis).
*/
package ports
