// Package storage persists workspace snapshots. The core packages never do
// I/O; callers load a snapshot at start and save one on explicit save or exit.
package storage

import (
	"context"
	"errors"

	"github.com/existflow/paperclip/internal/workspace"
)

var (
	ErrInvalidData = errors.New("invalid data file")
	ErrClosed      = errors.New("storage closed")
)

// Storage loads and saves the complete set of workspaces
type Storage interface {
	// Load returns the stored snapshot. A store that was never saved returns
	// an empty snapshot and no error.
	Load(ctx context.Context) (*workspace.Snapshot, error)
	Save(ctx context.Context, snap *workspace.Snapshot) error
	Close() error
}

// Empty returns a snapshot with no workspaces
func Empty() *workspace.Snapshot {
	return &workspace.Snapshot{Version: workspace.SnapshotVersion}
}
