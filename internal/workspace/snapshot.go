package workspace

import (
	"fmt"
	"strings"

	"github.com/existflow/paperclip/internal/command"
	"github.com/existflow/paperclip/internal/model"
	"github.com/existflow/paperclip/internal/tree"
)

// SnapshotVersion is written into every snapshot
const SnapshotVersion = 1

// Snapshot is the persisted form of the whole store
type Snapshot struct {
	Version    int                 `json:"version"`
	Active     string              `json:"active"`
	Workspaces []WorkspaceSnapshot `json:"workspaces"`
}

// WorkspaceSnapshot is one workspace's metadata and tree
type WorkspaceSnapshot struct {
	model.Workspace
	Tree tree.Snapshot `json:"tree"`
}

// Snapshot captures every workspace. Histories are not persisted.
func (s *Store) Snapshot() *Snapshot {
	snap := &Snapshot{Version: SnapshotVersion}
	if a := s.Active(); a != nil {
		snap.Active = a.ID
	}
	for _, w := range s.workspaces {
		snap.Workspaces = append(snap.Workspaces, WorkspaceSnapshot{
			Workspace: w.Workspace,
			Tree:      w.Tree().Snapshot(),
		})
	}
	return snap
}

// Restore replaces the store's contents with snap. Nothing changes unless
// every workspace validates. Histories start empty.
func (s *Store) Restore(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", tree.ErrCorruptSnapshot)
	}
	if snap.Version > SnapshotVersion {
		return fmt.Errorf("%w: version %d is newer than supported %d", tree.ErrCorruptSnapshot, snap.Version, SnapshotVersion)
	}

	names := make(map[string]bool)
	ids := make(map[string]bool)
	todoIDs := make(map[string]string)
	var restored []*Workspace
	for _, ws := range snap.Workspaces {
		key := strings.ToLower(strings.TrimSpace(ws.Name))
		if key == "" {
			return fmt.Errorf("workspace %s: %w", ws.ID, ErrEmptyName)
		}
		if names[key] {
			return fmt.Errorf("%w: %s", ErrDuplicateName, ws.Name)
		}
		if ws.ID == "" || ids[ws.ID] {
			return fmt.Errorf("%w: workspace %q has a missing or duplicate id", tree.ErrCorruptSnapshot, ws.Name)
		}
		names[key], ids[ws.ID] = true, true

		// todo IDs are unique across the whole store, not only per tree
		for _, td := range ws.Tree.Todos {
			if other, ok := todoIDs[td.ID]; ok && other != ws.Name {
				return fmt.Errorf("%w: todo %s appears in workspaces %q and %q", tree.ErrCorruptSnapshot, td.ID, other, ws.Name)
			}
			todoIDs[td.ID] = ws.Name
		}

		t, err := tree.FromSnapshot(ws.Tree, s.treeOpts...)
		if err != nil {
			return fmt.Errorf("workspace %s: %w", ws.Name, err)
		}
		restored = append(restored, &Workspace{
			Workspace: ws.Workspace,
			engine:    command.NewEngine(t, s.historySize),
		})
	}

	s.workspaces = restored
	s.active = ""
	if ids[snap.Active] {
		s.active = snap.Active
	} else if len(restored) > 0 {
		s.active = restored[0].ID
	}
	return nil
}
