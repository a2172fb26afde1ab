package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/existflow/paperclip/internal/logger"
	"github.com/existflow/paperclip/internal/model"
	"github.com/existflow/paperclip/internal/tree"
	"github.com/existflow/paperclip/internal/workspace"
)

// DefaultJSONFile is the data file name inside the data directory
const DefaultJSONFile = "workspaces.json"

// JSONFile stores the snapshot as one indented JSON document
type JSONFile struct {
	path   string
	mu     sync.Mutex
	closed bool
}

// OpenJSON prepares a JSON backend at path. The file is created on first Save.
func OpenJSON(path string) (*JSONFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &JSONFile{path: path}, nil
}

// Path returns the data file location
func (f *JSONFile) Path() string { return f.path }

func (f *JSONFile) Load(ctx context.Context) (*workspace.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Empty(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	snap, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	logger.Debug("Loaded data file", logger.F("path", f.path), logger.F("workspaces", len(snap.Workspaces)))
	return snap, nil
}

func (f *JSONFile) Save(ctx context.Context, snap *workspace.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := AtomicWrite(f.path, append(data, '\n')); err != nil {
		return err
	}
	logger.Debug("Saved data file", logger.F("path", f.path), logger.F("workspaces", len(snap.Workspaces)))
	return nil
}

func (f *JSONFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Decode reads a snapshot document. Older single-list files, either a bare
// array of todos or an object with only a "todos" key, are migrated into one
// default workspace.
func Decode(data []byte) (*workspace.Snapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Empty(), nil
	}

	if data[0] == '[' {
		var todos []model.Todo
		if err := json.Unmarshal(data, &todos); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
		return migrateLegacy(todos), nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if _, ok := probe["workspaces"]; !ok {
		if raw, ok := probe["todos"]; ok {
			var todos []model.Todo
			if err := json.Unmarshal(raw, &todos); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
			}
			return migrateLegacy(todos), nil
		}
	}

	var snap workspace.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return &snap, nil
}

// migrateLegacy wraps a flat todo list in the default workspace. Roots are
// the todos without a parent, in file order.
func migrateLegacy(todos []model.Todo) *workspace.Snapshot {
	ts := tree.Snapshot{Roots: []string{}, Todos: todos}
	for _, td := range todos {
		if td.ParentID == "" {
			ts.Roots = append(ts.Roots, td.ID)
		}
	}
	logger.Info("Migrating legacy todo list", logger.F("todos", len(todos)))

	snap := Empty()
	snap.Workspaces = []workspace.WorkspaceSnapshot{{
		Workspace: model.Workspace{ID: "ws_legacy", Name: model.DefaultWorkspaceName},
		Tree:      ts,
	}}
	snap.Active = "ws_legacy"
	return snap
}
