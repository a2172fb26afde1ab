package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/existflow/paperclip/internal/clock"
	"github.com/existflow/paperclip/internal/command"
	"github.com/existflow/paperclip/internal/model"
	"github.com/existflow/paperclip/internal/tree"
	"github.com/existflow/paperclip/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

// sampleStore holds a three level tree with tags, a recurrence rule and a
// running timer, plus a second empty workspace
func sampleStore(t *testing.T) *workspace.Store {
	t.Helper()
	s := workspace.New(workspace.WithClock(clock.Fixed{T: now}))
	w, err := s.Create("Work", "desk")
	require.NoError(t, err)
	_, err = s.Create("Home", "")
	require.NoError(t, err)

	exec := func(c command.Command) {
		require.NoError(t, w.Engine().Execute(c))
	}
	root := &command.Add{Index: -1, Input: tree.Input{Description: "launch", Tags: []string{"big"}, CreatedAt: now}}
	exec(root)
	mid := &command.Add{Parent: root.ID(), Index: -1, Input: tree.Input{Description: "build", Contexts: []string{"office"}, CreatedAt: now}}
	exec(mid)
	due := now.AddDate(0, 0, 2)
	leaf := &command.Add{Parent: mid.ID(), Index: -1, Input: tree.Input{
		Description: "write tests",
		Priority:    3,
		DueDate:     &due,
		Recurrence:  &model.Recurrence{Kind: model.RecurWeekly},
		CreatedAt:   now,
	}}
	exec(leaf)
	timer, err := command.ToggleTimer(w.Tree(), leaf.ID(), now)
	require.NoError(t, err)
	exec(timer)
	exec(&command.SetNote{ID: leaf.ID(), Note: "use testify"})
	exec(&command.Complete{ID: mid.ID(), At: now})
	return s
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestJSONFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", DefaultJSONFile)
	f, err := OpenJSON(path)
	require.NoError(t, err)
	defer f.Close()

	s := sampleStore(t)
	want := s.Snapshot()
	require.NoError(t, f.Save(ctx, want))

	got, err := f.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, marshal(t, want), marshal(t, got))

	restored := workspace.New()
	require.NoError(t, restored.Restore(got))
	assert.JSONEq(t, marshal(t, want), marshal(t, restored.Snapshot()))
}

func TestJSONFileMissingIsEmpty(t *testing.T) {
	f, err := OpenJSON(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)

	snap, err := f.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Workspaces)
	assert.Equal(t, workspace.SnapshotVersion, snap.Version)
}

func TestJSONFileKeepsBackup(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DefaultJSONFile)
	f, err := OpenJSON(path)
	require.NoError(t, err)

	first := Empty()
	require.NoError(t, f.Save(ctx, first))
	second := sampleStore(t).Snapshot()
	require.NoError(t, f.Save(ctx, second))

	bak, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.JSONEq(t, marshal(t, first), string(bak))

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".paperclip-tmp-"), e.Name())
	}
}

func TestJSONFileClosed(t *testing.T) {
	f, err := OpenJSON(filepath.Join(t.TempDir(), DefaultJSONFile))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = f.Load(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, f.Save(context.Background(), Empty()), ErrClosed)
}

func TestDecodeLegacy(t *testing.T) {
	legacy := `[
	  {"id": "a", "description": "parent", "done": false, "children": ["b"], "created_at": "2024-06-01T10:00:00Z"},
	  {"id": "b", "description": "child", "done": true, "parent_id": "a", "created_at": "2024-06-01T10:00:00Z"},
	  {"id": "c", "description": "other", "done": false, "created_at": "2024-06-01T10:00:00Z"}
	]`
	tests := []struct {
		name string
		data string
	}{
		{name: "bare array", data: legacy},
		{name: "todos object", data: fmt.Sprintf(`{"todos": %s}`, legacy)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Decode([]byte(tt.data))
			require.NoError(t, err)

			s := workspace.New()
			require.NoError(t, s.Restore(snap))
			w := s.Active()
			require.NotNil(t, w)
			assert.Equal(t, model.DefaultWorkspaceName, w.Name)
			assert.Equal(t, []string{"a", "c"}, w.Tree().Roots())
			d, err := w.Tree().Depth("b")
			require.NoError(t, err)
			assert.Equal(t, 1, d)
		})
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.ErrorIs(t, err, ErrInvalidData)

	snap, err := Decode([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, snap.Workspaces)
}

func TestExportImport(t *testing.T) {
	want := sampleStore(t).Snapshot()

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, want))
	got, err := Import(&buf)
	require.NoError(t, err)
	assert.JSONEq(t, marshal(t, want), marshal(t, got))
}

func TestImportRejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		problem string
	}{
		{name: "missing version", doc: `{"workspaces": []}`, problem: "version"},
		{name: "workspace without name", doc: `{"version": 1, "workspaces": [{"id": "w", "tree": {"roots": [], "todos": []}}]}`, problem: "name"},
		{name: "priority out of range", doc: `{"version": 1, "workspaces": [{"id": "w", "name": "W", "tree": {"roots": ["a"], "todos": [
			{"id": "a", "description": "x", "done": false, "priority": 9, "created_at": "2024-06-10T09:00:00Z"}]}}]}`, problem: "/priority"},
		{name: "unknown recurrence", doc: `{"version": 1, "workspaces": [{"id": "w", "name": "W", "tree": {"roots": ["a"], "todos": [
			{"id": "a", "description": "x", "done": false, "recurrence": {"kind": "hourly"}, "created_at": "2024-06-10T09:00:00Z"}]}}]}`, problem: "/recurrence/kind"},
		{name: "bad timestamp", doc: `{"version": 1, "workspaces": [{"id": "w", "name": "W", "tree": {"roots": ["a"], "todos": [
			{"id": "a", "description": "x", "done": false, "created_at": "yesterday"}]}}]}`, problem: "/created_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidData)

			var se *SchemaError
			require.ErrorAs(t, err, &se)
			assert.Contains(t, strings.Join(se.Problems, "\n"), tt.problem)
		})
	}
}

func TestImportRejectsMalformedJSON(t *testing.T) {
	_, err := Import(strings.NewReader(`{"version": `))
	assert.ErrorIs(t, err, ErrInvalidData)
}
