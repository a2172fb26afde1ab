package db

import (
	"context"
	"encoding/json"
	"path/filepath"
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

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", DefaultFile))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleSnapshot(t *testing.T) *workspace.Snapshot {
	t.Helper()
	s := workspace.New(workspace.WithClock(clock.Fixed{T: now}))
	w, err := s.Create("Work", "desk")
	require.NoError(t, err)
	home, err := s.Create("Home", "")
	require.NoError(t, err)

	exec := func(w *workspace.Workspace, c command.Command) {
		require.NoError(t, w.Engine().Execute(c))
	}
	root := &command.Add{Index: -1, Input: tree.Input{Description: "launch", Raw: "launch #big", Tags: []string{"big"}, CreatedAt: now}}
	exec(w, root)
	second := &command.Add{Index: -1, Input: tree.Input{Description: "second root", CreatedAt: now}}
	exec(w, second)
	mid := &command.Add{Parent: root.ID(), Index: -1, Input: tree.Input{Description: "build", Contexts: []string{"office"}, CreatedAt: now}}
	exec(w, mid)
	sib := &command.Add{Parent: root.ID(), Index: 0, Input: tree.Input{Description: "design", CreatedAt: now}}
	exec(w, sib)
	due := now.AddDate(0, 0, 2)
	leaf := &command.Add{Parent: mid.ID(), Index: -1, Input: tree.Input{
		Description: "write tests",
		Priority:    3,
		DueDate:     &due,
		Recurrence:  &model.Recurrence{Kind: model.RecurCustom, Interval: 10},
		CreatedAt:   now,
		TemplateID:  "builtin-work-task",
	}}
	exec(w, leaf)

	// one finished session and one running
	start, _ := command.ToggleTimer(w.Tree(), leaf.ID(), now)
	exec(w, start)
	stop, _ := command.ToggleTimer(w.Tree(), leaf.ID(), now.Add(25*time.Minute))
	exec(w, stop)
	again, _ := command.ToggleTimer(w.Tree(), leaf.ID(), now.Add(time.Hour))
	exec(w, again)

	exec(w, &command.SetNote{ID: leaf.ID(), Note: "line one\nline two"})
	exec(w, &command.Complete{ID: sib.ID(), At: now})
	collapse, _ := command.ToggleExpanded(w.Tree(), mid.ID())
	exec(w, collapse)

	exec(home, &command.Add{Index: -1, Input: tree.Input{Description: "water plants", CreatedAt: now}})
	require.NoError(t, s.SetActive("Home"))
	return s.Snapshot()
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	want := sampleSnapshot(t)

	require.NoError(t, db.Save(ctx, want))
	got, err := db.Load(ctx)
	require.NoError(t, err)

	wantJSON, err := json.Marshal(want)
	require.NoError(t, err)
	gotJSON, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, string(wantJSON), string(gotJSON))

	s := workspace.New()
	require.NoError(t, s.Restore(got))
	assert.Equal(t, "Home", s.Active().Name)
}

func TestSaveReplacesPreviousContents(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	require.NoError(t, db.Save(ctx, sampleSnapshot(t)))

	s := workspace.New(workspace.WithClock(clock.Fixed{T: now}))
	_, err := s.Create("Only", "")
	require.NoError(t, err)
	require.NoError(t, db.Save(ctx, s.Snapshot()))

	got, err := db.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Workspaces, 1)
	assert.Equal(t, "Only", got.Workspaces[0].Name)
	assert.Empty(t, got.Workspaces[0].Tree.Todos)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM time_entries").Scan(&n))
	assert.Zero(t, n)
}

func TestLoadEmptyDatabase(t *testing.T) {
	got, err := openTemp(t).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.Workspaces)
	assert.Equal(t, "", got.Active)
}

func TestSaveRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	require.NoError(t, db.Save(ctx, sampleSnapshot(t)))

	// duplicate names violate the UNIQUE constraint
	bad := &workspace.Snapshot{Version: 1, Workspaces: []workspace.WorkspaceSnapshot{
		{Workspace: model.Workspace{ID: "a", Name: "Same", CreatedAt: now}},
		{Workspace: model.Workspace{ID: "b", Name: "same", CreatedAt: now}},
	}}
	require.Error(t, db.Save(ctx, bad))

	got, err := db.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Workspaces, 2)
	assert.Equal(t, "Work", got.Workspaces[0].Name)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DefaultFile)
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Save(ctx, sampleSnapshot(t)))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	got, err := db.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Workspaces, 2)
}
