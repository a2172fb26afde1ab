package workspace

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/existflow/paperclip/internal/clock"
	"github.com/existflow/paperclip/internal/command"
	"github.com/existflow/paperclip/internal/model"
	"github.com/existflow/paperclip/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

func newStore() *Store {
	n := 0
	return New(
		WithClock(clock.Fixed{T: now}),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("ws_%d", n)
		}),
	)
}

func addTodo(t *testing.T, w *Workspace, parent, desc string) string {
	t.Helper()
	c := &command.Add{Parent: parent, Index: -1, Input: tree.Input{Description: desc, CreatedAt: now}}
	require.NoError(t, w.Engine().Execute(c))
	return c.ID()
}

func TestCreate(t *testing.T) {
	s := newStore()
	assert.Nil(t, s.Active())

	w, err := s.Create("Work", "office things")
	require.NoError(t, err)
	assert.Equal(t, "ws_1", w.ID)
	assert.Equal(t, now, w.CreatedAt)
	assert.Equal(t, w, s.Active())

	_, err = s.Create("home", "")
	require.NoError(t, err)
	assert.Equal(t, "Work", s.Active().Name, "first workspace stays active")

	_, err = s.Create("work", "")
	assert.ErrorIs(t, err, ErrDuplicateName)
	_, err = s.Create("  ", "")
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Equal(t, 2, s.Len())
}

func TestDelete(t *testing.T) {
	s := newStore()
	_, err := s.Create("A", "")
	require.NoError(t, err)
	_, err = s.Create("B", "")
	require.NoError(t, err)
	_, err = s.Create("C", "")
	require.NoError(t, err)
	require.NoError(t, s.SetActive("B"))

	assert.ErrorIs(t, s.Delete("nope"), ErrNotFound)

	require.NoError(t, s.Delete("b"))
	assert.Equal(t, "A", s.Active().Name)

	require.NoError(t, s.Delete("A"))
	assert.Equal(t, "C", s.Active().Name)

	assert.ErrorIs(t, s.Delete("C"), ErrLastWorkspace)
	assert.Equal(t, 1, s.Len())
}

func TestRename(t *testing.T) {
	s := newStore()
	_, _ = s.Create("A", "")
	_, _ = s.Create("B", "")

	assert.ErrorIs(t, s.Rename("A", "b"), ErrDuplicateName)
	assert.ErrorIs(t, s.Rename("X", "Y"), ErrNotFound)
	assert.ErrorIs(t, s.Rename("A", ""), ErrEmptyName)

	require.NoError(t, s.Rename("A", "a"))
	w, err := s.Get("A")
	require.NoError(t, err)
	assert.Equal(t, "a", w.Name)
}

func TestSetActiveAndNext(t *testing.T) {
	s := newStore()
	_, _ = s.Create("A", "")
	_, _ = s.Create("B", "")

	assert.ErrorIs(t, s.SetActive("nope"), ErrNotFound)
	require.NoError(t, s.SetActive("b"))
	assert.Equal(t, "B", s.Active().Name)

	assert.Equal(t, "A", s.Next().Name)
	assert.Equal(t, "B", s.Next().Name)
}

func TestHistoriesAreIndependent(t *testing.T) {
	s := newStore()
	a, _ := s.Create("A", "")
	b, _ := s.Create("B", "")

	addTodo(t, a, "", "in a")
	require.NoError(t, s.SetActive("B"))

	_, err := s.Active().Engine().Undo()
	assert.ErrorIs(t, err, command.ErrNothingToUndo)

	addTodo(t, b, "", "in b")
	require.NoError(t, s.SetActive("A"))
	_, err = s.Active().Engine().Undo()
	require.NoError(t, err)
	assert.Equal(t, 0, a.Tree().Len())
	assert.Equal(t, 1, b.Tree().Len())
}

func TestEnsureDefault(t *testing.T) {
	s := newStore()
	w := s.EnsureDefault()
	require.NotNil(t, w)
	assert.Equal(t, model.DefaultWorkspaceName, w.Name)
	assert.Equal(t, w, s.EnsureDefault())
	assert.Equal(t, 1, s.Len())
}

func TestSearchAcrossWorkspaces(t *testing.T) {
	s := newStore()
	a, _ := s.Create("A", "")
	b, _ := s.Create("B", "")
	addTodo(t, a, "", "buy milk")
	idB := addTodo(t, b, "", "milk the cow")
	require.NoError(t, s.SetActive("B"))

	hits := s.Search("MILK")
	require.Len(t, hits, 2)
	assert.Equal(t, Match{Workspace: "B", TodoID: idB}, hits[0])
	assert.Equal(t, "A", hits[1].Workspace)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := newStore()
	w, _ := s.Create("Work", "desk")
	_, _ = s.Create("Home", "")
	require.NoError(t, s.SetActive("Home"))

	// three levels with tags, a recurrence rule and a running timer
	root := addTodo(t, w, "", "project #big")
	mid := addTodo(t, w, root, "phase")
	leaf := addTodo(t, w, mid, "task")
	due := now.AddDate(0, 0, 3)
	require.NoError(t, w.Engine().Execute(&command.Edit{ID: leaf, Changes: []command.Change{
		{Field: tree.FieldTags, Value: []string{"urgent", "Deep"}},
		{Field: tree.FieldDueDate, Value: &due},
		{Field: tree.FieldRecurrence, Value: &model.Recurrence{Kind: model.RecurCustom, Interval: 4}},
		{Field: tree.FieldTimer, Value: model.Timer{Tracked: 90 * time.Second}.Start(now)},
		{Field: tree.FieldNote, Value: "remember **this**"},
	}}))

	data, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	restored := newStore()
	require.NoError(t, restored.Restore(&snap))

	again, err := json.Marshal(restored.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))

	assert.Equal(t, "Home", restored.Active().Name)
	rw, err := restored.Get("work")
	require.NoError(t, err)
	td, ok := rw.Tree().Get(leaf)
	require.True(t, ok)
	assert.Equal(t, []string{"deep", "urgent"}, td.Tags)
	assert.Equal(t, model.RecurCustom, td.Recurrence.Kind)
	assert.True(t, td.Timer.Running())
	assert.Equal(t, 90*time.Second+time.Minute, td.Timer.Elapsed(now.Add(time.Minute)))
	depth, err := rw.Tree().Depth(leaf)
	require.NoError(t, err)
	assert.Equal(t, 2, depth)

	_, err = rw.Engine().Undo()
	assert.ErrorIs(t, err, command.ErrNothingToUndo)
}

func TestRestoreRejectsBadSnapshots(t *testing.T) {
	good := func() *Snapshot {
		return &Snapshot{Version: 1, Workspaces: []WorkspaceSnapshot{
			{Workspace: model.Workspace{ID: "ws_1", Name: "A"}},
			{Workspace: model.Workspace{ID: "ws_2", Name: "B"}},
		}}
	}
	tests := []struct {
		name    string
		mutate  func(*Snapshot)
		wantErr error
	}{
		{name: "duplicate name", mutate: func(s *Snapshot) { s.Workspaces[1].Name = "a" }, wantErr: ErrDuplicateName},
		{name: "empty name", mutate: func(s *Snapshot) { s.Workspaces[0].Name = "" }, wantErr: ErrEmptyName},
		{name: "duplicate id", mutate: func(s *Snapshot) { s.Workspaces[1].ID = "ws_1" }, wantErr: tree.ErrCorruptSnapshot},
		{name: "future version", mutate: func(s *Snapshot) { s.Version = 99 }, wantErr: tree.ErrCorruptSnapshot},
		{name: "broken tree", mutate: func(s *Snapshot) { s.Workspaces[0].Tree.Roots = []string{"ghost"} }, wantErr: tree.ErrCorruptSnapshot},
		{name: "todo id shared by two workspaces", mutate: func(s *Snapshot) {
			for i := range s.Workspaces {
				s.Workspaces[i].Tree = tree.Snapshot{Roots: []string{"a"}, Todos: []model.Todo{model.NewTodo("a", "shared", now)}}
			}
		}, wantErr: tree.ErrCorruptSnapshot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore()
			_, _ = s.Create("Keep", "")
			snap := good()
			tt.mutate(snap)

			assert.ErrorIs(t, s.Restore(snap), tt.wantErr)
			assert.Equal(t, 1, s.Len())
			assert.Equal(t, "Keep", s.Active().Name)
		})
	}
}

func TestRestoreFallsBackToFirstActive(t *testing.T) {
	s := newStore()
	require.NoError(t, s.Restore(&Snapshot{Version: 1, Active: "missing", Workspaces: []WorkspaceSnapshot{
		{Workspace: model.Workspace{ID: "ws_9", Name: "Only"}},
	}}))
	assert.Equal(t, "Only", s.Active().Name)
}
