package tree

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/existflow/paperclip/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	tr := buildSample(t)
	due := now.AddDate(0, 0, 2)
	require.NoError(t, tr.SetField("t3", FieldDueDate, &due))
	require.NoError(t, tr.SetField("t3", FieldTags, []string{"deep"}))
	require.NoError(t, tr.SetField("t2", FieldRecurrence, &model.Recurrence{Kind: model.RecurCustom, Interval: 3}))
	require.NoError(t, tr.SetField("t1", FieldTimer, model.Timer{Tracked: time.Minute}.Start(now)))
	require.NoError(t, tr.SetField("t2", FieldExpanded, false))

	data, err := json.Marshal(tr.Snapshot())
	require.NoError(t, err)

	var s Snapshot
	require.NoError(t, json.Unmarshal(data, &s))
	back, err := FromSnapshot(s)
	require.NoError(t, err)

	again, err := json.Marshal(back.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))

	c, _ := back.Get("t3")
	assert.True(t, due.Equal(*c.DueDate))
	d, err := back.Depth("t3")
	require.NoError(t, err)
	assert.Equal(t, 2, d)
}

func TestFromSnapshotRejectsCorruption(t *testing.T) {
	todo := func(id, parent string, children ...string) model.Todo {
		td := model.NewTodo(id, id, now)
		td.ParentID = parent
		td.Children = append(td.Children, children...)
		return td
	}
	tests := []struct {
		name string
		snap Snapshot
	}{
		{name: "empty id", snap: Snapshot{Roots: []string{""}, Todos: []model.Todo{todo("", "")}}},
		{name: "duplicate id", snap: Snapshot{Roots: []string{"a"}, Todos: []model.Todo{todo("a", ""), todo("a", "")}}},
		{name: "dangling child", snap: Snapshot{Roots: []string{"a"}, Todos: []model.Todo{todo("a", "", "b")}}},
		{name: "wrong parent link", snap: Snapshot{Roots: []string{"a"}, Todos: []model.Todo{todo("a", "", "b"), todo("b", "x")}}},
		{name: "orphan", snap: Snapshot{Roots: []string{"a"}, Todos: []model.Todo{todo("a", ""), todo("b", "a")}}},
		{name: "cycle", snap: Snapshot{Roots: []string{"a"}, Todos: []model.Todo{todo("a", ""), todo("b", "c", "c"), todo("c", "b", "b")}}},
		{name: "listed twice", snap: Snapshot{Roots: []string{"a", "a"}, Todos: []model.Todo{todo("a", "")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSnapshot(tt.snap)
			assert.ErrorIs(t, err, ErrCorruptSnapshot)
		})
	}
}
