package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
}

func TestRecurrenceNext(t *testing.T) {
	tests := []struct {
		name string
		rule Recurrence
		due  time.Time
		want time.Time
	}{
		{"daily", Recurrence{Kind: RecurDaily}, date(2024, 6, 10), date(2024, 6, 11)},
		{"weekly", Recurrence{Kind: RecurWeekly}, date(2024, 6, 10), date(2024, 6, 17)},
		{"monthly clamps", Recurrence{Kind: RecurMonthly}, date(2024, 1, 31), date(2024, 2, 29)},
		{"monthly keeps day", Recurrence{Kind: RecurMonthly}, date(2024, 3, 15), date(2024, 4, 15)},
		{"yearly from leap day", Recurrence{Kind: RecurYearly}, date(2024, 2, 29), date(2025, 2, 28)},
		{"every 3 days", Recurrence{Kind: RecurCustom, Interval: 3}, date(2024, 12, 30), date(2025, 1, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rule.Next(tt.due)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := Recurrence{Kind: RecurNone}.Next(date(2024, 6, 10))
	assert.False(t, ok)
	_, ok = Recurrence{Kind: RecurCustom}.Next(date(2024, 6, 10))
	assert.False(t, ok)
}

func TestRecurrenceString(t *testing.T) {
	assert.Equal(t, "Daily", Recurrence{Kind: RecurDaily}.String())
	assert.Equal(t, "Every 10 days", Recurrence{Kind: RecurCustom, Interval: 10}.String())
	assert.Equal(t, "None", Recurrence{}.String())
}

func TestTimerSessions(t *testing.T) {
	start := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	var tm Timer
	tm = tm.Start(start)
	assert.True(t, tm.Running())
	assert.Equal(t, 30*time.Minute, tm.Elapsed(start.Add(30*time.Minute)))

	again := tm.Start(start.Add(time.Hour))
	assert.Equal(t, start, *again.RunningSince)

	tm = tm.Stop(start.Add(90 * time.Minute))
	assert.False(t, tm.Running())
	assert.Equal(t, 90*time.Minute, tm.Tracked)
	require.Len(t, tm.Entries, 1)
	assert.Equal(t, start, tm.Entries[0].Start)

	c := tm.Clone()
	c.Entries[0].Start = time.Time{}
	assert.Equal(t, start, tm.Entries[0].Start)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m", FormatDuration(0))
	assert.Equal(t, "45m", FormatDuration(45*time.Minute+30*time.Second))
	assert.Equal(t, "2h 5m", FormatDuration(2*time.Hour+5*time.Minute))
}

func TestNormalizeLabels(t *testing.T) {
	assert.Equal(t, []string{"home", "work"}, NormalizeLabels([]string{"#Work", " home", "work", ""}))
	assert.NotNil(t, NormalizeLabels(nil))
}

func TestClampPriority(t *testing.T) {
	assert.Equal(t, PriorityNone, ClampPriority(-2))
	assert.Equal(t, 3, ClampPriority(3))
	assert.Equal(t, PriorityMax, ClampPriority(9))
}

func TestTodoDueChecks(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	td := NewTodo("a", "pay rent", now)
	assert.True(t, td.Expanded)
	assert.False(t, td.IsOverdue(now))

	due := date(2024, 6, 9)
	td.DueDate = &due
	assert.True(t, td.IsOverdue(now))
	assert.True(t, td.IsDueOn(due))

	td.Done = true
	assert.False(t, td.IsOverdue(now))
}

func TestTodoCloneIsDeep(t *testing.T) {
	td := NewTodo("a", "x", time.Now())
	td.Tags = []string{"one"}
	td.Children = []string{"b"}

	c := td.Clone()
	c.Tags[0] = "two"
	c.Children[0] = "z"
	assert.Equal(t, "one", td.Tags[0])
	assert.Equal(t, "b", td.Children[0])
}

func TestFindTemplate(t *testing.T) {
	tpl, ok := FindTemplate("bug report")
	require.True(t, ok)
	assert.Equal(t, 4, tpl.Priority)

	_, ok = FindTemplate("builtin-work-task")
	assert.True(t, ok)

	_, ok = FindTemplate("nope")
	assert.False(t, ok)
}
