package model

import (
	"fmt"
	"time"
)

// TimeEntry is one finished tracking session
type TimeEntry struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Timer holds accumulated tracked time. Elapsed time of a running session is
// computed on read from RunningSince; nothing ticks in the background.
type Timer struct {
	Tracked      time.Duration `json:"tracked"`
	RunningSince *time.Time    `json:"running_since,omitempty"`
	Entries      []TimeEntry   `json:"entries,omitempty"`
}

// Running reports whether a session is in progress
func (t Timer) Running() bool {
	return t.RunningSince != nil
}

// Elapsed returns tracked time plus the running session measured against now
func (t Timer) Elapsed(now time.Time) time.Duration {
	total := t.Tracked
	if t.RunningSince != nil && now.After(*t.RunningSince) {
		total += now.Sub(*t.RunningSince)
	}
	return total
}

// Start returns a copy with a session running since now. Starting a running
// timer is a no-op.
func (t Timer) Start(now time.Time) Timer {
	c := t.Clone()
	if c.RunningSince == nil {
		c.RunningSince = &now
	}
	return c
}

// Stop returns a copy with the running session folded into Tracked
func (t Timer) Stop(now time.Time) Timer {
	c := t.Clone()
	if c.RunningSince == nil {
		return c
	}
	start := *c.RunningSince
	if now.After(start) {
		c.Tracked += now.Sub(start)
	}
	c.Entries = append(c.Entries, TimeEntry{Start: start, End: now})
	c.RunningSince = nil
	return c
}

// Clone returns a deep copy
func (t Timer) Clone() Timer {
	c := t
	c.RunningSince = cloneTime(t.RunningSince)
	if t.Entries != nil {
		c.Entries = append(make([]TimeEntry, 0, len(t.Entries)), t.Entries...)
	}
	return c
}

// FormatDuration renders a duration as "1h 5m" or "5m"
func FormatDuration(d time.Duration) string {
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
