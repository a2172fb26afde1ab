package model

import (
	"slices"
	"strings"
	"time"
)

// Priority bounds for todos (higher is more important)
const (
	PriorityNone = 0
	PriorityLow  = 1
	PriorityHigh = 4
	PriorityMax  = 5
)

// Todo represents a single task in a workspace tree
type Todo struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Raw         string      `json:"raw_description"`
	Done        bool        `json:"done"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	Priority    int         `json:"priority"`
	Tags        []string    `json:"tags"`
	Contexts    []string    `json:"contexts"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
	Recurrence  *Recurrence `json:"recurrence,omitempty"`
	Note        string      `json:"note,omitempty"`
	Timer       Timer       `json:"timer"`
	Expanded    bool        `json:"expanded"`
	ParentID    string      `json:"parent_id,omitempty"`
	Children    []string    `json:"children"`
	TemplateID  string      `json:"template_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NewTodo creates a pending, expanded todo with empty label sets
func NewTodo(id, description string, createdAt time.Time) Todo {
	return Todo{
		ID:          id,
		Description: description,
		Raw:         description,
		Tags:        []string{},
		Contexts:    []string{},
		Children:    []string{},
		Expanded:    true,
		CreatedAt:   createdAt,
	}
}

// Clone returns a deep copy that shares no slices or pointers with t
func (t Todo) Clone() Todo {
	c := t
	c.CompletedAt = cloneTime(t.CompletedAt)
	c.DueDate = cloneTime(t.DueDate)
	if t.Recurrence != nil {
		r := *t.Recurrence
		c.Recurrence = &r
	}
	c.Tags = cloneStrings(t.Tags)
	c.Contexts = cloneStrings(t.Contexts)
	c.Children = cloneStrings(t.Children)
	c.Timer = t.Timer.Clone()
	return c
}

// IsRoot reports whether the todo has no parent
func (t *Todo) IsRoot() bool {
	return t.ParentID == ""
}

// HasNote returns true if a non-blank note is attached
func (t *Todo) HasNote() bool {
	return strings.TrimSpace(t.Note) != ""
}

// IsRecurring returns true if a recurrence rule is set
func (t *Todo) IsRecurring() bool {
	return t.Recurrence != nil && t.Recurrence.Kind != RecurNone
}

// HasTag reports whether tag is in the tag set
func (t *Todo) HasTag(tag string) bool {
	_, found := slices.BinarySearch(t.Tags, normalizeLabel(tag))
	return found
}

// HasContext reports whether ctx is in the context set
func (t *Todo) HasContext(ctx string) bool {
	_, found := slices.BinarySearch(t.Contexts, normalizeLabel(ctx))
	return found
}

// IsOverdue returns true if the todo is pending and past its due date
func (t *Todo) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Done {
		return false
	}
	return t.DueDate.Before(now)
}

// IsDueOn returns true if the due date falls on the same calendar day as day
func (t *Todo) IsDueOn(day time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	due := t.DueDate.In(day.Location())
	y1, m1, d1 := due.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ClampPriority forces p into [PriorityNone, PriorityMax]
func ClampPriority(p int) int {
	return min(max(p, PriorityNone), PriorityMax)
}

// NormalizeLabels lower-cases, strips #/@ markers, drops blanks and
// duplicates, and sorts. The result is never nil.
func NormalizeLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if n := normalizeLabel(l); n != "" {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func normalizeLabel(l string) string {
	l = strings.TrimSpace(l)
	l = strings.TrimLeft(l, "#@")
	return strings.ToLower(l)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}
