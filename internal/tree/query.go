package tree

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/existflow/paperclip/internal/model"
)

// Get returns a copy of the todo
func (t *Tree) Get(id string) (model.Todo, bool) {
	td, ok := t.todos[id]
	if !ok {
		return model.Todo{}, false
	}
	return td.Clone(), true
}

// Has reports whether id is in the tree
func (t *Tree) Has(id string) bool {
	_, ok := t.todos[id]
	return ok
}

// Len returns the number of todos
func (t *Tree) Len() int {
	return len(t.todos)
}

// Roots returns a copy of the ordered root IDs
func (t *Tree) Roots() []string {
	return slices.Clone(t.roots)
}

// Depth returns 0 for roots, 1 for their children, and so on
func (t *Tree) Depth(id string) (int, error) {
	anc, err := t.Ancestors(id)
	return len(anc), err
}

// Ancestors returns the chain of parents from id's parent up to its root
func (t *Tree) Ancestors(id string) ([]string, error) {
	td, ok := t.todos[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	var out []string
	for p := td.ParentID; p != ""; {
		out = append(out, p)
		parent, ok := t.todos[p]
		if !ok {
			break
		}
		p = parent.ParentID
	}
	return out, nil
}

// IsAncestor reports whether anc is a strict ancestor of id
func (t *Tree) IsAncestor(anc, id string) bool {
	chain, err := t.Ancestors(id)
	return err == nil && slices.Contains(chain, anc)
}

// Status selects todos by completion
type Status int

const (
	StatusAll Status = iota
	StatusPending
	StatusCompleted
)

// DueBucket groups todos by due date
type DueBucket int

const (
	DueAny DueBucket = iota
	DueOverdue
	DueToday
	DueTomorrow
	DueThisWeek
	DueNone
)

// ParseDueBucket maps a CLI word to a DueBucket
func ParseDueBucket(s string) (DueBucket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return DueAny, nil
	case "overdue":
		return DueOverdue, nil
	case "today":
		return DueToday, nil
	case "tomorrow":
		return DueTomorrow, nil
	case "week", "this-week", "thisweek":
		return DueThisWeek, nil
	case "none", "no-date":
		return DueNone, nil
	}
	return DueAny, fmt.Errorf("%w: due filter %q", ErrInvalidValue, s)
}

// Filter describes a selection over the tree. Zero values match everything.
type Filter struct {
	Status  Status
	Text    string // case-insensitive match on description, tags and contexts
	Tag     string
	Context string
	Due     DueBucket
}

// Select returns IDs matching f in walk order
func (t *Tree) Select(f Filter, now time.Time) []string {
	var out []string
	for row := range t.Walk("") {
		if t.matches(t.todos[row.ID], f, now) {
			out = append(out, row.ID)
		}
	}
	return out
}

// Search matches text against description, tags and contexts
func (t *Tree) Search(text string) []string {
	return t.Select(Filter{Text: text}, time.Time{})
}

// Pending returns every not-done todo in walk order
func (t *Tree) Pending() []string {
	return t.Select(Filter{Status: StatusPending}, time.Time{})
}

// Completed returns every done todo in walk order
func (t *Tree) Completed() []string {
	return t.Select(Filter{Status: StatusCompleted}, time.Time{})
}

func (t *Tree) matches(td *model.Todo, f Filter, now time.Time) bool {
	switch f.Status {
	case StatusPending:
		if td.Done {
			return false
		}
	case StatusCompleted:
		if !td.Done {
			return false
		}
	}
	if f.Tag != "" && !td.HasTag(f.Tag) {
		return false
	}
	if f.Context != "" && !td.HasContext(f.Context) {
		return false
	}
	if f.Text != "" && !matchesText(td, f.Text) {
		return false
	}
	return inBucket(td, f.Due, now)
}

func matchesText(td *model.Todo, text string) bool {
	q := strings.ToLower(text)
	if strings.Contains(strings.ToLower(td.Description), q) {
		return true
	}
	for _, l := range slices.Concat(td.Tags, td.Contexts) {
		if strings.Contains(l, q) {
			return true
		}
	}
	return false
}

func inBucket(td *model.Todo, b DueBucket, now time.Time) bool {
	switch b {
	case DueAny:
		return true
	case DueNone:
		return td.DueDate == nil
	case DueOverdue:
		return td.IsOverdue(now)
	case DueToday:
		return td.IsDueOn(now)
	case DueTomorrow:
		return td.IsDueOn(now.AddDate(0, 0, 1))
	case DueThisWeek:
		if td.DueDate == nil {
			return false
		}
		y, m, d := now.Date()
		start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
		return !td.DueDate.Before(start) && td.DueDate.Before(start.AddDate(0, 0, 7))
	}
	return false
}

// LabelCount is a tag or context with the number of todos carrying it
type LabelCount struct {
	Label string
	Count int
}

// TagCounts returns tag usage sorted by count descending then name
func (t *Tree) TagCounts() []LabelCount {
	return t.countLabels(func(td *model.Todo) []string { return td.Tags })
}

// ContextCounts returns context usage sorted by count descending then name
func (t *Tree) ContextCounts() []LabelCount {
	return t.countLabels(func(td *model.Todo) []string { return td.Contexts })
}

func (t *Tree) countLabels(labels func(*model.Todo) []string) []LabelCount {
	counts := make(map[string]int)
	for _, td := range t.todos {
		for _, l := range labels(td) {
			counts[l]++
		}
	}
	out := make([]LabelCount, 0, len(counts))
	for l, n := range counts {
		out = append(out, LabelCount{Label: l, Count: n})
	}
	slices.SortFunc(out, func(a, b LabelCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}

// OverdueCount counts pending todos past their due date
func (t *Tree) OverdueCount(now time.Time) int {
	n := 0
	for _, td := range t.todos {
		if td.IsOverdue(now) {
			n++
		}
	}
	return n
}

// DueTodayCount counts pending todos due on now's calendar day
func (t *Tree) DueTodayCount(now time.Time) int {
	n := 0
	for _, td := range t.todos {
		if !td.Done && td.IsDueOn(now) {
			n++
		}
	}
	return n
}

// ActiveTimers returns todos with a running timer in walk order
func (t *Tree) ActiveTimers() []string {
	var out []string
	for row := range t.Walk("") {
		if t.todos[row.ID].Timer.Running() {
			out = append(out, row.ID)
		}
	}
	return out
}

// Elapsed returns tracked time for id including any running session
func (t *Tree) Elapsed(id string, now time.Time) (time.Duration, error) {
	td, ok := t.todos[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return td.Timer.Elapsed(now), nil
}

// Resolve finds a todo by full ID or unique ID prefix
func (t *Tree) Resolve(ref string) (string, error) {
	if _, ok := t.todos[ref]; ok {
		return ref, nil
	}
	var match string
	for id := range t.todos {
		if ref != "" && strings.HasPrefix(id, ref) {
			if match != "" {
				return "", fmt.Errorf("%w: ambiguous id %q", ErrNotFound, ref)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return match, nil
}
