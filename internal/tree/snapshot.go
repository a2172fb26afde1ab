package tree

import (
	"fmt"

	"github.com/existflow/paperclip/internal/model"
)

// Snapshot is the serializable form of a tree. Todos are in walk order.
type Snapshot struct {
	Roots []string     `json:"roots"`
	Todos []model.Todo `json:"todos"`
}

// Snapshot returns a deep copy of the tree's state
func (t *Tree) Snapshot() Snapshot {
	s := Snapshot{
		Roots: t.Roots(),
		Todos: make([]model.Todo, 0, len(t.todos)),
	}
	for row := range t.Walk("") {
		s.Todos = append(s.Todos, t.todos[row.ID].Clone())
	}
	return s
}

// FromSnapshot rebuilds a tree, rejecting snapshots that break structure:
// duplicate or missing IDs, parent links that disagree with child lists,
// cycles, and todos unreachable from the roots
func FromSnapshot(s Snapshot, opts ...Option) (*Tree, error) {
	t := New(opts...)
	for _, td := range s.Todos {
		if td.ID == "" {
			return nil, fmt.Errorf("%w: todo without id", ErrCorruptSnapshot)
		}
		if _, dup := t.todos[td.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrCorruptSnapshot, td.ID)
		}
		if td.Recurrence != nil && !td.Recurrence.IsValid() {
			return nil, fmt.Errorf("%w: todo %s has recurrence %q", ErrCorruptSnapshot, td.ID, td.Recurrence.Kind)
		}
		c := td.Clone()
		normalize(&c)
		t.todos[c.ID] = &c
	}

	seen := make(map[string]bool, len(t.todos))
	var visit func(id, parent string) error
	visit = func(id, parent string) error {
		td, ok := t.todos[id]
		if !ok {
			return fmt.Errorf("%w: dangling reference to %s", ErrCorruptSnapshot, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: %s reachable twice", ErrCorruptSnapshot, id)
		}
		seen[id] = true
		if td.ParentID != parent {
			return fmt.Errorf("%w: %s has parent %q, listed under %q", ErrCorruptSnapshot, id, td.ParentID, parent)
		}
		for _, c := range td.Children {
			if err := visit(c, id); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range s.Roots {
		if err := visit(r, ""); err != nil {
			return nil, err
		}
	}
	if len(seen) != len(t.todos) {
		return nil, fmt.Errorf("%w: %d todos unreachable from roots", ErrCorruptSnapshot, len(t.todos)-len(seen))
	}

	t.roots = append([]string{}, s.Roots...)
	return t, nil
}

func normalize(td *model.Todo) {
	td.Tags = model.NormalizeLabels(td.Tags)
	td.Contexts = model.NormalizeLabels(td.Contexts)
	td.Priority = model.ClampPriority(td.Priority)
	if td.Children == nil {
		td.Children = []string{}
	}
	if td.Recurrence != nil && td.Recurrence.Kind == model.RecurNone {
		td.Recurrence = nil
	}
}
