// Package tree holds one workspace's todos as an arena keyed by ID. Parent and
// child links are ID lookups, so structural edits never need two live owners.
package tree

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/existflow/paperclip/internal/model"
	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("todo not found")
	ErrInvalidParent   = errors.New("invalid parent")
	ErrCycleDetected   = errors.New("move would create a cycle")
	ErrInvalidValue    = errors.New("invalid value")
	ErrDuplicateID     = errors.New("duplicate todo id")
	ErrCorruptSnapshot = errors.New("corrupt tree snapshot")
)

// Tree is the arena of todos plus the ordered list of roots
type Tree struct {
	todos map[string]*model.Todo
	roots []string
	newID func() string
}

// Option configures a Tree
type Option func(*Tree)

// WithIDGenerator replaces the default UUID generator
func WithIDGenerator(fn func() string) Option {
	return func(t *Tree) {
		t.newID = fn
	}
}

// New creates an empty tree
func New(opts ...Option) *Tree {
	t := &Tree{
		todos: make(map[string]*model.Todo),
		roots: []string{},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Input carries everything needed to create a todo
type Input struct {
	Description string
	Raw         string
	Priority    int
	Tags        []string
	Contexts    []string
	DueDate     *time.Time
	Recurrence  *model.Recurrence
	Note        string
	TemplateID  string
	CreatedAt   time.Time
}

// Row is one line of a flattened projection
type Row struct {
	ID    string
	Depth int
}

// Removed is a detached subtree together with where it used to live
type Removed struct {
	ParentID string
	Index    int
	Todos    []model.Todo // pre-order; Todos[0] is the subtree root
}

// IDs lists the removed identifiers in pre-order
func (r Removed) IDs() []string {
	ids := make([]string, len(r.Todos))
	for i, td := range r.Todos {
		ids[i] = td.ID
	}
	return ids
}

// Create appends a new todo under parent ("" for a root) and returns its ID
func (t *Tree) Create(parent string, in Input) (string, error) {
	return t.Insert(parent, -1, in)
}

// Insert creates a todo at index among parent's children. A negative or
// out-of-range index appends.
func (t *Tree) Insert(parent string, index int, in Input) (string, error) {
	if parent != "" {
		if _, ok := t.todos[parent]; !ok {
			return "", fmt.Errorf("%w: %s", ErrInvalidParent, parent)
		}
	}
	if in.Description == "" {
		return "", fmt.Errorf("%w: empty description", ErrInvalidValue)
	}
	if in.Recurrence != nil && !in.Recurrence.IsValid() {
		return "", fmt.Errorf("%w: recurrence %q", ErrInvalidValue, in.Recurrence.Kind)
	}

	id := t.newID()
	if _, exists := t.todos[id]; exists {
		return "", fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}

	td := model.NewTodo(id, in.Description, in.CreatedAt)
	if in.Raw != "" {
		td.Raw = in.Raw
	}
	td.Priority = model.ClampPriority(in.Priority)
	td.Tags = model.NormalizeLabels(in.Tags)
	td.Contexts = model.NormalizeLabels(in.Contexts)
	if in.DueDate != nil {
		due := *in.DueDate
		td.DueDate = &due
	}
	if in.Recurrence != nil {
		rec := *in.Recurrence
		td.Recurrence = &rec
	}
	td.Note = in.Note
	td.TemplateID = in.TemplateID
	td.ParentID = parent

	t.todos[id] = &td
	t.attach(parent, id, index)
	return id, nil
}

// Delete detaches the subtree rooted at id and returns it for later Restore
func (t *Tree) Delete(id string) (Removed, error) {
	td, ok := t.todos[id]
	if !ok {
		return Removed{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	removed := Removed{
		ParentID: td.ParentID,
		Index:    t.detach(td.ParentID, id),
	}
	for row := range t.walk(id, 0, false) {
		removed.Todos = append(removed.Todos, t.todos[row.ID].Clone())
	}
	for _, r := range removed.Todos {
		delete(t.todos, r.ID)
	}
	return removed, nil
}

// Restore reinserts a subtree produced by Delete at its recorded position
func (t *Tree) Restore(r Removed) error {
	if len(r.Todos) == 0 {
		return fmt.Errorf("%w: empty subtree", ErrInvalidValue)
	}
	if r.ParentID != "" {
		if _, ok := t.todos[r.ParentID]; !ok {
			return fmt.Errorf("%w: %s", ErrInvalidParent, r.ParentID)
		}
	}
	for _, td := range r.Todos {
		if _, exists := t.todos[td.ID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateID, td.ID)
		}
	}

	for _, td := range r.Todos {
		c := td.Clone()
		t.todos[c.ID] = &c
	}
	t.todos[r.Todos[0].ID].ParentID = r.ParentID
	t.attach(r.ParentID, r.Todos[0].ID, r.Index)
	return nil
}

// Move reparents id, appending it to newParent's children
func (t *Tree) Move(id, newParent string) error {
	return t.MoveTo(id, newParent, -1)
}

// MoveTo reparents id at index among newParent's children. Moving under
// itself or one of its descendants fails with ErrCycleDetected.
func (t *Tree) MoveTo(id, newParent string, index int) error {
	td, ok := t.todos[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if newParent != "" {
		if _, ok := t.todos[newParent]; !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, newParent)
		}
		if newParent == id || t.IsAncestor(id, newParent) {
			return fmt.Errorf("%w: %s under %s", ErrCycleDetected, id, newParent)
		}
	}

	t.detach(td.ParentID, id)
	td.ParentID = newParent
	t.attach(newParent, id, index)
	return nil
}

// Position returns the parent of id and its index among its siblings
func (t *Tree) Position(id string) (string, int, error) {
	td, ok := t.todos[id]
	if !ok {
		return "", 0, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return td.ParentID, slices.Index(t.siblings(td.ParentID), id), nil
}

// ToggleComplete flips completion on id only; descendants are untouched
func (t *Tree) ToggleComplete(id string, at time.Time) error {
	td, ok := t.todos[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if td.Done {
		return t.SetCompletion(id, false, nil)
	}
	return t.SetCompletion(id, true, &at)
}

// SetCompletion sets the done flag and completion time exactly
func (t *Tree) SetCompletion(id string, done bool, completedAt *time.Time) error {
	td, ok := t.todos[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	td.Done = done
	td.CompletedAt = nil
	if done && completedAt != nil {
		at := *completedAt
		td.CompletedAt = &at
	}
	return nil
}

// ChildrenOf returns a restartable sequence of id's direct children, or the
// roots when id is empty. The sequence reads the tree when iterated.
func (t *Tree) ChildrenOf(id string) (iter.Seq[string], error) {
	if id != "" {
		if _, ok := t.todos[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
	}
	return func(yield func(string) bool) {
		for _, c := range t.siblings(id) {
			if !yield(c) {
				return
			}
		}
	}, nil
}

// Flatten walks depth-first from root ("" for every root), skipping the
// descendants of collapsed todos
func (t *Tree) Flatten(root string) iter.Seq[Row] {
	return t.rows(root, true)
}

// Walk is Flatten ignoring expansion flags
func (t *Tree) Walk(root string) iter.Seq[Row] {
	return t.rows(root, false)
}

func (t *Tree) rows(root string, honorExpanded bool) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		if root != "" {
			if _, ok := t.todos[root]; ok {
				for row := range t.walk(root, 0, honorExpanded) {
					if !yield(row) {
						return
					}
				}
			}
			return
		}
		for _, r := range slices.Clone(t.roots) {
			for row := range t.walk(r, 0, honorExpanded) {
				if !yield(row) {
					return
				}
			}
		}
	}
}

func (t *Tree) walk(id string, depth int, honorExpanded bool) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		t.visit(id, depth, honorExpanded, yield)
	}
}

func (t *Tree) visit(id string, depth int, honorExpanded bool, yield func(Row) bool) bool {
	td, ok := t.todos[id]
	if !ok {
		return true
	}
	if !yield(Row{ID: id, Depth: depth}) {
		return false
	}
	if honorExpanded && !td.Expanded {
		return true
	}
	for _, c := range td.Children {
		if !t.visit(c, depth+1, honorExpanded, yield) {
			return false
		}
	}
	return true
}

func (t *Tree) siblings(parent string) []string {
	if parent == "" {
		return t.roots
	}
	if td, ok := t.todos[parent]; ok {
		return td.Children
	}
	return nil
}

func (t *Tree) setSiblings(parent string, ids []string) {
	if parent == "" {
		t.roots = ids
		return
	}
	t.todos[parent].Children = ids
}

func (t *Tree) attach(parent, id string, index int) {
	sib := t.siblings(parent)
	if index < 0 || index > len(sib) {
		index = len(sib)
	}
	t.setSiblings(parent, slices.Insert(sib, index, id))
}

func (t *Tree) detach(parent, id string) int {
	sib := t.siblings(parent)
	i := slices.Index(sib, id)
	if i >= 0 {
		t.setSiblings(parent, slices.Delete(sib, i, i+1))
	}
	return i
}
