// Package command wraps every tree mutation in a reversible record so the
// engine can undo and redo it
package command

import (
	"fmt"
	"time"

	"github.com/existflow/paperclip/internal/model"
	"github.com/existflow/paperclip/internal/tree"
)

// Command is one reversible tree mutation. Apply is called for the first
// run and for every redo; Revert undoes the latest Apply. A failed Apply or
// Revert leaves the tree unchanged. Implementations live in this package only.
type Command interface {
	Apply(t *tree.Tree) error
	Revert(t *tree.Tree) error
	Describe() string
	sealed()
}

// Add creates a todo. Redo reinserts the same todo, ID and timestamps
// included, instead of minting a new one.
type Add struct {
	Parent string
	Index  int // negative appends
	Input  tree.Input

	id      string
	removed *tree.Removed
}

// ID returns the created todo's ID once applied
func (c *Add) ID() string { return c.id }

func (c *Add) Apply(t *tree.Tree) error {
	if c.removed != nil {
		if err := t.Restore(*c.removed); err != nil {
			return err
		}
		c.removed = nil
		return nil
	}
	id, err := t.Insert(c.Parent, c.Index, c.Input)
	if err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Add) Revert(t *tree.Tree) error {
	removed, err := t.Delete(c.id)
	if err != nil {
		return err
	}
	c.removed = &removed
	return nil
}

func (c *Add) Describe() string { return fmt.Sprintf("add %q", c.Input.Description) }

// Delete removes a todo and its descendants, keeping the full subtree for undo
type Delete struct {
	ID string

	removed tree.Removed
}

// Removed returns the subtree detached by the latest Apply
func (c *Delete) Removed() tree.Removed { return c.removed }

func (c *Delete) Apply(t *tree.Tree) error {
	removed, err := t.Delete(c.ID)
	if err != nil {
		return err
	}
	c.removed = removed
	return nil
}

func (c *Delete) Revert(t *tree.Tree) error {
	return t.Restore(c.removed)
}

func (c *Delete) Describe() string {
	if len(c.removed.Todos) > 0 {
		return fmt.Sprintf("delete %q", c.removed.Todos[0].Description)
	}
	return "delete " + c.ID
}

// Complete toggles completion of one todo. Completing a recurring todo that
// has a due date also inserts its next occurrence right after it.
type Complete struct {
	ID string
	At time.Time

	prevDone bool
	prevAt   *time.Time
	spawned  string
	spawnDel *tree.Removed
	desc     string
}

// Spawned returns the ID of the generated next occurrence, if any
func (c *Complete) Spawned() string { return c.spawned }

func (c *Complete) Apply(t *tree.Tree) error {
	td, ok := t.Get(c.ID)
	if !ok {
		return fmt.Errorf("%w: %s", tree.ErrNotFound, c.ID)
	}
	c.prevDone, c.prevAt, c.desc = td.Done, td.CompletedAt, td.Description

	if c.spawnDel != nil {
		if err := t.Restore(*c.spawnDel); err != nil {
			return err
		}
		c.spawnDel = nil
	} else if !td.Done && td.IsRecurring() && td.DueDate != nil {
		if err := c.spawn(t, td); err != nil {
			return err
		}
	}
	return t.ToggleComplete(c.ID, c.At)
}

func (c *Complete) spawn(t *tree.Tree, td model.Todo) error {
	next, ok := td.Recurrence.Next(*td.DueDate)
	if !ok {
		return nil
	}
	parent, idx, err := t.Position(td.ID)
	if err != nil {
		return err
	}
	id, err := t.Insert(parent, idx+1, tree.Input{
		Description: td.Description,
		Raw:         td.Raw,
		Priority:    td.Priority,
		Tags:        td.Tags,
		Contexts:    td.Contexts,
		DueDate:     &next,
		Recurrence:  td.Recurrence,
		Note:        td.Note,
		TemplateID:  td.TemplateID,
		CreatedAt:   c.At,
	})
	if err != nil {
		return err
	}
	c.spawned = id
	return nil
}

func (c *Complete) Revert(t *tree.Tree) error {
	if !t.Has(c.ID) {
		return fmt.Errorf("%w: %s", tree.ErrNotFound, c.ID)
	}
	if c.spawned != "" && t.Has(c.spawned) {
		removed, err := t.Delete(c.spawned)
		if err != nil {
			return err
		}
		c.spawnDel = &removed
	}
	return t.SetCompletion(c.ID, c.prevDone, c.prevAt)
}

func (c *Complete) Describe() string {
	if c.prevDone {
		return fmt.Sprintf("reopen %q", c.desc)
	}
	return fmt.Sprintf("complete %q", c.desc)
}

// Change is one field assignment inside an Edit
type Change struct {
	Field tree.Field
	Value any
}

// Edit assigns one or more fields atomically, remembering the prior values
type Edit struct {
	ID      string
	Changes []Change
	Label   string // optional description override

	prior []any
}

func (c *Edit) Apply(t *tree.Tree) error {
	if !t.Has(c.ID) {
		return fmt.Errorf("%w: %s", tree.ErrNotFound, c.ID)
	}
	prior := make([]any, len(c.Changes))
	for i, ch := range c.Changes {
		v, err := t.Field(c.ID, ch.Field)
		if err != nil {
			return err
		}
		prior[i] = v
	}
	for i, ch := range c.Changes {
		if err := t.SetField(c.ID, ch.Field, ch.Value); err != nil {
			rollback(t, c.ID, c.Changes[:i], prior)
			return err
		}
	}
	c.prior = prior
	return nil
}

func (c *Edit) Revert(t *tree.Tree) error {
	if !t.Has(c.ID) {
		return fmt.Errorf("%w: %s", tree.ErrNotFound, c.ID)
	}
	rollback(t, c.ID, c.Changes, c.prior)
	return nil
}

// rollback restores prior values in reverse order. Prior values came from
// Field so SetField accepts them.
func rollback(t *tree.Tree, id string, changes []Change, prior []any) {
	for i := len(changes) - 1; i >= 0; i-- {
		_ = t.SetField(id, changes[i].Field, prior[i])
	}
}

func (c *Edit) Describe() string {
	if c.Label != "" {
		return c.Label
	}
	if len(c.Changes) == 1 {
		return "edit " + c.Changes[0].Field.String()
	}
	return "edit todo"
}

// Move reparents a todo, remembering where it came from
type Move struct {
	ID     string
	Parent string
	Index  int // negative appends

	prevParent string
	prevIndex  int
}

func (c *Move) Apply(t *tree.Tree) error {
	parent, idx, err := t.Position(c.ID)
	if err != nil {
		return err
	}
	if err := t.MoveTo(c.ID, c.Parent, c.Index); err != nil {
		return err
	}
	c.prevParent, c.prevIndex = parent, idx
	return nil
}

func (c *Move) Revert(t *tree.Tree) error {
	return t.MoveTo(c.ID, c.prevParent, c.prevIndex)
}

func (c *Move) Describe() string { return "move " + c.ID }

// SetPriority changes a todo's priority
type SetPriority struct {
	ID       string
	Priority int

	edit Edit
}

func (c *SetPriority) Apply(t *tree.Tree) error {
	c.edit = Edit{ID: c.ID, Changes: []Change{{Field: tree.FieldPriority, Value: c.Priority}}}
	return c.edit.Apply(t)
}

func (c *SetPriority) Revert(t *tree.Tree) error { return c.edit.Revert(t) }

func (c *SetPriority) Describe() string {
	return fmt.Sprintf("set priority %d", model.ClampPriority(c.Priority))
}

// LabelKind selects tags or contexts
type LabelKind int

const (
	Tags LabelKind = iota
	Contexts
)

// SetLabels replaces a todo's tag or context set
type SetLabels struct {
	ID     string
	Kind   LabelKind
	Labels []string

	edit Edit
}

func (c *SetLabels) Apply(t *tree.Tree) error {
	f := tree.FieldTags
	if c.Kind == Contexts {
		f = tree.FieldContexts
	}
	c.edit = Edit{ID: c.ID, Changes: []Change{{Field: f, Value: c.Labels}}}
	return c.edit.Apply(t)
}

func (c *SetLabels) Revert(t *tree.Tree) error { return c.edit.Revert(t) }

func (c *SetLabels) Describe() string {
	if c.Kind == Contexts {
		return "set contexts"
	}
	return "set tags"
}

// SetNote replaces a todo's note; an empty note removes it
type SetNote struct {
	ID   string
	Note string

	edit Edit
}

func (c *SetNote) Apply(t *tree.Tree) error {
	c.edit = Edit{ID: c.ID, Changes: []Change{{Field: tree.FieldNote, Value: c.Note}}}
	return c.edit.Apply(t)
}

func (c *SetNote) Revert(t *tree.Tree) error { return c.edit.Revert(t) }

func (c *SetNote) Describe() string { return "edit note" }

// SetRecurrence replaces a todo's recurrence rule; nil clears it
type SetRecurrence struct {
	ID         string
	Recurrence *model.Recurrence

	edit Edit
}

func (c *SetRecurrence) Apply(t *tree.Tree) error {
	c.edit = Edit{ID: c.ID, Changes: []Change{{Field: tree.FieldRecurrence, Value: c.Recurrence}}}
	return c.edit.Apply(t)
}

func (c *SetRecurrence) Revert(t *tree.Tree) error { return c.edit.Revert(t) }

func (c *SetRecurrence) Describe() string {
	if c.Recurrence == nil {
		return "clear recurrence"
	}
	return "repeat " + c.Recurrence.String()
}

func (*Add) sealed()           {}
func (*Delete) sealed()        {}
func (*Complete) sealed()      {}
func (*Edit) sealed()          {}
func (*Move) sealed()          {}
func (*SetPriority) sealed()   {}
func (*SetLabels) sealed()     {}
func (*SetNote) sealed()       {}
func (*SetRecurrence) sealed() {}
