package command

import (
	"github.com/existflow/paperclip/internal/tree"
)

// Engine is the single writer for one tree. Every mutation goes through
// Execute, Undo or Redo and runs to completion before the next starts.
type Engine struct {
	tree    *tree.Tree
	history *History
}

// NewEngine binds a tree to a fresh history
func NewEngine(t *tree.Tree, capacity int) *Engine {
	return &Engine{tree: t, history: NewHistory(capacity)}
}

// Tree returns the tree for read-only queries
func (e *Engine) Tree() *tree.Tree { return e.tree }

// History exposes the undo stack for display
func (e *Engine) History() *History { return e.history }

// Execute applies c and records it. A failing command is not recorded.
func (e *Engine) Execute(c Command) error {
	if err := c.Apply(e.tree); err != nil {
		return err
	}
	e.history.Record(c)
	return nil
}

// Undo reverts the command before the cursor and returns it
func (e *Engine) Undo() (Command, error) {
	c, ok := e.history.PeekUndo()
	if !ok {
		return nil, ErrNothingToUndo
	}
	if err := c.Revert(e.tree); err != nil {
		return nil, err
	}
	e.history.cursor--
	return c, nil
}

// Redo re-applies the command at the cursor and returns it
func (e *Engine) Redo() (Command, error) {
	c, ok := e.history.PeekRedo()
	if !ok {
		return nil, ErrNothingToRedo
	}
	if err := c.Apply(e.tree); err != nil {
		return nil, err
	}
	e.history.cursor++
	return c, nil
}

