package command

import "errors"

// DefaultCapacity is the number of undoable commands kept per workspace
const DefaultCapacity = 50

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// History is a bounded list of applied commands with a cursor. Entries
// before the cursor can be undone; entries at or after it can be redone.
type History struct {
	entries  []Command
	cursor   int
	capacity int
}

// NewHistory creates a history; non-positive capacity uses DefaultCapacity
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{capacity: capacity}
}

// Record appends c after the cursor, dropping any redoable entries, and
// evicts the oldest entry once capacity is exceeded
func (h *History) Record(c Command) {
	h.entries = append(h.entries[:h.cursor], c)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[len(h.entries)-h.capacity:]
	}
	h.cursor = len(h.entries)
}

// CanUndo reports whether an entry precedes the cursor
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether an entry follows the cursor
func (h *History) CanRedo() bool { return h.cursor < len(h.entries) }

// Len returns the number of stored entries
func (h *History) Len() int { return len(h.entries) }

// Clear drops every entry
func (h *History) Clear() {
	h.entries = nil
	h.cursor = 0
}

// PeekUndo returns the command Undo would revert
func (h *History) PeekUndo() (Command, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	return h.entries[h.cursor-1], true
}

// PeekRedo returns the command Redo would re-apply
func (h *History) PeekRedo() (Command, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	return h.entries[h.cursor], true
}
