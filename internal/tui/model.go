package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/existflow/paperclip/internal/clock"
	"github.com/existflow/paperclip/internal/logger"
	"github.com/existflow/paperclip/internal/storage"
	"github.com/existflow/paperclip/internal/tree"
	"github.com/existflow/paperclip/internal/watch"
	"github.com/existflow/paperclip/internal/workspace"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAdd
	ModeAddChild
	ModeEdit
	ModeEditNote
	ModeViewNote
	ModeSearch
	ModeConfirmDelete
	ModeWorkspaces
	ModeNewWorkspace
	ModeRenameWorkspace
	ModeHelp
)

// Model is the main TUI model
type Model struct {
	store         *workspace.Store
	backend       storage.Storage
	clock         clock.Clock
	watcher       *watch.Watcher
	confirmDelete bool

	// Visible rows of the active workspace
	rows   []tree.Row
	cursor int
	offset int

	// UI state
	width  int
	height int
	mode   Mode

	// Input
	input textinput.Model
	note  textarea.Model

	// Search across workspaces
	searchText  string
	matches     []workspace.Match
	matchCursor int

	wsCursor int

	dirty   bool
	message string
}

// Option configures a Model
type Option func(*Model)

// WithClock sets the clock used for due dates, completion and timers
func WithClock(c clock.Clock) Option {
	return func(m *Model) { m.clock = c }
}

// WithConfirmDelete asks before deleting todos
func WithConfirmDelete(on bool) Option {
	return func(m *Model) { m.confirmDelete = on }
}

// WithWatcher reloads data when another process changes the data file
func WithWatcher(w *watch.Watcher) Option {
	return func(m *Model) { m.watcher = w }
}

// NewModel creates a new TUI model over a loaded store
func NewModel(store *workspace.Store, backend storage.Storage, opts ...Option) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.Placeholder = "Enter todo..."
	ti.CharLimit = 256
	ti.Width = 50

	ta := textarea.New()
	ta.Placeholder = "Markdown note..."
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(10)

	m := Model{
		store:   store,
		backend: backend,
		clock:   clock.System{},
		input:   ti,
		note:    ta,
	}
	for _, opt := range opts {
		opt(&m)
	}

	store.EnsureDefault()
	m.refresh()
	logger.Debug("TUI model initialized",
		logger.F("workspaces", store.Len()),
		logger.F("rows", len(m.rows)))
	return m
}

// Dirty reports unsaved changes
func (m Model) Dirty() bool {
	return m.dirty
}

func (m *Model) active() *workspace.Workspace {
	return m.store.Active()
}

func (m *Model) tree() *tree.Tree {
	return m.store.Active().Tree()
}

// refresh rebuilds the visible rows and keeps the cursor in range
func (m *Model) refresh() {
	var rows []tree.Row
	for row := range m.tree().Flatten("") {
		rows = append(rows, row)
	}
	m.rows = rows
	m.cursor = max(min(m.cursor, len(m.rows)-1), 0)
	m.scroll()
}

// selectID moves the cursor to id when it is visible
func (m *Model) selectID(id string) {
	for i, row := range m.rows {
		if row.ID == id {
			m.cursor = i
			m.scroll()
			return
		}
	}
}

// currentID returns the todo under the cursor or ""
func (m *Model) currentID() string {
	if m.cursor < len(m.rows) {
		return m.rows[m.cursor].ID
	}
	return ""
}

func (m *Model) listHeight() int {
	return max(m.height-5, 1)
}

// scroll keeps the cursor inside the visible window
func (m *Model) scroll() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(min(m.offset, len(m.rows)-h), 0)
}
