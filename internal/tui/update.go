package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/paperclip/internal/command"
	"github.com/existflow/paperclip/internal/dateparse"
	"github.com/existflow/paperclip/internal/logger"
	"github.com/existflow/paperclip/internal/model"
	"github.com/existflow/paperclip/internal/tree"
	"github.com/existflow/paperclip/internal/workspace"
)

// tickMsg is sent every second so running timers stay current
type tickMsg time.Time

// fileChangedMsg is sent when another process rewrote the data file
type fileChangedMsg struct{}

// Init initializes the model with a tick command
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.waitForFileChange())
}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForFileChange listens for watcher notifications
func (m Model) waitForFileChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	changes := m.watcher.Changes()
	return func() tea.Msg {
		<-changes
		return fileChangedMsg{}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		// Continue ticking for timer updates
		return m, tickCmd()

	case fileChangedMsg:
		m.reloadFromDisk()
		return m, m.waitForFileChange()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(min(m.width-20, 70), 20)
		m.note.SetWidth(max(min(m.width-16, 80), 20))
		m.note.SetHeight(max(min(m.height-12, 16), 4))
		m.scroll()
		return m, nil

	case tea.KeyMsg:
		// Handle mode-specific input
		switch m.mode {
		case ModeAdd, ModeAddChild, ModeEdit, ModeNewWorkspace, ModeRenameWorkspace:
			return m.updateInput(msg)
		case ModeSearch:
			return m.updateSearch(msg)
		case ModeEditNote:
			return m.updateNote(msg)
		case ModeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case ModeWorkspaces:
			return m.updateWorkspaces(msg)
		case ModeViewNote, ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}

		// Normal mode key handling
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""

	switch {
	case key.Matches(msg, keys.Quit):
		if m.dirty {
			if err := m.save(); err != nil {
				m.message = fmt.Sprintf("Save failed: %v (Q quits without saving)", err)
				return m, nil
			}
		}
		return m, tea.Quit

	case key.Matches(msg, keys.ForceQuit):
		logger.Warn("Quit without saving", logger.F("dirty", m.dirty))
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.scroll()
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.scroll()
		}

	case key.Matches(msg, keys.Top):
		m.cursor = 0
		m.scroll()

	case key.Matches(msg, keys.Bottom):
		m.cursor = max(len(m.rows)-1, 0)
		m.scroll()

	case key.Matches(msg, keys.Parent):
		m.handleGoParent()

	case key.Matches(msg, keys.Expand):
		m.handleExpand()

	case key.Matches(msg, keys.Toggle):
		m.handleToggleExpanded()

	case key.Matches(msg, keys.Add):
		return m.startInput(ModeAdd, "", "Buy milk #home @errands due:tomorrow !3")

	case key.Matches(msg, keys.AddChild):
		if m.currentID() == "" {
			m.message = "Nothing selected"
			return m, nil
		}
		return m.startInput(ModeAddChild, "", "Child todo...")

	case key.Matches(msg, keys.Edit):
		return m.startEdit()

	case key.Matches(msg, keys.Done):
		m.handleToggleDone()

	case key.Matches(msg, keys.Delete):
		if td, ok := m.current(); ok {
			if m.confirmDelete {
				m.mode = ModeConfirmDelete
				return m, nil
			}
			m.handleDelete(td.ID)
		}

	case key.Matches(msg, keys.PrioUp):
		m.handlePriorityStep(1)

	case key.Matches(msg, keys.PrioDown):
		m.handlePriorityStep(-1)

	case key.Matches(msg, keys.Priority):
		m.handlePriority(int(msg.String()[0] - '0'))

	case key.Matches(msg, keys.Timer):
		m.handleTimer()

	case key.Matches(msg, keys.Recur):
		m.handleCycleRecurrence()

	case key.Matches(msg, keys.Note):
		return m.startNote()

	case key.Matches(msg, keys.ViewNote):
		if td, ok := m.current(); ok {
			if !td.HasNote() {
				m.message = "No note - press n to write one"
				return m, nil
			}
			m.mode = ModeViewNote
		}

	case key.Matches(msg, keys.Indent):
		m.handleMove(command.Indent)

	case key.Matches(msg, keys.Outdent):
		m.handleMove(command.Outdent)

	case key.Matches(msg, keys.Undo):
		m.handleUndo()

	case key.Matches(msg, keys.Redo):
		m.handleRedo()

	case key.Matches(msg, keys.Search):
		m.mode = ModeSearch
		m.input.SetValue(m.searchText)
		m.input.Placeholder = "search all workspaces"
		m.input.CursorEnd()
		focus := m.input.Focus()
		return m, tea.Batch(focus, textinput.Blink)

	case key.Matches(msg, keys.NextMatch):
		m.stepMatch(1)

	case key.Matches(msg, keys.PrevMatch):
		m.stepMatch(-1)

	case key.Matches(msg, keys.NextWS):
		w := m.store.Next()
		m.cursor, m.offset = 0, 0
		m.refresh()
		m.message = "Workspace: " + w.Name

	case key.Matches(msg, keys.Workspace):
		m.mode = ModeWorkspaces
		m.wsCursor = slices.IndexFunc(m.store.List(), func(w *workspace.Workspace) bool { return w.ID == m.active().ID })

	case key.Matches(msg, keys.Save):
		if err := m.save(); err != nil {
			m.message = fmt.Sprintf("Save failed: %v", err)
		}

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, keys.Escape):
		m.searchText = ""
		m.matches = nil
	}

	return m, nil
}

// execute runs c through the active workspace's engine
func (m *Model) execute(c command.Command) bool {
	if err := m.active().Engine().Execute(c); err != nil {
		m.message = "Error: " + err.Error()
		logger.Debug("Command failed", logger.F("command", c.Describe()), logger.F("error", err))
		return false
	}
	m.dirty = true
	m.refresh()
	return true
}

func (m *Model) current() (model.Todo, bool) {
	id := m.currentID()
	if id == "" {
		return model.Todo{}, false
	}
	return m.tree().Get(id)
}

func (m *Model) now() time.Time {
	return m.clock.Now()
}

func (m *Model) handleGoParent() {
	td, ok := m.current()
	if ok && !td.IsRoot() {
		m.selectID(td.ParentID)
	}
}

func (m *Model) handleExpand() {
	td, ok := m.current()
	if !ok || len(td.Children) == 0 {
		return
	}
	if td.Expanded {
		m.selectID(td.Children[0])
		return
	}
	m.handleToggleExpanded()
}

func (m *Model) handleToggleExpanded() {
	td, ok := m.current()
	if !ok {
		return
	}
	if len(td.Children) == 0 {
		m.message = "No children to expand"
		return
	}
	edit, err := command.ToggleExpanded(m.tree(), td.ID)
	if err == nil && m.execute(edit) {
		m.selectID(td.ID)
	}
}

func (m *Model) handleToggleDone() {
	td, ok := m.current()
	if !ok {
		return
	}
	c := &command.Complete{ID: td.ID, At: m.now()}
	if !m.execute(c) {
		return
	}
	m.selectID(td.ID)
	switch {
	case td.Done:
		m.message = fmt.Sprintf("Reopened %q", td.Description)
	case c.Spawned() != "":
		next, _ := m.tree().Get(c.Spawned())
		m.message = fmt.Sprintf("Completed %q - next due %s", td.Description, dateparse.Describe(*next.DueDate, m.now()))
	default:
		m.message = fmt.Sprintf("Completed %q", td.Description)
	}
}

func (m *Model) handleDelete(id string) {
	td, _ := m.tree().Get(id)
	del := &command.Delete{ID: id}
	if m.execute(del) {
		m.message = fmt.Sprintf("Deleted %q (u to undo)", td.Description)
	}
}

func (m *Model) handlePriorityStep(delta int) {
	if td, ok := m.current(); ok {
		m.handlePriority(model.ClampPriority(td.Priority + delta))
	}
}

func (m *Model) handlePriority(p int) {
	td, ok := m.current()
	if !ok || td.Priority == p {
		return
	}
	if m.execute(&command.SetPriority{ID: td.ID, Priority: p}) {
		m.message = fmt.Sprintf("Priority set to %d", p)
	}
}

func (m *Model) handleTimer() {
	td, ok := m.current()
	if !ok {
		return
	}
	edit, err := command.ToggleTimer(m.tree(), td.ID, m.now())
	if err != nil {
		m.message = "Error: " + err.Error()
		return
	}
	if m.execute(edit) {
		if td.Timer.Running() {
			elapsed, _ := m.tree().Elapsed(td.ID, m.now())
			m.message = fmt.Sprintf("Timer stopped - %s tracked", model.FormatDuration(elapsed))
		} else {
			m.message = "Timer started"
		}
	}
}

// handleCycleRecurrence steps none, daily, weekly, monthly, yearly, none
func (m *Model) handleCycleRecurrence() {
	td, ok := m.current()
	if !ok {
		return
	}
	cycle := slices.DeleteFunc(model.RecurrenceKinds(), func(k model.RecurrenceKind) bool { return k == model.RecurCustom })
	kind := model.RecurNone
	if td.Recurrence != nil {
		kind = td.Recurrence.Kind
	}
	next := model.RecurNone
	if i := slices.Index(cycle, kind); i >= 0 {
		next = cycle[(i+1)%len(cycle)]
	}

	rule := model.Recurrence{Kind: next}
	changes := []command.Change{{Field: tree.FieldRecurrence, Value: rule}}
	if next != model.RecurNone && td.DueDate == nil {
		changes = append(changes, command.Change{Field: tree.FieldDueDate, Value: dateparse.EndOfDay(m.now())})
	}
	if m.execute(&command.Edit{ID: td.ID, Changes: changes, Label: "repeat " + rule.String()}) {
		m.message = "Repeat: " + rule.String()
	}
}

func (m *Model) handleMove(build func(*tree.Tree, string) (*command.Move, error)) {
	td, ok := m.current()
	if !ok {
		return
	}
	mv, err := build(m.tree(), td.ID)
	if err != nil {
		m.message = "Error: " + err.Error()
		return
	}
	if m.execute(mv) {
		m.selectID(td.ID)
		if m.currentID() != td.ID && mv.Parent != "" {
			m.selectID(mv.Parent)
		}
	}
}

func (m *Model) handleUndo() {
	c, err := m.active().Engine().Undo()
	if errors.Is(err, command.ErrNothingToUndo) {
		m.message = "Nothing to undo"
		return
	}
	if err != nil {
		m.message = "Undo failed: " + err.Error()
		return
	}
	m.dirty = true
	m.refresh()
	m.message = "Undid " + c.Describe()
}

func (m *Model) handleRedo() {
	c, err := m.active().Engine().Redo()
	if errors.Is(err, command.ErrNothingToRedo) {
		m.message = "Nothing to redo"
		return
	}
	if err != nil {
		m.message = "Redo failed: " + err.Error()
		return
	}
	m.dirty = true
	m.refresh()
	m.message = "Redid " + c.Describe()
}

func (m Model) startInput(mode Mode, value, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
	focus := m.input.Focus()
	return m, tea.Batch(focus, textinput.Blink)
}

func (m Model) startEdit() (tea.Model, tea.Cmd) {
	td, ok := m.current()
	if !ok {
		return m, nil
	}
	value := td.Raw
	if value == "" {
		value = td.Description
	}
	return m.startInput(ModeEdit, value, "Edit todo...")
}

func (m Model) startNote() (tea.Model, tea.Cmd) {
	td, ok := m.current()
	if !ok {
		return m, nil
	}
	m.mode = ModeEditNote
	m.note.SetValue(td.Note)
	focus := m.note.Focus()
	return m, tea.Batch(focus, textarea.Blink)
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = m.inputReturnMode()
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.Enter):
		if m.submitInput() {
			m.mode = m.inputReturnMode()
			m.input.Blur()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// inputReturnMode is where an input prompt goes back to when it closes
func (m *Model) inputReturnMode() Mode {
	if m.mode == ModeNewWorkspace || m.mode == ModeRenameWorkspace {
		return ModeWorkspaces
	}
	return ModeNormal
}

// submitInput applies the prompt's value; false keeps the prompt open
func (m *Model) submitInput() bool {
	value := m.input.Value()
	switch m.mode {
	case ModeAdd, ModeAddChild:
		return m.submitAdd(value)
	case ModeEdit:
		return m.submitEdit(value)
	case ModeNewWorkspace:
		w, err := m.store.Create(value, "")
		if err != nil {
			m.message = "Error: " + err.Error()
			return false
		}
		m.dirty = true
		m.wsCursor = m.store.Len() - 1
		m.message = fmt.Sprintf("Created workspace %q", w.Name)
	case ModeRenameWorkspace:
		old := m.store.List()[m.wsCursor].Name
		if err := m.store.Rename(old, value); err != nil {
			m.message = "Error: " + err.Error()
			return false
		}
		m.dirty = true
		m.message = fmt.Sprintf("Renamed %q to %q", old, value)
	}
	return true
}

func (m *Model) submitAdd(value string) bool {
	in, err := tree.ParseInput(value, m.now())
	if err != nil {
		m.message = "Error: " + err.Error()
		return false
	}
	in.CreatedAt = m.now()

	parent, index := "", -1
	if cur, ok := m.current(); ok {
		if m.mode == ModeAddChild {
			parent = cur.ID
			if !cur.Expanded {
				if edit, err := command.ToggleExpanded(m.tree(), cur.ID); err == nil {
					m.execute(edit)
				}
			}
		} else {
			p, idx, err := m.tree().Position(cur.ID)
			if err == nil {
				parent, index = p, idx+1
			}
		}
	}

	add := &command.Add{Parent: parent, Index: index, Input: in}
	if !m.execute(add) {
		return false
	}
	m.selectID(add.ID())
	m.message = fmt.Sprintf("Added %q", in.Description)
	return true
}

func (m *Model) submitEdit(value string) bool {
	td, ok := m.current()
	if !ok {
		return true
	}
	in, err := tree.ParseInput(value, m.now())
	if err != nil {
		m.message = "Error: " + err.Error()
		return false
	}
	if !m.execute(command.Reparse(td.ID, in)) {
		return false
	}
	m.message = fmt.Sprintf("Updated %q", in.Description)
	return true
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.input.Blur()
		m.searchText = ""
		m.matches = nil
		return m, nil

	case key.Matches(msg, keys.Enter):
		m.mode = ModeNormal
		m.input.Blur()
		if len(m.matches) == 0 {
			if m.searchText != "" {
				m.message = fmt.Sprintf("No matches for %q", m.searchText)
			}
			return m, nil
		}
		m.matchCursor = 0
		m.jumpToMatch()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.searchText = m.input.Value()
	m.matches = m.store.Search(m.searchText)
	m.matchCursor = 0
	return m, cmd
}

func (m *Model) stepMatch(delta int) {
	if len(m.matches) == 0 {
		m.message = "No search results - press / to search"
		return
	}
	m.matchCursor = (m.matchCursor + delta + len(m.matches)) % len(m.matches)
	m.jumpToMatch()
}

// jumpToMatch activates the match's workspace and expands its ancestors
func (m *Model) jumpToMatch() {
	match := m.matches[m.matchCursor]
	if err := m.store.SetActive(match.Workspace); err != nil {
		m.message = "Error: " + err.Error()
		return
	}
	t := m.tree()
	if !t.Has(match.TodoID) {
		m.message = "Match no longer exists"
		m.refresh()
		return
	}

	ancestors, _ := t.Ancestors(match.TodoID)
	for _, id := range ancestors {
		if td, _ := t.Get(id); !td.Expanded {
			if edit, err := command.ToggleExpanded(t, id); err == nil {
				m.execute(edit)
			}
		}
	}
	m.refresh()
	m.selectID(match.TodoID)
	m.message = fmt.Sprintf("[%d/%d] in %s", m.matchCursor+1, len(m.matches), match.Workspace)
}

func (m Model) updateNote(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.note.Blur()
		m.message = "Note unchanged"
		return m, nil

	case msg.String() == "ctrl+s":
		m.mode = ModeNormal
		m.note.Blur()
		if td, ok := m.current(); ok && td.Note != m.note.Value() {
			if m.execute(&command.SetNote{ID: td.ID, Note: m.note.Value()}) {
				m.message = "Note saved"
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.note, cmd = m.note.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	if msg.String() == "y" || msg.String() == "Y" {
		if id := m.currentID(); id != "" {
			m.handleDelete(id)
		}
		return m, nil
	}
	m.message = "Cancelled"
	return m, nil
}

func (m Model) updateWorkspaces(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := m.store.List()
	m.wsCursor = max(min(m.wsCursor, len(list)-1), 0)

	switch {
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Workspace), msg.String() == "q":
		m.mode = ModeNormal

	case key.Matches(msg, keys.Up):
		m.wsCursor = max(m.wsCursor-1, 0)

	case key.Matches(msg, keys.Down):
		m.wsCursor = min(m.wsCursor+1, len(list)-1)

	case key.Matches(msg, keys.Enter):
		if err := m.store.SetActive(list[m.wsCursor].Name); err != nil {
			m.message = "Error: " + err.Error()
			return m, nil
		}
		m.mode = ModeNormal
		m.cursor, m.offset = 0, 0
		m.refresh()
		m.message = "Workspace: " + list[m.wsCursor].Name

	case msg.String() == "n":
		return m.startInput(ModeNewWorkspace, "", "Workspace name...")

	case msg.String() == "r":
		return m.startInput(ModeRenameWorkspace, list[m.wsCursor].Name, "New name...")

	case msg.String() == "d":
		name := list[m.wsCursor].Name
		if err := m.store.Delete(name); err != nil {
			m.message = "Error: " + err.Error()
			return m, nil
		}
		m.dirty = true
		m.wsCursor = max(m.wsCursor-1, 0)
		m.cursor, m.offset = 0, 0
		m.refresh()
		m.message = fmt.Sprintf("Deleted workspace %q", name)
	}
	return m, nil
}

// save writes every workspace through the storage backend
func (m *Model) save() error {
	if m.watcher != nil {
		m.watcher.Mute(time.Now().Add(time.Second))
	}
	if err := m.backend.Save(context.Background(), m.store.Snapshot()); err != nil {
		logger.Error("Failed to save", logger.F("error", err))
		return err
	}
	m.dirty = false
	m.message = "Saved"
	logger.Info("Saved workspaces", logger.F("workspaces", m.store.Len()))
	return nil
}

// reloadFromDisk picks up changes made by another process. Unsaved local
// edits win; they overwrite the file on the next save.
func (m *Model) reloadFromDisk() {
	if m.dirty {
		m.message = "Data file changed on disk - saving will overwrite it"
		return
	}
	snap, err := m.backend.Load(context.Background())
	if err != nil {
		m.message = "Reload failed: " + err.Error()
		return
	}
	name := m.active().Name
	if err := m.store.Restore(snap); err != nil {
		m.message = "Reload failed: " + err.Error()
		return
	}
	m.store.EnsureDefault()
	_ = m.store.SetActive(name)
	m.matches = nil
	m.refresh()
	m.message = "Reloaded changes from disk"
	logger.Info("Reloaded data after external change")
}
