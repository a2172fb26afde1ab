package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/paperclip/internal/dateparse"
	"github.com/existflow/paperclip/internal/markdown"
	"github.com/existflow/paperclip/internal/model"
	"github.com/existflow/paperclip/internal/tree"
)

const sidebarWidth = 24

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	statusBar := m.renderStatusBar()

	var mainContent string
	switch m.mode {
	case ModeHelp:
		mainContent = m.renderHelp()
	case ModeAdd, ModeAddChild, ModeEdit, ModeNewWorkspace, ModeRenameWorkspace:
		mainContent = m.place(m.renderInputModal())
	case ModeEditNote:
		mainContent = m.place(m.renderNoteEditor())
	case ModeViewNote:
		mainContent = m.place(m.renderNoteView())
	case ModeConfirmDelete:
		mainContent = m.place(m.renderConfirmDelete())
	case ModeWorkspaces:
		mainContent = m.place(m.renderWorkspaceModal())
	default:
		list := m.renderList()
		if m.width >= 70 {
			mainContent = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), list)
		} else {
			mainContent = list
		}
	}

	// Combine with status bar
	return lipgloss.JoinVertical(lipgloss.Left, mainContent, statusBar)
}

func (m Model) place(modal string) string {
	return lipgloss.Place(
		m.width, m.height-2,
		lipgloss.Center, lipgloss.Center,
		modal,
		lipgloss.WithWhitespaceChars(" "),
	)
}

func (m Model) renderSidebar() string {
	var s strings.Builder
	rule := lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", sidebarWidth-3))

	// Header with time
	s.WriteString(HeaderStyle.Render("Paperclip") + "\n")
	s.WriteString(HelpStyle.Render(m.now().Format("Mon Jan 2 15:04")) + "\n")
	s.WriteString(rule + "\n")

	active := m.active().ID
	for _, w := range m.store.List() {
		cursor := "  "
		style := WorkspaceItemStyle
		if w.ID == active {
			cursor = "❯ "
			style = WorkspaceItemSelectedStyle
		}
		t := w.Tree()
		counts := fmt.Sprintf("%d/%d", len(t.Pending()), t.Len())
		name := truncateText(w.Name, sidebarWidth-len(counts)-6)
		line := fmt.Sprintf("%s%-*s %s", cursor, sidebarWidth-len(counts)-6, name, counts)
		s.WriteString(style.Render(line) + "\n")
	}

	t := m.tree()
	now := m.now()
	s.WriteString(rule + "\n")
	if n := t.OverdueCount(now); n > 0 {
		s.WriteString(OverdueStyle.Render(fmt.Sprintf("%d overdue", n)) + "\n")
	}
	if n := t.DueTodayCount(now); n > 0 {
		s.WriteString(DueStyle.Render(fmt.Sprintf("%d due today", n)) + "\n")
	}
	if n := len(t.ActiveTimers()); n > 0 {
		s.WriteString(TimerStyle.Render(fmt.Sprintf("%d timer running", n)) + "\n")
	}

	writeCounts := func(title, prefix string, counts []tree.LabelCount) {
		if len(counts) == 0 {
			return
		}
		s.WriteString("\n" + HelpStyle.Render(title) + "\n")
		for _, c := range counts[:min(len(counts), 5)] {
			s.WriteString(LabelStyle.Render(fmt.Sprintf("%s%s", prefix, truncateText(c.Label, sidebarWidth-10))) +
				HelpStyle.Render(fmt.Sprintf(" %d", c.Count)) + "\n")
		}
	}
	writeCounts("Tags", "#", t.TagCounts())
	writeCounts("Contexts", "@", t.ContextCounts())

	return SidebarStyle.Width(sidebarWidth).Height(m.height - 2).Render(s.String())
}

func (m Model) renderList() string {
	width := m.width
	if m.width >= 70 {
		width -= sidebarWidth + 1
	}
	var s strings.Builder

	w := m.active()
	pending := len(w.Tree().Pending())
	header := fmt.Sprintf("%s (%d pending)", w.Name, pending)
	s.WriteString(HeaderStyle.Render(header) + "\n")
	s.WriteString(lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", max(width-4, 1))) + "\n")

	if len(m.rows) == 0 {
		s.WriteString(HelpStyle.Render("  No todos. Press 'a' to add one."))
	}

	matched := make(map[string]bool)
	for _, match := range m.matches {
		if match.Workspace == w.Name {
			matched[match.TodoID] = true
		}
	}

	end := min(m.offset+m.listHeight(), len(m.rows))
	for i := m.offset; i < end; i++ {
		s.WriteString(m.renderRow(m.rows[i], i == m.cursor, matched[m.rows[i].ID], width-2) + "\n")
	}

	return ListStyle.Width(width).Height(m.height - 2).Render(s.String())
}

func (m Model) renderRow(row tree.Row, selected, matched bool, width int) string {
	td, _ := m.tree().Get(row.ID)
	now := m.now()

	cursor := "  "
	style := TodoItemStyle
	if selected {
		cursor = "❯ "
		style = TodoItemSelectedStyle
	} else if matched {
		style = MatchStyle
	}

	icon := "[ ]"
	if td.Done {
		icon = "[x]"
		style = TodoDoneStyle
	}

	var badges []string
	if l := labelText(td); l != "" {
		badges = append(badges, LabelStyle.Render(l))
	}
	if td.DueDate != nil {
		due := dateparse.Describe(*td.DueDate, now)
		switch {
		case td.IsOverdue(now):
			badges = append(badges, OverdueStyle.Render(due))
		case td.IsDueOn(now):
			badges = append(badges, DueStyle.Render(due))
		default:
			badges = append(badges, HelpStyle.Render(due))
		}
	}
	if td.IsRecurring() {
		badges = append(badges, HelpStyle.Render("↻"))
	}
	if td.HasNote() {
		badges = append(badges, HelpStyle.Render("✎"))
	}
	if td.Timer.Running() {
		badges = append(badges, TimerStyle.Render("⏱ "+model.FormatDuration(td.Timer.Elapsed(now))))
	} else if td.Timer.Tracked > 0 {
		badges = append(badges, HelpStyle.Render(model.FormatDuration(td.Timer.Tracked)))
	}
	if p := FormatPriority(td.Priority); p != "" {
		badges = append(badges, p)
	}
	suffix := strings.Join(badges, " ")

	prefix := fmt.Sprintf("%s%s%s %s ", cursor, strings.Repeat("  ", row.Depth), treeMarker(td), icon)
	room := width - lipgloss.Width(prefix) - lipgloss.Width(suffix) - 1
	desc := truncateText(td.Description, room)

	return style.Render(prefix+desc) + " " + suffix
}

func (m Model) renderStatusBar() string {
	// When searching, show the inline search input (like vim)
	if m.mode == ModeSearch {
		matches := ""
		if len(m.matches) > 0 {
			matches = fmt.Sprintf(" [%d matches]", len(m.matches))
		} else if m.searchText != "" {
			matches = " [no match]"
		}
		return StatusBarStyle.Width(m.width).Render("/" + m.input.View() + matches)
	}

	help := "a:add  c:child  e:edit  x:done  d:del  u:undo  /:search  W:workspaces  ?:help  q:quit"
	if m.message != "" {
		help = m.message
	} else if m.searchText != "" && len(m.matches) > 0 {
		help = fmt.Sprintf("/%s  [%d matches]  ]:next  [:prev  Esc:clear", m.searchText, len(m.matches))
	}

	status := ""
	history := m.active().Engine().History()
	if history.CanUndo() {
		status += "u "
	}
	if history.CanRedo() {
		status += "^r "
	}
	if m.dirty {
		status += DirtyStyle.Render("● unsaved")
	}

	avail := m.width - lipgloss.Width(help) - lipgloss.Width(status) - 2
	if avail > 0 {
		help += strings.Repeat(" ", avail) + status
	} else if status != "" {
		help += " " + status
	}
	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderInputModal() string {
	title := "Add Todo"
	switch m.mode {
	case ModeAddChild:
		if td, ok := m.current(); ok {
			title = "Add Child to: " + truncateText(td.Description, 40)
		}
	case ModeEdit:
		title = "Edit Todo"
	case ModeNewWorkspace:
		title = "New Workspace"
	case ModeRenameWorkspace:
		title = "Rename Workspace"
	default:
		title = "Add Todo to: " + m.active().Name
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.input.View() + "\n\n"
	if m.mode == ModeAdd || m.mode == ModeAddChild || m.mode == ModeEdit {
		content += HelpStyle.Render("#tag  @context  !0-5  due:tomorrow  due:\"every 2 weeks\"") + "\n"
	}
	if strings.HasPrefix(m.message, "Error") {
		content += OverdueStyle.Render(m.message) + "\n"
	}
	content += HelpStyle.Render("Enter:save  Esc:cancel")

	return ModalStyle.Render(content)
}

func (m Model) renderNoteEditor() string {
	title := "Note"
	if td, ok := m.current(); ok {
		title = "Note: " + truncateText(td.Description, 50)
	}
	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.note.View() + "\n\n"
	content += HelpStyle.Render("Ctrl+S:save  Esc:cancel  (markdown)")
	return ModalStyle.Render(content)
}

func (m Model) renderNoteView() string {
	td, _ := m.current()
	width := max(min(m.width-12, 90), 20)
	content := lipgloss.NewStyle().Bold(true).Render(truncateText(td.Description, width)) + "\n\n"
	content += markdown.Render(td.Note, width, 0) + "\n\n"
	content += HelpStyle.Render("Press any key to close")
	return ModalStyle.Render(content)
}

func (m Model) renderConfirmDelete() string {
	td, _ := m.current()
	content := lipgloss.NewStyle().Bold(true).Foreground(Overdue).Render("Delete todo?") + "\n\n"
	content += truncateText(td.Description, 50) + "\n"
	if n := len(td.Children); n > 0 {
		content += HelpStyle.Render(fmt.Sprintf("and its %d children", n)) + "\n"
	}
	content += "\n" + HelpStyle.Render("y:delete  any other key:cancel")
	return ModalStyle.Render(content)
}

func (m Model) renderWorkspaceModal() string {
	modalWidth := 50
	content := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Workspaces") + "\n\n"

	active := m.active().ID
	for i, w := range m.store.List() {
		marker := "  "
		style := lipgloss.NewStyle()
		if i == m.wsCursor {
			marker = "❯ "
			style = lipgloss.NewStyle().Bold(true).Foreground(Primary)
		}
		current := ""
		if w.ID == active {
			current = " (active)"
		}
		t := w.Tree()
		line := fmt.Sprintf("%s%s%s  %d/%d", marker, truncateText(w.Name, 24), current, len(t.Pending()), t.Len())
		content += style.Render(line) + "\n"
		if w.Description != "" {
			content += HelpStyle.Render("    "+truncateText(w.Description, modalWidth-10)) + "\n"
		}
	}

	if strings.HasPrefix(m.message, "Error") {
		content += "\n" + OverdueStyle.Render(m.message) + "\n"
	}
	content += "\n" + HelpStyle.Render("↑↓:nav  Enter:switch  n:new  r:rename  d:delete  Esc:close")
	return ModalStyle.Width(modalWidth).Render(content)
}

func (m Model) renderHelp() string {
	sections := keys.helpSections()
	var columns []string
	for i := 0; i < len(sections); i += 2 {
		var col strings.Builder
		for _, section := range sections[i:min(i+2, len(sections))] {
			col.WriteString(lipgloss.NewStyle().Bold(true).Render(section.title) + "\n")
			for _, b := range section.bindings {
				h := b.Help()
				col.WriteString(fmt.Sprintf("  %-9s %s\n", h.Key, h.Desc))
			}
			col.WriteString("\n")
		}
		columns = append(columns, lipgloss.NewStyle().Width(34).Render(col.String()))
	}

	content := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Keyboard Shortcuts") + "\n\n"
	content += lipgloss.JoinHorizontal(lipgloss.Top, columns...) + "\n"
	content += HelpStyle.Render("Press any key to close")
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, ModalStyle.Render(content))
}
