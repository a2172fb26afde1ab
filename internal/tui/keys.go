package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Top       key.Binding
	Bottom    key.Binding
	Parent    key.Binding
	Expand    key.Binding
	Toggle    key.Binding
	Add       key.Binding
	AddChild  key.Binding
	Edit      key.Binding
	Done      key.Binding
	Delete    key.Binding
	PrioUp    key.Binding
	PrioDown  key.Binding
	Priority  key.Binding
	Timer     key.Binding
	Recur     key.Binding
	Note      key.Binding
	ViewNote  key.Binding
	Indent    key.Binding
	Outdent   key.Binding
	Undo      key.Binding
	Redo      key.Binding
	Search    key.Binding
	NextMatch key.Binding
	PrevMatch key.Binding
	NextWS    key.Binding
	Workspace key.Binding
	Save      key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
	Escape    key.Binding
	Enter     key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Top:       key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	Bottom:    key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	Parent:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "go to parent")),
	Expand:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
	Toggle:    key.NewBinding(key.WithKeys(" ", "tab"), key.WithHelp("space", "expand/collapse")),
	Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add todo")),
	AddChild:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "add child")),
	Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Done:      key.NewBinding(key.WithKeys("x", "enter"), key.WithHelp("x/enter", "toggle done")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	PrioUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "raise priority")),
	PrioDown:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "lower priority")),
	Priority:  key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5"), key.WithHelp("0-5", "set priority")),
	Timer:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "start/stop timer")),
	Recur:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "cycle repeat")),
	Note:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "edit note")),
	ViewNote:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view note")),
	Indent:    key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "indent")),
	Outdent:   key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "outdent")),
	Undo:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
	Redo:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "redo")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search all workspaces")),
	NextMatch: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next match")),
	PrevMatch: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous match")),
	NextWS:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "next workspace")),
	Workspace: key.NewBinding(key.WithKeys("W"), key.WithHelp("W", "workspaces")),
	Save:      key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "save and quit")),
	ForceQuit: key.NewBinding(key.WithKeys("Q"), key.WithHelp("Q", "quit without saving")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
}

// helpSections groups bindings for the help screen
func (k keyMap) helpSections() []helpSection {
	return []helpSection{
		{"Navigation", []key.Binding{k.Up, k.Down, k.Top, k.Bottom, k.Parent, k.Expand, k.Toggle}},
		{"Todos", []key.Binding{k.Add, k.AddChild, k.Edit, k.Done, k.Delete, k.Indent, k.Outdent}},
		{"Details", []key.Binding{k.PrioUp, k.PrioDown, k.Priority, k.Timer, k.Recur, k.Note, k.ViewNote}},
		{"History", []key.Binding{k.Undo, k.Redo}},
		{"Workspaces", []key.Binding{k.Search, k.NextMatch, k.PrevMatch, k.NextWS, k.Workspace}},
		{"Other", []key.Binding{k.Save, k.Help, k.Quit, k.ForceQuit}},
	}
}

type helpSection struct {
	title    string
	bindings []key.Binding
}
