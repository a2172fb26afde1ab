package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/paperclip/internal/model"
)

// Color palette based on TUI design
var (
	// Priority colors
	PriorityUrgent = lipgloss.Color("#FF6B6B") // 5 - Red
	PriorityHigh   = lipgloss.Color("#FFB347") // 4 - Orange
	PriorityMedium = lipgloss.Color("#FFE66D") // 3 - Yellow
	PriorityLow    = lipgloss.Color("#4ECDC4") // 1-2 - Blue

	// Status colors
	Completed = lipgloss.Color("#95E1A3") // Green
	Overdue   = lipgloss.Color("#FF6B6B") // Red
	DueSoon   = lipgloss.Color("#FFE66D") // Yellow
	Running   = lipgloss.Color("#95E1A3") // Green

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Secondary = lipgloss.Color("#6C757D")
	Surface   = lipgloss.Color("#16213e")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	Highlight = lipgloss.Color("#4ECDC4")
	Label     = lipgloss.Color("#A29BFE")
)

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	// Sidebar
	SidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(Border).
			Padding(0, 1)

	// Todo list
	ListStyle = lipgloss.NewStyle().
			Padding(0, 1)

	// Workspace item
	WorkspaceItemStyle = lipgloss.NewStyle()

	WorkspaceItemSelectedStyle = lipgloss.NewStyle().
					Background(Surface).
					Bold(true)

	// Todo item
	TodoItemStyle = lipgloss.NewStyle()

	TodoItemSelectedStyle = lipgloss.NewStyle().
				Background(Surface).
				Bold(true)

	TodoDoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true)

	MatchStyle = lipgloss.NewStyle().Foreground(Highlight)

	// Badges
	LabelStyle   = lipgloss.NewStyle().Foreground(Label)
	OverdueStyle = lipgloss.NewStyle().Foreground(Overdue).Bold(true)
	DueStyle     = lipgloss.NewStyle().Foreground(DueSoon)
	TimerStyle   = lipgloss.NewStyle().Foreground(Running).Bold(true)

	PriorityP5Style = lipgloss.NewStyle().Foreground(PriorityUrgent).Bold(true)
	PriorityP4Style = lipgloss.NewStyle().Foreground(PriorityHigh).Bold(true)
	PriorityP3Style = lipgloss.NewStyle().Foreground(PriorityMedium)
	PriorityP1Style = lipgloss.NewStyle().Foreground(PriorityLow)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	DirtyStyle = lipgloss.NewStyle().Foreground(DueSoon).Bold(true)

	// Input modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// GetPriorityStyle returns the style for a given priority
func GetPriorityStyle(priority int) lipgloss.Style {
	switch priority {
	case model.PriorityMax:
		return PriorityP5Style
	case model.PriorityHigh:
		return PriorityP4Style
	case 3:
		return PriorityP3Style
	default:
		return PriorityP1Style
	}
}

// FormatPriority returns a formatted priority badge; none renders empty
func FormatPriority(priority int) string {
	if priority == model.PriorityNone {
		return ""
	}
	return GetPriorityStyle(priority).Render(fmt.Sprintf("!%d", priority))
}
