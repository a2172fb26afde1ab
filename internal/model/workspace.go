package model

import "time"

// DefaultWorkspaceName is created on first run
const DefaultWorkspaceName = "Personal"

// Workspace describes a named collection of todo trees
type Workspace struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// WorkspaceColors is the palette new workspaces cycle through
var WorkspaceColors = []string{
	"#4ECDC4",
	"#FF6B6B",
	"#FFB347",
	"#FFE66D",
	"#95E1A3",
	"#C678DD",
}
