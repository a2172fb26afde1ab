package tui

import (
	"strings"

	"github.com/existflow/paperclip/internal/model"
	"github.com/muesli/reflow/truncate"
)

// truncateText shortens s to width cells with an ellipsis
func truncateText(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return truncate.StringWithTail(s, uint(width), "…")
}

// labelText renders tags and contexts as "#tag @ctx"
func labelText(td model.Todo) string {
	parts := make([]string, 0, len(td.Tags)+len(td.Contexts))
	for _, t := range td.Tags {
		parts = append(parts, "#"+t)
	}
	for _, c := range td.Contexts {
		parts = append(parts, "@"+c)
	}
	return strings.Join(parts, " ")
}

// treeMarker shows whether a row can be expanded
func treeMarker(td model.Todo) string {
	switch {
	case len(td.Children) == 0:
		return " "
	case td.Expanded:
		return "▾"
	default:
		return "▸"
	}
}
