package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/existflow/paperclip/internal/dateparse"
	"github.com/existflow/paperclip/internal/model"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"
)

const descWidth = 44

// shortID is the abbreviated ID shown in listings; any unique prefix resolves
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func checkbox(td model.Todo) string {
	if td.Done {
		return "[x]"
	}
	return "[ ]"
}

func priorityMark(p int) string {
	if p == model.PriorityNone {
		return ""
	}
	return fmt.Sprintf("!%d", p)
}

func labels(td model.Todo) string {
	var parts []string
	for _, t := range td.Tags {
		parts = append(parts, "#"+t)
	}
	for _, c := range td.Contexts {
		parts = append(parts, "@"+c)
	}
	return strings.Join(parts, " ")
}

func dueLabel(td model.Todo, now time.Time) string {
	if td.DueDate == nil {
		return ""
	}
	label := dateparse.Describe(*td.DueDate, now)
	if td.IsOverdue(now) {
		label += " (overdue)"
	}
	return label
}

// todoLine renders one listing row indented by depth
func todoLine(td model.Todo, depth int, now time.Time) string {
	indent := strings.Repeat("  ", depth)
	desc := truncate.StringWithTail(indent+td.Description, descWidth, "...")

	var extras []string
	for _, s := range []string{labels(td), dueLabel(td, now), priorityMark(td.Priority)} {
		if s != "" {
			extras = append(extras, s)
		}
	}
	if td.IsRecurring() {
		extras = append(extras, "↻")
	}
	if td.Timer.Running() {
		extras = append(extras, "⏱ "+model.FormatDuration(td.Timer.Elapsed(now)))
	}

	line := fmt.Sprintf("  %s  %-8s  %s", checkbox(td), shortID(td.ID), padding.String(desc, descWidth))
	if len(extras) > 0 {
		line += "  " + strings.Join(extras, "  ")
	}
	return strings.TrimRight(line, " ")
}
