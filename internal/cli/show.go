package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/paperclip/internal/dateparse"
	"github.com/existflow/paperclip/internal/markdown"
	"github.com/existflow/paperclip/internal/model"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [todo]",
	Short: "Show a todo with its note",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), func(s *session) (bool, error) {
		id, err := s.resolve(args[0])
		if err != nil {
			return false, err
		}
		t := s.tree()
		td, _ := t.Get(id)
		now := s.now()
		out := cmd.OutOrStdout()

		status := "pending"
		if td.Done {
			status = "done"
			if td.CompletedAt != nil {
				status += " " + td.CompletedAt.Format("2006-01-02 15:04")
			}
		}

		fmt.Fprintf(out, "%s %s\n", checkbox(td), td.Description)
		fmt.Fprintf(out, "  ID:        %s\n", td.ID)
		fmt.Fprintf(out, "  Workspace: %s\n", s.workspace().Name)
		fmt.Fprintf(out, "  Status:    %s\n", status)
		if td.Priority != model.PriorityNone {
			fmt.Fprintf(out, "  Priority:  %d\n", td.Priority)
		}
		if l := labels(td); l != "" {
			fmt.Fprintf(out, "  Labels:    %s\n", l)
		}
		if td.DueDate != nil {
			fmt.Fprintf(out, "  Due:       %s (%s)\n", dueLabel(td, now), td.DueDate.Format("2006-01-02 15:04"))
		}
		if td.IsRecurring() {
			fmt.Fprintf(out, "  Repeats:   %s\n", td.Recurrence)
		}
		if elapsed := td.Timer.Elapsed(now); elapsed > 0 || td.Timer.Running() {
			state := ""
			if td.Timer.Running() {
				state = " (running)"
			}
			fmt.Fprintf(out, "  Tracked:   %s%s\n", model.FormatDuration(elapsed), state)
		}
		if anc, _ := t.Ancestors(id); len(anc) > 0 {
			parent, _ := t.Get(anc[0])
			fmt.Fprintf(out, "  Parent:    %s (%s)\n", parent.Description, shortID(parent.ID))
		}
		if n := len(td.Children); n > 0 {
			fmt.Fprintf(out, "  Children:  %d\n", n)
		}
		fmt.Fprintf(out, "  Created:   %s\n", dateparse.Describe(td.CreatedAt, now))

		if note := markdown.Render(td.Note, 76, 2); note != "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, strings.TrimRight(note, " \n"))
		}
		return false, nil
	})
}
