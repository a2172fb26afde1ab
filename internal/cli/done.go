package cli

import (
	"fmt"

	"github.com/existflow/paperclip/internal/command"
	"github.com/existflow/paperclip/internal/logger"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done [todo]",
	Short: "Mark a todo as done",
	Long: `Mark a todo as done. Completing a recurring todo adds its next
occurrence right after it.

Examples:
  paperclip done 3f2a
  paperclip done "Buy groceries"
  paperclip done 3f2a --undo`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

var doneUndo bool

func init() {
	doneCmd.Flags().BoolVarP(&doneUndo, "undo", "u", false, "Mark as not done")
}

func runDone(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), func(s *session) (bool, error) {
		id, err := s.resolve(args[0])
		if err != nil {
			return false, err
		}
		td, _ := s.tree().Get(id)
		out := cmd.OutOrStdout()

		if td.Done != doneUndo {
			state := "done"
			if doneUndo {
				state = "pending"
			}
			fmt.Fprintf(out, "Already %s: %q\n", state, td.Description)
			return false, nil
		}

		c := &command.Complete{ID: id, At: s.now()}
		if err := s.workspace().Engine().Execute(c); err != nil {
			return false, fmt.Errorf("failed to update todo: %w", err)
		}
		logger.Info("Todo completion toggled", logger.F("id", id), logger.F("done", !doneUndo))

		if doneUndo {
			fmt.Fprintf(out, "↺ Reopened: %q\n", td.Description)
			return true, nil
		}
		fmt.Fprintf(out, "✓ Done: %q\n", td.Description)
		if next := c.Spawned(); next != "" {
			spawned, _ := s.tree().Get(next)
			fmt.Fprintf(out, "↻ Next: %q due %s (%s)\n", spawned.Description, dueLabel(spawned, s.now()), shortID(next))
		}
		return true, nil
	})
}
