package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/paperclip/internal/command"
	"github.com/existflow/paperclip/internal/dateparse"
	"github.com/existflow/paperclip/internal/tree"
	"github.com/spf13/cobra"
)

var dueCmd = &cobra.Command{
	Use:   "due [date]",
	Short: "Preview a date phrase, or set it as a todo's due date",
	Long: `Show how a phrase is understood. With --todo the date becomes that
todo's due date; "none" clears it.

Examples:
  paperclip due next friday
  paperclip due every 2 weeks
  paperclip due tomorrow --todo 3f2a`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDue,
}

var dueTodo string

func init() {
	dueCmd.Flags().StringVarP(&dueTodo, "todo", "t", "", "Todo to set the due date on")
}

func runDue(cmd *cobra.Command, args []string) error {
	phrase := strings.Join(args, " ")
	now := appClock().Now()
	out := cmd.OutOrStdout()

	if dueTodo == "" {
		r, err := dateparse.Parse(phrase, now)
		if err != nil {
			return err
		}
		if r.Kind == dateparse.KindRecurrence {
			fmt.Fprintf(out, "Repeats: %s\n", r.Recurrence)
			return nil
		}
		fmt.Fprintf(out, "%s (%s)\n", r.Due.Format("Mon Jan 2 2006 15:04"), dateparse.Describe(r.Due, now))
		return nil
	}

	return withSession(cmd.Context(), func(s *session) (bool, error) {
		id, err := s.resolve(dueTodo)
		if err != nil {
			return false, err
		}
		td, _ := s.tree().Get(id)

		var value any
		result := "cleared"
		if !strings.EqualFold(strings.TrimSpace(phrase), "none") {
			due, err := dateparse.ParseDate(phrase, s.now())
			if err != nil {
				return false, err
			}
			value = due
			result = "set to " + dateparse.Describe(due, s.now())
		}

		edit := &command.Edit{ID: id, Changes: []command.Change{{Field: tree.FieldDueDate, Value: value}}, Label: "set due date"}
		if err := s.execute(edit); err != nil {
			return false, fmt.Errorf("failed to set due date: %w", err)
		}
		fmt.Fprintf(out, "Due date of %q %s\n", td.Description, result)
		return true, nil
	})
}
