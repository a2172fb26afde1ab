package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/existflow/paperclip/internal/command"
	"github.com/existflow/paperclip/internal/dateparse"
	"github.com/existflow/paperclip/internal/logger"
	"github.com/existflow/paperclip/internal/markdown"
	"github.com/existflow/paperclip/internal/model"
	"github.com/existflow/paperclip/internal/tree"
	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move [todo]",
	Short: "Move a todo under another parent",
	Long: `Move a todo, with its children, under a new parent or back to the top level.

Examples:
  paperclip move 3f2a --parent 9c1d
  paperclip move 3f2a --root --index 0`,
	Args: cobra.ExactArgs(1),
	RunE: runMove,
}

var (
	moveParent string
	moveRoot   bool
	moveIndex  int
)

var noteCmd = &cobra.Command{
	Use:   "note [todo] [text]",
	Short: "Show or set a todo's markdown note",
	Long: `Without text the note is rendered; with text it replaces the note.

Examples:
  paperclip note 3f2a
  paperclip note 3f2a "Call **before** noon"
  paperclip note 3f2a --clear`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNote,
}

var noteClear bool

var priorityCmd = &cobra.Command{
	Use:   "priority [todo] [0-5]",
	Short: "Set a todo's priority (0 none, 5 highest)",
	Args:  cobra.ExactArgs(2),
	RunE:  runPriority,
}

var recurCmd = &cobra.Command{
	Use:   "recur [todo] [rule]",
	Short: "Make a todo repeat",
	Long: `Set a recurrence rule such as "daily", "every 3 days" or "every 2 weeks".
Use "none" to stop repeating. A todo without a due date becomes due today.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRecur,
}

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Track time spent on todos",
}

func init() {
	moveCmd.Flags().StringVarP(&moveParent, "parent", "p", "", "New parent todo")
	moveCmd.Flags().BoolVar(&moveRoot, "root", false, "Move to the top level")
	moveCmd.Flags().IntVarP(&moveIndex, "index", "i", -1, "Position among the new siblings (default: last)")

	noteCmd.Flags().BoolVar(&noteClear, "clear", false, "Remove the note")

	timerCmd.AddCommand(&cobra.Command{
		Use:   "start [todo]",
		Short: "Start the timer",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return runTimer(cmd, args[0], true) },
	})
	timerCmd.AddCommand(&cobra.Command{
		Use:   "stop [todo]",
		Short: "Stop the timer",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return runTimer(cmd, args[0], false) },
	})
}

// execute runs c on the active workspace and logs it
func (s *session) execute(c command.Command) error {
	if err := s.workspace().Engine().Execute(c); err != nil {
		return err
	}
	logger.Info("Command executed", logger.F("command", c.Describe()), logger.F("workspace", s.workspace().Name))
	return nil
}

func runMove(cmd *cobra.Command, args []string) error {
	if moveRoot == (moveParent != "") {
		return fmt.Errorf("specify exactly one of --parent or --root")
	}
	return withSession(cmd.Context(), func(s *session) (bool, error) {
		id, err := s.resolve(args[0])
		if err != nil {
			return false, err
		}
		parent := ""
		if !moveRoot {
			if parent, err = s.resolve(moveParent); err != nil {
				return false, err
			}
		}
		if err := s.execute(&command.Move{ID: id, Parent: parent, Index: moveIndex}); err != nil {
			return false, fmt.Errorf("failed to move todo: %w", err)
		}

		td, _ := s.tree().Get(id)
		where := "top level"
		if parent != "" {
			p, _ := s.tree().Get(parent)
			where = fmt.Sprintf("%q", p.Description)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Moved %q under %s\n", td.Description, where)
		return true, nil
	})
}

func runNote(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), func(s *session) (bool, error) {
		id, err := s.resolve(args[0])
		if err != nil {
			return false, err
		}
		td, _ := s.tree().Get(id)
		out := cmd.OutOrStdout()

		if len(args) == 1 && !noteClear {
			if !td.HasNote() {
				fmt.Fprintf(out, "No note on %q\n", td.Description)
				return false, nil
			}
			fmt.Fprintln(out, markdown.Render(td.Note, 80, 0))
			return false, nil
		}

		note := ""
		if !noteClear {
			note = strings.Join(args[1:], " ")
		}
		if err := s.execute(&command.SetNote{ID: id, Note: note}); err != nil {
			return false, fmt.Errorf("failed to set note: %w", err)
		}
		if note == "" {
			fmt.Fprintf(out, "Note removed from %q\n", td.Description)
		} else {
			fmt.Fprintf(out, "Note saved on %q\n", td.Description)
		}
		return true, nil
	})
}

func runPriority(cmd *cobra.Command, args []string) error {
	p, err := strconv.Atoi(strings.TrimPrefix(args[1], "!"))
	if err != nil || p < model.PriorityNone || p > model.PriorityMax {
		return fmt.Errorf("%w: priority must be 0-%d, got %q", tree.ErrInvalidValue, model.PriorityMax, args[1])
	}
	return withSession(cmd.Context(), func(s *session) (bool, error) {
		id, err := s.resolve(args[0])
		if err != nil {
			return false, err
		}
		if err := s.execute(&command.SetPriority{ID: id, Priority: p}); err != nil {
			return false, fmt.Errorf("failed to set priority: %w", err)
		}
		td, _ := s.tree().Get(id)
		fmt.Fprintf(cmd.OutOrStdout(), "Priority of %q set to %d\n", td.Description, p)
		return true, nil
	})
}

func runRecur(cmd *cobra.Command, args []string) error {
	rule := strings.Join(args[1:], " ")
	return withSession(cmd.Context(), func(s *session) (bool, error) {
		id, err := s.resolve(args[0])
		if err != nil {
			return false, err
		}
		td, _ := s.tree().Get(id)
		out := cmd.OutOrStdout()

		if strings.EqualFold(strings.TrimSpace(rule), "none") {
			if err := s.execute(&command.SetRecurrence{ID: id}); err != nil {
				return false, fmt.Errorf("failed to clear recurrence: %w", err)
			}
			fmt.Fprintf(out, "%q no longer repeats\n", td.Description)
			return true, nil
		}

		r, err := dateparse.Parse(rule, s.now())
		if err != nil {
			return false, err
		}
		if r.Kind != dateparse.KindRecurrence {
			return false, fmt.Errorf("%w: %q is a date, not a repeat rule", dateparse.ErrUnrecognized, rule)
		}

		changes := []command.Change{{Field: tree.FieldRecurrence, Value: r.Recurrence}}
		if td.DueDate == nil {
			changes = append(changes, command.Change{Field: tree.FieldDueDate, Value: dateparse.EndOfDay(s.now())})
		}
		edit := &command.Edit{ID: id, Changes: changes, Label: "repeat " + r.Recurrence.String()}
		if err := s.execute(edit); err != nil {
			return false, fmt.Errorf("failed to set recurrence: %w", err)
		}
		fmt.Fprintf(out, "%q repeats %s\n", td.Description, strings.ToLower(r.Recurrence.String()))
		return true, nil
	})
}

func runTimer(cmd *cobra.Command, ref string, start bool) error {
	return withSession(cmd.Context(), func(s *session) (bool, error) {
		id, err := s.resolve(ref)
		if err != nil {
			return false, err
		}
		td, _ := s.tree().Get(id)
		out := cmd.OutOrStdout()

		if td.Timer.Running() == start {
			state := "not running"
			if start {
				state = "already running"
			}
			return false, fmt.Errorf("timer %s for %q", state, td.Description)
		}

		edit, err := command.ToggleTimer(s.tree(), id, s.now())
		if err != nil {
			return false, err
		}
		if err := s.execute(edit); err != nil {
			return false, fmt.Errorf("failed to update timer: %w", err)
		}

		if start {
			fmt.Fprintf(out, "⏱ Timer started for %q\n", td.Description)
		} else {
			elapsed, _ := s.tree().Elapsed(id, s.now())
			fmt.Fprintf(out, "⏱ Timer stopped for %q (total %s)\n", td.Description, model.FormatDuration(elapsed))
		}
		return true, nil
	})
}
