package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/existflow/paperclip/internal/command"
	"github.com/existflow/paperclip/internal/logger"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [todo]",
	Aliases: []string{"rm"},
	Short:   "Delete a todo and its children",
	Long: `Delete a todo by its ID, ID prefix or exact description.

Examples:
  paperclip delete 3f2a
  paperclip rm "Buy groceries" --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var deleteForce bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), func(s *session) (bool, error) {
		id, err := s.resolve(args[0])
		if err != nil {
			return false, err
		}
		td, _ := s.tree().Get(id)
		out := cmd.OutOrStdout()

		prompt := fmt.Sprintf("About to delete: %q (ID: %s)", td.Description, shortID(id))
		if n := len(td.Children); n > 0 {
			prompt += fmt.Sprintf(" and its %d children", n)
		}
		if !confirm(cmd, prompt) {
			fmt.Fprintln(out, "Cancelled.")
			return false, nil
		}

		del := &command.Delete{ID: id}
		if err := s.workspace().Engine().Execute(del); err != nil {
			return false, fmt.Errorf("failed to delete todo: %w", err)
		}
		logger.Info("Todo deleted", logger.F("id", id), logger.F("removed", len(del.Removed().Todos)))
		fmt.Fprintf(out, "🗑️  Deleted: %q\n", td.Description)
		return true, nil
	})
}

// confirm asks a yes/no question when deletes need confirmation and stdin is
// a terminal. Non-interactive runs proceed.
func confirm(cmd *cobra.Command, prompt string) bool {
	if deleteForce || !cfg.ConfirmDelete || !term.IsTerminal(int(os.Stdin.Fd())) {
		return true
	}
	return ask(cmd.InOrStdin(), cmd.OutOrStdout(), prompt)
}

func ask(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintln(out, prompt)
	fmt.Fprint(out, "Are you sure? [y/N]: ")
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
