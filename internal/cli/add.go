package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/paperclip/internal/command"
	"github.com/existflow/paperclip/internal/logger"
	"github.com/existflow/paperclip/internal/model"
	"github.com/existflow/paperclip/internal/tree"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [description]",
	Short: "Add a new todo",
	Long: `Add a new todo to the active workspace.

The description may carry inline markup: #tag, @context, !0-5 for priority
and due:<date> (quote multi-word dates: due:"next friday").

Examples:
  paperclip add "Buy groceries #home @errands due:tomorrow"
  paperclip add "Write tests" --parent 3f2a
  paperclip add "Crash on save" --template "bug report"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addParent   string
	addTemplate string
	addNote     string
)

func init() {
	addCmd.Flags().StringVarP(&addParent, "parent", "p", "", "Parent todo ID (or unique prefix)")
	addCmd.Flags().StringVarP(&addTemplate, "template", "t", "", "Template name or ID")
	addCmd.Flags().StringVarP(&addNote, "note", "n", "", "Markdown note")
}

func runAdd(cmd *cobra.Command, args []string) error {
	raw := strings.Join(args, " ")

	return withSession(cmd.Context(), func(s *session) (bool, error) {
		in, err := tree.ParseInput(raw, s.now())
		if err != nil {
			return false, err
		}
		in.CreatedAt = s.now()
		if addNote != "" {
			in.Note = addNote
		}
		if addTemplate != "" {
			tpl, ok := model.FindTemplate(addTemplate)
			if !ok {
				return false, fmt.Errorf("unknown template: %s", addTemplate)
			}
			in = command.FromTemplate(in, tpl)
		}

		parent := ""
		if addParent != "" {
			if parent, err = s.resolve(addParent); err != nil {
				return false, err
			}
		}

		add := &command.Add{Parent: parent, Index: -1, Input: in}
		if err := s.workspace().Engine().Execute(add); err != nil {
			return false, fmt.Errorf("failed to add todo: %w", err)
		}

		td, _ := s.tree().Get(add.ID())
		logger.Info("Todo added", logger.F("id", td.ID), logger.F("workspace", s.workspace().Name))
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added to [%s]: %q (%s)\n", s.workspace().Name, td.Description, shortID(td.ID))
		return true, nil
	})
}
