package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/existflow/paperclip/internal/tree"
	"github.com/existflow/paperclip/internal/workspace"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List todos",
	Long: `List todos of the active workspace as an indented tree.

Examples:
  paperclip list
  paperclip list --done
  paperclip ls --tag work --due overdue
  paperclip ls --search milk --all-workspaces`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listDone          bool
	listCompleted     bool
	listTag           string
	listContext       string
	listDue           string
	listSearch        string
	listAllWorkspaces bool
)

func init() {
	listCmd.Flags().BoolVar(&listDone, "done", false, "Include completed todos")
	listCmd.Flags().BoolVar(&listCompleted, "completed", false, "Show only completed todos")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Filter by tag")
	listCmd.Flags().StringVar(&listContext, "context", "", "Filter by context")
	listCmd.Flags().StringVar(&listDue, "due", "", "Filter by due date: overdue, today, tomorrow, week, none")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Search description, tags and contexts")
	listCmd.Flags().BoolVarP(&listAllWorkspaces, "all-workspaces", "A", false, "List every workspace")
}

func runList(cmd *cobra.Command, args []string) error {
	due, err := tree.ParseDueBucket(listDue)
	if err != nil {
		return err
	}
	filter := tree.Filter{
		Status:  tree.StatusPending,
		Text:    listSearch,
		Tag:     listTag,
		Context: listContext,
		Due:     due,
	}
	if listDone {
		filter.Status = tree.StatusAll
	}
	if listCompleted {
		filter.Status = tree.StatusCompleted
	}

	return withSession(cmd.Context(), func(s *session) (bool, error) {
		out := cmd.OutOrStdout()
		workspaces := []*workspace.Workspace{s.workspace()}
		if listAllWorkspaces {
			workspaces = s.store.List()
		}

		total := 0
		for _, w := range workspaces {
			total += printWorkspace(out, w.Name, w.Tree(), filter, s)
		}
		if total == 0 {
			fmt.Fprintln(out, "No todos found. Add one with: paperclip add \"Your todo\"")
		}
		return false, nil
	})
}

func printWorkspace(out io.Writer, name string, t *tree.Tree, f tree.Filter, s *session) int {
	now := s.now()
	ids := t.Select(f, now)
	if len(ids) == 0 && listAllWorkspaces {
		return 0
	}

	pending := len(t.Pending())
	fmt.Fprintf(out, "\n%s (%d pending", name, pending)
	if n := t.OverdueCount(now); n > 0 {
		fmt.Fprintf(out, ", %d overdue", n)
	}
	if n := t.DueTodayCount(now); n > 0 {
		fmt.Fprintf(out, ", %d due today", n)
	}
	fmt.Fprintln(out, ")")
	fmt.Fprintln(out, strings.Repeat("─", 60))

	for _, id := range ids {
		td, _ := t.Get(id)
		depth, _ := t.Depth(id)
		fmt.Fprintln(out, todoLine(td, depth, now))
	}
	fmt.Fprintln(out)
	return len(ids)
}
