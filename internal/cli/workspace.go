package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/paperclip/internal/logger"
	"github.com/spf13/cobra"
)

var workspaceCmd = &cobra.Command{
	Use:     "workspace",
	Aliases: []string{"ws"},
	Short:   "Manage workspaces",
	Long: `Workspaces are independent todo lists. Commands act on the active
workspace unless --workspace is given.

Examples:
  paperclip workspace                 # Show the active workspace
  paperclip workspace list
  paperclip workspace new Work -d "Day job"
  paperclip workspace use work
  paperclip workspace rename Work Job
  paperclip workspace delete Job`,
	Args: cobra.NoArgs,
	RunE: runWorkspaceShow,
}

var wsDescription string

func init() {
	newCmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a workspace",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runWorkspaceNew,
	}
	newCmd.Flags().StringVarP(&wsDescription, "description", "d", "", "Workspace description")

	deleteWsCmd := &cobra.Command{
		Use:     "delete [name]",
		Aliases: []string{"rm"},
		Short:   "Delete a workspace and all its todos",
		Args:    cobra.MinimumNArgs(1),
		RunE:    runWorkspaceDelete,
	}
	deleteWsCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation")

	workspaceCmd.AddCommand(
		newCmd,
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List workspaces",
			Args:    cobra.NoArgs,
			RunE:    runWorkspaceList,
		},
		&cobra.Command{
			Use:   "use [name]",
			Short: "Switch the active workspace",
			Args:  cobra.MinimumNArgs(1),
			RunE:  runWorkspaceUse,
		},
		deleteWsCmd,
		&cobra.Command{
			Use:   "rename [old] [new]",
			Short: "Rename a workspace",
			Args:  cobra.ExactArgs(2),
			RunE:  runWorkspaceRename,
		},
	)
}

func runWorkspaceShow(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), func(s *session) (bool, error) {
		w := s.workspace()
		fmt.Fprintf(cmd.OutOrStdout(), "Active workspace: %s\n", w.Name)
		return false, nil
	})
}

func runWorkspaceList(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), func(s *session) (bool, error) {
		out := cmd.OutOrStdout()
		active := s.workspace().ID
		for _, w := range s.store.List() {
			marker := "  "
			if w.ID == active {
				marker = "❯ "
			}
			t := w.Tree()
			line := fmt.Sprintf("%s%-16s %d/%d pending", marker, w.Name, len(t.Pending()), t.Len())
			if w.Description != "" {
				line += "  " + w.Description
			}
			fmt.Fprintln(out, line)
		}
		return false, nil
	})
}

func runWorkspaceNew(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	return withSession(cmd.Context(), func(s *session) (bool, error) {
		w, err := s.store.Create(name, wsDescription)
		if err != nil {
			return false, err
		}
		logger.Info("Workspace created", logger.F("workspace", w.Name))
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created workspace %q\n", w.Name)
		return true, nil
	})
}

func runWorkspaceUse(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	return withSession(cmd.Context(), func(s *session) (bool, error) {
		if err := s.store.SetActive(name); err != nil {
			return false, err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Switched to workspace %q\n", s.workspace().Name)
		return true, nil
	})
}

func runWorkspaceDelete(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	return withSession(cmd.Context(), func(s *session) (bool, error) {
		w, err := s.store.Get(name)
		if err != nil {
			return false, err
		}
		prompt := fmt.Sprintf("About to delete workspace %q with %d todos", w.Name, w.Tree().Len())
		if !confirm(cmd, prompt) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return false, nil
		}
		if err := s.store.Delete(w.Name); err != nil {
			return false, err
		}
		logger.Info("Workspace deleted", logger.F("workspace", w.Name))
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted workspace %q\n", w.Name)
		return true, nil
	})
}

func runWorkspaceRename(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), func(s *session) (bool, error) {
		if err := s.store.Rename(args[0], args[1]); err != nil {
			return false, err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed workspace %q to %q\n", args[0], args[1])
		return true, nil
	})
}
