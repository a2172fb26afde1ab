package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/existflow/paperclip/internal/logger"
	"github.com/existflow/paperclip/internal/storage"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all workspaces as JSON",
	Long: `Write every workspace to stdout or a file as portable JSON.

Examples:
  paperclip export > backup.json
  paperclip export -o backup.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace all workspaces with an exported JSON file",
	Long: `Load a file written by 'paperclip export'. The file is validated before
anything is replaced; an invalid file leaves your data untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportOutput string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), func(s *session) (bool, error) {
		var buf bytes.Buffer
		if err := storage.Export(&buf, s.store.Snapshot()); err != nil {
			return false, fmt.Errorf("failed to export: %w", err)
		}
		if exportOutput == "" {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return false, err
		}
		if err := storage.AtomicWrite(exportOutput, buf.Bytes()); err != nil {
			return false, fmt.Errorf("failed to write export: %w", err)
		}
		logger.Info("Exported workspaces", logger.F("path", exportOutput), logger.F("workspaces", s.store.Len()))
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %d workspaces to %s\n", s.store.Len(), exportOutput)
		return false, nil
	})
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	snap, err := storage.Import(f)
	if err != nil {
		return err
	}

	return withSession(cmd.Context(), func(s *session) (bool, error) {
		if err := s.store.Restore(snap); err != nil {
			return false, fmt.Errorf("failed to import: %w", err)
		}
		s.store.EnsureDefault()

		todos := 0
		for _, w := range s.store.List() {
			todos += w.Tree().Len()
		}
		logger.Info("Imported workspaces", logger.F("path", args[0]), logger.F("workspaces", s.store.Len()))
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d workspaces with %d todos\n", s.store.Len(), todos)
		return true, nil
	})
}
