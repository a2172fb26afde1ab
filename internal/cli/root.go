package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/paperclip/internal/config"
	"github.com/existflow/paperclip/internal/logger"
	"github.com/existflow/paperclip/internal/tui"
	"github.com/existflow/paperclip/internal/watch"
	"github.com/spf13/cobra"
)

var (
	logLevel      string
	logFile       string
	logConsole    bool
	workspaceFlag string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "paperclip",
	Short: "Paperclip - hierarchical todos in the terminal",
	Long: `Paperclip is a terminal todo manager with nested todos, natural
language due dates, recurring todos, time tracking and workspaces.

Run 'paperclip' without arguments to launch the interactive TUI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		loaded, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			loaded = config.DefaultConfig()
		}
		cfg = loaded

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		logConfig := logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			FilePath:   cfg.LogFile,
			Format:     cfg.LogFormat,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxAge:     7,
			MaxBackups: 5,
			Console:    cfg.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("Paperclip started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: runTUI,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("Paperclip exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	s, err := openSession(ctx)
	if err != nil {
		logger.Error("Failed to open session", logger.F("error", err))
		return err
	}
	defer func() {
		_ = s.backend.Close()
		logger.Info("Storage closed")
	}()

	opts := []tui.Option{
		tui.WithClock(s.clock),
		tui.WithConfirmDelete(cfg.ConfirmDelete),
	}
	if w, err := watch.New(cfg.DataPath()); err != nil {
		logger.Warn("File watcher unavailable", logger.F("error", err))
	} else {
		defer w.Close()
		go w.Run(ctx)
		opts = append(opts, tui.WithWatcher(w))
	}

	logger.Info("Launching TUI")
	m := tui.NewModel(s.store, s.backend, opts...)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		logger.Error("TUI error", logger.F("error", err))
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if fm, ok := final.(tui.Model); ok && fm.Dirty() {
		logger.Warn("Exited with unsaved changes")
		fmt.Fprintln(cmd.ErrOrStderr(), "Quit without saving; unsaved changes were discarded.")
	}

	logger.Info("TUI exited normally")
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")
	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", "", "Workspace to operate on (default: active workspace)")

	// Add subcommands
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(priorityCmd)
	rootCmd.AddCommand(recurCmd)
	rootCmd.AddCommand(timerCmd)
	rootCmd.AddCommand(workspaceCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(templateCmd)
}
