package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/napkinwire/internal/config"
	"github.com/janekbaraniewski/napkinwire/internal/tui"
	"github.com/janekbaraniewski/napkinwire/internal/usage"
)

// NewWatchCommand runs the live usage-window view.
func NewWatchCommand(cfg config.Config) *cobra.Command {
	var logDir string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the usage window live in the terminal",
		RunE: func(_ *cobra.Command, _ []string) error {
			dir := logDir
			if dir == "" {
				dir = cfg.Paths.LogsPath
			}

			model := tui.NewWatchModel(usage.Options{
				LogDir:  dir,
				Horizon: time.Duration(cfg.App.LogHorizonHours) * time.Hour,
			})

			program := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("running watch view: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logDir, "log-dir", "", "override the assistant log directory")
	return cmd
}
