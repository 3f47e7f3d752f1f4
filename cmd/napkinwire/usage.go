package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/napkinwire/internal/config"
	"github.com/janekbaraniewski/napkinwire/internal/tui"
	"github.com/janekbaraniewski/napkinwire/internal/usage"
)

// NewUsageCommand runs one analysis pass and prints the report.
func NewUsageCommand(cfg config.Config) *cobra.Command {
	var (
		detail  string
		asJSON  bool
		logDir  string
		horizon int
	)

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Analyze assistant logs and report the current usage window",
		RunE: func(_ *cobra.Command, _ []string) error {
			if detail != "summary" && detail != "detailed" && detail != "both" {
				return fmt.Errorf("invalid --detail %q, must be one of: summary, detailed, both", detail)
			}

			dir := logDir
			if dir == "" {
				dir = cfg.Paths.LogsPath
			}
			hours := horizon
			if hours <= 0 {
				hours = cfg.App.LogHorizonHours
			}

			now := time.Now().UTC()
			report := usage.Analyze(usage.Options{
				LogDir:  dir,
				Horizon: time.Duration(hours) * time.Hour,
				Now:     now,
			})

			if asJSON {
				payload := map[string]any{}
				if detail == "summary" || detail == "both" {
					payload["summary"] = usage.BuildSummary(report, now)
				}
				if detail == "detailed" || detail == "both" {
					payload["detailed"] = usage.BuildDetailed(report)
				}
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(payload)
			}

			if detail == "summary" || detail == "both" {
				fmt.Print(tui.RenderSummary(report, now))
			}
			if detail == "detailed" || detail == "both" {
				fmt.Println()
				fmt.Print(tui.RenderDetailed(report))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&detail, "detail", "summary", "report detail level: summary, detailed, or both")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the report as JSON")
	cmd.Flags().StringVar(&logDir, "log-dir", "", "override the assistant log directory")
	cmd.Flags().IntVar(&horizon, "horizon", 0, "log file recency horizon in hours")
	return cmd
}
