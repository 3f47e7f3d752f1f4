package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/napkinwire/internal/appupdate"
	"github.com/janekbaraniewski/napkinwire/internal/version"
)

// NewVersionCommand prints build metadata plus a best-effort update check.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Println("napkinwire " + version.String())

			result, err := appupdate.Check(cmd.Context(), appupdate.CheckOptions{
				CurrentVersion: version.Version,
			})
			if err != nil || !result.UpdateAvailable {
				return
			}
			fmt.Printf("Update available: %s -> %s\n", result.CurrentVersion, result.LatestVersion)
		},
	}
}
