package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/napkinwire/internal/config"
	"github.com/janekbaraniewski/napkinwire/internal/projtree"
)

// NewTreeCommand prints the annotated project tree.
func NewTreeCommand(cfg config.Config) *cobra.Command {
	var (
		stats  bool
		filter string
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the project file tree with extracted descriptions",
		RunE: func(_ *cobra.Command, _ []string) error {
			result, err := projtree.Build(cfg.ProjectRoot(), projtree.Options{
				IncludeStats: stats,
				FilterExt:    filter,
			})
			if err != nil {
				return err
			}
			fmt.Println(result.FormattedOutput)
			fmt.Printf("\n%d items in %.2fs\n", result.TotalItems, result.ProcessingSecs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "include file sizes and modification times")
	cmd.Flags().StringVar(&filter, "filter", "", "keep only files with this extension (without dot)")
	return cmd
}
