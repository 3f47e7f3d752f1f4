package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/napkinwire/internal/config"
	"github.com/janekbaraniewski/napkinwire/internal/toolserver"
	"github.com/janekbaraniewski/napkinwire/internal/version"
)

// NewServeCommand runs the tool server over stdio until EOF or a signal.
func NewServeCommand(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve napkinwire tools to a host agent over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := toolserver.NewServer("napkinwire", version.Version)
			toolset := toolserver.NewToolset(cfg)
			defer toolset.Close()
			toolset.RegisterAll(server)

			if err := server.Run(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
}
