package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/napkinwire/internal/config"
)

func main() {
	if os.Getenv("NAPKINWIRE_DEBUG") != "" {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintf(os.Stderr, "Config path: %s\n", config.ConfigPath())
		os.Exit(1)
	}

	root := cobra.Command{
		Use:   "napkinwire",
		Short: "NapkinWire is a project toolbelt for assistant sessions: tickets, roadmap, diagrams, and usage-window analysis.",
	}

	root.AddCommand(
		NewServeCommand(cfg),
		NewUsageCommand(cfg),
		NewWatchCommand(cfg),
		NewTicketsCommand(cfg),
		NewTreeCommand(cfg),
		NewVersionCommand(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
