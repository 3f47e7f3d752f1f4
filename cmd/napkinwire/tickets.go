package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/napkinwire/internal/config"
	"github.com/janekbaraniewski/napkinwire/internal/tickets"
)

// NewTicketsCommand lists tickets from the project's ticket store.
func NewTicketsCommand(cfg config.Config) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "List project tickets",
		RunE: func(_ *cobra.Command, _ []string) error {
			store := tickets.NewStore(cfg.TicketsPath())
			summaries, err := store.List(status)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Println("No tickets found")
				return nil
			}

			for _, t := range summaries {
				fmt.Printf("%-12s %-12s %-8s %s\n", t.ID, t.Status, t.Priority, t.Title)
			}

			stats := store.Stats()
			fmt.Printf("\n%d todo, %d in progress, %d done, %d blocked\n",
				stats["todo"], stats["in_progress"], stats["done"], stats["blocked"])
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "all", "filter by status: todo, in_progress, done, blocked, or all")
	return cmd
}
