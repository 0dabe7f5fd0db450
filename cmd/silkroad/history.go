package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type historyFlags struct {
	limit int
}

func newHistoryCmd() *cobra.Command {
	var flags historyFlags

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent turns",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				id, err := d.instanceID(ctx)
				if err != nil {
					return err
				}
				turns, err := d.WorldHandler.HandleHistory(ctx, id, flags.limit)
				if err != nil {
					return err
				}
				if len(turns) == 0 {
					fmt.Println("No turns recorded")
					return nil
				}
				for _, turn := range turns {
					fmt.Printf("%s  %s  resolved=%v skipped=%v in_transit=%v capital_delta=%v\n",
						turn.CreatedAt.Format("2006-01-02 15:04:05"), turn.TurnID,
						turn.Details["resolved"], turn.Details["skipped"],
						turn.Details["in_transit"], turn.Details["capital_delta"])
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&flags.limit, "limit", "l", DefaultHistoryLimit, "Maximum number of turns to show")

	return cmd
}
