package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInstancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "instances",
		Short: "List game instances of the world",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				list, err := d.WorldHandler.HandleList(ctx)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					fmt.Println("No instances (run 'silkroad init')")
					return nil
				}

				pinned, _ := d.Worlds.InstanceID(d.WorldName)
				for _, inst := range list {
					marker := " "
					if inst.ID == pinned {
						marker = "*"
					}
					state := "active"
					if !inst.IsActive {
						state = "inactive"
					}
					fmt.Printf("%s %4d  %-10s %-8s created %s  updated %s\n",
						marker, inst.ID, inst.GameType, state,
						inst.CreatedAt.Format("2006-01-02 15:04"),
						inst.LastUpdated.Format("2006-01-02 15:04"))
				}
				return nil
			})
		},
	}
}
