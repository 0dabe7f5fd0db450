package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/silkroad/internal/domain/services"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the starter world",
		Long:  "Adds the starter merchants, caravans, tribe, ruler, markets and game states. Parts that already exist are left alone.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				id, err := d.instanceID(ctx)
				if err != nil {
					return err
				}
				result, err := d.WorldHandler.HandleSeed(ctx, id)
				if err != nil {
					return err
				}
				printSeedResult(result)
				return nil
			})
		},
	}
}

func printSeedResult(result *services.SeedResult) {
	if *result == (services.SeedResult{}) {
		fmt.Println("World already seeded")
		return
	}
	fmt.Printf("Seeded %d entities, %d attributes, %d relationships, %d states\n",
		result.Entities, result.Attributes, result.Relationships, result.States)
}
