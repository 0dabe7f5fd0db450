package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/silkroad/internal/infrastructure/config"
)

type initFlags struct {
	description string
	seed        bool
}

func newInitCmd() *cobra.Command {
	var flags initFlags

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a world",
		Long:  "Writes the default config if missing, creates the world database and its game instance, and registers the world.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.description, "description", "d", "", "World description")
	cmd.Flags().BoolVar(&flags.seed, "seed", false, "Seed the starter world after creating it")

	return cmd
}

func runInit(cmd *cobra.Command, flags initFlags) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if !config.Exists(cwd) {
		if err := config.WriteDefault(cwd); err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}
		fmt.Printf("Created %s\n", config.ConfigFilePath(cwd))
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		result, err := d.InitHandler.Handle(ctx, d.Config.Game.Type)
		if err != nil {
			return err
		}

		entry := config.WorldEntry{Description: flags.description}
		if existing, err := d.Worlds.Get(d.WorldName); err == nil {
			entry = *existing
			if flags.description != "" {
				entry.Description = flags.description
			}
		}
		if entry.InstanceID == 0 {
			entry.InstanceID = result.Instance.ID
		}
		d.Worlds.Add(d.WorldName, entry)
		if err := d.Worlds.Save(cwd); err != nil {
			return fmt.Errorf("saving worlds: %w", err)
		}

		if result.Created {
			fmt.Printf("World %q initialized with instance %d\n", d.WorldName, result.Instance.ID)
		} else {
			fmt.Printf("World %q already has active instance %d\n", d.WorldName, result.Instance.ID)
		}

		if !flags.seed {
			return nil
		}
		seeded, err := d.WorldHandler.HandleSeed(ctx, entry.InstanceID)
		if err != nil {
			return fmt.Errorf("seeding world: %w", err)
		}
		printSeedResult(seeded)
		return nil
	})
}
