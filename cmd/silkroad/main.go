// Package main provides the entry point for the silkroad CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version        = "0.1.0-dev"
	globalWorld    string
	globalInstance int64
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:           "silkroad",
		Short:         "A turn-based Silk Road trading simulation",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalWorld, "world", "w", DefaultWorld, "World to operate on")
	rootCmd.PersistentFlags().Int64VarP(&globalInstance, "instance", "i", 0, "Game instance ID (default: the world's instance, else newest active)")

	rootCmd.AddCommand(
		newInitCmd(),
		newSeedCmd(),
		newTurnCmd(),
		newStatusCmd(),
		newInstancesCmd(),
		newImportCmd(),
		newExportCmd(),
		newHistoryCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
