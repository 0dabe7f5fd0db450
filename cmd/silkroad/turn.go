package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ersonp/silkroad/internal/domain/services"
)

type turnFlags struct {
	count int
}

func newTurnCmd() *cobra.Command {
	var flags turnFlags

	cmd := &cobra.Command{
		Use:   "turn",
		Short: "Run game turns",
		Long:  "Resolves every caravan in transit, adjusts market prices and saves the world. New caravans set out when none are left travelling.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTurn(cmd, flags)
		},
	}

	cmd.Flags().IntVarP(&flags.count, "count", "n", DefaultTurnCount, "Number of turns to run")

	return cmd
}

func runTurn(cmd *cobra.Command, flags turnFlags) error {
	if flags.count < 1 || flags.count > MaxTurnCount {
		return fmt.Errorf("invalid --count %d (valid: 1-%d)", flags.count, MaxTurnCount)
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		id, err := d.instanceID(ctx)
		if err != nil {
			return err
		}

		result, err := d.TurnHandler.HandleRun(ctx, id, flags.count)
		for i, report := range result.Reports {
			printTurnReport(os.Stdout, i+1, report)
		}
		if len(result.Spawned) > 0 {
			fmt.Printf("New caravans: %s\n", strings.Join(result.Spawned, ", "))
		}
		return err
	})
}

func printTurnReport(w io.Writer, n int, report *services.TurnReport) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "Turn %d (%s)\n", n, report.TurnID)
	for _, o := range report.Outcomes {
		event := "no event"
		if o.EventTriggered {
			event = fmt.Sprintf("%s (-%.0f%%)", o.Event, o.LossFraction*100)
		}
		p.Fprintf(w, "  %-8s %-7s %3d/%-3d sold at %s for %.2f each, base %.2f, payoff %.2f [%s]\n",
			o.Caravan, o.Good, o.RemainingQuantity, o.Quantity, o.Market, o.UnitPrice, o.BasePayoff, o.Payoff, event)
	}
	for _, s := range report.Skipped {
		p.Fprintf(w, "  %-8s skipped: %s\n", s.Caravan, s.Reason)
	}
	for _, m := range report.Markets {
		if m.Congested {
			p.Fprintf(w, "  market %s congested by %d caravans\n", m.Market, m.CaravanCount)
		}
	}
	p.Fprintf(w, "  %d caravans in transit\n", report.InTransit)
}
