package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ersonp/silkroad/internal/application/handlers"
)

type statusFlags struct {
	json bool
}

func newStatusCmd() *cobra.Command {
	var flags statusFlags

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show merchants, caravans and markets",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				id, err := d.instanceID(ctx)
				if err != nil {
					return err
				}
				status, err := d.WorldHandler.HandleStatus(ctx, id)
				if err != nil {
					return err
				}
				if flags.json {
					encoder := json.NewEncoder(os.Stdout)
					encoder.SetIndent("", "  ")
					return encoder.Encode(status)
				}
				printStatus(os.Stdout, status)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&flags.json, "json", false, "Output as JSON")

	return cmd
}

func printStatus(w io.Writer, status *handlers.WorldStatus) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "Instance %d (%s), last updated %s\n",
		status.Instance.ID, status.Instance.GameType, status.Instance.LastUpdated.Format("2006-01-02 15:04:05"))

	fmt.Fprintln(w, "\nMerchants:")
	for _, m := range status.Merchants {
		line := p.Sprintf("  %-10s capital %12.2f  reputation %.2f", m.Name, m.Capital, m.Reputation)
		fmt.Fprintln(w, line+unreadableSuffix(m.Unreadable))
	}

	p.Fprintf(w, "\nCaravans (%d in transit):\n", status.InTransit)
	for _, c := range status.Caravans {
		line := p.Sprintf("  %-8s %-10s %-7s x%-4d %s", c.Name, c.Status, c.Good, c.Quantity, c.Route)
		if c.Payoff != nil {
			line += p.Sprintf("  payoff %.2f", *c.Payoff)
		}
		fmt.Fprintln(w, line+unreadableSuffix(c.Unreadable))
	}

	fmt.Fprintln(w, "\nMarkets:")
	for _, m := range status.Markets {
		goods := make([]string, 0, len(m.Demand))
		for good := range m.Demand {
			goods = append(goods, good)
		}
		sort.Strings(goods)
		fmt.Fprintln(w, "  "+m.Name+unreadableSuffix(m.Unreadable))
		for _, good := range goods {
			d := m.Demand[good]
			p.Fprintf(w, "    %-8s price %8.2f  max %d\n", good, d.Price, d.MaxQuantity)
		}
	}
}

func unreadableSuffix(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return "  (unreadable: " + strings.Join(keys, ", ") + ")"
}
