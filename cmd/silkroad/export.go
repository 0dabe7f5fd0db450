package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/services"
	"github.com/ersonp/silkroad/internal/infrastructure/parsers"
	"github.com/ersonp/silkroad/internal/infrastructure/snapshot/file"
)

type exportFlags struct {
	format   string
	output   string
	snapshot string
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the world graph to file",
		Long:  "Exports entities, attributes, relationships and game states. JSON and CSV output can be read back with import.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, csv, markdown)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&flags.snapshot, "snapshot", "", "Export a turn snapshot file instead of the stored world")

	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) error {
	if !contains(validFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validFormats)
	}

	if flags.snapshot != "" {
		graph, err := file.ReadSnapshot(flags.snapshot)
		if err != nil {
			return fmt.Errorf("reading snapshot: %w", err)
		}
		return exportGraph(graph, flags.format, flags.output)
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		id, err := d.instanceID(ctx)
		if err != nil {
			return err
		}
		graph, err := d.WorldHandler.HandleExport(ctx, id)
		if err != nil {
			return err
		}
		return exportGraph(graph, flags.format, flags.output)
	})
}

func exportGraph(graph *entities.Graph, format, output string) (err error) {
	records := services.ExportRecords(graph)

	var w io.Writer
	if output != "" {
		f, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("creating file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing file: %w", cerr)
			}
		}()
		w = f
	} else {
		w = os.Stdout
	}

	if err := formatRecords(w, format, records); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if output != "" {
		fmt.Printf("Exported %d records to %s\n", len(records), output)
	}

	return nil
}

func formatRecords(w io.Writer, format string, records []parsers.RawRecord) error {
	switch format {
	case "json":
		return formatJSON(w, records)
	case "csv":
		return formatCSV(w, records)
	case "markdown":
		return formatMarkdown(w, records)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func formatJSON(w io.Writer, records []parsers.RawRecord) error {
	if records == nil {
		records = []parsers.RawRecord{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

func formatCSV(w io.Writer, records []parsers.RawRecord) error {
	writer := csv.NewWriter(w)

	header := []string{"kind", "entity_type", "name", "key", "value", "target", "target_type", "relationship"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Kind,
			r.EntityType,
			r.Name,
			r.Key,
			string(r.Value),
			r.Target,
			r.TargetType,
			r.Relationship,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatMarkdown(w io.Writer, records []parsers.RawRecord) error {
	if _, err := fmt.Fprintf(w, "# Exported World\n\nTotal: %d records\n\n", len(records)); err != nil {
		return err
	}

	if _, err := fmt.Fprint(w, "| Kind | Name | Key | Value |\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "|------|------|-----|-------|\n"); err != nil {
		return err
	}

	for _, r := range records {
		key, value := r.Key, string(r.Value)
		switch r.Kind {
		case parsers.KindEntity:
			key = r.EntityType
		case parsers.KindRelationship:
			key, value = r.Relationship, r.Target
		}
		if len(value) > 60 {
			value = value[:57] + "..."
		}
		if _, err := fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
			r.Kind,
			escapeMarkdown(r.Name),
			escapeMarkdown(key),
			escapeMarkdown(value),
		); err != nil {
			return err
		}
	}

	return nil
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
