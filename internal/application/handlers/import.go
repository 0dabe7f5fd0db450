package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/silkroad/internal/domain/services"
	"github.com/ersonp/silkroad/internal/infrastructure/parsers"
)

// ImportHandler loads scenario files into a game instance.
type ImportHandler struct {
	service *services.ImportService
}

// NewImportHandler creates a new import handler.
func NewImportHandler(service *services.ImportService) *ImportHandler {
	return &ImportHandler{service: service}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	Format string // "json", "csv", or "auto"
	DryRun bool   // Apply to a copy of the graph without persisting
}

// Handle parses filePath and applies its records to the instance. Record
// level problems are returned in the result, not as an error.
func (h *ImportHandler) Handle(ctx context.Context, instanceID int64, filePath string, opts ImportOptions) (*services.ImportResult, error) {
	parser := parserFor(filePath, opts.Format)
	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening scenario: %w", err)
	}
	defer f.Close()

	records, err := parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	if len(records) == 0 {
		return &services.ImportResult{}, nil
	}

	return h.service.Import(ctx, instanceID, records, services.ImportOptions{DryRun: opts.DryRun})
}

func parserFor(filePath, format string) parsers.Parser {
	if format == "" || format == "auto" {
		return parsers.ForFile(filePath)
	}
	return parsers.ForFormat(format)
}
