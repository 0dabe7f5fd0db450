// Package parsers provides parsers for importing scenario records from various formats.
package parsers

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
)

// Record kinds understood by the scenario importer.
const (
	KindEntity       = "entity"
	KindAttribute    = "attribute"
	KindRelationship = "relationship"
	KindState        = "state"
)

// RawRecord is one scenario line parsed from an external source before validation.
//
//   - entity:       entity_type, name
//   - attribute:    name (owning entity), key, value
//   - relationship: name (source entity), target, relationship
//   - state:        key, value
//
// On attribute and relationship records, entity_type and target_type are
// optional and narrow the name lookup to entities of that type.
type RawRecord struct {
	Kind         string          `json:"kind"`
	EntityType   string          `json:"entity_type,omitempty"`
	Name         string          `json:"name,omitempty"`
	Key          string          `json:"key,omitempty"`
	Value        json.RawMessage `json:"value,omitempty"`
	Target       string          `json:"target,omitempty"`
	TargetType   string          `json:"target_type,omitempty"`
	Relationship string          `json:"relationship,omitempty"`
	LineNum      int             `json:"-"` // Line number in source file (set by parser)
}

// Parser defines the interface for parsing scenario records.
type Parser interface {
	Parse(r io.Reader) ([]RawRecord, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONParser{}
	case ".csv":
		return &CSVParser{}
	default:
		return nil
	}
}
