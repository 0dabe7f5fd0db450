package parsers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
)

// CSVParser parses scenario records from CSV.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed records.
// Expected columns: kind, entity_type, name, key, value, target,
// target_type, relationship. Only kind is required.
// The value column holds JSON text.
func (p *CSVParser) Parse(r io.Reader) ([]RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[col] = i
	}

	if _, ok := colIndex["kind"]; !ok {
		return nil, fmt.Errorf("missing required column: kind")
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to RawRecords.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]RawRecord, error) {
	var records []RawRecord
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		record, err := p.parseRow(row, colIndex, lineNum)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// parseRow converts a CSV row to a RawRecord.
func (p *CSVParser) parseRow(row []string, colIndex map[string]int, lineNum int) (RawRecord, error) {
	record := RawRecord{
		Kind:         getColumn(row, colIndex, "kind"),
		EntityType:   getColumn(row, colIndex, "entity_type"),
		Name:         getColumn(row, colIndex, "name"),
		Key:          getColumn(row, colIndex, "key"),
		Target:       getColumn(row, colIndex, "target"),
		TargetType:   getColumn(row, colIndex, "target_type"),
		Relationship: getColumn(row, colIndex, "relationship"),
		LineNum:      lineNum,
	}

	if value := getColumn(row, colIndex, "value"); value != "" {
		if !json.Valid([]byte(value)) {
			return RawRecord{}, fmt.Errorf("line %d: value is not valid JSON: %q", lineNum, value)
		}
		record.Value = json.RawMessage(value)
	}

	return record, nil
}

// getColumn safely retrieves a column value from a row.
func getColumn(row []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(row) {
		return row[idx]
	}
	return ""
}
