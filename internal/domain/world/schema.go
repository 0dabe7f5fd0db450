package world

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://silkroad.local/schemas/"

// attributeSchemas maps attribute keys to their schema file.
var attributeSchemas = map[entities.AttributeKey]string{
	entities.AttrGoods:      "goods.schema.json",
	entities.AttrRoute:      "route.schema.json",
	entities.AttrInvestment: "value.schema.json",
	entities.AttrStatus:     "status.schema.json",
	entities.AttrCapital:    "value.schema.json",
	entities.AttrDemand:     "demand.schema.json",
	entities.AttrPayoff:     "value.schema.json",
	entities.AttrReputation: "value.schema.json",
	entities.AttrTollRate:   "value.schema.json",
	entities.AttrAggression: "value.schema.json",
	entities.AttrTaxRate:    "value.schema.json",
}

// stateSchemas maps game state keys to their schema file.
var stateSchemas = map[entities.StateKey]string{
	entities.StateMarketPrices: "market_prices.schema.json",
	entities.StateRandomEvents: "random_events.schema.json",
}

var compiledSchemas = sync.OnceValues(compileSchemas)

func compileSchemas() (map[string]*jsonschema.Schema, error) {
	files, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("reading schemas: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	for _, f := range files {
		data, err := schemaFS.ReadFile("schemas/" + f.Name())
		if err != nil {
			return nil, fmt.Errorf("reading schema %s: %w", f.Name(), err)
		}
		if err := compiler.AddResource(schemaBaseURL+f.Name(), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("adding schema %s: %w", f.Name(), err)
		}
	}

	schemas := make(map[string]*jsonschema.Schema, len(files))
	for _, f := range files {
		s, err := compiler.Compile(schemaBaseURL + f.Name())
		if err != nil {
			return nil, fmt.Errorf("compiling schema %s: %w", f.Name(), err)
		}
		schemas[f.Name()] = s
	}
	return schemas, nil
}

// validate checks raw against the named schema. An empty name skips
// validation for keys without a registered shape.
func validate(schemaName string, raw json.RawMessage) error {
	if schemaName == "" {
		return nil
	}
	schemas, err := compiledSchemas()
	if err != nil {
		return err
	}
	s, ok := schemas[schemaName]
	if !ok {
		return fmt.Errorf("unknown schema: %s", schemaName)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	return s.Validate(v)
}

// ValidateAttribute checks a raw attribute payload against the shape
// registered for key. Keys without a registered shape only need to be
// valid JSON.
func ValidateAttribute(key entities.AttributeKey, raw json.RawMessage) error {
	if !json.Valid(raw) {
		return fmt.Errorf("%w: %s: invalid JSON", ErrMalformed, key)
	}
	if err := validate(attributeSchemas[key], raw); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	return nil
}

// ValidateState checks a raw game state payload against the shape
// registered for key.
func ValidateState(key entities.StateKey, raw json.RawMessage) error {
	if !json.Valid(raw) {
		return fmt.Errorf("%w: %s: invalid JSON", ErrMalformed, key)
	}
	if err := validate(stateSchemas[key], raw); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	return nil
}
