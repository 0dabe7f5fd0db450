package parsers

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONParser_Parse_ValidInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []RawRecord
	}{
		{
			name:  "single entity",
			input: `[{"kind": "entity", "entity_type": "Market", "name": "KashgarMarket"}]`,
			expected: []RawRecord{
				{Kind: "entity", EntityType: "Market", Name: "KashgarMarket", LineNum: 1},
			},
		},
		{
			name:     "empty array",
			input:    "[]",
			expected: []RawRecord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &JSONParser{}
			result, err := parser.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestJSONParser_Parse_AttributeValue(t *testing.T) {
	input := `[
		{"kind": "entity", "entity_type": "Caravan", "name": "SG-100"},
		{"kind": "attribute", "name": "SG-100", "key": "Goods", "value": {"type": "Silk", "quantity": 40}}
	]`

	parser := &JSONParser{}
	result, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result, 2)

	attr := result[1]
	assert.Equal(t, KindAttribute, attr.Kind)
	assert.Equal(t, "SG-100", attr.Name)
	assert.Equal(t, "Goods", attr.Key)
	assert.JSONEq(t, `{"type":"Silk","quantity":40}`, string(attr.Value))
	assert.Equal(t, 2, attr.LineNum)
}

func TestJSONParser_Parse_InvalidInput(t *testing.T) {
	parser := &JSONParser{}
	_, err := parser.Parse(strings.NewReader("not json"))
	require.Error(t, err)
}

func TestCSVParser_Parse_ValidInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []RawRecord
	}{
		{
			name:  "kind column only",
			input: "kind\nentity\n",
			expected: []RawRecord{
				{Kind: "entity", LineNum: 2},
			},
		},
		{
			name:     "empty CSV (header only)",
			input:    "kind,name\n",
			expected: nil,
		},
		{
			name:  "relationship columns in different order",
			input: "relationship,target,name,kind\nTrade,ChangAnMarket,SG-100,relationship\n",
			expected: []RawRecord{
				{Kind: "relationship", Name: "SG-100", Target: "ChangAnMarket", Relationship: "Trade", LineNum: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &CSVParser{}
			result, err := parser.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCSVParser_Parse_JSONValue(t *testing.T) {
	input := "kind,name,key,value\n" +
		`attribute,Player,Capital,"{""value"":1000}"` + "\n"

	parser := &CSVParser{}
	result, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, json.RawMessage(`{"value":1000}`), result[0].Value)
}

func TestCSVParser_Parse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{
			name:   "missing kind column",
			input:  "name,key\nPlayer,Capital\n",
			errMsg: "missing required column: kind",
		},
		{
			name:   "invalid value JSON",
			input:  "kind,name,key,value\nattribute,Player,Capital,{oops\n",
			errMsg: "line 2: value is not valid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &CSVParser{}
			_, err := parser.Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestForFormat(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFormat("json"))
	assert.IsType(t, &CSVParser{}, ForFormat("CSV"))
	assert.Nil(t, ForFormat("unknown"))
}

func TestForFile(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFile("scenario.json"))
	assert.IsType(t, &CSVParser{}, ForFile("scenario.csv"))
	assert.Nil(t, ForFile("file.txt"))
	assert.Nil(t, ForFile("noextension"))
}
