package main

// Default values for CLI commands.
const (
	DefaultWorld        = "default"
	DefaultTurnCount    = 1
	DefaultHistoryLimit = 20
	MaxTurnCount        = 1000
)

// Valid export formats.
var validFormats = []string{"json", "csv", "markdown"}
