package source

import "time"

// Format is the encoding of an import file.
type Format string

// Supported import formats.
const (
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
)

// DiscoveredFile is one importable file found by ScanPath.
type DiscoveredFile struct {
	Path   string
	Format Format
}

// RawMeal is a single line of a JSONL import file.
type RawMeal struct {
	Description string `json:"description"`
	Calories    int    `json:"calories"`
	Timestamp   string `json:"timestamp,omitempty"`
}

// ParsedMeal is a meal read from a file, not yet validated by the ledger.
type ParsedMeal struct {
	Line        int
	Description string
	Calories    int
	At          time.Time
}

// LineError records a line that could not be parsed.
type LineError struct {
	Line int
	Err  error
}

// ParseResult holds the output of parsing a single import file.
type ParseResult struct {
	File   DiscoveredFile
	Meals  []ParsedMeal
	Errors []LineError
	Err    error
}

// ParseErrors returns the number of lines that failed to parse.
func (r ParseResult) ParseErrors() int {
	return len(r.Errors)
}
