// Package source discovers and parses meal import files. Two formats are
// read: JSONL with one RawMeal per line, and the CSV written by
// `calburn export`.
package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/calburn/internal/ledger"
)

// Column names recognised in CSV headers. Extra columns such as id are ignored.
const (
	colDate        = "date"
	colTime        = "time"
	colTimestamp   = "timestamp"
	colDescription = "description"
	colCalories    = "calories"
)

// ParseFile reads one import file. Timestamps without a zone are read in
// loc; empty timestamps mean now. A bad line is recorded and skipped, only
// an unreadable file sets Err.
func ParseFile(df DiscoveredFile, now time.Time, loc *time.Location) ParseResult {
	result := ParseResult{File: df}

	f, err := os.Open(df.Path)
	if err != nil {
		result.Err = err
		return result
	}
	defer func() { _ = f.Close() }()

	switch df.Format {
	case FormatJSONL:
		result.Err = parseJSONL(f, now, loc, &result)
	case FormatCSV:
		result.Err = parseCSV(f, now, loc, &result)
	default:
		result.Err = fmt.Errorf("unsupported import format %q", df.Format)
	}
	return result
}

func parseJSONL(r io.Reader, now time.Time, loc *time.Location, result *ParseResult) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		var raw RawMeal
		if err := json.Unmarshal(line, &raw); err != nil {
			result.Errors = append(result.Errors, LineError{Line: lineNo, Err: err})
			continue
		}
		at, err := ledger.ParseTimestamp(raw.Timestamp, now, loc)
		if err != nil {
			result.Errors = append(result.Errors, LineError{Line: lineNo, Err: err})
			continue
		}
		result.Meals = append(result.Meals, ParsedMeal{
			Line:        lineNo,
			Description: raw.Description,
			Calories:    raw.Calories,
			At:          at,
		})
	}
	return scanner.Err()
}

func parseCSV(r io.Reader, now time.Time, loc *time.Location, result *ParseResult) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols[colDescription]; !ok {
		return fmt.Errorf("csv header has no %q column", colDescription)
	}
	if _, ok := cols[colCalories]; !ok {
		return fmt.Errorf("csv header has no %q column", colCalories)
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	lineNo := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		lineNo++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				result.Errors = append(result.Errors, LineError{Line: perr.Line, Err: err})
				continue
			}
			return err
		}

		kcal, err := strconv.Atoi(field(rec, colCalories))
		if err != nil {
			result.Errors = append(result.Errors, LineError{Line: lineNo, Err: fmt.Errorf("calories: %w", err)})
			continue
		}

		ts := field(rec, colTimestamp)
		if ts == "" {
			ts = strings.TrimSpace(field(rec, colDate) + " " + field(rec, colTime))
		}
		at, err := ledger.ParseTimestamp(ts, now, loc)
		if err != nil {
			result.Errors = append(result.Errors, LineError{Line: lineNo, Err: err})
			continue
		}

		result.Meals = append(result.Meals, ParsedMeal{
			Line:        lineNo,
			Description: field(rec, colDescription),
			Calories:    kcal,
			At:          at,
		})
	}
}
