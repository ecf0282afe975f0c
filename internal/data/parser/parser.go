package parser

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/penwyp/go-saw-monitor/internal/core/model"
	"github.com/penwyp/go-saw-monitor/internal/util"
)

const clockLayout = "15:04:05"

// Options describes the layout of one whitespace-delimited log.
type Options struct {
	DateColumn string
	TimeColumn string
	// Numeric lists the columns coerced to float64. Columns absent from the
	// header are ignored; callers resolve which ones they need via Table.Has.
	Numeric []string
	// DateLayouts are tried in order against the date field.
	DateLayouts []string
}

// Row is one parsed line.
type Row struct {
	Line      int
	Timestamp time.Time
	Values    map[string]float64
}

// Value returns a numeric column, 0 when it was not declared.
func (r Row) Value(col string) float64 {
	return r.Values[col]
}

// Table is the typed content of one log file.
type Table struct {
	Path   string
	Header []string
	Rows   []Row
	// Skipped counts lines dropped for a wrong field count or an unreadable
	// timestamp.
	Skipped int
}

// Has reports whether col is part of the header.
func (t *Table) Has(col string) bool {
	for _, h := range t.Header {
		if h == col {
			return true
		}
	}
	return false
}

// Len returns the number of parsed rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Parser reads sensor logs into typed tables.
type Parser struct {
	defaultLayouts []string
}

// NewParser creates a Parser. layouts is used when Options.DateLayouts is empty.
func NewParser(layouts ...string) *Parser {
	if len(layouts) == 0 {
		layouts = []string{"2006-01-02"}
	}
	return &Parser{defaultLayouts: layouts}
}

// ParseFile parses the log at path. A missing or unreadable file, or a header
// without the date and time columns, yields an error wrapping
// model.ErrLoadFailed. Bad lines are skipped and counted in Table.Skipped;
// numeric values that cannot be read become 0.
func (p *Parser) ParseFile(path string, opts Options) (*Table, error) {
	start := time.Now()
	util.LogDebugf("Start parsing file: %s", path)

	file, err := os.Open(path)
	if err != nil {
		util.LogDebugf("Failed to open file: %s - %v", path, err)
		return nil, fmt.Errorf("%w: %v", model.ErrLoadFailed, err)
	}
	defer file.Close()

	layouts := opts.DateLayouts
	if len(layouts) == 0 {
		layouts = p.defaultLayouts
	}

	table := &Table{Path: path}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var dateIdx, timeIdx int
	var numericIdx map[string]int
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(decodeLine(scanner.Text()))
		if len(fields) == 0 {
			continue
		}

		if table.Header == nil {
			table.Header = fields
			dateIdx, timeIdx, numericIdx, err = indexColumns(fields, opts)
			if err != nil {
				return nil, fmt.Errorf("%s: %w: %v", path, model.ErrLoadFailed, err)
			}
			continue
		}

		if len(fields) != len(table.Header) {
			util.LogDebugf("Skip malformed line %s:%d - %d fields, want %d", path, lineNo, len(fields), len(table.Header))
			table.Skipped++
			continue
		}

		ts, err := parseTimestamp(fields[dateIdx], fields[timeIdx], layouts)
		if err != nil {
			util.LogDebugf("Skip line %s:%d - %v", path, lineNo, err)
			table.Skipped++
			continue
		}

		row := Row{Line: lineNo, Timestamp: ts, Values: make(map[string]float64, len(numericIdx))}
		for col, idx := range numericIdx {
			row.Values[col] = CoerceFloat(fields[idx])
		}
		table.Rows = append(table.Rows, row)
	}

	if err := scanner.Err(); err != nil {
		util.LogDebugf("Error scanning file: %s - %v", path, err)
		return nil, fmt.Errorf("%s: %w: %v", path, model.ErrLoadFailed, err)
	}
	if table.Header == nil {
		return nil, fmt.Errorf("%s: %w: empty file", path, model.ErrLoadFailed)
	}

	util.LogDebugf("Parsed %s: %d rows, %d skipped, took %v", path, len(table.Rows), table.Skipped, time.Since(start))
	return table, nil
}

func indexColumns(header []string, opts Options) (int, int, map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	dateIdx, ok := pos[opts.DateColumn]
	if !ok {
		return 0, 0, nil, fmt.Errorf("missing date column %q", opts.DateColumn)
	}
	timeIdx, ok := pos[opts.TimeColumn]
	if !ok {
		return 0, 0, nil, fmt.Errorf("missing time column %q", opts.TimeColumn)
	}
	numeric := make(map[string]int, len(opts.Numeric))
	for _, col := range opts.Numeric {
		if idx, ok := pos[col]; ok {
			numeric[col] = idx
		}
	}
	return dateIdx, timeIdx, numeric, nil
}

func parseTimestamp(date, clock string, layouts []string) (time.Time, error) {
	value := date + " " + clock
	for _, layout := range layouts {
		if ts, err := time.Parse(layout+" "+clockLayout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}

// CoerceFloat reads a numeric field. Anything that is not a finite number
// becomes 0.
func CoerceFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// decodeLine converts Latin-1 input to UTF-8. The acquisition software writes
// headers such as "Temperatura(ºC)" in either encoding.
func decodeLine(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	runes := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		runes[i] = rune(s[i])
	}
	return string(runes)
}
