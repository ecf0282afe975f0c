package formatter

import (
	"fmt"
	"io"

	"github.com/penwyp/go-saw-monitor/internal/core/cycle"
	"github.com/penwyp/go-saw-monitor/internal/core/model"
)

// TableView is a canonical table prepared for output.
type TableView struct {
	Title string
	Table *model.Table
	// Limit caps the rows drawn by the table format; 0 draws every row.
	// The other formats always cover the whole table.
	Limit int
}

// CycleReport is the result of a segmentation run.
type CycleReport struct {
	Source        string
	Policy        cycle.Policy
	Rows          int
	DistanceTotal float64 // mm, whole table
	Cycles        []cycle.Detail
}

// NewCycleReport describes every cycle against the table it came from.
func NewCycleReport(source string, policy cycle.Policy, cycles []model.Cycle, t *model.Table) CycleReport {
	report := CycleReport{
		Source:        source,
		Policy:        policy,
		Rows:          t.Len(),
		DistanceTotal: t.Sum(model.ColDistance),
		Cycles:        make([]cycle.Detail, 0, len(cycles)),
	}
	for _, c := range cycles {
		report.Cycles = append(report.Cycles, cycle.Describe(c, t))
	}
	return report
}

// Formatter renders tables and cycle reports.
type Formatter interface {
	FormatTable(v TableView) error
	FormatCycles(r CycleReport) error
}

// Formats lists the accepted output format names.
var Formats = []string{"table", "csv", "json", "summary"}

// New returns the formatter named format writing to w.
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case "", "table":
		return NewTableFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "json":
		return NewJSONFormatter(w), nil
	case "summary":
		return NewSummaryFormatter(w), nil
	}
	return nil, fmt.Errorf("unknown output format %q (expected one of %v)", format, Formats)
}

var tableHeaders = []string{"Date", "Time", "Current (A)", "Speed (ms)", "Temp (°C)", "Distance (mm)", "Wood"}

var cycleHeaders = []string{"#", "Date", "Start", "End", "Duration (s)", "Samples",
	"Current Σ", "Current max", "Current min", "Temp max", "Temp min", "Speed (m/s)"}

func displayRow(r model.CanonicalRow) []string {
	return []string{
		r.Date,
		r.TimeOfDay.String(),
		model.FormatValue(r.Current),
		model.FormatValue(r.SpeedMs),
		model.FormatValue(r.Temperature),
		model.FormatValue(r.Distance),
		fmt.Sprintf("%d", r.WoodPresent),
	}
}

func limitRows(t *model.Table, limit int) (*model.Table, int) {
	shown := t.Head(limit)
	return shown, t.Len() - shown.Len()
}
