package formatter

import (
	"fmt"
	"io"

	"github.com/penwyp/go-saw-monitor/internal/core/cycle"
	"github.com/penwyp/go-saw-monitor/internal/core/model"
	"github.com/penwyp/go-saw-monitor/internal/util"
)

// SummaryFormatter prints human-readable reports.
type SummaryFormatter struct {
	w io.Writer
}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter(w io.Writer) *SummaryFormatter {
	return &SummaryFormatter{w: w}
}

// FormatTable prints the row count, time span, wood activity and signal
// extremes of a table.
func (f *SummaryFormatter) FormatTable(v TableView) error {
	title := v.Title
	if title == "" {
		title = "Canonical Table Summary"
	}
	f.heading(title)

	t := v.Table
	fmt.Fprintf(f.w, "Rows: %s\n", util.FormatCount(t.Len()))
	if t.IsEmpty() {
		fmt.Fprintln(f.w, "Nothing to show")
		return nil
	}

	first, last := t.Row(0), t.Row(t.Len()-1)
	fmt.Fprintf(f.w, "Span: %s %s → %s %s\n", first.Date, first.TimeOfDay, last.Date, last.TimeOfDay)

	wood := t.Where(func(r model.CanonicalRow) bool { return r.WoodPresent == 1 }).Len()
	fmt.Fprintf(f.w, "Wood present: %s rows (%.1f%%)\n", util.FormatCount(wood), float64(wood)/float64(t.Len())*100)
	fmt.Fprintf(f.w, "Distance total: %s mm\n", util.FormatFloat(t.Sum(model.ColDistance)))
	fmt.Fprintln(f.w)

	fmt.Fprintf(f.w, "%s %s %s %s\n",
		util.PadString("Signal", 14, true),
		util.PadString("Min", 12, false),
		util.PadString("Max", 12, false),
		util.PadString("Mean", 12, false))
	for _, col := range model.ChartColumns() {
		lo, hi, mean := columnStats(t, col)
		fmt.Fprintf(f.w, "%s %s %s %s\n",
			util.PadString(col, 14, true),
			util.PadString(util.FormatFloat(lo), 12, false),
			util.PadString(util.FormatFloat(hi), 12, false),
			util.PadString(util.FormatFloat(mean), 12, false))
	}
	return nil
}

// FormatCycles prints one detail block per cycle.
func (f *SummaryFormatter) FormatCycles(r CycleReport) error {
	f.heading("Cycle Report")
	if r.Source != "" {
		fmt.Fprintf(f.w, "Source: %s\n", r.Source)
	}
	fmt.Fprintf(f.w, "Rows: %s, policy: %s\n", util.FormatCount(r.Rows), r.Policy)
	if len(r.Cycles) == 0 {
		fmt.Fprintln(f.w, "No cycles found")
		return nil
	}
	fmt.Fprintf(f.w, "Cycles detected: %d\n", len(r.Cycles))

	for _, d := range r.Cycles {
		fmt.Fprintln(f.w)
		WriteDetail(f.w, d)
	}
	return nil
}

// WriteDetail prints the detail block of one cycle. Speed is the legacy
// whole-dataset metric.
func WriteDetail(w io.Writer, d cycle.Detail) {
	c := d.Cycle
	fmt.Fprintln(w, util.Colorize(w, util.ColorCyan, fmt.Sprintf("Cycle %d", c.Index)))
	fmt.Fprintf(w, "  Start time:       %s\n", c.StartTime)
	fmt.Fprintf(w, "  End time:         %s\n", c.EndTime)
	fmt.Fprintf(w, "  Cut duration:     %.2f seconds\n", d.DurationSeconds)
	fmt.Fprintf(w, "  Current total:    %.2f A\n", c.CurrentTotal)
	fmt.Fprintf(w, "  Current max:      %.2f A\n", c.CurrentMax)
	fmt.Fprintf(w, "  Current min:      %.2f A\n", c.CurrentMin)
	fmt.Fprintf(w, "  Temperature max:  %.2f °C\n", c.TemperatureMax)
	fmt.Fprintf(w, "  Temperature min:  %.2f °C\n", c.TemperatureMin)
	fmt.Fprintf(w, "  Samples:          %s\n", util.FormatCount(c.SampleCount))
	fmt.Fprintf(w, "  Speed:            %.2f m/s\n", d.AvgSpeed)
}

func (f *SummaryFormatter) heading(title string) {
	rule := util.Separator(f.w, "=", 60)
	fmt.Fprintln(f.w, rule)
	fmt.Fprintln(f.w, util.Colorize(f.w, util.ColorBold, title))
	fmt.Fprintln(f.w, rule)
}

func columnStats(t *model.Table, col string) (lo, hi, mean float64) {
	for i := 0; i < t.Len(); i++ {
		v, _ := t.Row(i).Value(col)
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	if t.Len() > 0 {
		mean = t.Sum(col) / float64(t.Len())
	}
	return lo, hi, mean
}
