package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-saw-monitor/internal/util"
)

type TableFormatter struct {
	w io.Writer
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{w: w}
}

func (f *TableFormatter) FormatTable(v TableView) error {
	shown, hidden := limitRows(v.Table, v.Limit)

	rows := make([][]string, 0, shown.Len())
	for _, r := range shown.Rows() {
		rows = append(rows, displayRow(r))
	}

	if v.Title != "" {
		fmt.Fprintln(f.w, util.Colorize(f.w, util.ColorBold, v.Title))
	}
	f.render(tableHeaders, rows, 2)

	if hidden > 0 {
		fmt.Fprintf(f.w, "… %s more rows (%s total)\n", util.FormatCount(hidden), util.FormatCount(v.Table.Len()))
	}
	return nil
}

func (f *TableFormatter) FormatCycles(r CycleReport) error {
	if len(r.Cycles) == 0 {
		fmt.Fprintln(f.w, util.Colorize(f.w, util.ColorYellow, "No cycles found"))
		return nil
	}

	rows := make([][]string, 0, len(r.Cycles))
	for _, d := range r.Cycles {
		c := d.Cycle
		rows = append(rows, []string{
			fmt.Sprintf("%d", c.Index),
			c.Date,
			c.StartTime.String(),
			c.EndTime.String(),
			fmt.Sprintf("%.0f", d.DurationSeconds),
			util.FormatCount(c.SampleCount),
			util.FormatFloat(c.CurrentTotal),
			util.FormatFloat(c.CurrentMax),
			util.FormatFloat(c.CurrentMin),
			util.FormatFloat(c.TemperatureMax),
			util.FormatFloat(c.TemperatureMin),
			fmt.Sprintf("%.2f", d.AvgSpeed),
		})
	}
	f.render(cycleHeaders, rows, 4)
	return nil
}

// render draws a boxed table. The first leftCols columns are left-aligned,
// the rest right-aligned.
func (f *TableFormatter) render(headers []string, rows [][]string, leftCols int) {
	widths := calculateColumnWidths(headers, rows)

	f.printBorder(widths, "top")
	f.printRow(headers, widths, len(headers))
	f.printBorder(widths, "middle")
	for _, row := range rows {
		f.printRow(row, widths, leftCols)
	}
	f.printBorder(widths, "bottom")
}

// calculateColumnWidths sizes each column to its widest cell, with a minimum of 4.
func calculateColumnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = max(4, util.GetDisplayWidth(h))
	}
	for _, row := range rows {
		for i, value := range row {
			widths[i] = max(widths[i], util.GetDisplayWidth(value))
		}
	}
	return widths
}

func (f *TableFormatter) printBorder(widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	var b strings.Builder
	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	fmt.Fprintln(f.w, b.String())
}

func (f *TableFormatter) printRow(values []string, widths []int, leftCols int) {
	var b strings.Builder
	b.WriteString("│")
	for i, value := range values {
		b.WriteString(" ")
		b.WriteString(util.PadString(value, widths[i], i < leftCols))
		b.WriteString(" │")
	}
	fmt.Fprintln(f.w, b.String())
}
