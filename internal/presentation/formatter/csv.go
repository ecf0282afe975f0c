package formatter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/penwyp/go-saw-monitor/internal/core/model"
)

type CSVFormatter struct {
	w io.Writer
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: w}
}

func (f *CSVFormatter) FormatTable(v TableView) error {
	w := csv.NewWriter(f.w)
	if err := w.Write(model.CanonicalColumns); err != nil {
		return err
	}
	for i := 0; i < v.Table.Len(); i++ {
		if err := w.Write(v.Table.Row(i).Record()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (f *CSVFormatter) FormatCycles(r CycleReport) error {
	w := csv.NewWriter(f.w)
	headers := []string{
		"index", "date", "start_time", "end_time", "duration_seconds", "sample_count",
		"current_total", "current_max", "current_min", "temperature_max", "temperature_min",
		"avg_speed_ms", "per_cycle_speed_ms",
	}
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, d := range r.Cycles {
		c := d.Cycle
		record := []string{
			fmt.Sprintf("%d", c.Index),
			c.Date,
			c.StartTime.String(),
			c.EndTime.String(),
			model.FormatValue(d.DurationSeconds),
			fmt.Sprintf("%d", c.SampleCount),
			model.FormatValue(c.CurrentTotal),
			model.FormatValue(c.CurrentMax),
			model.FormatValue(c.CurrentMin),
			model.FormatValue(c.TemperatureMax),
			model.FormatValue(c.TemperatureMin),
			fmt.Sprintf("%.4f", d.AvgSpeed),
			fmt.Sprintf("%.4f", d.PerCycleSpeed),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
