package formatter

import (
	"io"

	"github.com/bytedance/sonic"
)

type JSONFormatter struct {
	w io.Writer
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{w: w}
}

type jsonRow struct {
	Date        string  `json:"date"`
	TimeOfDay   string  `json:"time_of_day"`
	Current     float64 `json:"current"`
	SpeedMs     float64 `json:"speed_ms"`
	Temperature float64 `json:"temperature"`
	Distance    float64 `json:"distance"`
	WoodPresent int     `json:"wood_present"`
}

type jsonTable struct {
	Title string    `json:"title,omitempty"`
	Count int       `json:"count"`
	Rows  []jsonRow `json:"rows"`
}

type jsonCycle struct {
	Index           int     `json:"index"`
	Date            string  `json:"date"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	DurationSeconds float64 `json:"duration_seconds"`
	SampleCount     int     `json:"sample_count"`
	CurrentTotal    float64 `json:"current_total"`
	CurrentMax      float64 `json:"current_max"`
	CurrentMin      float64 `json:"current_min"`
	TemperatureMax  float64 `json:"temperature_max"`
	TemperatureMin  float64 `json:"temperature_min"`
	AvgSpeedMs      float64 `json:"avg_speed_ms"`
	PerCycleSpeedMs float64 `json:"per_cycle_speed_ms"`
}

type jsonCycleReport struct {
	Source        string      `json:"source,omitempty"`
	Policy        string      `json:"policy"`
	Rows          int         `json:"rows"`
	DistanceTotal float64     `json:"distance_total_mm"`
	Cycles        []jsonCycle `json:"cycles"`
}

func (f *JSONFormatter) FormatTable(v TableView) error {
	out := jsonTable{Title: v.Title, Count: v.Table.Len(), Rows: make([]jsonRow, 0, v.Table.Len())}
	for _, r := range v.Table.Rows() {
		out.Rows = append(out.Rows, jsonRow{
			Date:        r.Date,
			TimeOfDay:   r.TimeOfDay.String(),
			Current:     r.Current,
			SpeedMs:     r.SpeedMs,
			Temperature: r.Temperature,
			Distance:    r.Distance,
			WoodPresent: r.WoodPresent,
		})
	}
	return f.write(out)
}

func (f *JSONFormatter) FormatCycles(r CycleReport) error {
	out := jsonCycleReport{
		Source:        r.Source,
		Policy:        string(r.Policy),
		Rows:          r.Rows,
		DistanceTotal: r.DistanceTotal,
		Cycles:        make([]jsonCycle, 0, len(r.Cycles)),
	}
	for _, d := range r.Cycles {
		c := d.Cycle
		out.Cycles = append(out.Cycles, jsonCycle{
			Index:           c.Index,
			Date:            c.Date,
			StartTime:       c.StartTime.String(),
			EndTime:         c.EndTime.String(),
			DurationSeconds: d.DurationSeconds,
			SampleCount:     c.SampleCount,
			CurrentTotal:    c.CurrentTotal,
			CurrentMax:      c.CurrentMax,
			CurrentMin:      c.CurrentMin,
			TemperatureMax:  c.TemperatureMax,
			TemperatureMin:  c.TemperatureMin,
			AvgSpeedMs:      d.AvgSpeed,
			PerCycleSpeedMs: d.PerCycleSpeed,
		})
	}
	return f.write(out)
}

func (f *JSONFormatter) write(v interface{}) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = f.w.Write(data)
	return err
}
