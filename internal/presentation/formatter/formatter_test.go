package formatter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-saw-monitor/internal/core/cycle"
	"github.com/penwyp/go-saw-monitor/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *model.Table {
	var rows []model.CanonicalRow
	for i, w := range []int{0, 1, 1, 1, 0} {
		rows = append(rows, model.CanonicalRow{
			Date:        "2024-03-01",
			TimeOfDay:   model.NewClock(9, 0, i),
			Current:     float64(10 + i),
			SpeedMs:     250,
			Temperature: 20.5,
			Distance:    100,
			WoodPresent: w,
		})
	}
	return model.NewTable(rows)
}

func sampleReport(t *testing.T) CycleReport {
	t.Helper()
	table := sampleTable()
	cycles, err := cycle.Detect(table, cycle.CloseOnTransitionOnly)
	require.NoError(t, err)
	return NewCycleReport("datos_exportados.txt", cycle.CloseOnTransitionOnly, cycles, table)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	for _, name := range append(Formats, "") {
		f, err := New(name, &buf)
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}
	_, err := New("xml", &buf)
	assert.Error(t, err)
}

func TestNewCycleReport(t *testing.T) {
	report := sampleReport(t)
	assert.Equal(t, 5, report.Rows)
	assert.Equal(t, 500.0, report.DistanceTotal)
	require.Len(t, report.Cycles, 1)
	assert.Equal(t, 2.0, report.Cycles[0].DurationSeconds)
	assert.InDelta(t, 0.25, report.Cycles[0].AvgSpeed, 1e-9)
}

func TestTableFormatterRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf).FormatTable(TableView{Title: "Run A", Table: sampleTable(), Limit: 2}))

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "Run A", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "┌"))
	assert.Contains(t, lines[2], "Temp (°C)")
	assert.Contains(t, out, "09:00:01")
	assert.NotContains(t, out, "09:00:02")
	assert.Contains(t, out, "… 3 more rows (5 total)")

	// Every boxed line has the same display width.
	width := len([]rune(lines[1]))
	for _, line := range lines[1:5] {
		assert.Equal(t, width, len([]rune(line)), line)
	}
}

func TestTableFormatterCycles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf).FormatCycles(sampleReport(t)))
	out := buf.String()
	assert.Contains(t, out, "Speed (m/s)")
	assert.Contains(t, out, "09:00:01")
	assert.Contains(t, out, "09:00:03")
	assert.Contains(t, out, "0.25")

	buf.Reset()
	require.NoError(t, NewTableFormatter(&buf).FormatCycles(CycleReport{}))
	assert.Equal(t, "No cycles found\n", buf.String())
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter(&buf).FormatTable(TableView{Table: sampleTable(), Limit: 1}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6, "limit does not apply to csv")
	assert.Equal(t, "date,time_of_day,current,speed_ms,temperature,distance,wood_present", lines[0])
	assert.Equal(t, "2024-03-01,09:00:00,10,250,20.5,100,0", lines[1])

	buf.Reset()
	require.NoError(t, NewCSVFormatter(&buf).FormatCycles(sampleReport(t)))
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1,2024-03-01,09:00:01,09:00:03,2,3,36,13,11,20.5,20.5,0.2500,0.1500", lines[1])
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf).FormatCycles(sampleReport(t)))

	var decoded struct {
		Policy string `json:"policy"`
		Rows   int    `json:"rows"`
		Cycles []struct {
			Index       int     `json:"index"`
			StartTime   string  `json:"start_time"`
			SampleCount int     `json:"sample_count"`
			AvgSpeedMs  float64 `json:"avg_speed_ms"`
		} `json:"cycles"`
	}
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "close-on-transition-only", decoded.Policy)
	assert.Equal(t, 5, decoded.Rows)
	require.Len(t, decoded.Cycles, 1)
	assert.Equal(t, "09:00:01", decoded.Cycles[0].StartTime)
	assert.Equal(t, 3, decoded.Cycles[0].SampleCount)
	assert.InDelta(t, 0.25, decoded.Cycles[0].AvgSpeedMs, 1e-9)

	buf.Reset()
	require.NoError(t, NewJSONFormatter(&buf).FormatTable(TableView{Table: model.NewTable(nil)}))
	assert.Contains(t, buf.String(), `"rows": []`)
}

func TestSummaryFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSummaryFormatter(&buf).FormatTable(TableView{Table: sampleTable()}))
	out := buf.String()
	assert.Contains(t, out, "Canonical Table Summary")
	assert.Contains(t, out, "Rows: 5")
	assert.Contains(t, out, "Span: 2024-03-01 09:00:00 → 2024-03-01 09:00:04")
	assert.Contains(t, out, "Wood present: 3 rows (60.0%)")
	assert.Contains(t, out, "Distance total: 500 mm")

	buf.Reset()
	require.NoError(t, NewSummaryFormatter(&buf).FormatCycles(sampleReport(t)))
	out = buf.String()
	assert.Contains(t, out, "Cycles detected: 1")
	assert.Contains(t, out, "Cut duration:     2.00 seconds")
	assert.Contains(t, out, "Current total:    36.00 A")
	assert.Contains(t, out, "Speed:            0.25 m/s")
}

func TestSummaryFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSummaryFormatter(&buf).FormatTable(TableView{Title: "Filtered", Table: model.NewTable(nil)}))
	assert.Contains(t, buf.String(), "Nothing to show")

	buf.Reset()
	require.NoError(t, NewSummaryFormatter(&buf).FormatCycles(CycleReport{Policy: cycle.CloseAtEnd}))
	assert.Contains(t, buf.String(), "No cycles found")
}
