package cycle

import (
	"testing"

	"github.com/penwyp/go-saw-monitor/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// woodTable builds one row per second from 10:00:00 with the given flags.
// current = 10+i, temperature = 20+i, distance = 100.
func woodTable(flags ...int) *model.Table {
	rows := make([]model.CanonicalRow, len(flags))
	for i, w := range flags {
		rows[i] = model.CanonicalRow{
			Date:        "2024-03-01",
			TimeOfDay:   model.NewClock(10, 0, i),
			Current:     float64(10 + i),
			Temperature: float64(20 + i),
			Distance:    100,
			WoodPresent: w,
		}
	}
	return model.NewTable(rows)
}

func TestDetectTwoCycles(t *testing.T) {
	cycles, err := Detect(woodTable(0, 1, 1, 1, 0, 0, 1, 0), CloseOnTransitionOnly)
	require.NoError(t, err)
	require.Len(t, cycles, 2)

	first := cycles[0]
	assert.Equal(t, 1, first.Index)
	assert.Equal(t, "10:00:01", first.StartTime.String())
	assert.Equal(t, "10:00:03", first.EndTime.String())
	assert.Equal(t, 3, first.SampleCount)
	assert.Equal(t, 11.0+12+13, first.CurrentTotal)
	assert.Equal(t, 13.0, first.CurrentMax)
	assert.Equal(t, 11.0, first.CurrentMin)
	assert.Equal(t, 23.0, first.TemperatureMax)
	assert.Equal(t, 21.0, first.TemperatureMin)
	assert.Equal(t, 2.0, first.DurationSeconds())

	second := cycles[1]
	assert.Equal(t, 2, second.Index)
	assert.Equal(t, "10:00:06", second.StartTime.String())
	assert.Equal(t, "10:00:06", second.EndTime.String())
	assert.Equal(t, 1, second.SampleCount)
	assert.Equal(t, 16.0, second.CurrentMax)
	assert.Equal(t, 16.0, second.CurrentMin)
	assert.Zero(t, second.DurationSeconds())
}

func TestDetectDropsTrailingOpenRun(t *testing.T) {
	cycles, err := Detect(woodTable(0, 1, 0, 1, 1), CloseOnTransitionOnly)
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.Equal(t, "10:00:01", cycles[0].StartTime.String())
}

func TestDetectCloseAtEndEmitsTrailingRun(t *testing.T) {
	cycles, err := Detect(woodTable(0, 1, 0, 1, 1), CloseAtEnd)
	require.NoError(t, err)
	require.Len(t, cycles, 2)
	assert.Equal(t, "10:00:03", cycles[1].StartTime.String())
	assert.Equal(t, "10:00:04", cycles[1].EndTime.String())
	assert.Equal(t, 2, cycles[1].SampleCount)
}

func TestDetectRunAtTableStart(t *testing.T) {
	cycles, err := Detect(woodTable(1, 1, 0), "")
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.Equal(t, "10:00:00", cycles[0].StartTime.String())
	assert.Equal(t, 2, cycles[0].SampleCount)
}

func TestDetectNoCycles(t *testing.T) {
	cycles, err := Detect(woodTable(0, 0, 0), CloseOnTransitionOnly)
	require.NoError(t, err)
	assert.NotNil(t, cycles)
	assert.Empty(t, cycles)

	cycles, err = Detect(woodTable(1, 1), CloseOnTransitionOnly)
	require.NoError(t, err)
	assert.Empty(t, cycles, "an all-open table never closes a cycle")
}

func TestDetectNoData(t *testing.T) {
	_, err := Detect(model.NewTable(nil), CloseOnTransitionOnly)
	assert.ErrorIs(t, err, model.ErrNoData)

	_, err = Detect(nil, CloseOnTransitionOnly)
	assert.ErrorIs(t, err, model.ErrNoData)
}

func TestDetectorStates(t *testing.T) {
	d := NewDetector(CloseOnTransitionOnly)
	assert.Equal(t, Idle, d.State())

	d.Feed(model.CanonicalRow{WoodPresent: 1})
	assert.Equal(t, InCycle, d.State())
	assert.Equal(t, "in-cycle", d.State().String())

	d.Feed(model.CanonicalRow{WoodPresent: 0})
	assert.Equal(t, Idle, d.State())

	d.Feed(model.CanonicalRow{WoodPresent: 1})
	assert.Len(t, d.Finish(), 1)
	assert.Equal(t, Idle, d.State())
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, CloseOnTransitionOnly, p)

	p, err = ParsePolicy("close-at-end")
	require.NoError(t, err)
	assert.Equal(t, CloseAtEnd, p)

	_, err = ParsePolicy("eager")
	assert.Error(t, err)
}

func TestLegacyWholeDatasetAverageSpeed(t *testing.T) {
	table := woodTable(0, 1, 1, 1, 0, 0, 1, 0)
	cycles, err := Detect(table, CloseOnTransitionOnly)
	require.NoError(t, err)

	// 8 rows x 100 mm = 0.8 m over 2 s.
	assert.InDelta(t, 0.4, LegacyWholeDatasetAverageSpeed(cycles[0], table), 1e-9)
	assert.Zero(t, LegacyWholeDatasetAverageSpeed(cycles[1], table), "zero duration")
}

func TestPerCycleAverageSpeed(t *testing.T) {
	table := woodTable(0, 1, 1, 1, 0, 0, 1, 0)
	cycles, err := Detect(table, CloseOnTransitionOnly)
	require.NoError(t, err)

	// window 10:00:01..10:00:03 = 3 rows x 100 mm = 0.3 m over 2 s.
	assert.InDelta(t, 0.15, PerCycleAverageSpeed(cycles[0], table), 1e-9)
}

func TestNegativeDurationAcrossMidnight(t *testing.T) {
	c := model.Cycle{StartTime: model.NewClock(23, 59, 59), EndTime: model.NewClock(0, 0, 1)}
	assert.Less(t, c.DurationSeconds(), 0.0)
	assert.Zero(t, LegacyWholeDatasetAverageSpeed(c, woodTable(1)))
}

func TestWindowIgnoresDate(t *testing.T) {
	rows := []model.CanonicalRow{
		{Date: "2024-03-01", TimeOfDay: model.NewClock(10, 0, 0)},
		{Date: "2024-03-02", TimeOfDay: model.NewClock(10, 0, 1)},
		{Date: "2024-03-01", TimeOfDay: model.NewClock(10, 0, 2)},
		{Date: "2024-03-01", TimeOfDay: model.NewClock(10, 0, 3)},
	}
	c := model.Cycle{StartTime: model.NewClock(10, 0, 1), EndTime: model.NewClock(10, 0, 2)}

	window := Window(c, model.NewTable(rows))
	require.Equal(t, 2, window.Len())
	assert.Equal(t, "2024-03-02", window.Row(0).Date)
	assert.Equal(t, "10:00:02", window.Row(1).TimeOfDay.String())
}

func TestDescribeAndSelect(t *testing.T) {
	table := woodTable(0, 1, 1, 1, 0)
	cycles, err := Detect(table, CloseOnTransitionOnly)
	require.NoError(t, err)

	c, err := Select(cycles, 1)
	require.NoError(t, err)
	detail := Describe(c, table)
	assert.Equal(t, 2.0, detail.DurationSeconds)
	assert.InDelta(t, 0.25, detail.AvgSpeed, 1e-9)
	assert.InDelta(t, 0.15, detail.PerCycleSpeed, 1e-9)

	_, err = Select(cycles, 0)
	assert.Error(t, err)
	_, err = Select(cycles, 2)
	assert.Error(t, err)
}
