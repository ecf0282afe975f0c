package cycle

import (
	"fmt"

	"github.com/penwyp/go-saw-monitor/internal/core/model"
)

// LegacyWholeDatasetAverageSpeed divides the distance summed over the whole
// table, converted from mm to m, by the cycle duration. The cycle's own
// distance is not used. Returns 0 when the duration is not positive.
func LegacyWholeDatasetAverageSpeed(c model.Cycle, t *model.Table) float64 {
	seconds := c.DurationSeconds()
	if seconds <= 0 {
		return 0
	}
	return t.Sum(model.ColDistance) / 1000 / seconds
}

// PerCycleAverageSpeed divides the distance summed over the cycle's window,
// in m, by the cycle duration. Returns 0 when the duration is not positive.
func PerCycleAverageSpeed(c model.Cycle, t *model.Table) float64 {
	seconds := c.DurationSeconds()
	if seconds <= 0 {
		return 0
	}
	return Window(c, t).Sum(model.ColDistance) / 1000 / seconds
}

// Window returns the rows of t whose time of day lies in the closed
// [StartTime, EndTime] interval of c. The date is ignored.
func Window(c model.Cycle, t *model.Table) *model.Table {
	return t.Where(func(r model.CanonicalRow) bool {
		return c.Contains(r.TimeOfDay)
	})
}

// Detail is the report view of one cycle.
type Detail struct {
	Cycle           model.Cycle
	DurationSeconds float64
	AvgSpeed        float64 // legacy whole-dataset metric, m/s
	PerCycleSpeed   float64 // m/s
}

// Describe builds the detail view of c against the table it was detected in.
func Describe(c model.Cycle, t *model.Table) Detail {
	return Detail{
		Cycle:           c,
		DurationSeconds: c.DurationSeconds(),
		AvgSpeed:        LegacyWholeDatasetAverageSpeed(c, t),
		PerCycleSpeed:   PerCycleAverageSpeed(c, t),
	}
}

// Select returns the cycle with the given 1-based index.
func Select(cycles []model.Cycle, index int) (model.Cycle, error) {
	if index < 1 || index > len(cycles) {
		return model.Cycle{}, fmt.Errorf("cycle %d out of range: %d cycles detected", index, len(cycles))
	}
	return cycles[index-1], nil
}
