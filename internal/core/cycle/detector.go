package cycle

import (
	"fmt"

	"github.com/penwyp/go-saw-monitor/internal/core/model"
	"github.com/penwyp/go-saw-monitor/internal/util"
)

// Policy decides what happens to a run still open at the end of the table.
type Policy string

const (
	// CloseOnTransitionOnly emits a cycle only on a 1 -> 0 transition. A run
	// that reaches the end of the table is discarded.
	CloseOnTransitionOnly Policy = "close-on-transition-only"
	// CloseAtEnd also emits the trailing open run.
	CloseAtEnd Policy = "close-at-end"
)

// ParsePolicy validates a policy name. Empty selects CloseOnTransitionOnly.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", CloseOnTransitionOnly:
		return CloseOnTransitionOnly, nil
	case CloseAtEnd:
		return CloseAtEnd, nil
	}
	return "", fmt.Errorf("unknown cycle policy %q", s)
}

// State is the detector state.
type State int

const (
	Idle State = iota
	InCycle
)

func (s State) String() string {
	if s == InCycle {
		return "in-cycle"
	}
	return "idle"
}

// Detector segments a canonical table into cycles in a single pass. The only
// transition guard is wood_present == 1.
type Detector struct {
	policy  Policy
	state   State
	current model.Cycle
	cycles  []model.Cycle
}

// NewDetector creates a detector in the Idle state.
func NewDetector(policy Policy) *Detector {
	if policy == "" {
		policy = CloseOnTransitionOnly
	}
	return &Detector{policy: policy, cycles: []model.Cycle{}}
}

// State returns the current state.
func (d *Detector) State() State {
	return d.state
}

// Feed advances the state machine by one row.
func (d *Detector) Feed(row model.CanonicalRow) {
	active := row.WoodPresent == 1
	switch {
	case d.state == Idle && active:
		d.open(row)
	case d.state == InCycle && active:
		d.extend(row)
	case d.state == InCycle && !active:
		d.close()
	}
}

// Finish applies the end-of-table rule and returns the detected cycles.
func (d *Detector) Finish() []model.Cycle {
	if d.state == InCycle {
		if d.policy == CloseAtEnd {
			d.close()
		} else {
			util.LogDebugf("Discarding open cycle started at %s (%d samples)", d.current.StartTime, d.current.SampleCount)
			d.state = Idle
		}
	}
	return d.cycles
}

func (d *Detector) open(row model.CanonicalRow) {
	d.state = InCycle
	d.current = model.Cycle{
		Index:          len(d.cycles) + 1,
		Date:           row.Date,
		StartTime:      row.TimeOfDay,
		EndTime:        row.TimeOfDay,
		CurrentTotal:   row.Current,
		CurrentMax:     row.Current,
		CurrentMin:     row.Current,
		TemperatureMax: row.Temperature,
		TemperatureMin: row.Temperature,
		SampleCount:    1,
	}
}

func (d *Detector) extend(row model.CanonicalRow) {
	c := &d.current
	c.EndTime = row.TimeOfDay
	c.CurrentTotal += row.Current
	c.CurrentMax = max(c.CurrentMax, row.Current)
	c.CurrentMin = min(c.CurrentMin, row.Current)
	c.TemperatureMax = max(c.TemperatureMax, row.Temperature)
	c.TemperatureMin = min(c.TemperatureMin, row.Temperature)
	c.SampleCount++
}

func (d *Detector) close() {
	d.cycles = append(d.cycles, d.current)
	d.current = model.Cycle{}
	d.state = Idle
}

// Detect runs a detector over t in table order. An empty or nil table yields
// model.ErrNoData; a table without cycles yields an empty slice and no error.
func Detect(t *model.Table, policy Policy) ([]model.Cycle, error) {
	if t.IsEmpty() {
		return nil, model.ErrNoData
	}
	d := NewDetector(policy)
	for i := 0; i < t.Len(); i++ {
		d.Feed(t.Row(i))
	}
	cycles := d.Finish()
	util.LogDebugf("Detected %d cycles in %d rows (policy %s)", len(cycles), t.Len(), policy)
	return cycles, nil
}
