package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/penwyp/go-saw-monitor/internal/core/constants"
	"github.com/penwyp/go-saw-monitor/internal/core/model"
	"github.com/penwyp/go-saw-monitor/internal/util"
)

// Shift is a named time-of-day bucket.
type Shift int

const (
	ShiftAll Shift = iota
	ShiftMorning
	ShiftAfternoon
	ShiftNight
)

var (
	morningStart   = model.Clock(constants.MorningShiftStart)
	afternoonStart = model.Clock(constants.AfternoonShiftStart)
	nightStart     = model.Clock(constants.NightShiftStart)
)

var shiftNames = map[Shift]string{
	ShiftAll:       "all",
	ShiftMorning:   "morning",
	ShiftAfternoon: "afternoon",
	ShiftNight:     "night",
}

func (s Shift) String() string {
	if name, ok := shiftNames[s]; ok {
		return name
	}
	return fmt.Sprintf("shift(%d)", int(s))
}

// ParseShift accepts the English names and the Spanish ones used on the
// plant floor (todos, mañana, tarde, noche). Empty means all.
func ParseShift(s string) (Shift, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "todos":
		return ShiftAll, nil
	case "morning", "mañana", "manana":
		return ShiftMorning, nil
	case "afternoon", "tarde":
		return ShiftAfternoon, nil
	case "night", "noche":
		return ShiftNight, nil
	}
	return ShiftAll, fmt.Errorf("%w: unknown shift %q", model.ErrInvalidFilter, s)
}

// Contains reports whether tod belongs to the shift. Morning is
// [06:00, 12:00] and afternoon [12:00, 18:00], both inclusive. Night wraps
// midnight: tod >= 18:00 or tod < 06:00.
func (s Shift) Contains(tod model.Clock) bool {
	switch s {
	case ShiftMorning:
		return tod >= morningStart && tod <= afternoonStart
	case ShiftAfternoon:
		return tod >= afternoonStart && tod <= nightStart
	case ShiftNight:
		return tod >= nightStart || tod < morningStart
	}
	return true
}

// TimeRange is a closed [Start, End] time-of-day window.
type TimeRange struct {
	Start model.Clock
	End   model.Clock
}

// ParseTimeRange parses two HH:MM:SS strings. A range needs both bounds;
// when either is empty the range is absent and nil is returned. Given both,
// each must be a valid time.
func ParseTimeRange(start, end string) (*TimeRange, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		if start != end {
			util.LogWarn(fmt.Sprintf("Ignoring time range with one bound: start=%q end=%q", start, end))
		}
		return nil, nil
	}
	s, err := model.ParseClock(start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidFilter, err)
	}
	e, err := model.ParseClock(end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidFilter, err)
	}
	return &TimeRange{Start: s, End: e}, nil
}

// Contains reports whether tod lies inside the closed window. A window whose
// start is after its end matches nothing.
func (r TimeRange) Contains(tod model.Clock) bool {
	return tod >= r.Start && tod <= r.End
}

func (r TimeRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// ParseWood accepts "0" or "1"; empty means no wood predicate.
func ParseWood(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || (v != 0 && v != 1) {
		return nil, fmt.Errorf("%w: wood must be 0 or 1, got %q", model.ErrInvalidFilter, s)
	}
	return &v, nil
}

// Criteria is a conjunction of predicates. A nil TimeRange or Wood is absent.
type Criteria struct {
	Shift     Shift
	TimeRange *TimeRange
	Wood      *int
}

// IsZero reports whether no predicate is set.
func (c Criteria) IsZero() bool {
	return c.Shift == ShiftAll && c.TimeRange == nil && c.Wood == nil
}

// Validate rejects values the constructors would not produce.
func (c Criteria) Validate() error {
	if _, ok := shiftNames[c.Shift]; !ok {
		return fmt.Errorf("%w: unknown shift %d", model.ErrInvalidFilter, int(c.Shift))
	}
	if c.Wood != nil && *c.Wood != 0 && *c.Wood != 1 {
		return fmt.Errorf("%w: wood must be 0 or 1, got %d", model.ErrInvalidFilter, *c.Wood)
	}
	return nil
}

// Match reports whether row satisfies every predicate.
func (c Criteria) Match(row model.CanonicalRow) bool {
	if !c.Shift.Contains(row.TimeOfDay) {
		return false
	}
	if c.TimeRange != nil && !c.TimeRange.Contains(row.TimeOfDay) {
		return false
	}
	if c.Wood != nil && row.WoodPresent != *c.Wood {
		return false
	}
	return true
}

func (c Criteria) String() string {
	parts := []string{"shift=" + c.Shift.String()}
	if c.TimeRange != nil {
		parts = append(parts, "time="+c.TimeRange.String())
	}
	if c.Wood != nil {
		parts = append(parts, "wood="+strconv.Itoa(*c.Wood))
	}
	return strings.Join(parts, " ")
}

// Parse builds Criteria from user input. Any invalid part rejects the whole
// request.
func Parse(shift, from, to, wood string) (Criteria, error) {
	s, err := ParseShift(shift)
	if err != nil {
		return Criteria{}, err
	}
	tr, err := ParseTimeRange(from, to)
	if err != nil {
		return Criteria{}, err
	}
	w, err := ParseWood(wood)
	if err != nil {
		return Criteria{}, err
	}
	return Criteria{Shift: s, TimeRange: tr, Wood: w}, nil
}

// Apply returns a new table with the rows of t matching c. t is not modified.
func Apply(t *model.Table, c Criteria) (*model.Table, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return t.Where(c.Match), nil
}
