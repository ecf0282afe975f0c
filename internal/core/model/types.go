package model

import (
	"strconv"
)

// CanonicalRow is one second of the merged, normalized timeline.
type CanonicalRow struct {
	Date        string // YYYY-MM-DD
	TimeOfDay   Clock
	Current     float64 // amperes
	SpeedMs     float64 // raw timing value from the speed log, not m/s
	Temperature float64 // °C
	Distance    float64 // mm
	WoodPresent int     // 0 or 1
}

// Value returns the numeric value of a canonical column.
func (r CanonicalRow) Value(col string) (float64, bool) {
	switch col {
	case ColCurrent:
		return r.Current, true
	case ColSpeedMs:
		return r.SpeedMs, true
	case ColTemperature:
		return r.Temperature, true
	case ColDistance:
		return r.Distance, true
	case ColWoodPresent:
		return float64(r.WoodPresent), true
	}
	return 0, false
}

// HasSignal reports whether any tracked signal is non-zero.
func (r CanonicalRow) HasSignal() bool {
	for _, col := range TrackedSignals {
		if v, _ := r.Value(col); v != 0 {
			return true
		}
	}
	return false
}

// Record renders the row in CanonicalColumns order.
func (r CanonicalRow) Record() []string {
	return []string{
		r.Date,
		r.TimeOfDay.String(),
		FormatValue(r.Current),
		FormatValue(r.SpeedMs),
		FormatValue(r.Temperature),
		FormatValue(r.Distance),
		strconv.Itoa(r.WoodPresent),
	}
}

// FormatValue renders a float with the shortest exact representation.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WoodFlag converts a raw wood-present reading to a 0/1 flag. Only an exact
// reading of 1 means wood is present.
func WoodFlag(v float64) int {
	if v == 1 {
		return 1
	}
	return 0
}

// Table is an ordered, read-only sequence of canonical rows. Operations that
// select rows return a new Table and never modify the receiver.
type Table struct {
	rows []CanonicalRow
}

// NewTable wraps rows in a Table. The slice is copied.
func NewTable(rows []CanonicalRow) *Table {
	cp := make([]CanonicalRow, len(rows))
	copy(cp, rows)
	return &Table{rows: cp}
}

// Len returns the number of rows. A nil table has no rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// Row returns the i-th row.
func (t *Table) Row(i int) CanonicalRow {
	return t.rows[i]
}

// Rows returns a copy of the rows.
func (t *Table) Rows() []CanonicalRow {
	if t == nil {
		return nil
	}
	cp := make([]CanonicalRow, len(t.rows))
	copy(cp, t.rows)
	return cp
}

// Where returns a new table holding the rows that satisfy keep, in order.
func (t *Table) Where(keep func(CanonicalRow) bool) *Table {
	out := &Table{rows: make([]CanonicalRow, 0, t.Len())}
	for i := 0; i < t.Len(); i++ {
		if keep(t.rows[i]) {
			out.rows = append(out.rows, t.rows[i])
		}
	}
	return out
}

// Head returns a new table with at most n rows. n <= 0 means all rows.
func (t *Table) Head(n int) *Table {
	if n <= 0 || n >= t.Len() {
		return NewTable(t.Rows())
	}
	return NewTable(t.rows[:n])
}

// Sum adds up a numeric column over every row.
func (t *Table) Sum(col string) float64 {
	var total float64
	for i := 0; i < t.Len(); i++ {
		v, _ := t.rows[i].Value(col)
		total += v
	}
	return total
}

// Equal reports whether both tables hold the same rows in the same order.
func (t *Table) Equal(other *Table) bool {
	if t.Len() != other.Len() {
		return false
	}
	for i := 0; i < t.Len(); i++ {
		if t.rows[i] != other.rows[i] {
			return false
		}
	}
	return true
}
