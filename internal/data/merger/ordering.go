package merger

import (
	"fmt"
	"sort"

	"github.com/penwyp/go-saw-monitor/internal/core/model"
)

// Ordering decides the row order of the merged timeline.
type Ordering interface {
	Name() string
	Less(a, b Record) bool
}

// TimeOfDayOrdering sorts by clock time and ignores the date, so rows of
// different days with the same clock time interleave. Ties fall back to the
// full timestamp to keep the output deterministic.
type TimeOfDayOrdering struct{}

func (TimeOfDayOrdering) Name() string { return "time_of_day" }

func (TimeOfDayOrdering) Less(a, b Record) bool {
	ca, cb := model.ClockOf(a.Timestamp), model.ClockOf(b.Timestamp)
	if ca != cb {
		return ca < cb
	}
	return a.Timestamp.Before(b.Timestamp)
}

// TimestampOrdering sorts by the full date and time.
type TimestampOrdering struct{}

func (TimestampOrdering) Name() string { return "timestamp" }

func (TimestampOrdering) Less(a, b Record) bool {
	return a.Timestamp.Before(b.Timestamp)
}

// OrderingByName returns the ordering registered under name.
func OrderingByName(name string) (Ordering, error) {
	switch name {
	case "", TimeOfDayOrdering{}.Name():
		return TimeOfDayOrdering{}, nil
	case TimestampOrdering{}.Name():
		return TimestampOrdering{}, nil
	}
	return nil, fmt.Errorf("unknown ordering %q", name)
}

func sortRecords(records []Record, order Ordering) {
	sort.SliceStable(records, func(i, j int) bool {
		return order.Less(records[i], records[j])
	})
}
