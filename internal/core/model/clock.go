package model

import (
	"fmt"
	"strings"
	"time"
)

const day = 24 * time.Hour

// Clock is a time of day, stored as the offset from midnight.
type Clock time.Duration

// NewClock builds a Clock from hour, minute and second components.
func NewClock(hour, minute, second int) Clock {
	return Clock(time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second)
}

// ClockOf returns the wall-clock time of day of t.
func ClockOf(t time.Time) Clock {
	h, m, s := t.Clock()
	return NewClock(h, m, s) + Clock(t.Nanosecond())
}

// ParseClock parses an HH:MM:SS string. A fractional second suffix is accepted.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ":") != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM:SS", s)
	}
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM:SS", s)
	}
	return ClockOf(t), nil
}

// MustClock is ParseClock for constants; it panics on malformed input.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Duration returns the offset from midnight.
func (c Clock) Duration() time.Duration {
	return time.Duration(c)
}

// Sub returns c - other. The result is negative when other is later in the day.
func (c Clock) Sub(other Clock) time.Duration {
	return time.Duration(c - other)
}

// String formats the clock as HH:MM:SS, with microseconds only when present.
func (c Clock) String() string {
	d := time.Duration(c) % day
	if d < 0 {
		d += day
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	frac := d % time.Second
	if frac == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%06d", h, m, s, frac/time.Microsecond)
}

// MarshalText implements encoding.TextMarshaler.
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
