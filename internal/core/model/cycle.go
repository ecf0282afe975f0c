package model

import "time"

// Cycle summarizes one maximal run of rows with wood present.
type Cycle struct {
	Index          int // 1-based position in the report
	Date           string
	StartTime      Clock
	EndTime        Clock
	CurrentTotal   float64
	CurrentMax     float64
	CurrentMin     float64
	TemperatureMax float64
	TemperatureMin float64
	SampleCount    int
}

// Duration is EndTime - StartTime. Runs that cross midnight yield a negative
// duration because only the time of day is compared.
func (c Cycle) Duration() time.Duration {
	return c.EndTime.Sub(c.StartTime)
}

// DurationSeconds is Duration expressed in seconds.
func (c Cycle) DurationSeconds() float64 {
	return c.Duration().Seconds()
}

// Contains reports whether tod falls inside the closed [StartTime, EndTime] window.
func (c Cycle) Contains(tod Clock) bool {
	return tod >= c.StartTime && tod <= c.EndTime
}
