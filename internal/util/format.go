package util

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatFloat renders a float with two decimals and thousands separators.
func FormatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprintf("%v", v)
	}
	return humanize.CommafWithDigits(math.Round(v*100)/100, 2)
}

// FormatSeconds renders a duration in seconds with two decimals, e.g. "12.00 s".
func FormatSeconds(seconds float64) string {
	return fmt.Sprintf("%.2f s", seconds)
}

// FormatDuration renders a duration as "1h 2m 3s", dropping leading zero units.
func FormatDuration(d time.Duration) string {
	neg := d < 0
	if neg {
		d = -d
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	var out string
	switch {
	case h > 0:
		out = fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		out = fmt.Sprintf("%dm %ds", m, s)
	default:
		out = fmt.Sprintf("%ds", s)
	}
	if neg {
		return "-" + out
	}
	return out
}
