package util

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "1,234,567", FormatCount(1234567))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "500", FormatFloat(500))
	assert.Equal(t, "1,234.57", FormatFloat(1234.567))
	assert.Equal(t, "0.1", FormatFloat(0.1))
	assert.Equal(t, "NaN", FormatFloat(math.NaN()))
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "12.00 s", FormatSeconds(12))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{3 * time.Second, "3s"},
		{2*time.Minute + 3*time.Second, "2m 3s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h 2m 3s"},
		{-5 * time.Second, "-5s"},
		{0, "0s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in))
	}
}
