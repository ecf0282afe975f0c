package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDisplayWidth(t *testing.T) {
	assert.Equal(t, 5, GetDisplayWidth("hello"))
	assert.Equal(t, 0, GetDisplayWidth(""))
	assert.Equal(t, 4, GetDisplayWidth("中文"))
}

func TestPadString(t *testing.T) {
	assert.Equal(t, "ab   ", PadString("ab", 5, true))
	assert.Equal(t, "   ab", PadString("ab", 5, false))
	assert.Equal(t, "abcdef", PadString("abcdef", 3, true))
	assert.Equal(t, "中文 ", PadString("中文", 5, true))
}

func TestNonTerminalWriter(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, IsTerminal(&buf))
	assert.Equal(t, 80, TerminalWidth(&buf))
	assert.Equal(t, "plain", Colorize(&buf, ColorGreen, "plain"))
	assert.Equal(t, 60, len(Separator(&buf, "=", 60)))
	assert.Equal(t, 80, len(Separator(&buf, "-", 200)))
}
