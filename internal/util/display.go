package util

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Terminal control sequences
const (
	ColorReset  = "\033[0m"
	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBold   = "\033[1m"
)

const defaultTerminalWidth = 80

// GetDisplayWidth calculates the display width of a string. Headers such as
// "°C" contain multi-byte runes, so len() is not enough.
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadString pads s to width display columns.
func PadString(s string, width int, leftAlign bool) string {
	actual := GetDisplayWidth(s)
	if actual >= width {
		return s
	}
	padding := strings.Repeat(" ", width-actual)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of w when it is a terminal, or a fallback of 80.
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	return width
}

// Colorize wraps text in an ANSI color when w is a terminal.
func Colorize(w io.Writer, color, text string) string {
	if !IsTerminal(w) {
		return text
	}
	return fmt.Sprintf("%s%s%s", color, text, ColorReset)
}

// Separator returns a horizontal rule no wider than the terminal.
func Separator(w io.Writer, ch string, max int) string {
	width := TerminalWidth(w)
	if width > max {
		width = max
	}
	return strings.Repeat(ch, width)
}
