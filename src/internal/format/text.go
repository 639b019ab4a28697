// FILE: src/internal/format/text.go
package format

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"fanlog/src/internal/core"

	"github.com/fatih/color"
)

var (
	green     = forcedRGB(0, 255, 0)
	lightGray = forcedRGB(204, 204, 204)
	yellow    = forcedRGB(255, 200, 0)
	red       = forcedRGB(255, 0, 0)
)

// forcedRGB builds a 24-bit colour that ignores TTY detection
func forcedRGB(r, g, b int) *color.Color {
	c := color.RGB(r, g, b)
	c.EnableColor()
	return c
}

// colorFor panics on severities outside the declared range
func colorFor(sev core.Severity) *color.Color {
	switch sev {
	case core.Trace, core.Debug:
		return green
	case core.Information, core.None:
		return lightGray
	case core.Warning:
		return yellow
	case core.Error, core.Critical:
		return red
	default:
		panic(fmt.Sprintf("format: unhandled severity %d", int8(sev)))
	}
}

// Pad left-aligns s in a field of exactly width runes, truncating longer input
func Pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	switch {
	case n == width:
		return s
	case n < width:
		return s + strings.Repeat(" ", width-n)
	}

	var b strings.Builder
	b.Grow(width)
	count := 0
	for _, r := range s {
		if count == width {
			break
		}
		b.WriteRune(r)
		count++
	}
	return b.String()
}
