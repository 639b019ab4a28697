// FILE: src/internal/format/text_test.go
package format

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"fanlog/src/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	escGreen  = "\x1b[38;2;0;255;0m"
	escGray   = "\x1b[38;2;204;204;204m"
	escYellow = "\x1b[38;2;255;200;0m"
	escRed    = "\x1b[38;2;255;0;0m"
)

func TestPad(t *testing.T) {
	t.Run("Shorter", func(t *testing.T) {
		got := Pad("Net", 30)
		assert.Len(t, got, 30)
		assert.Equal(t, "Net"+strings.Repeat(" ", 27), got)
	})

	t.Run("Exact", func(t *testing.T) {
		s := strings.Repeat("x", 13)
		assert.Equal(t, s, Pad(s, 13))
	})

	t.Run("LongerIsTruncated", func(t *testing.T) {
		long := strings.Repeat("abcdef", 10)
		got := Pad(long, 30)
		assert.Equal(t, long[:30], got)
	})

	t.Run("MultiByte", func(t *testing.T) {
		got := Pad("größe", 7)
		assert.Equal(t, "größe  ", got)
		assert.Equal(t, "grö", Pad("größe", 3))
	})
}

func TestRender_Plain(t *testing.T) {
	ts := time.Date(2026, 10, 14, 9, 5, 7, 0, time.Local)
	r := Render(core.LogEvent{
		Time:     ts,
		Severity: core.Warning,
		Category: "Net",
		Message:  "link down",
	})

	expected := fmt.Sprintf("[09:05:07] [%s] [%s] - link down",
		"WARNING      ", "Net"+strings.Repeat(" ", 27))
	assert.Equal(t, expected, r.Plain)
	assert.NotContains(t, r.Plain, "\x1b[")
}

func TestRender_LongCategoryTruncated(t *testing.T) {
	category := "very.long.category.name.that.exceeds.thirty"
	r := Render(core.LogEvent{Time: time.Now(), Severity: core.Information, Category: category, Message: "m"})
	assert.Contains(t, r.Plain, "["+category[:30]+"]")
	assert.NotContains(t, r.Plain, category)
}

func TestRender_Decorated(t *testing.T) {
	tests := []struct {
		sev core.Severity
		esc string
	}{
		{core.Trace, escGreen},
		{core.Debug, escGreen},
		{core.Information, escGray},
		{core.None, escGray},
		{core.Warning, escYellow},
		{core.Error, escRed},
		{core.Critical, escRed},
	}

	for _, tt := range tests {
		t.Run(tt.sev.String(), func(t *testing.T) {
			r := Render(core.LogEvent{Time: time.Now(), Severity: tt.sev, Category: "c", Message: "body"})
			assert.Contains(t, r.Decorated, tt.esc+Pad(tt.sev.String(), core.SeverityWidth))
			assert.Contains(t, r.Decorated, tt.esc+"body")
			assert.Contains(t, r.Decorated, "["+Pad("c", core.CategoryWidth)+"]")
		})
	}
}

func TestRender_Error(t *testing.T) {
	r := Render(core.LogEvent{
		Time:     time.Now(),
		Severity: core.Error,
		Category: "db",
		Message:  "query failed",
		Err:      errors.New("connection reset"),
	})

	require.True(t, strings.HasSuffix(r.Plain, "query failed\nconnection reset"))
	assert.Contains(t, r.Decorated, "connection reset")
}

func TestRender_UnknownSeverityPanics(t *testing.T) {
	assert.Panics(t, func() {
		Render(core.LogEvent{Time: time.Now(), Severity: core.Severity(99), Category: "c", Message: "m"})
	})
}
