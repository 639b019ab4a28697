// FILE: src/internal/format/format.go
package format

import (
	"fmt"
	"strings"

	"fanlog/src/internal/core"
)

// Render produces the plain and decorated forms of an event in one pass.
// It is a pure function of the event, the timestamp included.
func Render(ev core.LogEvent) core.Rendered {
	ts := "[" + ev.Time.Format(core.TimeLayout) + "]"
	label := Pad(ev.Severity.String(), core.SeverityWidth)
	category := "[" + Pad(ev.Category, core.CategoryWidth) + "]"
	body := messageBody(ev.Message, ev.Err)

	c := colorFor(ev.Severity)

	var plain, decorated strings.Builder
	plain.Grow(len(ts) + len(label) + len(category) + len(body) + 8)
	plain.WriteString(ts)
	plain.WriteString(" [")
	plain.WriteString(label)
	plain.WriteString("] ")
	plain.WriteString(category)
	plain.WriteString(" - ")
	plain.WriteString(body)

	decorated.WriteString(ts)
	decorated.WriteString(" [")
	decorated.WriteString(c.Sprint(label))
	decorated.WriteString("] ")
	decorated.WriteString(category)
	decorated.WriteString(" - ")
	decorated.WriteString(c.Sprint(body))

	return core.Rendered{Plain: plain.String(), Decorated: decorated.String()}
}

func messageBody(msg string, err error) string {
	if err == nil {
		return msg
	}
	return msg + "\n" + fmt.Sprintf("%+v", err)
}
