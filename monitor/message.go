package monitor

import (
	"fmt"
	"strings"
)

// Message is one full display update: two fixed-width text lines. Messages
// are value types, copied into the channel and never aliased after send.
type Message struct {
	Line1 string
	Line2 string
}

// ComposeMessage formats a reading into two display lines of exactly columns
// characters. Content beyond the line width is cut off; the display simply
// has no more room, so truncation is not an error.
func ComposeMessage(r Reading, columns int) Message {
	return Message{
		Line1: fitLine(fmt.Sprintf("Light raw:%5d", r.Raw), columns),
		Line2: fitLine(fmt.Sprintf("Smoothed: %5d", r.Smoothed), columns),
	}
}

func fitLine(s string, columns int) string {
	if len(s) >= columns {
		return s[:columns]
	}
	return s + strings.Repeat(" ", columns-len(s))
}
