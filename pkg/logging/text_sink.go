package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// TextSink renders guest_log events in the "{plugin}\t{LEVEL}\t{msg}"
// line format the reference host used, coloring error lines red. Other
// event types are ignored; TextSink is meant to sit alongside a
// JSONLWriter, not replace it.
type TextSink struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
}

// NewTextSink creates a sink that writes info lines to out and error
// lines to errOut.
func NewTextSink(out, errOut io.Writer) *TextSink {
	return &TextSink{out: out, errOut: errOut}
}

func (s *TextSink) Write(event *Event) error {
	if event.EventType != EventGuestLog {
		return nil
	}

	var data GuestLogData
	if len(event.Data) > 0 {
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	plugin := event.Plugin
	if plugin == "" {
		plugin = "unknown"
	}

	switch data.Level {
	case "error":
		fmt.Fprintf(s.errOut, "%s\t%s\t%s\n", plugin, color.RedString("ERROR"), data.Message)
	default:
		fmt.Fprintf(s.out, "%s\tINFO\t%s\n", plugin, data.Message)
	}
	return nil
}

func (s *TextSink) Close() error { return nil }
