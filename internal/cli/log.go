// Package cli implements the gridcanvas command-line interface.
//
// Every command opens the configured canvas, applies one operation and
// writes the result back through the configured storage backend. The CLI
// is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - add, remove: Place or delete a widget
//   - move, resize: Run a complete drag or resize gesture
//   - params: Edit a widget's parameters
//   - show, render: Print or draw the canvas
//   - edit: Interactive terminal editor
//   - serve: HTTP API for a browser front end
//   - storage: Inspect or reset the stored canvas
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which
// includes every committed or reverted gesture.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered canvas (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
