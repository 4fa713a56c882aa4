// Package logging builds the process logger.
package logging

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the named level. Unknown levels fall
// back to info.
func New(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Level:           lvl,
		TimeFormat:      time.Kitchen,
	})
}

// ForComponent returns a child logger tagged with the component name.
func ForComponent(logger *log.Logger, name string) *log.Logger {
	return logger.With("component", name)
}
