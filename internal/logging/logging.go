// Package logging builds the structured loggers used by the binaries.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// New returns a timestamped logger writing to w. An unknown level falls back
// to info.
func New(w io.Writer, prefix, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           lvl,
		ReportTimestamp: true,
	})
}
