// Package logging builds the structured logger shared by the server, the
// edit sessions and the render engine.
//
// Output always goes to a writer other than stdout, which carries the MCP
// protocol stream.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"
)

// Formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing to w at the given level and format.
// Unknown levels fall back to info; unknown formats are an error.
func New(w io.Writer, level, format string) (*clog.Logger, error) {
	logger := clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           ParseLevel(level),
		Prefix:          "photo-mcp",
	})

	switch strings.ToLower(format) {
	case "", FormatText:
		logger.SetFormatter(clog.TextFormatter)
	case FormatJSON:
		logger.SetFormatter(clog.JSONFormatter)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return logger, nil
}

// ParseLevel converts a level name to a clog.Level.
func ParseLevel(level string) clog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return clog.DebugLevel
	case "info":
		return clog.InfoLevel
	case "warn", "warning":
		return clog.WarnLevel
	case "error":
		return clog.ErrorLevel
	default:
		return clog.InfoLevel
	}
}

// Discard returns a logger that drops everything, for tests and for
// collaborators constructed without one.
func Discard() *clog.Logger {
	return clog.NewWithOptions(io.Discard, clog.Options{Level: clog.FatalLevel})
}
