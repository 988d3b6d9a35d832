// Package logging builds the slog logger shared by the CLI. Diagnostics go to
// stderr so they never mix with command output.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// redacted keys are never written, whatever their value.
var redacted = map[string]bool{
	"authorization": true,
	"token":         true,
	"password":      true,
	"otp":           true,
}

// ParseLevel maps a config level name to a slog level. Unknown names mean warn.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// New returns a text logger at level writing to w.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if redacted[strings.ToLower(a.Key)] {
				return slog.String(a.Key, "[redacted]")
			}
			return a
		},
	}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
