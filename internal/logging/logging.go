// Package logging builds the application's structured logger.
package logging

import (
	"io"
	"log/slog"
)

// New returns a slog.Logger writing to w in the given format ("json" or
// anything else for text) at the given level.
func New(w io.Writer, level slog.Leveler, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
