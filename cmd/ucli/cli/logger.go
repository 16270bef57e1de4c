// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates a structured logger for CLI diagnostics.
// When stderr is a terminal, uses slog.TextHandler for human-readable
// output. When stderr is piped or redirected, uses slog.JSONHandler.
//
// Command output proper (console lines, results, session lists) goes
// through the terminal renderer, not the logger.
func NewCommandLogger(level slog.Level) *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
