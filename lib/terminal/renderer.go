// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

// Package terminal renders server messages for a human at a terminal.
// Console output is coloured by severity, and lifecycle and busy
// notices are written faintly to stderr so that stdout carries only
// the application's output and command results.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/ucli-foundation/ucli/lib/wire"
)

// DetectProfile returns the colour profile to use for w: the
// environment's profile when w is a terminal, plain ASCII otherwise.
func DetectProfile(w io.Writer) termenv.Profile {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return termenv.Ascii
	}
	return termenv.NewOutput(file).EnvColorProfile()
}

// Renderer writes server messages to stdout and stderr. It is safe for
// concurrent use.
type Renderer struct {
	mu     sync.Mutex
	stdout io.Writer
	stderr io.Writer
	plain  bool

	severity map[wire.LogType]lipgloss.Style
	faint    lipgloss.Style
	success  lipgloss.Style
	failure  lipgloss.Style
}

// NewRenderer returns a Renderer using profile for both streams. With
// termenv.Ascii no escape sequences are written, and escape sequences
// embedded in application output are stripped.
func NewRenderer(stdout, stderr io.Writer, profile termenv.Profile, theme Theme) *Renderer {
	lipRenderer := lipgloss.NewRenderer(stdout, termenv.WithProfile(profile))
	lipRenderer.SetColorProfile(profile)

	severity := make(map[wire.LogType]lipgloss.Style)
	for _, logType := range []wire.LogType{
		wire.LogTypeError, wire.LogTypeAssert, wire.LogTypeWarning,
		wire.LogTypeLog, wire.LogTypeException, wire.LogTypeUnknown,
	} {
		style := lipRenderer.NewStyle().
			Foreground(theme.LogTypeColor(logType)).
			TabWidth(lipgloss.NoTabConversion)
		if logType == wire.LogTypeError || logType == wire.LogTypeException {
			style = style.Bold(true)
		}
		severity[logType] = style
	}

	return &Renderer{
		stdout:   stdout,
		stderr:   stderr,
		plain:    profile == termenv.Ascii,
		severity: severity,
		faint:    lipRenderer.NewStyle().Foreground(theme.Faint).TabWidth(lipgloss.NoTabConversion),
		success:  lipRenderer.NewStyle().Foreground(theme.Success).Bold(true),
		failure:  lipRenderer.NewStyle().Foreground(theme.Failure).Bold(true),
	}
}

// Render writes one message.
func (r *Renderer) Render(message wire.ServerMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch message := message.(type) {
	case wire.Busy:
		fmt.Fprintln(r.stderr, r.faint.Render("application is busy, waiting..."))
	case wire.ConsoleOutput:
		r.renderConsole(message)
	case wire.LifecycleEvent:
		fmt.Fprintln(r.stderr, r.faint.Render(describePhase(message.Phase)))
	case wire.CommandFinished:
		r.renderFinished(message)
	}
}

func (r *Renderer) renderConsole(output wire.ConsoleOutput) {
	out := r.stdout
	switch output.LogType {
	case wire.LogTypeError, wire.LogTypeAssert, wire.LogTypeException:
		out = r.stderr
	}
	style := r.severity[wire.LogTypeFromCode(int64(output.LogType))]

	text := r.clean(output.Log)
	if output.LogType == wire.LogTypeLog {
		fmt.Fprintln(out, text)
	} else {
		fmt.Fprintln(out, style.Render(output.LogType.String()+":")+" "+paint(style, text))
	}
	if trace := strings.TrimRight(r.clean(output.StackTrace), "\n"); trace != "" {
		for line := range strings.SplitSeq(trace, "\n") {
			fmt.Fprintln(out, r.faint.Render("    "+line))
		}
	}
}

func (r *Renderer) renderFinished(finished wire.CommandFinished) {
	result := ""
	if finished.Result != nil {
		result = strings.TrimRight(r.clean(*finished.Result), "\n")
	}
	if finished.Success {
		if result != "" {
			fmt.Fprintln(r.stdout, result)
		}
		return
	}
	if result == "" {
		result = "command failed"
	}
	fmt.Fprintln(r.stderr, r.failure.Render("error:")+" "+result)
}

// Success writes a short confirmation to stderr, for commands whose
// result carries no text.
func (r *Renderer) Success(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.stderr, r.success.Render(text))
}

func (r *Renderer) clean(text string) string {
	if r.plain {
		return ansi.Strip(text)
	}
	return text
}

// paint styles each line separately; lipgloss pads multi-line blocks
// to a common width.
func paint(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}

func describePhase(phase wire.Phase) string {
	switch phase {
	case wire.PhaseCompilationStarted:
		return "compiling scripts..."
	case wire.PhaseCompilationFinished:
		return "compilation finished"
	case wire.PhaseAssemblyReloadStarted:
		return "reloading assemblies..."
	case wire.PhaseAssemblyReloadFinished:
		return "assembly reload finished"
	default:
		return string(phase)
	}
}
