// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package terminal

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ucli-foundation/ucli/lib/wire"
)

// Theme is the colour palette for rendered output. Colours are ANSI
// 256-colour codes.
type Theme struct {
	Error     lipgloss.Color
	Assert    lipgloss.Color
	Warning   lipgloss.Color
	Log       lipgloss.Color
	Exception lipgloss.Color
	Unknown   lipgloss.Color

	Success lipgloss.Color
	Failure lipgloss.Color
	Faint   lipgloss.Color
}

// DefaultTheme suits dark and light backgrounds.
var DefaultTheme = Theme{
	Error:     lipgloss.Color("196"),
	Assert:    lipgloss.Color("201"),
	Warning:   lipgloss.Color("214"),
	Log:       lipgloss.Color("252"),
	Exception: lipgloss.Color("160"),
	Unknown:   lipgloss.Color("245"),
	Success:   lipgloss.Color("42"),
	Failure:   lipgloss.Color("196"),
	Faint:     lipgloss.Color("243"),
}

// LogTypeColor returns the colour for a console severity.
func (theme Theme) LogTypeColor(logType wire.LogType) lipgloss.Color {
	switch logType {
	case wire.LogTypeError:
		return theme.Error
	case wire.LogTypeAssert:
		return theme.Assert
	case wire.LogTypeWarning:
		return theme.Warning
	case wire.LogTypeLog:
		return theme.Log
	case wire.LogTypeException:
		return theme.Exception
	default:
		return theme.Unknown
	}
}
