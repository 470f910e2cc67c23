// Package style provides semantic terminal styling using lipgloss.
//
// All styling is semantic (Success, Warning, Error, ...). When disabled
// every helper returns its input unchanged, with no ANSI codes.
package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	enabled bool
	palette Palette

	successStyle lipgloss.Style
	warningStyle lipgloss.Style
	errorStyle   lipgloss.Style
	infoStyle    lipgloss.Style
	headerStyle  lipgloss.Style
	mutedStyle   lipgloss.Style
)

// Init turns styling on or off. NO_COLOR and CMDR_NO_COLOR (any non-empty
// value) force it off regardless of enable.
func Init(enable bool) {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("CMDR_NO_COLOR") != "" {
		enabled = false
		return
	}

	enabled = enable
	if enabled {
		palette = LoadPalette(os.Getenv)
		initStyles(palette)
	}
}

// Current returns the active palette. It is empty while styling is disabled.
func Current() Palette {
	return palette
}

func initStyles(p Palette) {
	// ANSI256 regardless of TTY detection; callers decide whether to enable.
	lipgloss.SetColorProfile(termenv.ANSI256)

	successStyle = makeStyle(p.Success)
	warningStyle = makeStyle(p.Warning)
	errorStyle = makeStyle(p.Error)
	infoStyle = makeStyle(p.Info)
	mutedStyle = makeStyle(p.Muted)
	headerStyle = makeStyle(p.Header)
}

// makeStyle accepts "bold" or an ANSI color number (0-255).
func makeStyle(value string) lipgloss.Style {
	if value == "bold" {
		return lipgloss.NewStyle().Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(value))
}

func render(s lipgloss.Style, text string) string {
	if !enabled || text == "" {
		return text
	}
	return s.Render(text)
}

// Enabled returns whether styling is currently enabled.
func Enabled() bool {
	return enabled
}

func Success(text string) string { return render(successStyle, text) }

func Warning(text string) string { return render(warningStyle, text) }

func Error(text string) string { return render(errorStyle, text) }

// Info is used for command names in listings and usage lines.
func Info(text string) string { return render(infoStyle, text) }

// Header is used for section titles (USAGE, OPTIONS, ...).
func Header(text string) string { return render(headerStyle, text) }

func Muted(text string) string { return render(mutedStyle, text) }
