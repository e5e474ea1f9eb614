package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/javiermolinar/pacer/internal/energy"
)

// Color definitions for consistent styling across the UI.
var (
	// High energy: bold red, the hardest work
	colorHigh = color.New(color.FgRed, color.Bold)

	// Medium energy: yellow
	colorMedium = color.New(color.FgYellow)

	// Low energy: cyan for calm, administrative work
	colorLow = color.New(color.FgCyan)

	// Recharge: green for rest and buffers
	colorRecharge = color.New(color.FgGreen)

	// Insight/results: yellow to make it pop
	colorInsight = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: green for positive metrics
	colorStats = color.New(color.FgGreen)

	// Warnings: bold yellow
	colorWarning = color.New(color.FgYellow, color.Bold)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output, tables included.
func DisableColor() {
	color.NoColor = true
	lipgloss.SetColorProfile(termenv.Ascii)
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}

func tierColor(t energy.Tier) *color.Color {
	switch t {
	case energy.High:
		return colorHigh
	case energy.Medium:
		return colorMedium
	case energy.Low:
		return colorLow
	default:
		return colorRecharge
	}
}

// formatTier formats text in the color of the given energy tier.
func formatTier(t energy.Tier, s string) string {
	return tierColor(t).Sprint(s)
}

// formatInsight formats text for insight/coaching output.
func formatInsight(s string) string {
	return colorInsight.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

// formatWarning formats text as a warning.
func formatWarning(s string) string {
	return colorWarning.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
