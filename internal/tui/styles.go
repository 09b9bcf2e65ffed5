package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rohan-g0re/stratdeck/internal/pipeline"
)

// Dashboard theme colors (dark mode)
var (
	bgPanelColor = lipgloss.Color("#141414")

	borderSubtleColor = lipgloss.Color("#3c3c3c")
	borderActiveColor = lipgloss.Color("#606060")

	primaryColor   = lipgloss.Color("#5c9cf5") // blue
	accentColor    = lipgloss.Color("#9d7cd8") // purple
	successColor   = lipgloss.Color("#7fd88f") // green
	warningColor   = lipgloss.Color("#f5a742") // orange
	errorColor     = lipgloss.Color("#e06c75") // red
	infoColor      = lipgloss.Color("#56b6c2") // cyan
	yellowColor    = lipgloss.Color("#e5c07b") // yellow
	textColor      = lipgloss.Color("#eeeeee")
	textMutedColor = lipgloss.Color("#808080")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(textMutedColor)

	labelStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(textMutedColor)

	keyStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Bold(true)

	// Stage card style
	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(borderSubtleColor)

	cardActiveStyle = cardStyle.
			BorderForeground(borderActiveColor)

	// Panel style for detail views
	panelStyle = lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(borderSubtleColor)

	selectedRowStyle = lipgloss.NewStyle().
				Background(bgPanelColor).
				Foreground(textColor).
				Bold(true)

	dividerStyle = lipgloss.NewStyle().
			Foreground(borderSubtleColor)

	criticStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	lipglossSpinnerStyle = lipgloss.NewStyle().
				Foreground(accentColor)
)

// negotiatorStyles colors each negotiator role distinctly
var negotiatorStyles = map[string]lipgloss.Style{
	"D1": lipgloss.NewStyle().Foreground(accentColor).Bold(true),
	"D2": lipgloss.NewStyle().Foreground(primaryColor).Bold(true),
	"D3": lipgloss.NewStyle().Foreground(successColor).Bold(true),
}

func roleStyle(role string) lipgloss.Style {
	if s, ok := negotiatorStyles[role]; ok {
		return s
	}
	return criticStyle
}

// statusStyle maps a stage/agent lifecycle status to its color
func statusStyle(s pipeline.Status) lipgloss.Style {
	switch s {
	case pipeline.StatusRunning:
		return lipgloss.NewStyle().Foreground(infoColor)
	case pipeline.StatusDone:
		return lipgloss.NewStyle().Foreground(successColor)
	case pipeline.StatusError:
		return lipgloss.NewStyle().Foreground(errorColor)
	default:
		return mutedStyle
	}
}

// statusGlyph is the one-character stage status indicator
func statusGlyph(s pipeline.Status) string {
	switch s {
	case pipeline.StatusRunning:
		return "●"
	case pipeline.StatusDone:
		return "✓"
	case pipeline.StatusError:
		return "✗"
	default:
		return "○"
	}
}

// riskStyle colors a move's risk classification
func riskStyle(level string) lipgloss.Style {
	switch level {
	case "low":
		return lipgloss.NewStyle().Foreground(successColor)
	case "high":
		return lipgloss.NewStyle().Foreground(errorColor)
	default:
		return lipgloss.NewStyle().Foreground(warningColor)
	}
}

// scoreStyle colors a final score by band
func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 90:
		return lipgloss.NewStyle().Foreground(successColor)
	case score >= 70:
		return lipgloss.NewStyle().Foreground(primaryColor)
	case score >= 50:
		return lipgloss.NewStyle().Foreground(warningColor)
	default:
		return lipgloss.NewStyle().Foreground(errorColor)
	}
}

// deltaStyle colors a rank delta arrow
func deltaStyle(delta int) lipgloss.Style {
	if delta > 0 {
		return lipgloss.NewStyle().Foreground(successColor)
	}
	return lipgloss.NewStyle().Foreground(errorColor)
}
