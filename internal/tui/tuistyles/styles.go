// Package tuistyles holds the lipgloss palette shared by the TUI and its
// components. It is separate from package tui to avoid import cycles.
package tuistyles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/tribgo/tribgo/internal/compare"
)

var (
	ColorPrimary = lipgloss.Color("#F2C94C") // yellow
	ColorAccent  = lipgloss.Color("#2F80ED") // blue
	ColorSuccess = lipgloss.Color("#27AE60")
	ColorDanger  = lipgloss.Color("#EB5757")
	ColorMuted   = lipgloss.Color("#828282")
	ColorBorder  = lipgloss.Color("#4F4F4F")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			PaddingTop(1)

	MetricLabelStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	MetricValueStyle = lipgloss.NewStyle().
				Bold(true)

	RecommendedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)
)

// MetricTrendStyle colors a change green when it favors the taxpayer.
func MetricTrendStyle(favorable bool) lipgloss.Style {
	if favorable {
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	}
	return lipgloss.NewStyle().Foreground(ColorDanger)
}

// TrendIndicator returns an arrow for a change direction.
func TrendIndicator(up bool) string {
	if up {
		return "▲"
	}
	return "▼"
}

// FormatCurrency renders pesos with Spanish grouping.
func FormatCurrency(amount decimal.Decimal) string {
	return compare.FormatCOP(amount)
}
