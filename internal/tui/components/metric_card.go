package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tribgo/tribgo/internal/tui/tuistyles"
)

// MetricCard displays one regime figure with an optional trend line.
type MetricCard struct {
	Label       string
	Value       string
	Trend       *Trend
	Description string
	Width       int
	Highlight   bool
}

// Trend is the change of a metric since the previous computation.
type Trend struct {
	Favorable bool
	Up        bool
	Change    string
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 34,
	}
}

// WithTrend adds a trend indicator to the metric card
func (m *MetricCard) WithTrend(favorable, up bool, change string) *MetricCard {
	m.Trend = &Trend{Favorable: favorable, Up: up, Change: change}
	return m
}

// WithDescription adds a description line
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// WithHighlight draws the card with the recommended border
func (m *MetricCard) WithHighlight(on bool) *MetricCard {
	m.Highlight = on
	return m
}

// Render returns the styled metric card
func (m *MetricCard) Render() string {
	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" + tuistyles.MetricValueStyle.Render(m.Value)

	if m.Trend != nil {
		arrow := tuistyles.TrendIndicator(m.Trend.Up)
		content += "\n" + tuistyles.MetricTrendStyle(m.Trend.Favorable).Render(fmt.Sprintf("%s %s", arrow, m.Trend.Change))
	}
	if m.Description != "" {
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Description)
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder)
	if m.Highlight {
		style = tuistyles.RecommendedBorderStyle
	}
	return style.Padding(0, 2).Width(m.Width).Render(content)
}

// MetricGrid renders cards side by side, wrapping after columns cards.
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 || columns <= 0 {
		return ""
	}

	var rows, current []string
	for i, card := range cards {
		current = append(current, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
