package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/tribgo/tribgo/internal/compare"
	"github.com/tribgo/tribgo/internal/domain"
	"github.com/tribgo/tribgo/internal/tui/components"
)

// View renders the current state of the application
func (m Model) View() string {
	sections := []string{m.renderTitleBar()}

	switch {
	case m.err != nil:
		sections = append(sections, ErrorStyle.Render("Error: "+m.err.Error()))
	case m.result == nil:
		sections = append(sections, InfoStyle.Render("Comparing regimes..."))
	default:
		sections = append(sections,
			m.renderCards(),
			m.renderRecommendation(),
			m.renderPanel(),
		)
	}

	sections = append(sections, m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitleBar() string {
	title := TitleStyle.Render(fmt.Sprintf("TRIBGO - Ordinary vs Simple regime, fiscal year %d", m.year))

	status := fmt.Sprintf("Activity: %s   Income: %d%%", m.base.ActivityClass, m.incomePct)
	if m.projection {
		status += "   Projection: on"
	}
	if m.loading {
		status += "   (recalculating)"
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(status), "")
}

func (m Model) renderCards() string {
	r := m.result
	recommended := r.Recommendation.Regime

	ordinary := components.NewMetricCard("Ordinary regime", FormatCurrency(r.Ordinary.NetTax)).
		WithDescription("Effective rate " + compare.FormatPercent(r.Ordinary.EffectiveRate)).
		WithHighlight(recommended == domain.RegimeOrdinary)
	if m.previous != nil {
		addTrend(ordinary, m.previous.Ordinary.NetTax, r.Ordinary.NetTax)
	}

	cards := []*components.MetricCard{ordinary}

	if e, ok := r.Simple.Eligible(); ok {
		simple := components.NewMetricCard("Simple regime", FormatCurrency(e.NetTax)).
			WithDescription("Effective rate " + compare.FormatPercent(e.EffectiveRate)).
			WithHighlight(recommended == domain.RegimeSimple)
		if m.previous != nil {
			if prev, ok := m.previous.Simple.Eligible(); ok {
				addTrend(simple, prev.NetTax, e.NetTax)
			}
		}
		cards = append(cards, simple)
	} else {
		cards = append(cards, components.NewMetricCard("Simple regime", "ineligible").
			WithDescription(ineligibleSummary(r.Simple)))
	}

	if r.Difference != nil {
		cards = append(cards, components.NewMetricCard("Difference", FormatCurrency(r.Difference.Abs())).
			WithDescription(r.PercentSavings.StringFixed(2)+"% of the higher tax"))
	}
	return components.MetricGrid(cards, 3)
}

func (m Model) renderRecommendation() string {
	rec := m.result.Recommendation
	var sb strings.Builder
	if rec.Tie {
		sb.WriteString(TitleStyle.Render(fmt.Sprintf("Either regime works, keep %s", rec.Regime)))
	} else {
		sb.WriteString(TitleStyle.Render(fmt.Sprintf("Recommended: %s", rec.Regime)))
	}
	for i, reason := range rec.Reasons {
		if i == 3 {
			sb.WriteString(SubtitleStyle.Render(fmt.Sprintf("\n  ... %d more", len(rec.Reasons)-i)))
			break
		}
		sb.WriteString("\n  - " + reason)
	}
	return sb.String() + "\n"
}

func (m Model) renderPanel() string {
	var tabs []string
	for p := Panel(0); p < panelCount; p++ {
		label := p.String()
		if p == m.panel {
			tabs = append(tabs, TitleStyle.Render("["+label+"]"))
		} else {
			tabs = append(tabs, SubtitleStyle.Render(" "+label+" "))
		}
	}
	header := strings.Join(tabs, " ")

	if m.panel == PanelProjection && !m.projection {
		return header + "\n" + SubtitleStyle.Render("Press p to project the next three years.")
	}
	if len(m.table.Rows()) == 0 {
		return header + "\n" + SubtitleStyle.Render("Nothing to show.")
	}
	return header + "\n" + m.table.View()
}

func (m Model) renderStatusBar() string {
	return StatusBarStyle.Render(m.help.View(m.keys))
}

// addTrend shows the net tax change; a lower tax is favorable.
func addTrend(card *components.MetricCard, before, after decimal.Decimal) {
	change := after.Sub(before)
	if change.IsZero() {
		return
	}
	card.WithTrend(change.IsNegative(), change.IsPositive(), FormatCurrency(change.Abs()))
}

func ineligibleSummary(r *domain.SimpleResult) string {
	inel, ok := r.Ineligible()
	if !ok || len(inel.Reasons) == 0 {
		return ""
	}
	return inel.Reasons[0].Code
}

func pesos(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
