package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ComparisonCompleteMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.previous = m.result
			m.result = msg.Result
		}
		m.refreshTable()
		return m, nil
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.IncomeUp):
		m.incomePct += incomeStepPct
		return m.recompute()

	case key.Matches(msg, m.keys.IncomeDown):
		if m.incomePct-incomeStepPct < minIncomePct {
			return m, nil
		}
		m.incomePct -= incomeStepPct
		return m.recompute()

	case key.Matches(msg, m.keys.Reset):
		if m.incomePct == 100 {
			return m, nil
		}
		m.incomePct = 100
		return m.recompute()

	case key.Matches(msg, m.keys.Projection):
		m.projection = !m.projection
		if m.projection {
			m.panel = PanelProjection
		}
		return m.recompute()

	case key.Matches(msg, m.keys.NextPanel):
		m.panel = (m.panel + 1) % panelCount
		m.refreshTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// recompute discards any in-flight result and starts a new comparison.
func (m Model) recompute() (tea.Model, tea.Cmd) {
	m.seq++
	m.loading = true
	return m, m.compareCmd()
}

// refreshTable fills the detail table for the selected panel.
func (m *Model) refreshTable() {
	var cols []table.Column
	var rows []table.Row

	switch m.panel {
	case PanelOpportunities:
		cols = []table.Column{
			{Title: "Regime", Width: 10},
			{Title: "Category", Width: 28},
			{Title: "Saving", Width: 16},
			{Title: "Used", Width: 8},
			{Title: "Required input", Width: 18},
		}
		if m.result != nil {
			for _, o := range m.result.Opportunities {
				required := "-"
				if o.RequiredInput > 0 {
					required = FormatCurrency(pesos(o.RequiredInput))
				}
				rows = append(rows, table.Row{
					string(o.Regime), o.Category, FormatCurrency(o.PotentialSaving),
					o.UtilizationPct.StringFixed(1) + "%", required,
				})
			}
		}

	case PanelDeductions:
		cols = []table.Column{
			{Title: "Deduction", Width: 28},
			{Title: "Declared", Width: 16},
			{Title: "Ceiling", Width: 16},
			{Title: "Allowed", Width: 16},
			{Title: "Used", Width: 8},
		}
		if m.result != nil {
			for _, e := range m.result.Ordinary.Deductions.Entries {
				rows = append(rows, table.Row{
					string(e.Category), FormatCurrency(e.Raw), FormatCurrency(e.Ceiling),
					FormatCurrency(e.Capped), e.Utilization().StringFixed(1) + "%",
				})
			}
		}

	case PanelProjection:
		cols = []table.Column{
			{Title: "Year", Width: 6},
			{Title: "Gross income", Width: 18},
			{Title: "Ordinary", Width: 16},
			{Title: "Simple", Width: 16},
			{Title: "Best", Width: 10},
		}
		if m.result != nil {
			for _, p := range m.result.Projection {
				simple := "ineligible"
				if p.SimpleNetTax != nil {
					simple = FormatCurrency(*p.SimpleNetTax)
				}
				year := fmt.Sprintf("%d", p.Year)
				if p.Extrapolated {
					year += "*"
				}
				rows = append(rows, table.Row{
					year, FormatCurrency(pesos(p.GrossIncome)), FormatCurrency(p.OrdinaryNetTax), simple, string(p.Recommended),
				})
			}
		}
	}

	// Rows must never be wider than the columns while they change.
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	m.table.GotoTop()
}
