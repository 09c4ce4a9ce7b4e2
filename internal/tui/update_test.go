package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tribgo/tribgo/internal/compare"
	"github.com/tribgo/tribgo/internal/domain"
	"github.com/tribgo/tribgo/internal/fiscal"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	provider, err := fiscal.LoadFile("../../configs/fiscal_params.yaml")
	require.NoError(t, err)

	snapshot := &domain.InputSnapshot{
		GrossIncome:   200_000_000,
		ActivityClass: domain.ActivityCommercial,
		PrepaidHealth: 2_000_000,
	}
	return NewModel(compare.NewEngine(provider), snapshot, 2025)
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	return updated.(Model)
}

func press(m Model, keys string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch keys {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestModel_InitialComparison(t *testing.T) {
	m := newTestModel(t)
	assert.True(t, m.loading)
	assert.Contains(t, m.View(), "Comparing regimes")

	m = run(t, m, m.Init())
	require.NoError(t, m.err)
	require.NotNil(t, m.result)
	assert.False(t, m.loading)
	assert.Equal(t, domain.RegimeSimple, m.result.Recommendation.Regime)

	view := m.View()
	assert.Contains(t, view, "Ordinary regime")
	assert.Contains(t, view, "Recommended: simple")
	assert.Contains(t, view, "$3.200.000")
	assert.NotEmpty(t, m.table.Rows())
}

func TestModel_IncomeAdjustment(t *testing.T) {
	m := newTestModel(t)
	m = run(t, m, m.Init())
	before := m.result.Ordinary.NetTax

	m, cmd := press(m, "+")
	assert.Equal(t, 105, m.incomePct)
	assert.True(t, m.loading)
	m = run(t, m, cmd)

	assert.True(t, m.result.Ordinary.GrossIncome.Equal(pesos(210_000_000)))
	assert.True(t, m.result.Ordinary.NetTax.GreaterThan(before))
	assert.NotNil(t, m.previous)
	assert.Contains(t, m.View(), "Income: 105%")

	m, cmd = press(m, "r")
	assert.Equal(t, 100, m.incomePct)
	m = run(t, m, cmd)
	assert.True(t, m.result.Ordinary.GrossIncome.Equal(pesos(200_000_000)))
}

func TestModel_IncomeFloor(t *testing.T) {
	m := newTestModel(t)
	m.incomePct = minIncomePct

	m, cmd := press(m, "-")
	assert.Nil(t, cmd)
	assert.Equal(t, minIncomePct, m.incomePct)
}

func TestModel_StaleResultIgnored(t *testing.T) {
	m := newTestModel(t)
	first := m.Init()

	m, second := press(m, "+")
	m = run(t, m, first)
	assert.Nil(t, m.result, "stale result must be dropped")
	assert.True(t, m.loading)

	m = run(t, m, second)
	require.NotNil(t, m.result)
	assert.True(t, m.result.Ordinary.GrossIncome.Equal(pesos(210_000_000)))
}

func TestModel_ProjectionToggle(t *testing.T) {
	m := newTestModel(t)
	m = run(t, m, m.Init())
	assert.Empty(t, m.result.Projection)

	m, cmd := press(m, "p")
	assert.True(t, m.projection)
	assert.Equal(t, PanelProjection, m.panel)
	m = run(t, m, cmd)

	require.Len(t, m.result.Projection, compare.ProjectionYears)
	assert.Len(t, m.table.Rows(), compare.ProjectionYears)
	assert.Contains(t, m.View(), "2027*")
}

func TestModel_PanelCycle(t *testing.T) {
	m := newTestModel(t)
	m = run(t, m, m.Init())
	assert.Equal(t, PanelOpportunities, m.panel)

	m, _ = press(m, "tab")
	assert.Equal(t, PanelDeductions, m.panel)
	assert.Len(t, m.table.Rows(), len(m.result.Ordinary.Deductions.Entries))

	m, _ = press(m, "tab")
	assert.Equal(t, PanelProjection, m.panel)
	assert.Contains(t, m.View(), "Press p")

	m, _ = press(m, "tab")
	assert.Equal(t, PanelOpportunities, m.panel)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := press(m, "q")
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestModel_Error(t *testing.T) {
	m := newTestModel(t)
	m.year = 2019
	m = run(t, m, m.Init())
	assert.Error(t, m.err)
	assert.True(t, strings.Contains(m.View(), "Error:"))
}
