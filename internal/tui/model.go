package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/tribgo/tribgo/internal/compare"
	"github.com/tribgo/tribgo/internal/domain"
	"github.com/tribgo/tribgo/internal/transform"
)

const (
	incomeStepPct = 5
	minIncomePct  = 5
)

// Model is the interactive what-if explorer state.
type Model struct {
	engine *compare.Engine
	year   int

	// base is the snapshot loaded from disk; the compared snapshot is base
	// with gross income scaled to incomePct percent.
	base      *domain.InputSnapshot
	incomePct int

	projection bool
	panel      Panel

	result   *domain.ComparisonResult
	previous *domain.ComparisonResult

	seq     int
	loading bool
	err     error

	table table.Model
	help  help.Model
	keys  keyMap

	width  int
	height int
}

// NewModel creates the explorer for a validated snapshot.
func NewModel(engine *compare.Engine, snapshot *domain.InputSnapshot, year int) Model {
	t := table.New(table.WithFocused(true), table.WithHeight(8))
	return Model{
		engine:    engine,
		year:      year,
		base:      snapshot,
		incomePct: 100,
		loading:   true,
		table:     t,
		help:      help.New(),
		keys:      defaultKeyMap(),
		width:     100,
		height:    30,
	}
}

// Init starts the first comparison.
func (m Model) Init() tea.Cmd {
	return m.compareCmd()
}

// snapshot returns the snapshot for the current income adjustment.
func (m Model) snapshot() (*domain.InputSnapshot, error) {
	factor := decimal.NewFromInt(int64(m.incomePct)).Div(decimal.NewFromInt(100))
	return transform.ApplyTransforms(m.base, []transform.SnapshotTransform{&transform.ScaleIncome{Factor: factor}})
}

// compareCmd runs the engine off the update loop.
func (m Model) compareCmd() tea.Cmd {
	seq := m.seq
	engine := m.engine
	year := m.year
	opts := compare.Options{IncludeProjection: m.projection}
	snapshot, err := m.snapshot()

	return func() tea.Msg {
		if err != nil {
			return ComparisonCompleteMsg{Seq: seq, Err: err}
		}
		result, err := engine.Compare(context.Background(), snapshot, year, opts)
		return ComparisonCompleteMsg{Seq: seq, Result: result, Err: err}
	}
}
