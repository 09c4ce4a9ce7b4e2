package tui

import (
	"github.com/tribgo/tribgo/internal/domain"
)

// Panel is the detail section shown below the regime cards.
type Panel int

const (
	PanelOpportunities Panel = iota
	PanelDeductions
	PanelProjection
	panelCount
)

func (p Panel) String() string {
	switch p {
	case PanelOpportunities:
		return "Opportunities"
	case PanelDeductions:
		return "Deductions"
	case PanelProjection:
		return "Projection"
	default:
		return "Unknown"
	}
}

// ComparisonCompleteMsg carries the result of a background comparison.
// Seq identifies the request so stale results can be dropped.
type ComparisonCompleteMsg struct {
	Seq    int
	Result *domain.ComparisonResult
	Err    error
}
