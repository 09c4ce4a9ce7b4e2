package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/tribgo/tribgo/internal/domain"
)

// stepRecorder accumulates an ordered audit trail.
type stepRecorder struct {
	steps []domain.CalculationStep
}

func (r *stepRecorder) add(label string, op domain.OperationKind, value decimal.Decimal, citation string) {
	r.steps = append(r.steps, domain.CalculationStep{
		Order:     len(r.steps) + 1,
		Label:     label,
		Operation: op,
		Value:     value,
		Citation:  citation,
	})
}

func (r *stepRecorder) list() []domain.CalculationStep {
	return r.steps
}
