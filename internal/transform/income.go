package transform

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/tribgo/tribgo/internal/domain"
)

// ScaleIncome multiplies gross income, and any bimonthly actuals, by a factor.
// Useful for "what if I earn 10% more" questions.
type ScaleIncome struct {
	Factor decimal.Decimal
}

func (s *ScaleIncome) Name() string {
	return "scale_income"
}

func (s *ScaleIncome) Description() string {
	return fmt.Sprintf("Scale gross income by %s", s.Factor.String())
}

func (s *ScaleIncome) Validate(base *domain.InputSnapshot) error {
	if base == nil {
		return NewTransformError(s.Name(), "validate", "base snapshot cannot be nil", nil)
	}
	if s.Factor.IsNegative() {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("factor must be non-negative, got %s", s.Factor), nil)
	}
	_, err := s.Apply(base)
	return err
}

func (s *ScaleIncome) Apply(base *domain.InputSnapshot) (*domain.InputSnapshot, error) {
	modified := base.Clone()
	var ok bool
	if modified.GrossIncome, ok = scale(base.GrossIncome, s.Factor); !ok {
		return nil, overflowError(s.Name(), base.GrossIncome, s.Factor)
	}
	for i, v := range modified.BimonthlyIncome {
		if modified.BimonthlyIncome[i], ok = scale(v, s.Factor); !ok {
			return nil, overflowError(s.Name(), v, s.Factor)
		}
	}
	return modified, nil
}

// GrowIncome compounds gross income over a number of years at a fixed rate.
// Bimonthly actuals describe the base year only, so they are dropped.
type GrowIncome struct {
	Rate  decimal.Decimal
	Years int
}

func (g *GrowIncome) Name() string {
	return "grow_income"
}

func (g *GrowIncome) Description() string {
	return fmt.Sprintf("Grow gross income %s%% per year for %d years", g.Rate.Mul(decimal.NewFromInt(100)).String(), g.Years)
}

func (g *GrowIncome) Validate(base *domain.InputSnapshot) error {
	if base == nil {
		return NewTransformError(g.Name(), "validate", "base snapshot cannot be nil", nil)
	}
	if g.Years < 0 {
		return NewTransformError(g.Name(), "validate", fmt.Sprintf("years must be non-negative, got %d", g.Years), nil)
	}
	if g.Rate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return NewTransformError(g.Name(), "validate", fmt.Sprintf("rate must be greater than -1, got %s", g.Rate), nil)
	}
	_, err := g.Apply(base)
	return err
}

func (g *GrowIncome) Apply(base *domain.InputSnapshot) (*domain.InputSnapshot, error) {
	modified := base.Clone()
	factor := decimal.NewFromInt(1).Add(g.Rate).Pow(decimal.NewFromInt(int64(g.Years)))
	var ok bool
	if modified.GrossIncome, ok = scale(base.GrossIncome, factor); !ok {
		return nil, overflowError(g.Name(), base.GrossIncome, factor)
	}
	modified.BimonthlyIncome = nil
	return modified, nil
}

var maxPesos = decimal.NewFromInt(math.MaxInt64)

// scale multiplies a peso amount and rounds to the nearest peso. It reports
// false when the result does not fit in an int64.
func scale(amount int64, factor decimal.Decimal) (int64, bool) {
	v := decimal.NewFromInt(amount).Mul(factor).Round(0)
	if v.GreaterThan(maxPesos) {
		return 0, false
	}
	return v.IntPart(), true
}

func overflowError(name string, amount int64, factor decimal.Decimal) error {
	return NewTransformError(name, "apply",
		fmt.Sprintf("%d scaled by %s exceeds the largest representable peso amount", amount, factor.StringFixed(4)),
		domain.ErrInvalidInput)
}
