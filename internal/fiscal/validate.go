package fiscal

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tribgo/tribgo/internal/domain"
)

// bound is the common shape of ordinary and simple bracket rows.
type bound struct {
	label string
	from  decimal.Decimal
	to    *decimal.Decimal
}

// ValidateParameters checks one year of parameters for structural errors.
func ValidateParameters(p *domain.FiscalParameters) error {
	if err := validateYear(p); err != nil {
		return tableError(p.Year, err)
	}
	if err := validateOrdinary(&p.Ordinary); err != nil {
		return tableError(p.Year, err)
	}
	if err := validateSimple(&p.Simple); err != nil {
		return tableError(p.Year, err)
	}
	return nil
}

func tableError(year int, err error) error {
	return fmt.Errorf("%w: year %d: %v", domain.ErrInvalidFiscalTable, year, err)
}

func validateYear(p *domain.FiscalParameters) error {
	if p.Year <= 0 {
		return fmt.Errorf("year must be positive")
	}
	if !p.UVT.IsPositive() {
		return fmt.Errorf("uvt must be positive")
	}
	return nil
}

func validateOrdinary(o *domain.OrdinaryParameters) error {
	bounds := make([]bound, len(o.Brackets))
	for i, b := range o.Brackets {
		if b.MarginalRate.IsNegative() || b.BaseTaxUVT.IsNegative() {
			return fmt.Errorf("ordinary bracket %s has a negative rate or base", b.Label)
		}
		bounds[i] = bound{label: b.Label, from: b.FromUVT, to: b.ToUVT}
	}
	if err := validateContinuity("ordinary", bounds); err != nil {
		return err
	}

	d := o.Deductions
	if d.MaxDependents < 0 {
		return fmt.Errorf("max_dependents must not be negative")
	}
	if !d.AggregateIncomeShare.IsPositive() || !d.AggregateCeilingUVT.IsPositive() {
		return fmt.Errorf("aggregate deduction ceiling must be positive")
	}
	return nil
}

func validateSimple(s *domain.SimpleParameters) error {
	if !s.MaxIncomeUVT.IsPositive() {
		return fmt.Errorf("simple max_income_uvt must be positive")
	}

	for _, class := range domain.ActivityClasses() {
		table, ok := s.Classes[class]
		if !ok {
			return fmt.Errorf("simple table missing activity class %s", class)
		}
		bounds := make([]bound, len(table.Brackets))
		for i, b := range table.Brackets {
			if b.ConsolidatedRate.IsNegative() {
				return fmt.Errorf("simple class %s bracket %s has a negative rate", class, b.Label)
			}
			bounds[i] = bound{label: b.Label, from: b.FromUVT, to: b.ToUVT}
		}
		if err := validateContinuity("simple class "+string(class), bounds); err != nil {
			return err
		}
	}

	if len(s.AdvanceCalendar) != domain.AdvancePeriods {
		return fmt.Errorf("advance calendar must have %d periods, got %d", domain.AdvancePeriods, len(s.AdvanceCalendar))
	}
	for i, d := range s.AdvanceCalendar {
		if d.Period != i+1 {
			return fmt.Errorf("advance calendar period %d out of order", d.Period)
		}
		if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
			return fmt.Errorf("advance calendar period %d has an invalid date", d.Period)
		}
	}
	return nil
}

// validateContinuity requires the table to start at zero, step by exactly one
// UVT between brackets and leave only the last bracket open.
func validateContinuity(table string, bounds []bound) error {
	if len(bounds) == 0 {
		return fmt.Errorf("%s table has no brackets", table)
	}
	if !bounds[0].from.IsZero() {
		return fmt.Errorf("%s table must start at 0 UVT", table)
	}

	one := decimal.NewFromInt(1)
	for i, b := range bounds {
		last := i == len(bounds)-1
		if b.to == nil {
			if !last {
				return fmt.Errorf("%s bracket %s is open-ended but not last", table, b.label)
			}
			continue
		}
		if b.to.LessThan(b.from) {
			return fmt.Errorf("%s bracket %s ends before it starts", table, b.label)
		}
		if last {
			return fmt.Errorf("%s table must end with an open bracket", table)
		}
		if !b.to.Add(one).Equal(bounds[i+1].from) {
			return fmt.Errorf("%s brackets %s and %s are not continuous", table, b.label, bounds[i+1].label)
		}
	}
	return nil
}
