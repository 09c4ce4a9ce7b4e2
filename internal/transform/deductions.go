package transform

import (
	"fmt"
	"sort"

	"github.com/tribgo/tribgo/internal/domain"
)

// Amount fields addressable by SetAmount, keyed by their input file names.
const (
	FieldGrossIncome                = "gross_income"
	FieldCosts                      = "costs"
	FieldElectronicInvoicePurchases = "electronic_invoice_purchases"
	FieldVoluntaryPensionAFC        = "voluntary_pension_afc"
	FieldMortgageInterest           = "mortgage_interest"
	FieldPrepaidHealth              = "prepaid_health"
	FieldElectronicPaymentsReceived = "electronic_payments_received"
	FieldGMFPaid                    = "gmf_paid"
	FieldWithholdings               = "withholdings"
)

var amountFields = map[string]func(s *domain.InputSnapshot) *int64{
	FieldGrossIncome:                func(s *domain.InputSnapshot) *int64 { return &s.GrossIncome },
	FieldCosts:                      func(s *domain.InputSnapshot) *int64 { return &s.Costs },
	FieldElectronicInvoicePurchases: func(s *domain.InputSnapshot) *int64 { return &s.ElectronicInvoicePurchases },
	FieldVoluntaryPensionAFC:        func(s *domain.InputSnapshot) *int64 { return &s.VoluntaryPensionAFC },
	FieldMortgageInterest:           func(s *domain.InputSnapshot) *int64 { return &s.MortgageInterest },
	FieldPrepaidHealth:              func(s *domain.InputSnapshot) *int64 { return &s.PrepaidHealth },
	FieldElectronicPaymentsReceived: func(s *domain.InputSnapshot) *int64 { return &s.ElectronicPaymentsReceived },
	FieldGMFPaid:                    func(s *domain.InputSnapshot) *int64 { return &s.GMFPaid },
	FieldWithholdings:               func(s *domain.InputSnapshot) *int64 { return &s.Withholdings },
}

// AmountFields lists the field names SetAmount accepts.
func AmountFields() []string {
	names := make([]string, 0, len(amountFields))
	for name := range amountFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetAmount replaces one monetary input with a new value.
type SetAmount struct {
	Field  string
	Amount int64
}

func (s *SetAmount) Name() string {
	return "set_amount"
}

func (s *SetAmount) Description() string {
	return fmt.Sprintf("Set %s to %d", s.Field, s.Amount)
}

func (s *SetAmount) Validate(base *domain.InputSnapshot) error {
	if base == nil {
		return NewTransformError(s.Name(), "validate", "base snapshot cannot be nil", nil)
	}
	if _, ok := amountFields[s.Field]; !ok {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("unknown field %q", s.Field), nil)
	}
	if s.Amount < 0 {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("amount must be non-negative, got %d", s.Amount), nil)
	}
	return nil
}

func (s *SetAmount) Apply(base *domain.InputSnapshot) (*domain.InputSnapshot, error) {
	field, ok := amountFields[s.Field]
	if !ok {
		return nil, NewTransformError(s.Name(), "apply", fmt.Sprintf("unknown field %q", s.Field), nil)
	}
	modified := base.Clone()
	*field(modified) = s.Amount
	return modified, nil
}

// SetDependents changes the number of dependents.
type SetDependents struct {
	Count int
}

func (s *SetDependents) Name() string {
	return "set_dependents"
}

func (s *SetDependents) Description() string {
	return fmt.Sprintf("Set dependents to %d", s.Count)
}

func (s *SetDependents) Validate(base *domain.InputSnapshot) error {
	if base == nil {
		return NewTransformError(s.Name(), "validate", "base snapshot cannot be nil", nil)
	}
	if s.Count < 0 || s.Count > 4 {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("count must be between 0 and 4, got %d", s.Count), nil)
	}
	return nil
}

func (s *SetDependents) Apply(base *domain.InputSnapshot) (*domain.InputSnapshot, error) {
	modified := base.Clone()
	modified.Dependents = s.Count
	return modified, nil
}

// ElectExemptIncome turns the 25% exempt-income election on or off.
type ElectExemptIncome struct {
	Elect bool
}

func (e *ElectExemptIncome) Name() string {
	return "elect_exempt"
}

func (e *ElectExemptIncome) Description() string {
	if e.Elect {
		return "Elect the 25% exempt income allowance"
	}
	return "Drop the 25% exempt income allowance"
}

func (e *ElectExemptIncome) Validate(base *domain.InputSnapshot) error {
	if base == nil {
		return NewTransformError(e.Name(), "validate", "base snapshot cannot be nil", nil)
	}
	return nil
}

func (e *ElectExemptIncome) Apply(base *domain.InputSnapshot) (*domain.InputSnapshot, error) {
	modified := base.Clone()
	modified.ElectsExemptIncome = e.Elect
	return modified, nil
}

// SetActivityClass moves the taxpayer to another Simple regime activity class.
type SetActivityClass struct {
	Class domain.ActivityClass
}

func (s *SetActivityClass) Name() string {
	return "set_activity"
}

func (s *SetActivityClass) Description() string {
	return fmt.Sprintf("Change activity class to %s", s.Class)
}

func (s *SetActivityClass) Validate(base *domain.InputSnapshot) error {
	if base == nil {
		return NewTransformError(s.Name(), "validate", "base snapshot cannot be nil", nil)
	}
	if !s.Class.Valid() {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("unknown activity class %q", s.Class), domain.ErrInvalidInput)
	}
	return nil
}

func (s *SetActivityClass) Apply(base *domain.InputSnapshot) (*domain.InputSnapshot, error) {
	modified := base.Clone()
	modified.ActivityClass = s.Class
	return modified, nil
}
