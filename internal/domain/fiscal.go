package domain

import (
	"github.com/shopspring/decimal"
)

// FiscalParameters is the year-scoped bundle of legal constants.
// It is loaded from the fiscal parameters table and never embedded in code.
type FiscalParameters struct {
	Year     int                `yaml:"year" json:"year"`
	UVT      decimal.Decimal    `yaml:"uvt" json:"uvt"`
	Ordinary OrdinaryParameters `yaml:"ordinary" json:"ordinary"`
	Simple   SimpleParameters   `yaml:"simple" json:"simple"`
}

// OrdinaryParameters holds the progressive table and deduction ceilings.
type OrdinaryParameters struct {
	Brackets   []OrdinaryBracket `yaml:"brackets" json:"brackets"`
	Deductions DeductionCeilings `yaml:"deductions" json:"deductions"`
}

// OrdinaryBracket is one row of the progressive income tax table.
// ToUVT is nil for the open-ended top bracket.
type OrdinaryBracket struct {
	Label        string           `yaml:"label" json:"label"`
	FromUVT      decimal.Decimal  `yaml:"from_uvt" json:"fromUvt"`
	ToUVT        *decimal.Decimal `yaml:"to_uvt" json:"toUvt,omitempty"`
	MarginalRate decimal.Decimal  `yaml:"marginal_rate" json:"marginalRate"`
	BaseTaxUVT   decimal.Decimal  `yaml:"base_tax_uvt" json:"baseTaxUvt"`
}

// DeductionCeilings contains the per-category and aggregate limits of the
// ordinary regime.
type DeductionCeilings struct {
	DependentUVT                 decimal.Decimal `yaml:"dependent_uvt" json:"dependentUvt"`
	MaxDependents                int             `yaml:"max_dependents" json:"maxDependents"`
	ElectronicPurchaseRate       decimal.Decimal `yaml:"electronic_purchase_rate" json:"electronicPurchaseRate"`
	ElectronicPurchaseCeilingUVT decimal.Decimal `yaml:"electronic_purchase_ceiling_uvt" json:"electronicPurchaseCeilingUvt"`
	PrepaidHealthCeilingUVT      decimal.Decimal `yaml:"prepaid_health_ceiling_uvt" json:"prepaidHealthCeilingUvt"`
	MortgageInterestCeilingUVT   decimal.Decimal `yaml:"mortgage_interest_ceiling_uvt" json:"mortgageInterestCeilingUvt"`
	VoluntaryPensionCeilingUVT   decimal.Decimal `yaml:"voluntary_pension_ceiling_uvt" json:"voluntaryPensionCeilingUvt"`
	VoluntaryPensionIncomeShare  decimal.Decimal `yaml:"voluntary_pension_income_share" json:"voluntaryPensionIncomeShare"`
	ExemptIncomeRate             decimal.Decimal `yaml:"exempt_income_rate" json:"exemptIncomeRate"`
	ExemptIncomeCeilingUVT       decimal.Decimal `yaml:"exempt_income_ceiling_uvt" json:"exemptIncomeCeilingUvt"`
	AggregateIncomeShare         decimal.Decimal `yaml:"aggregate_income_share" json:"aggregateIncomeShare"`
	AggregateCeilingUVT          decimal.Decimal `yaml:"aggregate_ceiling_uvt" json:"aggregateCeilingUvt"`
}

// SimpleParameters holds the Simple regime tables, discounts and calendar.
type SimpleParameters struct {
	MaxIncomeUVT               decimal.Decimal               `yaml:"max_income_uvt" json:"maxIncomeUvt"`
	Classes                    map[ActivityClass]SimpleClass `yaml:"classes" json:"classes"`
	ElectronicPaymentsDiscount Discount                      `yaml:"electronic_payments_discount" json:"electronicPaymentsDiscount"`
	GMFDiscount                Discount                      `yaml:"gmf_discount" json:"gmfDiscount"`
	AdvanceExemptionMaxUVT     decimal.Decimal               `yaml:"advance_exemption_max_uvt" json:"advanceExemptionMaxUvt"`
	AdvanceCalendar            []AdvanceDueDate              `yaml:"advance_calendar" json:"advanceCalendar"`
	Benefits                   []string                      `yaml:"benefits" json:"benefits"`
}

// SimpleClass is the consolidated-rate table of one activity class.
// MaxIncomeUVT, when positive, is an additional eligibility limit for the class.
type SimpleClass struct {
	Label        string          `yaml:"label" json:"label"`
	MaxIncomeUVT decimal.Decimal `yaml:"max_income_uvt" json:"maxIncomeUvt"`
	Brackets     []SimpleBracket `yaml:"brackets" json:"brackets"`
}

// SimpleBracket is one row of an activity class table.
type SimpleBracket struct {
	Label            string           `yaml:"label" json:"label"`
	FromUVT          decimal.Decimal  `yaml:"from_uvt" json:"fromUvt"`
	ToUVT            *decimal.Decimal `yaml:"to_uvt" json:"toUvt,omitempty"`
	ConsolidatedRate decimal.Decimal  `yaml:"consolidated_rate" json:"consolidatedRate"`
}

// Discount is a tax credit computed as a rate over an input, capped in UVT.
type Discount struct {
	Rate       decimal.Decimal `yaml:"rate" json:"rate"`
	CeilingUVT decimal.Decimal `yaml:"ceiling_uvt" json:"ceilingUvt"`
}

// AdvanceDueDate places the due date of a bimonthly advance.
// YearOffset is 1 for periods paid in the following calendar year.
type AdvanceDueDate struct {
	Period     int `yaml:"period" json:"period"`
	Month      int `yaml:"month" json:"month"`
	Day        int `yaml:"day" json:"day"`
	YearOffset int `yaml:"year_offset" json:"yearOffset"`
}

// DeepCopy returns an independent copy of the parameters.
func (p *FiscalParameters) DeepCopy() *FiscalParameters {
	c := *p

	c.Ordinary.Brackets = make([]OrdinaryBracket, len(p.Ordinary.Brackets))
	for i, b := range p.Ordinary.Brackets {
		b.ToUVT = copyDecimalPtr(b.ToUVT)
		c.Ordinary.Brackets[i] = b
	}

	c.Simple.Classes = make(map[ActivityClass]SimpleClass, len(p.Simple.Classes))
	for k, class := range p.Simple.Classes {
		brackets := make([]SimpleBracket, len(class.Brackets))
		for i, b := range class.Brackets {
			b.ToUVT = copyDecimalPtr(b.ToUVT)
			brackets[i] = b
		}
		class.Brackets = brackets
		c.Simple.Classes[k] = class
	}

	c.Simple.AdvanceCalendar = append([]AdvanceDueDate(nil), p.Simple.AdvanceCalendar...)
	c.Simple.Benefits = append([]string(nil), p.Simple.Benefits...)
	return &c
}

func copyDecimalPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
