package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// OperationKind classifies an audit trail step.
type OperationKind string

const (
	OpInput    OperationKind = "input"
	OpSubtract OperationKind = "subtract"
	OpMultiply OperationKind = "multiply"
	OpCap      OperationKind = "cap"
	OpSum      OperationKind = "sum"
	OpConvert  OperationKind = "convert"
	OpLookup   OperationKind = "lookup"
	OpRound    OperationKind = "round"
	OpCheck    OperationKind = "check"
	OpSchedule OperationKind = "schedule"
)

// CalculationStep is one entry of a reproducible audit trail.
type CalculationStep struct {
	Order     int             `json:"order"`
	Label     string          `json:"label"`
	Operation OperationKind   `json:"operation"`
	Value     decimal.Decimal `json:"value"`
	Citation  string          `json:"citation,omitempty"`
}

// CapScope tells whether a deduction counts toward the aggregate ceiling.
type CapScope string

const (
	InsideCap  CapScope = "inside_cap"
	OutsideCap CapScope = "outside_cap"
)

// DeductionCategory names an ordinary regime deduction.
type DeductionCategory string

const (
	DeductionDependents         DeductionCategory = "dependientes"
	DeductionElectronicPurchase DeductionCategory = "compras_factura_electronica"
	DeductionPrepaidHealth      DeductionCategory = "medicina_prepagada"
	DeductionMortgageInterest   DeductionCategory = "intereses_vivienda"
	DeductionVoluntaryPension   DeductionCategory = "pension_voluntaria_afc"
	DeductionExemptIncome       DeductionCategory = "renta_exenta_25"
)

// DeductionEntry is the outcome of one deduction category.
// Capped is the value after both the category ceiling and, for inside-cap
// categories, the aggregate ceiling. AggregateExcess is what the aggregate
// ceiling removed from this category.
type DeductionEntry struct {
	Category        DeductionCategory `json:"category"`
	Scope           CapScope          `json:"scope"`
	Raw             decimal.Decimal   `json:"raw"`
	Ceiling         decimal.Decimal   `json:"ceiling"`
	CeilingUVT      decimal.Decimal   `json:"ceilingUvt"`
	Capped          decimal.Decimal   `json:"capped"`
	AggregateExcess decimal.Decimal   `json:"aggregateExcess"`
}

// Utilization returns Capped as a percentage of Ceiling.
func (e DeductionEntry) Utilization() decimal.Decimal {
	if e.Ceiling.IsZero() {
		return decimal.Zero
	}
	return e.Capped.Div(e.Ceiling).Mul(decimal.NewFromInt(100)).Round(2)
}

// DeductionBreakdown lists every category in legal presentation order.
type DeductionBreakdown struct {
	Entries          []DeductionEntry `json:"entries"`
	InsideCapTotal   decimal.Decimal  `json:"insideCapTotal"`
	OutsideCapTotal  decimal.Decimal  `json:"outsideCapTotal"`
	AggregateCeiling decimal.Decimal  `json:"aggregateCeiling"`
	ExceededAmount   decimal.Decimal  `json:"exceededAmount"`
	Total            decimal.Decimal  `json:"total"`
}

// Entry returns the entry for a category.
func (b DeductionBreakdown) Entry(c DeductionCategory) (DeductionEntry, bool) {
	for _, e := range b.Entries {
		if e.Category == c {
			return e, true
		}
	}
	return DeductionEntry{}, false
}

// OrdinaryResult is the ordinary regime liability with its audit trail.
type OrdinaryResult struct {
	Year                  int                `json:"year"`
	GrossIncome           decimal.Decimal    `json:"grossIncome"`
	Costs                 decimal.Decimal    `json:"costs"`
	NetIncome             decimal.Decimal    `json:"netIncome"`
	Deductions            DeductionBreakdown `json:"deductions"`
	TaxableIncome         decimal.Decimal    `json:"taxableIncome"`
	TaxableIncomeUVT      decimal.Decimal    `json:"taxableIncomeUvt"`
	Bracket               string             `json:"bracket"`
	MarginalRate          decimal.Decimal    `json:"marginalRate"`
	GrossTax              decimal.Decimal    `json:"grossTax"`
	EstimatedWithholdings decimal.Decimal    `json:"estimatedWithholdings"`
	NetTax                decimal.Decimal    `json:"netTax"`
	EffectiveRate         decimal.Decimal    `json:"effectiveRate"`
	Steps                 []CalculationStep  `json:"steps"`
}

// IneligibilityReason explains why the Simple regime is not available.
type IneligibilityReason struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SimpleOutcome is either *SimpleEligible or *SimpleIneligible.
type SimpleOutcome interface {
	simpleOutcome()
}

// SimpleIneligible is the outcome when the taxpayer cannot use the Simple regime.
type SimpleIneligible struct {
	Reasons []IneligibilityReason `json:"reasons"`
}

func (*SimpleIneligible) simpleOutcome() {}

// SimpleEligible is the Simple regime liability for an eligible taxpayer.
type SimpleEligible struct {
	Bracket          string            `json:"bracket"`
	IncomeUVT        decimal.Decimal   `json:"incomeUvt"`
	ConsolidatedRate decimal.Decimal   `json:"consolidatedRate"`
	BaseTax          decimal.Decimal   `json:"baseTax"`
	Discounts        DiscountBreakdown `json:"discounts"`
	NetTax           decimal.Decimal   `json:"netTax"`
	EffectiveRate    decimal.Decimal   `json:"effectiveRate"`
	Advances         AdvanceSchedule   `json:"advances"`
	Benefits         []string          `json:"benefits"`
}

func (*SimpleEligible) simpleOutcome() {}

// SimpleResult is the Simple regime evaluation of a snapshot.
type SimpleResult struct {
	Year          int               `json:"year"`
	GrossIncome   decimal.Decimal   `json:"grossIncome"`
	ActivityClass ActivityClass     `json:"activityClass"`
	Outcome       SimpleOutcome     `json:"-"`
	Steps         []CalculationStep `json:"steps"`
}

// Eligible returns the eligible outcome, if any.
func (r *SimpleResult) Eligible() (*SimpleEligible, bool) {
	e, ok := r.Outcome.(*SimpleEligible)
	return e, ok
}

// Ineligible returns the ineligible outcome, if any.
func (r *SimpleResult) Ineligible() (*SimpleIneligible, bool) {
	i, ok := r.Outcome.(*SimpleIneligible)
	return i, ok
}

// MarshalJSON flattens the outcome next to an "eligible" flag.
func (r SimpleResult) MarshalJSON() ([]byte, error) {
	type base struct {
		Year          int               `json:"year"`
		GrossIncome   decimal.Decimal   `json:"grossIncome"`
		ActivityClass ActivityClass     `json:"activityClass"`
		Eligible      bool              `json:"eligible"`
		Steps         []CalculationStep `json:"steps"`
	}
	b := base{
		Year:          r.Year,
		GrossIncome:   r.GrossIncome,
		ActivityClass: r.ActivityClass,
		Steps:         r.Steps,
	}
	switch o := r.Outcome.(type) {
	case *SimpleEligible:
		b.Eligible = true
		return json.Marshal(struct {
			base
			*SimpleEligible
		}{b, o})
	case *SimpleIneligible:
		return json.Marshal(struct {
			base
			*SimpleIneligible
		}{b, o})
	default:
		return json.Marshal(b)
	}
}

// UnmarshalJSON restores the outcome written by MarshalJSON.
func (r *SimpleResult) UnmarshalJSON(data []byte) error {
	var head struct {
		Year          int               `json:"year"`
		GrossIncome   decimal.Decimal   `json:"grossIncome"`
		ActivityClass ActivityClass     `json:"activityClass"`
		Eligible      bool              `json:"eligible"`
		Reasons       json.RawMessage   `json:"reasons"`
		Steps         []CalculationStep `json:"steps"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	*r = SimpleResult{
		Year:          head.Year,
		GrossIncome:   head.GrossIncome,
		ActivityClass: head.ActivityClass,
		Steps:         head.Steps,
	}
	switch {
	case head.Eligible:
		var e SimpleEligible
		if err := json.Unmarshal(data, &e); err != nil {
			return err
		}
		r.Outcome = &e
	case head.Reasons != nil:
		var i SimpleIneligible
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		r.Outcome = &i
	}
	return nil
}

// DiscountKind names a Simple regime discount.
type DiscountKind string

const (
	DiscountElectronicPayments DiscountKind = "pagos_electronicos"
	DiscountGMF                DiscountKind = "gmf"
)

// DiscountEntry is one capped Simple regime discount.
type DiscountEntry struct {
	Kind    DiscountKind    `json:"kind"`
	Input   decimal.Decimal `json:"input"`
	Rate    decimal.Decimal `json:"rate"`
	Raw     decimal.Decimal `json:"raw"`
	Ceiling decimal.Decimal `json:"ceiling"`
	Capped  decimal.Decimal `json:"capped"`
}

// DiscountBreakdown holds the independent Simple regime discounts.
type DiscountBreakdown struct {
	ElectronicPayments DiscountEntry   `json:"electronicPayments"`
	GMF                DiscountEntry   `json:"gmf"`
	Total              decimal.Decimal `json:"total"`
}

// AdvanceEntry is one bimonthly advance payment.
type AdvanceEntry struct {
	Period          int             `json:"period"`
	EstimatedIncome decimal.Decimal `json:"estimatedIncome"`
	Rate            decimal.Decimal `json:"rate"`
	Amount          decimal.Decimal `json:"amount"`
	DueDate         time.Time       `json:"dueDate"`
}

// AdvanceSchedule lists the six bimonthly advances of the fiscal year.
// Exempt schedules carry no entries.
type AdvanceSchedule struct {
	Exempt          bool            `json:"exempt"`
	ExemptionReason string          `json:"exemptionReason,omitempty"`
	Entries         []AdvanceEntry  `json:"entries"`
	Total           decimal.Decimal `json:"total"`
}

// SavingsOpportunity is unused deduction or discount capacity.
type SavingsOpportunity struct {
	Regime          Regime          `json:"regime"`
	Category        string          `json:"category"`
	PotentialSaving decimal.Decimal `json:"potentialSaving"`
	UtilizationPct  decimal.Decimal `json:"utilizationPct"`
	Ceiling         decimal.Decimal `json:"ceiling"`
	CurrentValue    decimal.Decimal `json:"currentValue"`
	RequiredInput   int64           `json:"requiredInput"`
}

// Recommendation is the selected regime with ranked reasons.
type Recommendation struct {
	Regime  Regime   `json:"regime"`
	Tie     bool     `json:"tie"`
	Reasons []string `json:"reasons"`
}

// ProjectionYear is the comparison of one future year.
type ProjectionYear struct {
	Year           int              `json:"year"`
	ParameterYear  int              `json:"parameterYear"`
	GrossIncome    int64            `json:"grossIncome"`
	OrdinaryNetTax decimal.Decimal  `json:"ordinaryNetTax"`
	SimpleEligible bool             `json:"simpleEligible"`
	SimpleNetTax   *decimal.Decimal `json:"simpleNetTax,omitempty"`
	Difference     *decimal.Decimal `json:"difference,omitempty"`
	Recommended    Regime           `json:"recommended"`
	Extrapolated   bool             `json:"extrapolated"`
	Caveat         string           `json:"caveat,omitempty"`
}

// ComparisonResult is the full output of a regime comparison.
type ComparisonResult struct {
	Year           int                  `json:"year"`
	Fingerprint    string               `json:"fingerprint"`
	Ordinary       *OrdinaryResult      `json:"ordinary"`
	Simple         *SimpleResult        `json:"simple"`
	Difference     *decimal.Decimal     `json:"difference,omitempty"`
	PercentSavings *decimal.Decimal     `json:"percentSavings,omitempty"`
	Recommendation Recommendation       `json:"recommendation"`
	Opportunities  []SavingsOpportunity `json:"opportunities"`
	Projection     []ProjectionYear     `json:"projection,omitempty"`
}
