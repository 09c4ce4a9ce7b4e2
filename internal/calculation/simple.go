package calculation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tribgo/tribgo/internal/domain"
)

const (
	ReasonIncomeAboveThreshold      = "ingresos_superan_tope"
	ReasonIncomeAboveClassThreshold = "ingresos_superan_tope_actividad"
)

// SimpleCalculator computes the Simple regime (RST) liability for one fiscal year.
type SimpleCalculator struct {
	params *domain.FiscalParameters
}

// NewSimpleCalculator creates a calculator bound to a year's parameters.
func NewSimpleCalculator(params *domain.FiscalParameters) *SimpleCalculator {
	return &SimpleCalculator{params: params}
}

// CalculateSimple is a shorthand for NewSimpleCalculator(params).Calculate(in).
func CalculateSimple(in *domain.InputSnapshot, params *domain.FiscalParameters) (*domain.SimpleResult, error) {
	return NewSimpleCalculator(params).Calculate(in)
}

// Calculate resolves eligibility, the consolidated tax, discounts and advances.
// An ineligible taxpayer is a valid result, not an error.
func (c *SimpleCalculator) Calculate(in *domain.InputSnapshot) (*domain.SimpleResult, error) {
	sp := c.params.Simple
	uvt := c.params.UVT

	class, ok := sp.Classes[in.ActivityClass]
	if !ok {
		return nil, domain.NewCalculationError("simple regime",
			fmt.Sprintf("activity class %q has no table for year %d", in.ActivityClass, c.params.Year),
			domain.ErrUnknownActivityClass)
	}

	rec := &stepRecorder{}
	gross := pesos(in.GrossIncome)
	incomeUVT := ToUVT(gross, uvt)
	rec.add("Ingresos brutos", domain.OpInput, gross, "")
	rec.add("Ingresos brutos en UVT", domain.OpConvert, incomeUVT.Round(4), "E.T. art. 868")

	result := &domain.SimpleResult{
		Year:          c.params.Year,
		GrossIncome:   gross,
		ActivityClass: in.ActivityClass,
	}

	if reasons := c.eligibility(gross, class); len(reasons) > 0 {
		rec.add("Elegibilidad", domain.OpCheck, decimal.Zero, "E.T. art. 905")
		result.Outcome = &domain.SimpleIneligible{Reasons: reasons}
		result.Steps = rec.list()
		return result, nil
	}
	rec.add("Elegibilidad", domain.OpCheck, decimal.NewFromInt(1), "E.T. art. 905")

	bracket, err := lookupSimpleBracket(class.Brackets, incomeUVT)
	if err != nil {
		return nil, domain.NewCalculationError("simple bracket lookup",
			fmt.Sprintf("income of %s UVT for class %s in year %d", incomeUVT.StringFixed(4), in.ActivityClass, c.params.Year), err)
	}
	rec.add("Tarifa consolidada "+bracket.Label, domain.OpLookup, bracket.ConsolidatedRate, "E.T. art. 908")

	baseTax := gross.Mul(bracket.ConsolidatedRate)
	rec.add("Impuesto consolidado", domain.OpMultiply, baseTax, "E.T. art. 908")

	discounts := c.discounts(in)
	rec.add("Descuento por pagos electronicos", domain.OpCap, discounts.ElectronicPayments.Capped, "E.T. art. 912")
	rec.add("Descuento por GMF", domain.OpCap, discounts.GMF.Capped, "E.T. art. 912")

	netTax := RoundCurrency(maxZero(baseTax.Sub(discounts.Total)))
	rec.add("Impuesto neto a cargo", domain.OpRound, netTax, "")

	advances, err := c.advances(in, class)
	if err != nil {
		return nil, err
	}
	rec.add("Anticipos bimestrales", domain.OpSchedule, advances.Total, "E.T. art. 910")

	result.Outcome = &domain.SimpleEligible{
		Bracket:          bracket.Label,
		IncomeUVT:        incomeUVT.Round(4),
		ConsolidatedRate: bracket.ConsolidatedRate,
		BaseTax:          baseTax,
		Discounts:        discounts,
		NetTax:           netTax,
		EffectiveRate:    EffectiveRate(netTax, gross),
		Advances:         advances,
		Benefits:         append([]string(nil), sp.Benefits...),
	}
	result.Steps = rec.list()
	return result, nil
}

func (c *SimpleCalculator) eligibility(gross decimal.Decimal, class domain.SimpleClass) []domain.IneligibilityReason {
	uvt := c.params.UVT
	var reasons []domain.IneligibilityReason

	limit := FromUVT(c.params.Simple.MaxIncomeUVT, uvt)
	if gross.GreaterThan(limit) {
		reasons = append(reasons, domain.IneligibilityReason{
			Code: ReasonIncomeAboveThreshold,
			Message: fmt.Sprintf("gross income %s exceeds the %s UVT threshold (%s)",
				gross.StringFixed(0), c.params.Simple.MaxIncomeUVT.String(), limit.StringFixed(0)),
		})
	}

	if class.MaxIncomeUVT.IsPositive() {
		classLimit := FromUVT(class.MaxIncomeUVT, uvt)
		if gross.GreaterThan(classLimit) {
			reasons = append(reasons, domain.IneligibilityReason{
				Code: ReasonIncomeAboveClassThreshold,
				Message: fmt.Sprintf("gross income %s exceeds the %s UVT threshold for %s (%s)",
					gross.StringFixed(0), class.MaxIncomeUVT.String(), class.Label, classLimit.StringFixed(0)),
			})
		}
	}
	return reasons
}

func (c *SimpleCalculator) discounts(in *domain.InputSnapshot) domain.DiscountBreakdown {
	sp := c.params.Simple
	payments := discountEntry(domain.DiscountElectronicPayments, pesos(in.ElectronicPaymentsReceived), sp.ElectronicPaymentsDiscount, c.params.UVT)
	gmf := discountEntry(domain.DiscountGMF, pesos(in.GMFPaid), sp.GMFDiscount, c.params.UVT)
	return domain.DiscountBreakdown{
		ElectronicPayments: payments,
		GMF:                gmf,
		Total:              payments.Capped.Add(gmf.Capped),
	}
}

func discountEntry(kind domain.DiscountKind, input decimal.Decimal, d domain.Discount, uvt decimal.Decimal) domain.DiscountEntry {
	raw := input.Mul(d.Rate)
	ceiling := FromUVT(d.CeilingUVT, uvt)
	return domain.DiscountEntry{
		Kind:    kind,
		Input:   input,
		Rate:    d.Rate,
		Raw:     raw,
		Ceiling: ceiling,
		Capped:  decimal.Min(raw, ceiling),
	}
}

// advances builds the six bimonthly advance payments. Each period's rate is
// the class rate for the period income annualized.
func (c *SimpleCalculator) advances(in *domain.InputSnapshot, class domain.SimpleClass) (domain.AdvanceSchedule, error) {
	sp := c.params.Simple
	uvt := c.params.UVT
	gross := pesos(in.GrossIncome)

	exemptLimit := FromUVT(sp.AdvanceExemptionMaxUVT, uvt)
	if gross.LessThanOrEqual(exemptLimit) {
		return domain.AdvanceSchedule{
			Exempt: true,
			ExemptionReason: fmt.Sprintf("gross income does not exceed %s UVT (%s)",
				sp.AdvanceExemptionMaxUVT.String(), exemptLimit.StringFixed(0)),
			Entries: []domain.AdvanceEntry{},
			Total:   decimal.Zero,
		}, nil
	}

	if len(sp.AdvanceCalendar) != domain.AdvancePeriods {
		return domain.AdvanceSchedule{}, domain.NewCalculationError("simple advance schedule",
			fmt.Sprintf("calendar for year %d has %d periods", c.params.Year, len(sp.AdvanceCalendar)),
			domain.ErrInvalidFiscalTable)
	}

	schedule := domain.AdvanceSchedule{Entries: make([]domain.AdvanceEntry, 0, domain.AdvancePeriods), Total: decimal.Zero}
	for i := 0; i < domain.AdvancePeriods; i++ {
		income := gross.Div(periods)
		if len(in.BimonthlyIncome) == domain.AdvancePeriods {
			income = pesos(in.BimonthlyIncome[i])
		}

		bracket, err := lookupSimpleBracket(class.Brackets, ToUVT(income.Mul(periods), uvt))
		if err != nil {
			return domain.AdvanceSchedule{}, domain.NewCalculationError("simple advance schedule",
				fmt.Sprintf("period %d", i+1), err)
		}

		amount := RoundCurrency(income.Mul(bracket.ConsolidatedRate))
		due := sp.AdvanceCalendar[i]
		schedule.Entries = append(schedule.Entries, domain.AdvanceEntry{
			Period:          i + 1,
			EstimatedIncome: income,
			Rate:            bracket.ConsolidatedRate,
			Amount:          amount,
			DueDate:         time.Date(c.params.Year+due.YearOffset, time.Month(due.Month), due.Day, 0, 0, 0, 0, time.UTC),
		})
		schedule.Total = schedule.Total.Add(amount)
	}
	return schedule, nil
}

// lookupSimpleBracket finds the bracket with from <= amount < to+1.
// A gap between brackets yields ErrBracketNotFound.
func lookupSimpleBracket(brackets []domain.SimpleBracket, amountUVT decimal.Decimal) (domain.SimpleBracket, error) {
	one := decimal.NewFromInt(1)
	for _, b := range brackets {
		if amountUVT.LessThan(b.FromUVT) {
			continue
		}
		if b.ToUVT == nil || amountUVT.LessThan(b.ToUVT.Add(one)) {
			return b, nil
		}
	}
	return domain.SimpleBracket{}, domain.ErrBracketNotFound
}
