package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tribgo/tribgo/internal/domain"
)

// ORDINARY REGIME ASSUMPTIONS:
//
// 1. Net income is gross income minus costs, floored at zero.
//
// 2. Dependents and electronic-invoice purchases are deducted outside the
//    aggregate ceiling. Every other category counts toward it.
//
// 3. The 25% exempt allowance is computed on net income after the outside-cap
//    deductions and the other inside-cap categories.
//
// 4. When the aggregate ceiling is exceeded, categories are admitted in legal
//    presentation order and the cut falls on the last ones admitted. This is a
//    policy choice, not a statutory rule.
//
// 5. Amounts are carried unrounded. Net tax is rounded once to the peso.

// OrdinaryCalculator computes the ordinary regime liability for one fiscal year.
type OrdinaryCalculator struct {
	params *domain.FiscalParameters
}

// NewOrdinaryCalculator creates a calculator bound to a year's parameters.
func NewOrdinaryCalculator(params *domain.FiscalParameters) *OrdinaryCalculator {
	return &OrdinaryCalculator{params: params}
}

// CalculateOrdinary is a shorthand for NewOrdinaryCalculator(params).Calculate(in).
func CalculateOrdinary(in *domain.InputSnapshot, params *domain.FiscalParameters) (*domain.OrdinaryResult, error) {
	return NewOrdinaryCalculator(params).Calculate(in)
}

// Calculate resolves net income, deductions, the bracket and the net tax.
// The snapshot must already be validated.
func (c *OrdinaryCalculator) Calculate(in *domain.InputSnapshot) (*domain.OrdinaryResult, error) {
	uvt := c.params.UVT
	rec := &stepRecorder{}

	gross := pesos(in.GrossIncome)
	costs := pesos(in.Costs)
	rec.add("Ingresos brutos", domain.OpInput, gross, "")
	rec.add("Costos y gastos procedentes", domain.OpInput, costs, "E.T. art. 107")

	netIncome := maxZero(gross.Sub(costs))
	rec.add("Renta liquida", domain.OpSubtract, netIncome, "E.T. art. 26")

	breakdown := c.deductions(in, gross, netIncome, rec)

	taxable := maxZero(netIncome.Sub(breakdown.Total))
	rec.add("Renta liquida gravable", domain.OpSubtract, taxable, "E.T. art. 26")

	taxableUVT := ToUVT(taxable, uvt)
	rec.add("Renta gravable en UVT", domain.OpConvert, taxableUVT.Round(4), "E.T. art. 868")

	result := &domain.OrdinaryResult{
		Year:                  c.params.Year,
		GrossIncome:           gross,
		Costs:                 costs,
		NetIncome:             netIncome,
		Deductions:            breakdown,
		TaxableIncome:         taxable,
		TaxableIncomeUVT:      taxableUVT.Round(4),
		MarginalRate:          decimal.Zero,
		GrossTax:              decimal.Zero,
		EstimatedWithholdings: pesos(in.Withholdings),
	}

	grossTax := decimal.Zero
	if taxable.IsPositive() {
		bracket, err := lookupOrdinaryBracket(c.params.Ordinary.Brackets, taxableUVT)
		if err != nil {
			return nil, domain.NewCalculationError("ordinary bracket lookup",
				fmt.Sprintf("taxable income of %s UVT in year %d", taxableUVT.StringFixed(4), c.params.Year), err)
		}
		grossTax = bracket.BaseTaxUVT.Add(bracket.MarginalRate.Mul(taxableUVT.Sub(bracket.FromUVT))).Mul(uvt)
		result.Bracket = bracket.Label
		result.MarginalRate = bracket.MarginalRate
		rec.add("Tarifa marginal "+bracket.Label, domain.OpLookup, bracket.MarginalRate, "E.T. art. 241")
	}
	result.GrossTax = grossTax.Round(2)
	rec.add("Impuesto de renta", domain.OpMultiply, result.GrossTax, "E.T. art. 241")

	rec.add("Retenciones en la fuente", domain.OpInput, result.EstimatedWithholdings, "E.T. art. 367")

	result.NetTax = RoundCurrency(maxZero(grossTax.Sub(result.EstimatedWithholdings)))
	rec.add("Impuesto neto a cargo", domain.OpRound, result.NetTax, "")

	result.EffectiveRate = EffectiveRate(result.NetTax, gross)
	result.Steps = rec.list()
	return result, nil
}

// deductions computes every category, then applies the aggregate ceiling.
func (c *OrdinaryCalculator) deductions(in *domain.InputSnapshot, gross, netIncome decimal.Decimal, rec *stepRecorder) domain.DeductionBreakdown {
	uvt := c.params.UVT
	d := c.params.Ordinary.Deductions

	dependents := capEntry(domain.DeductionDependents, domain.OutsideCap,
		FromUVT(d.DependentUVT.Mul(decimal.NewFromInt(int64(in.Dependents))), uvt),
		d.DependentUVT.Mul(decimal.NewFromInt(int64(d.MaxDependents))), uvt)
	rec.add("Deduccion por dependientes", domain.OpCap, dependents.Capped, "E.T. art. 336 num. 3")

	purchases := capEntry(domain.DeductionElectronicPurchase, domain.OutsideCap,
		pesos(in.ElectronicInvoicePurchases).Mul(d.ElectronicPurchaseRate),
		d.ElectronicPurchaseCeilingUVT, uvt)
	rec.add("Deduccion compras con factura electronica", domain.OpCap, purchases.Capped, "E.T. art. 336 num. 5")

	outsideTotal := dependents.Capped.Add(purchases.Capped)

	health := capEntry(domain.DeductionPrepaidHealth, domain.InsideCap,
		pesos(in.PrepaidHealth), d.PrepaidHealthCeilingUVT, uvt)
	rec.add("Medicina prepagada", domain.OpCap, health.Capped, "E.T. art. 387")

	mortgage := capEntry(domain.DeductionMortgageInterest, domain.InsideCap,
		pesos(in.MortgageInterest), d.MortgageInterestCeilingUVT, uvt)
	rec.add("Intereses de vivienda", domain.OpCap, mortgage.Capped, "E.T. art. 119")

	pension := capEntry(domain.DeductionVoluntaryPension, domain.InsideCap,
		pesos(in.VoluntaryPensionAFC), d.VoluntaryPensionCeilingUVT, uvt)
	if d.VoluntaryPensionIncomeShare.IsPositive() {
		pension = recap(pension, decimal.Min(pension.Ceiling, gross.Mul(d.VoluntaryPensionIncomeShare)))
	}
	rec.add("Aportes voluntarios a pension y AFC", domain.OpCap, pension.Capped, "E.T. art. 126-1, 126-4")

	exemptRaw := decimal.Zero
	if in.ElectsExemptIncome {
		base := maxZero(netIncome.Sub(outsideTotal).Sub(health.Capped).Sub(mortgage.Capped).Sub(pension.Capped))
		exemptRaw = base.Mul(d.ExemptIncomeRate)
	}
	exempt := capEntry(domain.DeductionExemptIncome, domain.InsideCap,
		exemptRaw, d.ExemptIncomeCeilingUVT, uvt)
	rec.add("Renta exenta del 25%", domain.OpCap, exempt.Capped, "E.T. art. 206 num. 10")

	entries := []domain.DeductionEntry{dependents, purchases, health, mortgage, pension, exempt}

	aggregate := decimal.Min(
		netIncome.Mul(d.AggregateIncomeShare),
		FromUVT(d.AggregateCeilingUVT, uvt),
	)
	rec.add("Limite global de deducciones y rentas exentas", domain.OpCap, aggregate, "E.T. art. 336 num. 3")

	remaining := aggregate
	insideTotal := decimal.Zero
	exceeded := decimal.Zero
	for i := range entries {
		if entries[i].Scope != domain.InsideCap {
			continue
		}
		admitted := decimal.Min(entries[i].Capped, remaining)
		excess := entries[i].Capped.Sub(admitted)
		entries[i].Capped = admitted
		entries[i].AggregateExcess = excess
		remaining = remaining.Sub(admitted)
		insideTotal = insideTotal.Add(admitted)
		exceeded = exceeded.Add(excess)
	}
	rec.add("Deducciones sujetas al limite", domain.OpSum, insideTotal, "")
	if exceeded.IsPositive() {
		rec.add("Exceso sobre el limite global", domain.OpCap, exceeded, "E.T. art. 336 num. 3")
	}
	rec.add("Deducciones fuera del limite", domain.OpSum, outsideTotal, "")

	return domain.DeductionBreakdown{
		Entries:          entries,
		InsideCapTotal:   insideTotal,
		OutsideCapTotal:  outsideTotal,
		AggregateCeiling: aggregate,
		ExceededAmount:   exceeded,
		Total:            insideTotal.Add(outsideTotal),
	}
}

// capEntry applies a category ceiling expressed in UVT.
func capEntry(category domain.DeductionCategory, scope domain.CapScope, raw, ceilingUVT, uvt decimal.Decimal) domain.DeductionEntry {
	ceiling := FromUVT(ceilingUVT, uvt)
	return domain.DeductionEntry{
		Category:        category,
		Scope:           scope,
		Raw:             raw,
		Ceiling:         ceiling,
		CeilingUVT:      ceilingUVT,
		Capped:          decimal.Min(raw, ceiling),
		AggregateExcess: decimal.Zero,
	}
}

// recap tightens an entry's ceiling.
func recap(e domain.DeductionEntry, ceiling decimal.Decimal) domain.DeductionEntry {
	e.Ceiling = ceiling
	e.Capped = decimal.Min(e.Raw, ceiling)
	return e
}

// lookupOrdinaryBracket finds the bracket with from <= amount < to+1.
// A gap between brackets yields ErrBracketNotFound.
func lookupOrdinaryBracket(brackets []domain.OrdinaryBracket, amountUVT decimal.Decimal) (domain.OrdinaryBracket, error) {
	one := decimal.NewFromInt(1)
	for _, b := range brackets {
		if amountUVT.LessThan(b.FromUVT) {
			continue
		}
		if b.ToUVT == nil || amountUVT.LessThan(b.ToUVT.Add(one)) {
			return b, nil
		}
	}
	return domain.OrdinaryBracket{}, domain.ErrBracketNotFound
}
