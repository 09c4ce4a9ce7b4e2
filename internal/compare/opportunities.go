package compare

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tribgo/tribgo/internal/calculation"
	"github.com/tribgo/tribgo/internal/domain"
	"github.com/tribgo/tribgo/internal/transform"
	"golang.org/x/sync/errgroup"
)

// lever is one what-if that fills unused capacity in a regime.
type lever struct {
	opportunity domain.SavingsOpportunity
	apply       transform.SnapshotTransform
}

// opportunities re-runs each regime with every under-used deduction or
// discount filled to its ceiling and keeps those that lower the net tax.
func (e *Engine) opportunities(ctx context.Context, in *domain.InputSnapshot, params *domain.FiscalParameters, ordinary *domain.OrdinaryResult, simple *domain.SimpleResult) ([]domain.SavingsOpportunity, error) {
	levers := ordinaryLevers(in, params, ordinary)
	eligible, isEligible := simple.Eligible()
	if isEligible {
		levers = append(levers, simpleLevers(in, eligible)...)
	}

	savings := make([]decimal.Decimal, len(levers))
	g, ctx := errgroup.WithContext(ctx)
	for i, lv := range levers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			modified, err := transform.ApplyTransforms(in, []transform.SnapshotTransform{lv.apply})
			if err != nil {
				return err
			}
			switch lv.opportunity.Regime {
			case domain.RegimeOrdinary:
				r, err := calculation.CalculateOrdinary(modified, params)
				if err != nil {
					return err
				}
				savings[i] = ordinary.NetTax.Sub(r.NetTax)
			case domain.RegimeSimple:
				r, err := calculation.CalculateSimple(modified, params)
				if err != nil {
					return err
				}
				if alt, ok := r.Eligible(); ok {
					savings[i] = eligible.NetTax.Sub(alt.NetTax)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]domain.SavingsOpportunity, 0, len(levers))
	for i, lv := range levers {
		if !savings[i].IsPositive() {
			continue
		}
		o := lv.opportunity
		o.PotentialSaving = savings[i]
		result = append(result, o)
	}
	SortOpportunities(result)
	e.Logger.Debugf("%d of %d what-if levers lower the net tax", len(result), len(levers))
	return result, nil
}

// SortOpportunities orders by potential saving, largest first.
func SortOpportunities(list []domain.SavingsOpportunity) {
	sort.SliceStable(list, func(i, j int) bool {
		if c := list[i].PotentialSaving.Cmp(list[j].PotentialSaving); c != 0 {
			return c > 0
		}
		if list[i].Regime != list[j].Regime {
			return list[i].Regime < list[j].Regime
		}
		return list[i].Category < list[j].Category
	})
}

func ordinaryLevers(in *domain.InputSnapshot, params *domain.FiscalParameters, r *domain.OrdinaryResult) []lever {
	var levers []lever

	amount := func(category domain.DeductionCategory, field string, current int64, rate decimal.Decimal) {
		entry, ok := r.Deductions.Entry(category)
		if !ok || entry.Capped.GreaterThanOrEqual(entry.Ceiling) {
			return
		}
		required, ok := requiredInput(entry.Ceiling, rate)
		if !ok || current >= required {
			return
		}
		levers = append(levers, lever{
			opportunity: deductionOpportunity(entry, required),
			apply:       &transform.SetAmount{Field: field, Amount: required},
		})
	}

	one := decimal.NewFromInt(1)
	amount(domain.DeductionElectronicPurchase, transform.FieldElectronicInvoicePurchases, in.ElectronicInvoicePurchases,
		params.Ordinary.Deductions.ElectronicPurchaseRate)
	amount(domain.DeductionPrepaidHealth, transform.FieldPrepaidHealth, in.PrepaidHealth, one)
	amount(domain.DeductionMortgageInterest, transform.FieldMortgageInterest, in.MortgageInterest, one)
	amount(domain.DeductionVoluntaryPension, transform.FieldVoluntaryPensionAFC, in.VoluntaryPensionAFC, one)

	if !in.ElectsExemptIncome {
		if entry, ok := r.Deductions.Entry(domain.DeductionExemptIncome); ok {
			levers = append(levers, lever{
				opportunity: deductionOpportunity(entry, 0),
				apply:       &transform.ElectExemptIncome{Elect: true},
			})
		}
	}
	return levers
}

func simpleLevers(in *domain.InputSnapshot, r *domain.SimpleEligible) []lever {
	var levers []lever

	add := func(entry domain.DiscountEntry, field string, current, limit int64) {
		if entry.Capped.GreaterThanOrEqual(entry.Ceiling) {
			return
		}
		required, ok := requiredInput(entry.Ceiling, entry.Rate)
		if !ok {
			return
		}
		if limit >= 0 && required > limit {
			required = limit
		}
		if current >= required {
			return
		}
		levers = append(levers, lever{
			opportunity: domain.SavingsOpportunity{
				Regime:         domain.RegimeSimple,
				Category:       string(entry.Kind),
				UtilizationPct: utilization(entry.Capped, entry.Ceiling),
				Ceiling:        entry.Ceiling,
				CurrentValue:   entry.Capped,
				RequiredInput:  required,
			},
			apply: &transform.SetAmount{Field: field, Amount: required},
		})
	}

	// Electronic payments received cannot exceed gross income.
	add(r.Discounts.ElectronicPayments, transform.FieldElectronicPaymentsReceived, in.ElectronicPaymentsReceived, in.GrossIncome)
	add(r.Discounts.GMF, transform.FieldGMFPaid, in.GMFPaid, -1)
	return levers
}

func deductionOpportunity(entry domain.DeductionEntry, required int64) domain.SavingsOpportunity {
	return domain.SavingsOpportunity{
		Regime:         domain.RegimeOrdinary,
		Category:       string(entry.Category),
		UtilizationPct: entry.Utilization(),
		Ceiling:        entry.Ceiling,
		CurrentValue:   entry.Capped,
		RequiredInput:  required,
	}
}

// requiredInput is the smallest peso input whose rate-share reaches ceiling.
func requiredInput(ceiling, rate decimal.Decimal) (int64, bool) {
	if !rate.IsPositive() || !ceiling.IsPositive() {
		return 0, false
	}
	return ceiling.Div(rate).Ceil().IntPart(), true
}

func utilization(value, ceiling decimal.Decimal) decimal.Decimal {
	if ceiling.IsZero() {
		return decimal.Zero
	}
	return value.Div(ceiling).Mul(decimal.NewFromInt(100)).Round(2)
}
