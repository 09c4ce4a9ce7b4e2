package compare

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tribgo/tribgo/internal/domain"
)

// Recommend selects the regime with the lower net tax.
// Differences below negligible are reported as a tie that keeps the current regime.
func Recommend(ordinary *domain.OrdinaryResult, simple *domain.SimpleResult, negligible decimal.Decimal, current domain.Regime) domain.Recommendation {
	eligible, ok := simple.Eligible()
	if !ok {
		reasons := []string{"Simple regime is not available for this taxpayer"}
		if inel, ok := simple.Ineligible(); ok {
			for _, r := range inel.Reasons {
				reasons = append(reasons, r.Message)
			}
		}
		reasons = append(reasons, fmt.Sprintf("Ordinary regime net tax: %s", FormatCOP(ordinary.NetTax)))
		return domain.Recommendation{Regime: domain.RegimeOrdinary, Reasons: reasons}
	}

	diff := ordinary.NetTax.Sub(eligible.NetTax)
	if diff.Abs().LessThan(negligible) {
		return domain.Recommendation{
			Regime: current,
			Tie:    true,
			Reasons: []string{
				fmt.Sprintf("Either regime: the difference of %s is below the %s threshold", FormatCOP(diff.Abs()), FormatCOP(negligible)),
				fmt.Sprintf("Prefer the current regime (%s) to avoid switching costs", current),
			},
		}
	}

	pct := percentSavings(diff, ordinary.NetTax, eligible.NetTax)
	if diff.IsPositive() {
		reasons := []string{
			fmt.Sprintf("Simple regime saves %s (%s%%) in net tax", FormatCOP(diff), pct.StringFixed(2)),
			fmt.Sprintf("Effective rate %s vs %s under the ordinary regime", FormatPercent(eligible.EffectiveRate), FormatPercent(ordinary.EffectiveRate)),
		}
		if !eligible.Advances.Exempt {
			reasons = append(reasons, fmt.Sprintf("Requires six bimonthly advances totaling %s", FormatCOP(eligible.Advances.Total)))
		}
		reasons = append(reasons, eligible.Benefits...)
		return domain.Recommendation{Regime: domain.RegimeSimple, Reasons: reasons}
	}

	reasons := []string{
		fmt.Sprintf("Ordinary regime saves %s (%s%%) in net tax", FormatCOP(diff.Abs()), pct.StringFixed(2)),
		fmt.Sprintf("Effective rate %s vs %s under the Simple regime", FormatPercent(ordinary.EffectiveRate), FormatPercent(eligible.EffectiveRate)),
	}
	if total := ordinary.Deductions.Total; total.IsPositive() {
		reasons = append(reasons, fmt.Sprintf("Deductions and exempt income reduce the taxable base by %s", FormatCOP(total)))
	}
	return domain.Recommendation{Regime: domain.RegimeOrdinary, Reasons: reasons}
}
