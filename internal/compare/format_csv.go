package compare

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/tribgo/tribgo/internal/domain"
)

// CSVFormatter formats comparison results as CSV, one value per row.
type CSVFormatter struct{}

// Format generates CSV output for a comparison
func (cf *CSVFormatter) Format(result *domain.ComparisonResult) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	rows := [][]string{{"Section", "Regime", "Item", "Value"}}
	add := func(section string, regime domain.Regime, item, value string) {
		rows = append(rows, []string{section, string(regime), item, value})
	}

	ord := result.Ordinary
	add("summary", domain.RegimeOrdinary, "net_tax", ord.NetTax.StringFixed(0))
	add("summary", domain.RegimeOrdinary, "effective_rate", ord.EffectiveRate.String())
	if e, ok := result.Simple.Eligible(); ok {
		add("summary", domain.RegimeSimple, "eligible", "true")
		add("summary", domain.RegimeSimple, "net_tax", e.NetTax.StringFixed(0))
		add("summary", domain.RegimeSimple, "effective_rate", e.EffectiveRate.String())
	} else {
		add("summary", domain.RegimeSimple, "eligible", "false")
	}
	if result.Difference != nil {
		add("summary", "", "difference", result.Difference.StringFixed(0))
		add("summary", "", "percent_savings", result.PercentSavings.StringFixed(2))
	}
	add("recommendation", result.Recommendation.Regime, "tie", fmt.Sprintf("%t", result.Recommendation.Tie))

	for _, e := range ord.Deductions.Entries {
		add("deduction", domain.RegimeOrdinary, string(e.Category), e.Capped.StringFixed(0))
	}
	add("deduction", domain.RegimeOrdinary, "exceeded_amount", ord.Deductions.ExceededAmount.StringFixed(0))

	if e, ok := result.Simple.Eligible(); ok {
		add("discount", domain.RegimeSimple, string(e.Discounts.ElectronicPayments.Kind), e.Discounts.ElectronicPayments.Capped.StringFixed(0))
		add("discount", domain.RegimeSimple, string(e.Discounts.GMF.Kind), e.Discounts.GMF.Capped.StringFixed(0))
		for _, a := range e.Advances.Entries {
			add("advance", domain.RegimeSimple, a.DueDate.Format("2006-01-02"), a.Amount.StringFixed(0))
		}
	}

	for _, o := range result.Opportunities {
		add("opportunity", o.Regime, o.Category, o.PotentialSaving.StringFixed(0))
	}

	for _, p := range result.Projection {
		item := fmt.Sprintf("%d", p.Year)
		add("projection", domain.RegimeOrdinary, item, p.OrdinaryNetTax.StringFixed(0))
		if p.SimpleNetTax != nil {
			add("projection", domain.RegimeSimple, item, p.SimpleNetTax.StringFixed(0))
		}
	}

	if err := writer.WriteAll(rows); err != nil {
		return "", err
	}
	return sb.String(), nil
}
