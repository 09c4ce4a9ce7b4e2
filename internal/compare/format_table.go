package compare

import (
	"fmt"
	"strings"

	"github.com/tribgo/tribgo/internal/domain"
)

const ruleWidth = 80

// TableFormatter formats comparison results as a console table
type TableFormatter struct {
	// ShowSteps appends the audit trail of each regime.
	ShowSteps bool
}

// Format generates a console report for a comparison
func (tf *TableFormatter) Format(result *domain.ComparisonResult) string {
	var sb strings.Builder

	sb.WriteString("TAX REGIME COMPARISON\n")
	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n")
	sb.WriteString(fmt.Sprintf("Fiscal year: %d\n", result.Year))
	sb.WriteString(fmt.Sprintf("Input:       %s\n", result.Fingerprint))
	sb.WriteString("\n")

	nameWidth := 22
	numWidth := 18

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s\n",
		nameWidth, "Regime",
		numWidth, "Net Tax",
		numWidth, "Effective Rate",
		numWidth, "Status"))
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")

	ord := result.Ordinary
	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s\n",
		nameWidth, "Ordinary",
		numWidth, FormatCOP(ord.NetTax),
		numWidth, FormatPercent(ord.EffectiveRate),
		numWidth, tf.marker(result, domain.RegimeOrdinary)))

	if eligible, ok := result.Simple.Eligible(); ok {
		sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s\n",
			nameWidth, "Simple ("+string(result.Simple.ActivityClass)+")",
			numWidth, FormatCOP(eligible.NetTax),
			numWidth, FormatPercent(eligible.EffectiveRate),
			numWidth, tf.marker(result, domain.RegimeSimple)))
	} else {
		sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s\n",
			nameWidth, "Simple",
			numWidth, "-",
			numWidth, "-",
			numWidth, "ineligible"))
	}
	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n")

	if result.Difference != nil {
		sb.WriteString(fmt.Sprintf("Difference (ordinary - simple): %s (%s%%)\n",
			FormatCOP(*result.Difference), result.PercentSavings.StringFixed(2)))
	}

	sb.WriteString("\nRECOMMENDATION\n")
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	if result.Recommendation.Tie {
		sb.WriteString(fmt.Sprintf("Tie, keep %s\n", result.Recommendation.Regime))
	} else {
		sb.WriteString(fmt.Sprintf("Choose %s\n", result.Recommendation.Regime))
	}
	for i, reason := range result.Recommendation.Reasons {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, reason))
	}

	sb.WriteString("\n")
	sb.WriteString(tf.FormatOrdinary(ord))
	sb.WriteString("\n")
	sb.WriteString(tf.FormatSimple(result.Simple))

	if len(result.Opportunities) > 0 {
		sb.WriteString("\nSAVINGS OPPORTUNITIES\n")
		sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
		sb.WriteString(fmt.Sprintf("%-10s %-28s %14s %10s %14s\n", "Regime", "Category", "Saving", "Used", "Required"))
		for _, o := range result.Opportunities {
			required := "-"
			if o.RequiredInput > 0 {
				required = FormatCOP(pesos(o.RequiredInput))
			}
			sb.WriteString(fmt.Sprintf("%-10s %-28s %14s %9s%% %14s\n",
				o.Regime, o.Category, FormatCOP(o.PotentialSaving), o.UtilizationPct.StringFixed(1), required))
		}
	}

	if len(result.Projection) > 0 {
		sb.WriteString("\nPROJECTION\n")
		sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
		sb.WriteString(fmt.Sprintf("%-6s %16s %16s %16s %-10s\n", "Year", "Gross Income", "Ordinary", "Simple", "Best"))
		for _, p := range result.Projection {
			simple := "ineligible"
			if p.SimpleNetTax != nil {
				simple = FormatCOP(*p.SimpleNetTax)
			}
			year := fmt.Sprintf("%d", p.Year)
			if p.Extrapolated {
				year += "*"
			}
			sb.WriteString(fmt.Sprintf("%-6s %16s %16s %16s %-10s\n",
				year, FormatCOP(pesos(p.GrossIncome)), FormatCOP(p.OrdinaryNetTax), simple, p.Recommended))
		}
		for _, p := range result.Projection {
			if p.Caveat != "" {
				sb.WriteString(fmt.Sprintf("  * %d: %s\n", p.Year, p.Caveat))
			}
		}
	}

	return sb.String()
}

// FormatOrdinary renders the ordinary regime detail.
func (tf *TableFormatter) FormatOrdinary(r *domain.OrdinaryResult) string {
	var sb strings.Builder

	sb.WriteString("ORDINARY REGIME\n")
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	tf.line(&sb, "Gross income", FormatCOP(r.GrossIncome))
	tf.line(&sb, "Costs", FormatCOP(r.Costs))
	tf.line(&sb, "Net income", FormatCOP(r.NetIncome))

	sb.WriteString(fmt.Sprintf("  %-28s %14s %14s %14s %8s\n", "Deduction", "Declared", "Ceiling", "Allowed", "Used"))
	for _, e := range r.Deductions.Entries {
		sb.WriteString(fmt.Sprintf("  %-28s %14s %14s %14s %7s%%\n",
			e.Category, FormatCOP(e.Raw), FormatCOP(e.Ceiling), FormatCOP(e.Capped), e.Utilization().StringFixed(1)))
	}
	tf.line(&sb, "Aggregate ceiling", FormatCOP(r.Deductions.AggregateCeiling))
	if r.Deductions.ExceededAmount.IsPositive() {
		tf.line(&sb, "Exceeded aggregate ceiling", FormatCOP(r.Deductions.ExceededAmount))
	}
	tf.line(&sb, "Total deductions", FormatCOP(r.Deductions.Total))
	tf.line(&sb, "Taxable income", FormatCOP(r.TaxableIncome))
	tf.line(&sb, "Taxable income (UVT)", r.TaxableIncomeUVT.StringFixed(2))
	tf.line(&sb, "Bracket", r.Bracket)
	tf.line(&sb, "Gross tax", FormatCOP(r.GrossTax))
	if r.EstimatedWithholdings.IsPositive() {
		tf.line(&sb, "Withholdings", FormatCOP(r.EstimatedWithholdings))
	}
	tf.line(&sb, "Net tax", FormatCOP(r.NetTax))
	tf.line(&sb, "Effective rate", FormatPercent(r.EffectiveRate))

	if tf.ShowSteps {
		tf.steps(&sb, r.Steps)
	}
	return sb.String()
}

// FormatSimple renders the Simple regime detail.
func (tf *TableFormatter) FormatSimple(r *domain.SimpleResult) string {
	var sb strings.Builder

	sb.WriteString("SIMPLE REGIME\n")
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	tf.line(&sb, "Gross income", FormatCOP(r.GrossIncome))
	tf.line(&sb, "Activity class", string(r.ActivityClass))

	if inel, ok := r.Ineligible(); ok {
		tf.line(&sb, "Status", "ineligible")
		for _, reason := range inel.Reasons {
			sb.WriteString(fmt.Sprintf("  - %s\n", reason.Message))
		}
	}

	if e, ok := r.Eligible(); ok {
		tf.line(&sb, "Bracket", e.Bracket)
		tf.line(&sb, "Consolidated rate", FormatPercent(e.ConsolidatedRate))
		tf.line(&sb, "Base tax", FormatCOP(e.BaseTax))
		tf.line(&sb, "Electronic payments discount", FormatCOP(e.Discounts.ElectronicPayments.Capped))
		tf.line(&sb, "GMF discount", FormatCOP(e.Discounts.GMF.Capped))
		tf.line(&sb, "Net tax", FormatCOP(e.NetTax))
		tf.line(&sb, "Effective rate", FormatPercent(e.EffectiveRate))

		if e.Advances.Exempt {
			tf.line(&sb, "Bimonthly advances", "exempt")
		} else {
			sb.WriteString(fmt.Sprintf("  %-8s %-12s %16s %16s\n", "Period", "Due", "Income", "Advance"))
			for _, a := range e.Advances.Entries {
				sb.WriteString(fmt.Sprintf("  %-8d %-12s %16s %16s\n",
					a.Period, a.DueDate.Format("2006-01-02"), FormatCOP(a.EstimatedIncome), FormatCOP(a.Amount)))
			}
			tf.line(&sb, "Total advances", FormatCOP(e.Advances.Total))
		}
	}

	if tf.ShowSteps {
		tf.steps(&sb, r.Steps)
	}
	return sb.String()
}

func (tf *TableFormatter) line(sb *strings.Builder, label, value string) {
	sb.WriteString(fmt.Sprintf("  %-30s %20s\n", label+":", value))
}

func (tf *TableFormatter) steps(sb *strings.Builder, steps []domain.CalculationStep) {
	sb.WriteString("  Steps:\n")
	for _, s := range steps {
		citation := ""
		if s.Citation != "" {
			citation = " [" + s.Citation + "]"
		}
		sb.WriteString(fmt.Sprintf("  %3d. %-40s %-9s %s%s\n", s.Order, s.Label, s.Operation, s.Value.String(), citation))
	}
}

func (tf *TableFormatter) marker(result *domain.ComparisonResult, regime domain.Regime) string {
	if result.Recommendation.Regime != regime {
		return ""
	}
	if result.Recommendation.Tie {
		return "current"
	}
	return "recommended"
}
