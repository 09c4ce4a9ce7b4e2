package compare

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatCOP renders a peso amount rounded to the peso with Spanish digit grouping, e.g. $1.234.567.
func FormatCOP(amount decimal.Decimal) string {
	p := message.NewPrinter(language.Spanish)
	v := amount.Round(0).IntPart()
	if v < 0 {
		return p.Sprintf("-$%d", -v)
	}
	return p.Sprintf("$%d", v)
}

// FormatPercent renders a rate such as 0.0115 as 1.15%.
func FormatPercent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

func pesos(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
