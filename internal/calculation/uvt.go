package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/tribgo/tribgo/internal/domain"
)

var periods = decimal.NewFromInt(domain.AdvancePeriods)

// ToUVT converts a peso amount into UVT without rounding.
func ToUVT(amount, uvt decimal.Decimal) decimal.Decimal {
	if uvt.IsZero() {
		return decimal.Zero
	}
	return amount.Div(uvt)
}

// FromUVT converts an amount in UVT into pesos without rounding.
func FromUVT(units, uvt decimal.Decimal) decimal.Decimal {
	return units.Mul(uvt)
}

// RoundCurrency rounds to the nearest whole peso.
func RoundCurrency(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(0)
}

// EffectiveRate returns tax / income rounded to six places, zero for no income.
func EffectiveRate(tax, income decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	return tax.Div(income).Round(6)
}

func maxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func pesos(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
