package money

import "github.com/shopspring/decimal"

// Monetary amounts are carried at full precision and rounded to two decimal
// places only at output boundaries (a priced night, a stay total). Round uses
// half-up semantics, which decimal implements as half-away-from-zero.

var (
	Zero    = decimal.Zero
	Hundred = decimal.NewFromInt(100)
)

// Round2 rounds an amount to two decimal places, half-up.
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// Percent returns pct percent of v at full precision.
func Percent(v, pct decimal.Decimal) decimal.Decimal {
	return v.Mul(pct).Div(Hundred)
}

// AdjustPercent applies a relative adjustment: v * (1 + pct/100).
func AdjustPercent(v, pct decimal.Decimal) decimal.Decimal {
	return v.Mul(decimal.NewFromInt(1).Add(pct.Div(Hundred)))
}

// FromFloat converts a float input (JSON number) into an amount.
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// Max returns the larger of two amounts.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThanOrEqual(b) {
		return a
	}
	return b
}
