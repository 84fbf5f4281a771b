package calculation

import "github.com/shopspring/decimal"

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// clampRange bounds d to [0, limit]
func clampRange(d, limit decimal.Decimal) decimal.Decimal {
	if limit.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(clampZero(d), limit)
}

// ratio returns num/den, or zero when den is not positive
func ratio(num, den decimal.Decimal) decimal.Decimal {
	if !den.IsPositive() {
		return decimal.Zero
	}
	return num.Div(den)
}
