package calculation

import (
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/shopspring/decimal"
)

const quartersPerYear = 4

// ClampQuarter bounds a quarter pointer to 1..4
func ClampQuarter(q int) int {
	if q < 1 {
		return 1
	}
	if q > quartersPerYear {
		return quartersPerYear
	}
	return q
}

// YearToDateProfit sums income minus expenses over quarters 1..currentQuarter
func YearToDateProfit(input domain.QuarterProjectionInput) decimal.Decimal {
	current := ClampQuarter(input.CurrentQuarter)
	var total decimal.Decimal
	for q := 1; q <= current; q++ {
		total = total.Add(input.Quarter(q).Profit())
	}
	return total
}

// ProjectFromQuarters extrapolates the year-to-date profit linearly to a full year
// and computes the tax on the result. No rounding is applied.
func ProjectFromQuarters(input domain.QuarterProjectionInput, params domain.TaxYearParameters) domain.QuarterProjectionResult {
	current := ClampQuarter(input.CurrentQuarter)
	ytd := YearToDateProfit(input)

	quarters := decimal.NewFromInt(quartersPerYear)
	elapsed := decimal.NewFromInt(int64(current))
	// multiply before dividing so Q1, Q2 and Q4 stay exact
	projected := ytd.Mul(quarters).Div(elapsed)

	computation := ComputeTax(domain.TaxComputationInput{
		Year:           input.Year,
		BusinessProfit: projected,
		Profile:        input.Profile,
	}, params)

	return domain.QuarterProjectionResult{
		TaxComputationResult: computation,
		CurrentQuarter:       current,
		YearToDateProfit:     ytd,
		ExtrapolationFactor:  quarters.Div(elapsed),
		ProjectedYearProfit:  projected,
		QuarterlySetAside:    computation.TotalTax.Div(quarters),
	}
}

// YearEndProjection wraps a full-year computation in the projection shape,
// as if all four quarters had been booked.
func YearEndProjection(result domain.TaxComputationResult) domain.QuarterProjectionResult {
	return domain.QuarterProjectionResult{
		TaxComputationResult: result,
		CurrentQuarter:       quartersPerYear,
		YearToDateProfit:     result.BusinessProfit,
		ExtrapolationFactor:  decimal.NewFromInt(1),
		ProjectedYearProfit:  result.BusinessProfit,
		QuarterlySetAside:    result.TotalTax.Div(decimal.NewFromInt(quartersPerYear)),
	}
}
