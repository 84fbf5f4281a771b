package calculation

import (
	"fmt"

	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/shopspring/decimal"
)

// Alert identifiers
const (
	AlertNear50Critical     = "near-50-critical"
	AlertNear50Warning      = "near-50-warning"
	AlertCreditPhaseOutZone = "credit-phaseout-zone"
	AlertCreditsExhausted   = "credits-exhausted"
	AlertLowFreeCash        = "low-free-cash"
	AlertVeryHighProfit     = "very-high-profit"
)

// Alert thresholds are fixed coaching cut points, not tax parameters.
var (
	criticalEffectiveRate = decimal.RequireFromString("0.50")
	warningEffectiveRate  = decimal.RequireFromString("0.45")
	phaseOutZoneStart     = decimal.NewFromInt(80000)
	creditsExhaustedStart = decimal.NewFromInt(110000)
	minFreeCashRatio      = decimal.RequireFromString("0.40")
	veryHighProfit        = decimal.NewFromInt(150000)
)

// BuildAlerts evaluates the coaching rules against a projection.
// Rules are independent; alerts come back in rule order.
func BuildAlerts(projection *domain.QuarterProjectionResult, params domain.TaxYearParameters) []domain.TaxAlert {
	alerts := []domain.TaxAlert{}
	if projection == nil || !projection.BusinessProfit.IsPositive() {
		return alerts
	}

	rate := projection.EffectiveTaxRate
	switch {
	case rate.GreaterThanOrEqual(criticalEffectiveRate):
		alerts = append(alerts, domain.TaxAlert{
			ID:          AlertNear50Critical,
			Level:       domain.AlertCritical,
			Title:       "Effective tax rate at or above 50%",
			Description: fmt.Sprintf("About %s%% of projected profit goes to IB and Zvw. Review deductions and timing of costs.", percent(rate)),
		})
	case rate.GreaterThanOrEqual(warningEffectiveRate):
		alerts = append(alerts, domain.TaxAlert{
			ID:          AlertNear50Warning,
			Level:       domain.AlertWarning,
			Title:       "Effective tax rate approaching 50%",
			Description: fmt.Sprintf("The effective rate is %s%%. Extra profit is taxed close to the top rate.", percent(rate)),
		})
	}

	taxable := projection.TaxableIncome
	switch {
	case taxable.GreaterThanOrEqual(creditsExhaustedStart):
		alerts = append(alerts, domain.TaxAlert{
			ID:          AlertCreditsExhausted,
			Level:       domain.AlertWarning,
			Title:       "Very high taxable income, credits exhausted",
			Description: fmt.Sprintf("The general credit is gone and the labour credit reaches zero at %s of income.", params.LabourCredit.PhaseOutEnd.StringFixed(0)),
		})
	case taxable.GreaterThanOrEqual(phaseOutZoneStart):
		alerts = append(alerts, domain.TaxAlert{
			ID:          AlertCreditPhaseOutZone,
			Level:       domain.AlertInfo,
			Title:       "Credit phase-out zone",
			Description: "Tax credits shrink as income rises here, so the marginal rate is higher than the bracket rate.",
		})
	}

	profit := projection.BusinessProfit
	freeCash := ratio(profit.Sub(projection.TotalTax), profit)
	if freeCash.LessThan(minFreeCashRatio) {
		alerts = append(alerts, domain.TaxAlert{
			ID:          AlertLowFreeCash,
			Level:       domain.AlertWarning,
			Title:       "Low free cash after tax",
			Description: fmt.Sprintf("Only %s%% of projected profit remains after tax. Set aside enough each quarter.", percent(freeCash)),
		})
	}

	if profit.GreaterThanOrEqual(veryHighProfit) {
		alerts = append(alerts, domain.TaxAlert{
			ID:          AlertVeryHighProfit,
			Level:       domain.AlertInfo,
			Title:       "Very high projected profit",
			Description: "Consider building reserves or investing part of the profit.",
		})
	}

	return alerts
}

func percent(fraction decimal.Decimal) string {
	return fraction.Mul(decimal.NewFromInt(100)).StringFixed(1)
}
