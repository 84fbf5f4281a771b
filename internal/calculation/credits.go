package calculation

import (
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/shopspring/decimal"
)

// GeneralCredit is the full maximum up to PhaseOutStart, zero from PhaseOutEnd,
// and linear in between.
func GeneralCredit(taxable decimal.Decimal, rule domain.GeneralCreditRule) decimal.Decimal {
	if taxable.LessThanOrEqual(rule.PhaseOutStart) {
		return clampRange(rule.Max, rule.Max)
	}
	if taxable.GreaterThanOrEqual(rule.PhaseOutEnd) {
		return decimal.Zero
	}
	remaining := rule.PhaseOutEnd.Sub(taxable).Div(rule.PhaseOutEnd.Sub(rule.PhaseOutStart))
	return clampRange(rule.Max.Mul(remaining), rule.Max)
}

// LabourCredit follows three linear segments over pre-deduction Box-1 income:
// BuildUpRate up to BuildUpThreshold, a steeper build-up to Max at MaxThreshold,
// then a phase-out to zero at PhaseOutEnd.
func LabourCredit(income decimal.Decimal, rule domain.LabourCreditRule) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}

	firstSegmentTop := rule.BuildUpRate.Mul(rule.BuildUpThreshold)

	var credit decimal.Decimal
	switch {
	case income.LessThanOrEqual(rule.BuildUpThreshold):
		credit = income.Mul(rule.BuildUpRate)
	case income.LessThanOrEqual(rule.MaxThreshold):
		span := rule.MaxThreshold.Sub(rule.BuildUpThreshold)
		if !span.IsPositive() {
			credit = rule.Max
			break
		}
		progress := income.Sub(rule.BuildUpThreshold).Div(span)
		credit = firstSegmentTop.Add(rule.Max.Sub(firstSegmentTop).Mul(progress))
	case income.LessThan(rule.PhaseOutEnd):
		span := rule.PhaseOutEnd.Sub(rule.MaxThreshold)
		credit = rule.Max.Mul(rule.PhaseOutEnd.Sub(income).Div(span))
	default:
		credit = decimal.Zero
	}

	return clampRange(credit, rule.Max)
}
