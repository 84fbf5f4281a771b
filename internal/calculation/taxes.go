package calculation

import (
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Box 1 only. Business profit is the winst uit onderneming of a single
//    entrepreneur who meets the hours criterion.
//
// 2. Entrepreneur deductions are the self-employed deduction (zelfstandigenaftrek)
//    and an optional prior-year reserve contribution, in that order.
//
// 3. The small-business exemption (MKB-winstvrijstelling) applies to profit after
//    entrepreneur deductions.
//
// 4. Credits are rough approximations meant for planning, not for filing.
//
// 5. The Zvw income-related contribution is levied on business profit up to the cap.

// ComputeTax produces the full breakdown for one profit figure.
// It never fails: every intermediate quantity that could go negative is clamped to zero.
func ComputeTax(input domain.TaxComputationInput, params domain.TaxYearParameters) domain.TaxComputationResult {
	housing, otherDeductions, otherIncome, correction := input.Profile.Amounts()

	profit := clampZero(input.BusinessProfit)

	selfEmployed := decimal.Min(params.SelfEmployedDeductionAmount, profit)
	running := clampZero(profit.Sub(selfEmployed))

	reserve := decimal.Zero
	if input.PriorYearReserveContribution != nil && input.PriorYearReserveContribution.IsPositive() {
		reserve = decimal.Min(*input.PriorYearReserveContribution, running)
		running = clampZero(running.Sub(reserve))
	}

	exemption := running.Mul(params.SmallBusinessExemptionRate)
	afterExemption := clampZero(running.Sub(exemption))

	taxable := clampZero(afterExemption.Add(otherIncome).Add(housing).Sub(otherDeductions))
	preDeductionTotal := profit.Add(otherIncome)

	gross := BracketTax(taxable, params.Brackets)
	general := GeneralCredit(taxable, params.GeneralCredit)
	labour := LabourCredit(preDeductionTotal, params.LabourCredit)
	totalCredits := general.Add(labour).Add(correction)
	netIncomeTax := clampZero(gross.Sub(totalCredits))

	secondary := SecondaryContribution(profit, params)
	totalTax := netIncomeTax.Add(secondary)

	return domain.TaxComputationResult{
		Year:                              input.Year,
		BusinessProfit:                    profit,
		OtherIncome:                       otherIncome,
		PreDeductionTotal:                 preDeductionTotal,
		SelfEmployedDeduction:             selfEmployed,
		ReserveContribution:               reserve,
		ProfitAfterEntrepreneurDeductions: running,
		SmallBusinessExemption:            exemption,
		ProfitAfterExemption:              afterExemption,
		HousingAdjustment:                 housing,
		OtherDeductions:                   otherDeductions,
		TaxableIncome:                     taxable,
		GrossBracketTax:                   gross,
		GeneralCredit:                     general,
		LabourCredit:                      labour,
		CreditsCorrection:                 correction,
		TotalCredits:                      totalCredits,
		NetIncomeTax:                      netIncomeTax,
		SecondaryContribution:             secondary,
		TotalTax:                          totalTax,
		EffectiveTaxRate:                  ratio(totalTax, profit),
	}
}

// BracketTax applies the progressive brackets to taxable income.
// Brackets must be ascending with the unbounded bracket last.
func BracketTax(taxable decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	var total decimal.Decimal
	for _, slice := range BracketSlices(taxable, brackets) {
		total = total.Add(slice.Tax)
	}
	return total
}

// BracketSlice is the part of taxable income that falls inside one bracket
type BracketSlice struct {
	Lower  decimal.Decimal
	Upper  *decimal.Decimal
	Rate   decimal.Decimal
	Amount decimal.Decimal
	Tax    decimal.Decimal
}

// BracketSlices splits taxable income over the brackets it reaches
func BracketSlices(taxable decimal.Decimal, brackets []domain.TaxBracket) []BracketSlice {
	var slices []BracketSlice
	lower := decimal.Zero

	for _, bracket := range brackets {
		if taxable.LessThanOrEqual(lower) {
			break
		}

		upper := taxable
		if !bracket.IsUnbounded() {
			upper = decimal.Min(taxable, *bracket.UpperBound)
		}

		incomeInBracket := upper.Sub(lower)
		if incomeInBracket.GreaterThan(decimal.Zero) {
			slices = append(slices, BracketSlice{
				Lower:  lower,
				Upper:  bracket.UpperBound,
				Rate:   bracket.Rate,
				Amount: incomeInBracket,
				Tax:    incomeInBracket.Mul(bracket.Rate),
			})
		}

		if bracket.IsUnbounded() {
			break
		}
		lower = *bracket.UpperBound
	}
	return slices
}

// SecondaryContribution is the Zvw contribution over business profit, capped when a cap is configured
func SecondaryContribution(profit decimal.Decimal, params domain.TaxYearParameters) decimal.Decimal {
	base := clampZero(profit)
	if params.SecondaryContributionCap != nil {
		base = decimal.Min(base, *params.SecondaryContributionCap)
	}
	return base.Mul(params.SecondaryContributionRate)
}
