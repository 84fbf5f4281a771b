package domain

import (
	"github.com/shopspring/decimal"
)

// TaxComputationInput is everything the engine needs for one year's computation
type TaxComputationInput struct {
	Year                         int                  `json:"year"`
	BusinessProfit               decimal.Decimal      `json:"businessProfit"` // negative values are clamped to zero
	Profile                      *PersonalYearProfile `json:"profile,omitempty"`
	PriorYearReserveContribution *decimal.Decimal     `json:"priorYearReserveContribution,omitempty"`
}

// TaxComputationResult is the full IB/Zvw breakdown for one profit figure
type TaxComputationResult struct {
	Year int `json:"year"`

	// Income
	BusinessProfit    decimal.Decimal `json:"businessProfit"`
	OtherIncome       decimal.Decimal `json:"otherIncome"`
	PreDeductionTotal decimal.Decimal `json:"preDeductionTotal"`

	// Entrepreneur deductions
	SelfEmployedDeduction             decimal.Decimal `json:"selfEmployedDeduction"`
	ReserveContribution               decimal.Decimal `json:"reserveContribution"`
	ProfitAfterEntrepreneurDeductions decimal.Decimal `json:"profitAfterEntrepreneurDeductions"`
	SmallBusinessExemption            decimal.Decimal `json:"smallBusinessExemption"`
	ProfitAfterExemption              decimal.Decimal `json:"profitAfterExemption"`

	// Personal adjustments
	HousingAdjustment decimal.Decimal `json:"housingAdjustment"`
	OtherDeductions   decimal.Decimal `json:"otherDeductions"`
	TaxableIncome     decimal.Decimal `json:"taxableIncome"`

	// Income tax
	GrossBracketTax   decimal.Decimal `json:"grossBracketTax"`
	GeneralCredit     decimal.Decimal `json:"generalCredit"`
	LabourCredit      decimal.Decimal `json:"labourCredit"`
	CreditsCorrection decimal.Decimal `json:"creditsCorrection"`
	TotalCredits      decimal.Decimal `json:"totalCredits"`
	NetIncomeTax      decimal.Decimal `json:"netIncomeTax"`

	// Zvw and totals
	SecondaryContribution decimal.Decimal `json:"secondaryContribution"`
	TotalTax              decimal.Decimal `json:"totalTax"`
	EffectiveTaxRate      decimal.Decimal `json:"effectiveTaxRate"`
}

// NetAfterTax is business profit minus total tax
func (r *TaxComputationResult) NetAfterTax() decimal.Decimal {
	return r.BusinessProfit.Sub(r.TotalTax)
}

// QuarterState holds the income and expenses booked in one quarter
type QuarterState struct {
	Income   decimal.Decimal `yaml:"income" json:"income"`
	Expenses decimal.Decimal `yaml:"expenses" json:"expenses"`
}

// Profit is income minus expenses; it may be negative
func (q QuarterState) Profit() decimal.Decimal {
	return q.Income.Sub(q.Expenses)
}

// QuarterProjectionInput describes the year so far.
// Quarters[0] is Q1; missing entries count as zero.
type QuarterProjectionInput struct {
	Year           int                  `yaml:"year" json:"year"`
	CurrentQuarter int                  `yaml:"current_quarter" json:"currentQuarter"`
	Quarters       []QuarterState       `yaml:"quarters" json:"quarters"`
	Profile        *PersonalYearProfile `yaml:"profile,omitempty" json:"profile,omitempty"`
}

// Quarter returns quarter n (1-based), or a zero state when it is missing
func (in *QuarterProjectionInput) Quarter(n int) QuarterState {
	if n < 1 || n > len(in.Quarters) {
		return QuarterState{}
	}
	return in.Quarters[n-1]
}

// QuarterProjectionResult is the computation for the extrapolated full-year profit
type QuarterProjectionResult struct {
	TaxComputationResult

	CurrentQuarter      int             `json:"currentQuarter"`
	YearToDateProfit    decimal.Decimal `json:"yearToDateProfit"`
	ExtrapolationFactor decimal.Decimal `json:"extrapolationFactor"`
	ProjectedYearProfit decimal.Decimal `json:"projectedYearProfit"`
	QuarterlySetAside   decimal.Decimal `json:"quarterlySetAside"`
}
