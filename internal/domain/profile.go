package domain

import (
	"fmt"

	"github.com/rgehrsitz/opsdash/internal/apperrors"
	"github.com/shopspring/decimal"
)

// PersonalYearProfile holds per-year calibration overrides for one person.
// A nil profile is equivalent to one with all amounts zero.
type PersonalYearProfile struct {
	Year                 int             `yaml:"year" json:"year"`
	NetHousingAdjustment decimal.Decimal `yaml:"net_housing_adjustment" json:"netHousingAdjustment"` // positive increases taxable income
	OtherDeductions      decimal.Decimal `yaml:"other_deductions" json:"otherDeductions"`
	OtherBox1Income      decimal.Decimal `yaml:"other_box1_income" json:"otherBox1Income"`
	CreditsCorrection    decimal.Decimal `yaml:"credits_correction" json:"creditsCorrection"`
}

// Validate rejects negative deductions and negative other income
func (p *PersonalYearProfile) Validate() error {
	if p == nil {
		return nil
	}
	if p.OtherDeductions.IsNegative() {
		return fmt.Errorf("%w: other deductions cannot be negative", apperrors.ErrValidation)
	}
	if p.OtherBox1Income.IsNegative() {
		return fmt.Errorf("%w: other box 1 income cannot be negative", apperrors.ErrValidation)
	}
	return nil
}

// Amounts returns the profile's values, or zeros for a nil profile
func (p *PersonalYearProfile) Amounts() (housing, deductions, otherIncome, correction decimal.Decimal) {
	if p == nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	}
	return p.NetHousingAdjustment, p.OtherDeductions, p.OtherBox1Income, p.CreditsCorrection
}
