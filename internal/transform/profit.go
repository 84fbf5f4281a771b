package transform

import (
	"fmt"

	"github.com/rgehrsitz/opsdash/internal/apperrors"
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/rgehrsitz/opsdash/internal/output"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ScaleProfit changes business profit by a percentage; -100 is the lowest allowed
type ScaleProfit struct {
	Percent decimal.Decimal
}

func (t *ScaleProfit) Name() string { return "scale_profit" }

func (t *ScaleProfit) Description() string {
	return fmt.Sprintf("Change business profit by %s%%", t.Percent.String())
}

func (t *ScaleProfit) Validate(domain.ProfitScenario) error {
	if t.Percent.LessThan(hundred.Neg()) {
		return &TransformError{Transform: t.Name(), Reason: "percent must be at least -100", Err: apperrors.ErrValidation}
	}
	return nil
}

func (t *ScaleProfit) Apply(base domain.ProfitScenario) (domain.ProfitScenario, error) {
	out := base.Clone()
	factor := decimal.NewFromInt(1).Add(t.Percent.Div(hundred))
	out.BusinessProfit = base.BusinessProfit.Mul(factor).Round(2)
	return out, nil
}

// AdjustProfit adds a fixed amount to business profit
type AdjustProfit struct {
	Amount decimal.Decimal
}

func (t *AdjustProfit) Name() string { return "adjust_profit" }

func (t *AdjustProfit) Description() string {
	return fmt.Sprintf("Adjust business profit by %s", output.FormatEURWhole(t.Amount))
}

func (t *AdjustProfit) Validate(domain.ProfitScenario) error { return nil }

func (t *AdjustProfit) Apply(base domain.ProfitScenario) (domain.ProfitScenario, error) {
	out := base.Clone()
	out.BusinessProfit = base.BusinessProfit.Add(t.Amount)
	return out, nil
}

// SetReserve replaces the prior-year reserve contribution
type SetReserve struct {
	Amount decimal.Decimal
}

func (t *SetReserve) Name() string { return "set_reserve" }

func (t *SetReserve) Description() string {
	return fmt.Sprintf("Contribute %s to the reserve", output.FormatEURWhole(t.Amount))
}

func (t *SetReserve) Validate(domain.ProfitScenario) error {
	if t.Amount.IsNegative() {
		return &TransformError{Transform: t.Name(), Reason: "reserve contribution cannot be negative", Err: apperrors.ErrValidation}
	}
	return nil
}

func (t *SetReserve) Apply(base domain.ProfitScenario) (domain.ProfitScenario, error) {
	out := base.Clone()
	amount := t.Amount
	out.PriorYearReserveContribution = &amount
	return out, nil
}

// profileOf returns the profile of s, adding an empty one when s has none
func profileOf(s *domain.ProfitScenario) *domain.PersonalYearProfile {
	if s.Profile == nil {
		s.Profile = &domain.PersonalYearProfile{}
	}
	return s.Profile
}

// SetHousing replaces the net housing adjustment of the profile
type SetHousing struct {
	Amount decimal.Decimal
}

func (t *SetHousing) Name() string { return "set_housing" }

func (t *SetHousing) Description() string {
	return fmt.Sprintf("Set the net housing adjustment to %s", output.FormatEURWhole(t.Amount))
}

func (t *SetHousing) Validate(domain.ProfitScenario) error { return nil }

func (t *SetHousing) Apply(base domain.ProfitScenario) (domain.ProfitScenario, error) {
	out := base.Clone()
	profileOf(&out).NetHousingAdjustment = t.Amount
	return out, nil
}

// AddDeduction raises the other deductions of the profile
type AddDeduction struct {
	Amount decimal.Decimal
}

func (t *AddDeduction) Name() string { return "add_deduction" }

func (t *AddDeduction) Description() string {
	return fmt.Sprintf("Add %s of deductions", output.FormatEURWhole(t.Amount))
}

func (t *AddDeduction) Validate(base domain.ProfitScenario) error {
	current := decimal.Zero
	if base.Profile != nil {
		current = base.Profile.OtherDeductions
	}
	if current.Add(t.Amount).IsNegative() {
		return &TransformError{Transform: t.Name(), Reason: "deductions cannot become negative", Err: apperrors.ErrValidation}
	}
	return nil
}

func (t *AddDeduction) Apply(base domain.ProfitScenario) (domain.ProfitScenario, error) {
	out := base.Clone()
	p := profileOf(&out)
	p.OtherDeductions = p.OtherDeductions.Add(t.Amount)
	return out, nil
}

// AddOtherIncome raises the other Box 1 income of the profile
type AddOtherIncome struct {
	Amount decimal.Decimal
}

func (t *AddOtherIncome) Name() string { return "add_other_income" }

func (t *AddOtherIncome) Description() string {
	return fmt.Sprintf("Add %s of other Box 1 income", output.FormatEURWhole(t.Amount))
}

func (t *AddOtherIncome) Validate(base domain.ProfitScenario) error {
	current := decimal.Zero
	if base.Profile != nil {
		current = base.Profile.OtherBox1Income
	}
	if current.Add(t.Amount).IsNegative() {
		return &TransformError{Transform: t.Name(), Reason: "other income cannot become negative", Err: apperrors.ErrValidation}
	}
	return nil
}

func (t *AddOtherIncome) Apply(base domain.ProfitScenario) (domain.ProfitScenario, error) {
	out := base.Clone()
	p := profileOf(&out)
	p.OtherBox1Income = p.OtherBox1Income.Add(t.Amount)
	return out, nil
}
