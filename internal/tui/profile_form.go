package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/shopspring/decimal"
)

// profileFields is the editable text form of a profile
type profileFields struct {
	housing     string
	deductions  string
	otherIncome string
	correction  string
}

func fieldsFromProfile(p domain.PersonalYearProfile) profileFields {
	return profileFields{
		housing:     p.NetHousingAdjustment.String(),
		deductions:  p.OtherDeductions.String(),
		otherIncome: p.OtherBox1Income.String(),
		correction:  p.CreditsCorrection.String(),
	}
}

func (f profileFields) profile(year int) (domain.PersonalYearProfile, error) {
	p := domain.PersonalYearProfile{Year: year}
	var err error
	if p.NetHousingAdjustment, err = parseField(f.housing); err != nil {
		return p, fmt.Errorf("housing adjustment: %w", err)
	}
	if p.OtherDeductions, err = parseField(f.deductions); err != nil {
		return p, fmt.Errorf("other deductions: %w", err)
	}
	if p.OtherBox1Income, err = parseField(f.otherIncome); err != nil {
		return p, fmt.Errorf("other box 1 income: %w", err)
	}
	if p.CreditsCorrection, err = parseField(f.correction); err != nil {
		return p, fmt.Errorf("credits correction: %w", err)
	}
	return p, p.Validate()
}

func parseField(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func validateAmount(s string) error {
	if _, err := parseField(s); err != nil {
		return fmt.Errorf("enter a number like -2100 or 450.50")
	}
	return nil
}

func validateNonNegative(s string) error {
	d, err := parseField(s)
	if err != nil {
		return fmt.Errorf("enter a number like 450.50")
	}
	if d.IsNegative() {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

// EditProfile runs an interactive form prefilled with current and returns
// the edited profile. Accessible mode reads plain lines from in.
func EditProfile(current domain.PersonalYearProfile, accessible bool, in io.Reader, out io.Writer) (domain.PersonalYearProfile, error) {
	fields := fieldsFromProfile(current)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Personal profile %d", current.Year)).
				Description("Net housing adjustment (negative lowers taxable income)").
				Value(&fields.housing).
				Validate(validateAmount),
			huh.NewInput().
				Title("Other deductions").
				Value(&fields.deductions).
				Validate(validateNonNegative),
			huh.NewInput().
				Title("Other Box 1 income").
				Value(&fields.otherIncome).
				Validate(validateNonNegative),
			huh.NewInput().
				Title("Credits correction").
				Description("Added to the computed credits; negative reduces them").
				Value(&fields.correction).
				Validate(validateAmount),
		),
	).WithAccessible(accessible)
	if in != nil {
		form = form.WithInput(in)
	}
	if out != nil {
		form = form.WithOutput(out)
	}

	if err := form.Run(); err != nil {
		return current, err
	}
	return fields.profile(current.Year)
}
