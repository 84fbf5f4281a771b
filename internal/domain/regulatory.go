package domain

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/opsdash/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TaxBracket is one slice of the progressive Box-1 rate table.
// A nil UpperBound marks the unbounded top bracket.
type TaxBracket struct {
	UpperBound *decimal.Decimal `yaml:"upper_bound" toml:"upper_bound" json:"upperBound"`
	Rate       decimal.Decimal  `yaml:"rate" toml:"rate" json:"rate"`
}

// IsUnbounded reports whether the bracket taxes all remaining income
func (b TaxBracket) IsUnbounded() bool {
	return b.UpperBound == nil
}

// GeneralCreditRule describes the general tax credit (algemene heffingskorting).
// The full Max is granted below PhaseOutStart and falls linearly to zero at PhaseOutEnd.
type GeneralCreditRule struct {
	Max           decimal.Decimal `yaml:"max" toml:"max" json:"max"`
	PhaseOutStart decimal.Decimal `yaml:"phase_out_start" toml:"phase_out_start" json:"phaseOutStart"`
	PhaseOutEnd   decimal.Decimal `yaml:"phase_out_end" toml:"phase_out_end" json:"phaseOutEnd"`
}

// LabourCreditRule describes the labour credit (arbeidskorting) as a piecewise-linear curve
// over total pre-deduction Box-1 income.
type LabourCreditRule struct {
	BuildUpRate      decimal.Decimal `yaml:"build_up_rate" toml:"build_up_rate" json:"buildUpRate"`
	BuildUpThreshold decimal.Decimal `yaml:"build_up_threshold" toml:"build_up_threshold" json:"buildUpThreshold"`
	Max              decimal.Decimal `yaml:"max" toml:"max" json:"max"`
	MaxThreshold     decimal.Decimal `yaml:"max_threshold" toml:"max_threshold" json:"maxThreshold"`
	PhaseOutEnd      decimal.Decimal `yaml:"phase_out_end" toml:"phase_out_end" json:"phaseOutEnd"`
}

// TaxYearParameters holds the constants for a single tax year
type TaxYearParameters struct {
	Year       int `yaml:"year" toml:"year" json:"year"`
	SourceYear int `yaml:"-" toml:"-" json:"sourceYear"` // table entry the resolver used

	SelfEmployedDeductionAmount decimal.Decimal   `yaml:"self_employed_deduction" toml:"self_employed_deduction" json:"selfEmployedDeductionAmount"`
	SmallBusinessExemptionRate  decimal.Decimal   `yaml:"small_business_exemption_rate" toml:"small_business_exemption_rate" json:"smallBusinessExemptionRate"`
	Brackets                    []TaxBracket      `yaml:"brackets" toml:"brackets" json:"brackets"`
	SecondaryContributionRate   decimal.Decimal   `yaml:"secondary_contribution_rate" toml:"secondary_contribution_rate" json:"secondaryContributionRate"`
	SecondaryContributionCap    *decimal.Decimal  `yaml:"secondary_contribution_cap" toml:"secondary_contribution_cap" json:"secondaryContributionCap"`
	GeneralCredit               GeneralCreditRule `yaml:"general_credit" toml:"general_credit" json:"generalCredit"`
	LabourCredit                LabourCreditRule  `yaml:"labour_credit" toml:"labour_credit" json:"labourCredit"`
}

// Validate checks the structural invariants of a year's parameters
func (p *TaxYearParameters) Validate() error {
	if len(p.Brackets) == 0 {
		return fmt.Errorf("%w: year %d: at least one bracket is required", apperrors.ErrValidation, p.Year)
	}

	var previous *decimal.Decimal
	for i, b := range p.Brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: year %d: bracket %d rate %s outside [0,1)", apperrors.ErrValidation, p.Year, i+1, b.Rate)
		}
		last := i == len(p.Brackets)-1
		if last {
			if !b.IsUnbounded() {
				return fmt.Errorf("%w: year %d: final bracket must be unbounded", apperrors.ErrValidation, p.Year)
			}
			continue
		}
		if b.IsUnbounded() {
			return fmt.Errorf("%w: year %d: only the final bracket may be unbounded", apperrors.ErrValidation, p.Year)
		}
		if !b.UpperBound.IsPositive() {
			return fmt.Errorf("%w: year %d: bracket %d upper bound must be positive", apperrors.ErrValidation, p.Year, i+1)
		}
		if previous != nil && b.UpperBound.LessThanOrEqual(*previous) {
			return fmt.Errorf("%w: year %d: bracket upper bounds must be ascending", apperrors.ErrValidation, p.Year)
		}
		previous = b.UpperBound
	}

	if p.SelfEmployedDeductionAmount.IsNegative() {
		return fmt.Errorf("%w: year %d: self-employed deduction cannot be negative", apperrors.ErrValidation, p.Year)
	}
	if p.SmallBusinessExemptionRate.IsNegative() || p.SmallBusinessExemptionRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: year %d: small-business exemption rate outside [0,1)", apperrors.ErrValidation, p.Year)
	}
	if p.SecondaryContributionRate.IsNegative() || p.SecondaryContributionRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: year %d: secondary contribution rate outside [0,1)", apperrors.ErrValidation, p.Year)
	}
	if p.SecondaryContributionCap != nil && p.SecondaryContributionCap.IsNegative() {
		return fmt.Errorf("%w: year %d: secondary contribution cap cannot be negative", apperrors.ErrValidation, p.Year)
	}

	gc := p.GeneralCredit
	if gc.Max.IsNegative() || gc.PhaseOutEnd.LessThan(gc.PhaseOutStart) {
		return fmt.Errorf("%w: year %d: general credit thresholds out of order", apperrors.ErrValidation, p.Year)
	}
	lc := p.LabourCredit
	if lc.Max.IsNegative() || lc.BuildUpRate.IsNegative() ||
		lc.MaxThreshold.LessThan(lc.BuildUpThreshold) || lc.PhaseOutEnd.LessThan(lc.MaxThreshold) {
		return fmt.Errorf("%w: year %d: labour credit thresholds out of order", apperrors.ErrValidation, p.Year)
	}
	return nil
}

// TableMetadata describes where a tax table came from
type TableMetadata struct {
	Description string `yaml:"description" toml:"description" json:"description"`
	LastUpdated string `yaml:"last_updated" toml:"last_updated" json:"lastUpdated"`
}

// TaxTable is the versioned year -> parameters mapping
type TaxTable struct {
	Metadata TableMetadata       `yaml:"metadata" toml:"metadata" json:"metadata"`
	Years    []TaxYearParameters `yaml:"years" toml:"years" json:"years"`
}

// Validate validates every year and rejects duplicates
func (t *TaxTable) Validate() error {
	if len(t.Years) == 0 {
		return fmt.Errorf("%w: tax table has no years", apperrors.ErrValidation)
	}
	seen := make(map[int]bool, len(t.Years))
	for i := range t.Years {
		y := &t.Years[i]
		if seen[y.Year] {
			return fmt.Errorf("%w: duplicate tax year %d", apperrors.ErrValidation, y.Year)
		}
		seen[y.Year] = true
		if err := y.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// KnownYears returns the table's years in ascending order
func (t *TaxTable) KnownYears() []int {
	years := make([]int, 0, len(t.Years))
	for _, y := range t.Years {
		years = append(years, y.Year)
	}
	sort.Ints(years)
	return years
}

// Resolve returns the parameters for year. It uses the exact entry when present,
// otherwise the latest entry before year, otherwise the earliest entry.
// The returned copy has Year set to the requested year and SourceYear to the entry used.
func (t *TaxTable) Resolve(year int) TaxYearParameters {
	if len(t.Years) == 0 {
		return TaxYearParameters{Year: year}
	}

	var exact, before, earliest *TaxYearParameters
	for i := range t.Years {
		y := &t.Years[i]
		switch {
		case y.Year == year:
			exact = y
		case y.Year < year && (before == nil || y.Year > before.Year):
			before = y
		}
		if earliest == nil || y.Year < earliest.Year {
			earliest = y
		}
	}

	chosen := earliest
	if exact != nil {
		chosen = exact
	} else if before != nil {
		chosen = before
	}

	resolved := chosen.clone()
	resolved.SourceYear = chosen.Year
	resolved.Year = year
	return resolved
}

func (p *TaxYearParameters) clone() TaxYearParameters {
	c := *p
	c.Brackets = make([]TaxBracket, len(p.Brackets))
	for i, b := range p.Brackets {
		c.Brackets[i] = TaxBracket{Rate: b.Rate}
		if b.UpperBound != nil {
			ub := *b.UpperBound
			c.Brackets[i].UpperBound = &ub
		}
	}
	if p.SecondaryContributionCap != nil {
		limit := *p.SecondaryContributionCap
		c.SecondaryContributionCap = &limit
	}
	return c
}
