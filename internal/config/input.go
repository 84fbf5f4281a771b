package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/opsdash/internal/apperrors"
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	minSupportedYear = 2000
	maxSupportedYear = 2100
)

// InputParser handles parsing of projection and scenario input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadProjection loads a quarterly projection input from a YAML file
func (ip *InputParser) LoadProjection(filename string) (*domain.QuarterProjectionInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var input domain.QuarterProjectionInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateProjection(&input); err != nil {
		return nil, fmt.Errorf("projection validation failed: %w", err)
	}
	return &input, nil
}

// LoadScenarios loads a what-if scenario set from a YAML file
func (ip *InputParser) LoadScenarios(filename string) (*domain.ScenarioSet, error) {
	set, err := ip.ReadScenarios(filename)
	if err != nil {
		return nil, err
	}
	if err := ip.ValidateScenarios(set); err != nil {
		return nil, fmt.Errorf("scenario validation failed: %w", err)
	}
	return set, nil
}

// ReadScenarios parses a scenario file without validating it, so callers can
// add generated alternatives first
func (ip *InputParser) ReadScenarios(filename string) (*domain.ScenarioSet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var set domain.ScenarioSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &set, nil
}

// ValidateProjection validates quarter entries and the year.
// The current quarter is not range-checked here; the engine clamps it.
func (ip *InputParser) ValidateProjection(input *domain.QuarterProjectionInput) error {
	if err := validateYear(input.Year); err != nil {
		return err
	}
	if len(input.Quarters) > 4 {
		return fmt.Errorf("%w: at most 4 quarters allowed, got %d", apperrors.ErrValidation, len(input.Quarters))
	}
	for i, q := range input.Quarters {
		if q.Income.IsNegative() {
			return fmt.Errorf("%w: quarter %d income cannot be negative", apperrors.ErrValidation, i+1)
		}
		if q.Expenses.IsNegative() {
			return fmt.Errorf("%w: quarter %d expenses cannot be negative", apperrors.ErrValidation, i+1)
		}
	}
	if err := input.Profile.Validate(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	return nil
}

// ValidateScenarios validates a scenario set
func (ip *InputParser) ValidateScenarios(set *domain.ScenarioSet) error {
	if err := validateYear(set.Year); err != nil {
		return err
	}
	if err := validateScenario(&set.Base); err != nil {
		return fmt.Errorf("base scenario: %w", err)
	}
	if len(set.Alternatives) == 0 {
		return fmt.Errorf("%w: no alternative scenarios provided", apperrors.ErrValidation)
	}

	names := map[string]bool{set.Base.Name: true}
	for i := range set.Alternatives {
		alt := &set.Alternatives[i]
		if err := validateScenario(alt); err != nil {
			return fmt.Errorf("scenario %d: %w", i+1, err)
		}
		if names[alt.Name] {
			return fmt.Errorf("%w: duplicate scenario name %q", apperrors.ErrValidation, alt.Name)
		}
		names[alt.Name] = true
	}
	return nil
}

func validateScenario(s *domain.ProfitScenario) error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if s.PriorYearReserveContribution != nil && s.PriorYearReserveContribution.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: reserve contribution cannot be negative", apperrors.ErrValidation)
	}
	return s.Profile.Validate()
}

func validateYear(year int) error {
	if year < minSupportedYear || year > maxSupportedYear {
		return fmt.Errorf("%w: year %d outside %d-%d", apperrors.ErrValidation, year, minSupportedYear, maxSupportedYear)
	}
	return nil
}
