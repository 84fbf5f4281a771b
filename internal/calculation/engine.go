package calculation

import (
	"github.com/rgehrsitz/opsdash/internal/domain"
)

// ParameterResolver maps a tax year to its parameters
type ParameterResolver interface {
	Resolve(year int) domain.TaxYearParameters
}

// CalculationEngine binds the pure functions to a parameter table
type CalculationEngine struct {
	Resolver ParameterResolver
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine(resolver ParameterResolver) *CalculationEngine {
	return &CalculationEngine{Resolver: resolver}
}

// Parameters resolves the parameters for year
func (ce *CalculationEngine) Parameters(year int) domain.TaxYearParameters {
	return ce.Resolver.Resolve(year)
}

// Compute runs ComputeTax with the parameters for input.Year
func (ce *CalculationEngine) Compute(input domain.TaxComputationInput) domain.TaxComputationResult {
	return ComputeTax(input, ce.Parameters(input.Year))
}

// Project runs ProjectFromQuarters and BuildAlerts for input.Year
func (ce *CalculationEngine) Project(input domain.QuarterProjectionInput) (domain.QuarterProjectionResult, []domain.TaxAlert) {
	params := ce.Parameters(input.Year)
	projection := ProjectFromQuarters(input, params)
	return projection, BuildAlerts(&projection, params)
}
