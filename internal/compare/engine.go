package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/opsdash/internal/calculation"
	"github.com/rgehrsitz/opsdash/internal/domain"
)

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	CalcEngine *calculation.CalculationEngine
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	return &CompareEngine{CalcEngine: calcEngine}
}

// Compare computes the base and every alternative of set for set.Year and
// reports each alternative's deltas against the base.
func (ce *CompareEngine) Compare(ctx context.Context, set *domain.ScenarioSet) (*ComparisonSet, error) {
	if ce.CalcEngine == nil {
		return nil, fmt.Errorf("compare: calculation engine is not configured")
	}
	if set == nil {
		return nil, fmt.Errorf("compare: scenario set is nil")
	}

	params := ce.CalcEngine.Parameters(set.Year)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("compare cancelled: %w", err)
	}
	baseResult := NewComparisonResult(set.Base.Name, calculation.ComputeTax(set.Base.Input(set.Year), params))

	alternatives := make([]ComparisonResult, 0, len(set.Alternatives))
	for _, scenario := range set.Alternatives {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("compare cancelled at scenario %s: %w", scenario.Name, err)
		}
		computed := calculation.ComputeTax(scenario.Input(set.Year), params)
		alternatives = append(alternatives, NewComparisonResult(scenario.Name, computed).WithBase(baseResult))
	}

	compSet := &ComparisonSet{
		Year:               set.Year,
		SourceYear:         params.SourceYear,
		BaseScenarioName:   set.Base.Name,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}
