// Package transform derives what-if profit scenarios from a base scenario.
package transform

import (
	"fmt"

	"github.com/rgehrsitz/opsdash/internal/domain"
)

// ScenarioTransform is one composable change to a profit scenario.
// Apply never modifies its argument.
type ScenarioTransform interface {
	Apply(base domain.ProfitScenario) (domain.ProfitScenario, error)

	// Name returns the registry identifier, e.g. "scale_profit"
	Name() string

	Description() string

	// Validate checks the parameters against base without applying them
	Validate(base domain.ProfitScenario) error
}

// ApplyTransforms applies transforms in order, each to the output of the previous one
func ApplyTransforms(base domain.ProfitScenario, transforms []ScenarioTransform) (domain.ProfitScenario, error) {
	current := base.Clone()
	for i, t := range transforms {
		if t == nil {
			return domain.ProfitScenario{}, fmt.Errorf("transform at index %d is nil", i)
		}
		if err := t.Validate(current); err != nil {
			return domain.ProfitScenario{}, fmt.Errorf("scenario %q: %w", base.Name, err)
		}
		next, err := t.Apply(current)
		if err != nil {
			return domain.ProfitScenario{}, fmt.Errorf("scenario %q: applying %s: %w", base.Name, t.Name(), err)
		}
		current = next
	}
	return current, nil
}

// TransformError rejects a transform whose parameters do not fit the scenario
type TransformError struct {
	Transform string
	Reason    string
	Err       error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("%s: %s", e.Transform, e.Reason)
}

func (e *TransformError) Unwrap() error { return e.Err }
