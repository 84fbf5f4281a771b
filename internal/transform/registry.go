package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// TransformRegistry creates transforms from string parameters for the CLI
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory creates a transform from parameters
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a registry with all built-in transforms
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("scale_profit", func(params map[string]string) (ScenarioTransform, error) {
		percent, err := decimalParam("scale_profit", params, "percent")
		if err != nil {
			return nil, err
		}
		return &ScaleProfit{Percent: percent}, nil
	})
	registry.Register("adjust_profit", amountFactory("adjust_profit", func(d decimal.Decimal) ScenarioTransform { return &AdjustProfit{Amount: d} }))
	registry.Register("set_reserve", amountFactory("set_reserve", func(d decimal.Decimal) ScenarioTransform { return &SetReserve{Amount: d} }))
	registry.Register("set_housing", amountFactory("set_housing", func(d decimal.Decimal) ScenarioTransform { return &SetHousing{Amount: d} }))
	registry.Register("add_deduction", amountFactory("add_deduction", func(d decimal.Decimal) ScenarioTransform { return &AddDeduction{Amount: d} }))
	registry.Register("add_other_income", amountFactory("add_other_income", func(d decimal.Decimal) ScenarioTransform { return &AddOtherIncome{Amount: d} }))

	return registry
}

// Register adds a transform factory to the registry
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}
	return factory(params)
}

// List returns the registered transform names in sorted order
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses "name:key=value,key=value", e.g. "scale_profit:percent=10"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	params := make(map[string]string)
	if paramsStr := strings.TrimSpace(parts[1]); paramsStr != "" {
		for _, pair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(pair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", pair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}
	return r.Create(strings.TrimSpace(parts[0]), params)
}

func amountFactory(name string, build func(decimal.Decimal) ScenarioTransform) TransformFactory {
	return func(params map[string]string) (ScenarioTransform, error) {
		amount, err := decimalParam(name, params, "amount")
		if err != nil {
			return nil, err
		}
		return build(amount), nil
	}
}

func decimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}
