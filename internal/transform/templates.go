package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages named scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template is a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns the registered template names in sorted order
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply derives a scenario from base named after the template
func (tr *TemplateRegistry) Apply(name string, base domain.ProfitScenario) (domain.ProfitScenario, error) {
	t, ok := tr.Get(name)
	if !ok {
		return domain.ProfitScenario{}, fmt.Errorf("unknown template: %s", name)
	}
	scenario, err := ApplyTransforms(base, t.Transforms)
	if err != nil {
		return domain.ProfitScenario{}, err
	}
	scenario.Name = t.Name
	return scenario, nil
}

// CreateBuiltInTemplates returns the common what-ifs of a self-employed year
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	for _, pct := range []int64{10, 25} {
		registry.Register(Template{
			Name:        fmt.Sprintf("growth_%d", pct),
			Description: fmt.Sprintf("Business profit %d%% higher", pct),
			Transforms:  []ScenarioTransform{&ScaleProfit{Percent: decimal.NewFromInt(pct)}},
		})
		registry.Register(Template{
			Name:        fmt.Sprintf("slowdown_%d", pct),
			Description: fmt.Sprintf("Business profit %d%% lower", pct),
			Transforms:  []ScenarioTransform{&ScaleProfit{Percent: decimal.NewFromInt(-pct)}},
		})
	}

	registry.Register(Template{
		Name:        "reserve_5000",
		Description: "Contribute €5.000 to the reserve",
		Transforms:  []ScenarioTransform{&SetReserve{Amount: decimal.NewFromInt(5000)}},
	})

	registry.Register(Template{
		Name:        "extra_deduction_1000",
		Description: "€1.000 of additional personal deductions",
		Transforms:  []ScenarioTransform{&AddDeduction{Amount: decimal.NewFromInt(1000)}},
	})

	registry.Register(Template{
		Name:        "side_income_10000",
		Description: "€10.000 of other Box 1 income next to the business",
		Transforms:  []ScenarioTransform{&AddOtherIncome{Amount: decimal.NewFromInt(10000)}},
	})

	return registry
}

// Resolve turns a template name or a transform spec into a scenario derived from base.
// Specs ("name:key=value") are named after the spec itself.
func Resolve(templates *TemplateRegistry, transforms *TransformRegistry, base domain.ProfitScenario, nameOrSpec string) (domain.ProfitScenario, error) {
	nameOrSpec = strings.TrimSpace(nameOrSpec)
	if !strings.Contains(nameOrSpec, ":") {
		return templates.Apply(nameOrSpec, base)
	}

	t, err := transforms.ParseTransformSpec(nameOrSpec)
	if err != nil {
		return domain.ProfitScenario{}, err
	}
	scenario, err := ApplyTransforms(base, []ScenarioTransform{t})
	if err != nil {
		return domain.ProfitScenario{}, err
	}
	scenario.Name = nameOrSpec
	return scenario, nil
}
