package domain

import "github.com/shopspring/decimal"

// ProfitScenario is a named what-if for a single year's profit
type ProfitScenario struct {
	Name                         string               `yaml:"name" json:"name"`
	BusinessProfit               decimal.Decimal      `yaml:"business_profit" json:"businessProfit"`
	PriorYearReserveContribution *decimal.Decimal     `yaml:"prior_year_reserve,omitempty" json:"priorYearReserveContribution,omitempty"`
	Profile                      *PersonalYearProfile `yaml:"profile,omitempty" json:"profile,omitempty"`
}

// Input builds the engine input for the scenario in year
func (s ProfitScenario) Input(year int) TaxComputationInput {
	return TaxComputationInput{
		Year:                         year,
		BusinessProfit:               s.BusinessProfit,
		Profile:                      s.Profile,
		PriorYearReserveContribution: s.PriorYearReserveContribution,
	}
}

// ScenarioSet is a base scenario plus alternatives to compare against it
type ScenarioSet struct {
	Year         int              `yaml:"year" json:"year"`
	Base         ProfitScenario   `yaml:"base" json:"base"`
	Alternatives []ProfitScenario `yaml:"alternatives" json:"alternatives"`
}

// Clone returns a copy that shares no pointers with s
func (s ProfitScenario) Clone() ProfitScenario {
	out := s
	if s.PriorYearReserveContribution != nil {
		reserve := *s.PriorYearReserveContribution
		out.PriorYearReserveContribution = &reserve
	}
	if s.Profile != nil {
		profile := *s.Profile
		out.Profile = &profile
	}
	return out
}
