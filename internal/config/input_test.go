package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/opsdash/internal/apperrors"
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadProjection(t *testing.T) {
	path := writeTemp(t, "q.yaml", `
year: 2024
current_quarter: 2
quarters:
  - income: 30000
    expenses: 8000
  - income: "25000.50"
    expenses: 5000
profile:
  year: 2024
  net_housing_adjustment: -1500
`)

	input, err := NewInputParser().LoadProjection(path)
	require.NoError(t, err)
	assert.Equal(t, 2024, input.Year)
	assert.Equal(t, 2, input.CurrentQuarter)
	require.Len(t, input.Quarters, 2)
	assert.True(t, input.Quarters[1].Income.Equal(decimal.RequireFromString("25000.5")))
	require.NotNil(t, input.Profile)
	assert.True(t, input.Profile.NetHousingAdjustment.Equal(decimal.NewFromInt(-1500)))
}

func TestValidateProjection(t *testing.T) {
	ip := NewInputParser()
	tests := []struct {
		name    string
		input   domain.QuarterProjectionInput
		wantErr bool
	}{
		{"valid", domain.QuarterProjectionInput{Year: 2024, CurrentQuarter: 9}, false},
		{"bad year", domain.QuarterProjectionInput{Year: 1900}, true},
		{"five quarters", domain.QuarterProjectionInput{Year: 2024, Quarters: make([]domain.QuarterState, 5)}, true},
		{"negative income", domain.QuarterProjectionInput{Year: 2024, Quarters: []domain.QuarterState{{Income: decimal.NewFromInt(-1)}}}, true},
		{"negative expenses", domain.QuarterProjectionInput{Year: 2024, Quarters: []domain.QuarterState{{Expenses: decimal.NewFromInt(-1)}}}, true},
		{"negative deductions", domain.QuarterProjectionInput{Year: 2024, Profile: &domain.PersonalYearProfile{OtherDeductions: decimal.NewFromInt(-1)}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ip.ValidateProjection(&tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadScenarios(t *testing.T) {
	path := writeTemp(t, "s.yaml", `
year: 2024
base:
  name: current
  business_profit: 79000
alternatives:
  - name: more-hours
    business_profit: 95000
  - name: with-reserve
    business_profit: 79000
    prior_year_reserve: 2000
`)

	set, err := NewInputParser().LoadScenarios(path)
	require.NoError(t, err)
	assert.Equal(t, "current", set.Base.Name)
	require.Len(t, set.Alternatives, 2)
	require.NotNil(t, set.Alternatives[1].PriorYearReserveContribution)
	assert.True(t, set.Alternatives[1].PriorYearReserveContribution.Equal(decimal.NewFromInt(2000)))
}

func TestValidateScenarios(t *testing.T) {
	ip := NewInputParser()
	base := domain.ProfitScenario{Name: "base", BusinessProfit: decimal.NewFromInt(50000)}

	assert.Error(t, ip.ValidateScenarios(&domain.ScenarioSet{Year: 2024, Base: base}), "no alternatives")
	assert.Error(t, ip.ValidateScenarios(&domain.ScenarioSet{Year: 2024, Base: base,
		Alternatives: []domain.ProfitScenario{{Name: "base"}}}), "duplicate name")
	assert.Error(t, ip.ValidateScenarios(&domain.ScenarioSet{Year: 2024, Base: base,
		Alternatives: []domain.ProfitScenario{{}}}), "missing name")

	negative := decimal.NewFromInt(-10)
	assert.Error(t, ip.ValidateScenarios(&domain.ScenarioSet{Year: 2024, Base: base,
		Alternatives: []domain.ProfitScenario{{Name: "r", PriorYearReserveContribution: &negative}}}))

	assert.NoError(t, ip.ValidateScenarios(&domain.ScenarioSet{Year: 2024, Base: base,
		Alternatives: []domain.ProfitScenario{{Name: "alt", BusinessProfit: decimal.NewFromInt(60000)}}}))
}

func TestLoadProjection_MissingFile(t *testing.T) {
	_, err := NewInputParser().LoadProjection(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
