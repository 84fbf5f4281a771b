package compare

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rgehrsitz/opsdash/internal/calculation"
	"github.com/rgehrsitz/opsdash/internal/config"
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *CompareEngine {
	t.Helper()
	resolver, err := config.NewTableResolver("")
	require.NoError(t, err)
	return NewCompareEngine(calculation.NewCalculationEngine(resolver))
}

func scenario(name, profit string) domain.ProfitScenario {
	return domain.ProfitScenario{Name: name, BusinessProfit: decimal.RequireFromString(profit)}
}

func sampleSet() *domain.ScenarioSet {
	return &domain.ScenarioSet{
		Year: 2024,
		Base: scenario("current", "79000"),
		Alternatives: []domain.ProfitScenario{
			scenario("growth", "100000"),
			scenario("slowdown", "60000"),
		},
	}
}

func TestCompare_Deltas(t *testing.T) {
	compSet, err := newEngine(t).Compare(context.Background(), sampleSet())
	require.NoError(t, err)

	require.NotNil(t, compSet.BaseResult)
	assert.Equal(t, "current", compSet.BaseScenarioName)
	assert.Equal(t, 2024, compSet.SourceYear)
	assert.Equal(t, "24605.50", compSet.BaseResult.TotalTax.StringFixed(2))
	assert.Equal(t, "54394.50", compSet.BaseResult.NetAfterTax.StringFixed(2))
	assert.True(t, compSet.BaseResult.TaxDiffFromBase.IsZero())

	require.Len(t, compSet.AlternativeResults, 2)

	growth := compSet.AlternativeResults[0]
	assert.Equal(t, "growth", growth.ScenarioName)
	assert.Equal(t, "34688.96", growth.TotalTax.StringFixed(2))
	assert.Equal(t, "10083.46", growth.TaxDiffFromBase.StringFixed(2))
	assert.Equal(t, "10916.54", growth.NetDiffFromBase.StringFixed(2))
	assert.True(t, growth.RateDiffFromBase.IsPositive())

	slowdown := compSet.AlternativeResults[1]
	assert.Equal(t, "15542.53", slowdown.TotalTax.StringFixed(2))
	assert.Equal(t, "-9062.97", slowdown.TaxDiffFromBase.StringFixed(2))
	assert.True(t, slowdown.RateDiffFromBase.IsNegative())
}

func TestCompare_Recommendations(t *testing.T) {
	compSet, err := newEngine(t).Compare(context.Background(), sampleSet())
	require.NoError(t, err)

	require.Len(t, compSet.Recommendations, 3)
	assert.True(t, strings.HasPrefix(compSet.Recommendations[0], "Highest net: growth"))
	assert.True(t, strings.HasPrefix(compSet.Recommendations[1], "Lowest effective rate: slowdown"))
	assert.True(t, strings.HasPrefix(compSet.Recommendations[2], "High marginal cost: growth"))
}

func TestCompare_ProfileScenario(t *testing.T) {
	set := &domain.ScenarioSet{
		Year: 2024,
		Base: scenario("plain", "79000"),
		Alternatives: []domain.ProfitScenario{{
			Name:           "with profile",
			BusinessProfit: decimal.NewFromInt(79000),
			Profile: &domain.PersonalYearProfile{
				Year:                 2024,
				NetHousingAdjustment: decimal.NewFromInt(-2100),
				OtherDeductions:      decimal.NewFromInt(450),
				CreditsCorrection:    decimal.NewFromInt(-120),
			},
		}},
	}

	compSet, err := newEngine(t).Compare(context.Background(), set)
	require.NoError(t, err)
	require.Len(t, compSet.AlternativeResults, 1)
	assert.Equal(t, "23613.69", compSet.AlternativeResults[0].TotalTax.StringFixed(2))
	assert.Equal(t, "-991.81", compSet.AlternativeResults[0].TaxDiffFromBase.StringFixed(2))
}

func TestCompare_NoAlternatives(t *testing.T) {
	set := &domain.ScenarioSet{Year: 2024, Base: scenario("only", "50000")}

	compSet, err := newEngine(t).Compare(context.Background(), set)
	require.NoError(t, err)
	assert.Empty(t, compSet.AlternativeResults)
	assert.NotNil(t, compSet.Recommendations)
	assert.Empty(t, compSet.Recommendations)
}

func TestCompare_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newEngine(t).Compare(ctx, sampleSet())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompare_Misconfigured(t *testing.T) {
	_, err := (&CompareEngine{}).Compare(context.Background(), sampleSet())
	assert.Error(t, err)

	_, err = newEngine(t).Compare(context.Background(), nil)
	assert.Error(t, err)
}

func TestTableFormatter_Format(t *testing.T) {
	compSet, err := newEngine(t).Compare(context.Background(), sampleSet())
	require.NoError(t, err)

	out := (&TableFormatter{}).Format(compSet)

	assert.Contains(t, out, "PROFIT SCENARIO COMPARISON")
	assert.Contains(t, out, "Base Scenario: current")
	assert.Contains(t, out, "current *")
	assert.Contains(t, out, "€ 24.606")
	assert.Contains(t, out, "COMPARISON TO BASE")
	assert.Contains(t, out, "+€ 10.083,46")
	assert.Contains(t, out, "€ -9.062,97")
	assert.Contains(t, out, "RECOMMENDATIONS")
}

func TestTableFormatter_ResolvedFromEarlierYear(t *testing.T) {
	set := sampleSet()
	set.Year = 2031

	compSet, err := newEngine(t).Compare(context.Background(), set)
	require.NoError(t, err)

	out := (&TableFormatter{}).Format(compSet)
	assert.Contains(t, out, "Tax year: 2031 (parameters of 2024)")
}

func TestCSVFormatter_Format(t *testing.T) {
	compSet, err := newEngine(t).Compare(context.Background(), sampleSet())
	require.NoError(t, err)

	out, err := (&CSVFormatter{}).Format(compSet)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "Scenario", records[0][0])
	assert.Equal(t, []string{"current", "base"}, records[1][:2])
	assert.Equal(t, "24605.50", records[1][4])
	assert.Equal(t, "growth", records[2][0])
	assert.Equal(t, "10083.46", records[2][7])
}

func TestJSONFormatter_Format(t *testing.T) {
	compSet, err := newEngine(t).Compare(context.Background(), sampleSet())
	require.NoError(t, err)

	for _, pretty := range []bool{false, true} {
		out, err := (&JSONFormatter{Pretty: pretty}).Format(compSet)
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "current", decoded["base_scenario"])
		assert.Len(t, decoded["alternatives"], 2)
		assert.Equal(t, pretty, strings.Contains(out, "\n  "))
	}
}

func TestGenerateRecommendations_BaseBest(t *testing.T) {
	base := ComparisonResult{ScenarioName: "base", NetAfterTax: decimal.NewFromInt(50000), EffectiveRate: decimal.RequireFromString("0.2")}
	alt := ComparisonResult{ScenarioName: "alt", NetAfterTax: decimal.NewFromInt(40000), EffectiveRate: decimal.RequireFromString("0.3")}

	recs := GenerateRecommendations(&ComparisonSet{BaseResult: &base, AlternativeResults: []ComparisonResult{alt.WithBase(base)}})
	assert.Empty(t, recs)
}
