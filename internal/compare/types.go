package compare

import (
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/rgehrsitz/opsdash/internal/output"
	"github.com/shopspring/decimal"
)

// ComparisonResult holds the key metrics of one scenario and its deltas from the base
type ComparisonResult struct {
	ScenarioName   string          `json:"scenario_name"`
	BusinessProfit decimal.Decimal `json:"business_profit"`
	TaxableIncome  decimal.Decimal `json:"taxable_income"`
	TotalTax       decimal.Decimal `json:"total_tax"`
	NetAfterTax    decimal.Decimal `json:"net_after_tax"`
	EffectiveRate  decimal.Decimal `json:"effective_rate"`

	// Zero for the base scenario
	TaxDiffFromBase  decimal.Decimal `json:"tax_diff_from_base"`
	NetDiffFromBase  decimal.Decimal `json:"net_diff_from_base"`
	RateDiffFromBase decimal.Decimal `json:"rate_diff_from_base"`

	Computation domain.TaxComputationResult `json:"computation"`
}

// ComparisonSet is the outcome of comparing alternatives against a base scenario
type ComparisonSet struct {
	Year               int                `json:"year"`
	SourceYear         int                `json:"source_year"`
	BaseScenarioName   string             `json:"base_scenario"`
	BaseResult         *ComparisonResult  `json:"base_result"`
	AlternativeResults []ComparisonResult `json:"alternatives"`
	Recommendations    []string           `json:"recommendations"`
}

// NewComparisonResult extracts the comparison metrics from a computation
func NewComparisonResult(name string, result domain.TaxComputationResult) ComparisonResult {
	return ComparisonResult{
		ScenarioName:   name,
		BusinessProfit: result.BusinessProfit,
		TaxableIncome:  result.TaxableIncome,
		TotalTax:       result.TotalTax,
		NetAfterTax:    result.NetAfterTax(),
		EffectiveRate:  result.EffectiveTaxRate,
		Computation:    result,
	}
}

// WithBase fills the deltas of r against base
func (r ComparisonResult) WithBase(base ComparisonResult) ComparisonResult {
	r.TaxDiffFromBase = r.TotalTax.Sub(base.TotalTax)
	r.NetDiffFromBase = r.NetAfterTax.Sub(base.NetAfterTax)
	r.RateDiffFromBase = r.EffectiveRate.Sub(base.EffectiveRate)
	return r
}

// GenerateRecommendations points out the alternatives that beat the base
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet == nil || compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	base := compSet.BaseResult

	bestNet := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.NetAfterTax.GreaterThan(bestNet.NetAfterTax) {
			bestNet = alt
		}
	}
	if bestNet != base {
		recommendations = append(recommendations,
			"Highest net: "+bestNet.ScenarioName+" leaves "+
				output.FormatEURWhole(bestNet.NetAfterTax.Sub(base.NetAfterTax))+" more after tax than "+base.ScenarioName)
	}

	lowestRate := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.EffectiveRate.LessThan(lowestRate.EffectiveRate) {
			lowestRate = alt
		}
	}
	if lowestRate != base {
		recommendations = append(recommendations,
			"Lowest effective rate: "+lowestRate.ScenarioName+" at "+output.FormatPercent(lowestRate.EffectiveRate)+
				" against "+output.FormatPercent(base.EffectiveRate))
	}

	// Extra tax per extra euro of profit, only for scenarios that earn more
	for _, alt := range compSet.AlternativeResults {
		extraProfit := alt.BusinessProfit.Sub(base.BusinessProfit)
		if !extraProfit.IsPositive() {
			continue
		}
		marginal := alt.TaxDiffFromBase.Div(extraProfit)
		if marginal.GreaterThanOrEqual(decimal.RequireFromString("0.45")) {
			recommendations = append(recommendations,
				"High marginal cost: "+alt.ScenarioName+" pays "+output.FormatPercent(marginal)+
					" tax on the extra profit over "+base.ScenarioName)
		}
	}

	return recommendations
}
