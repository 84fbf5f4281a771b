package compare

import (
	"encoding/csv"
	"strings"

	"github.com/shopspring/decimal"
)

type csvColumn struct {
	title  string
	places int32
	value  func(*ComparisonResult) decimal.Decimal
}

// Amounts stay plain machine-readable decimals; locale formatting is for the table only.
var csvColumns = []csvColumn{
	{"Business Profit", 2, func(r *ComparisonResult) decimal.Decimal { return r.BusinessProfit }},
	{"Taxable Income", 2, func(r *ComparisonResult) decimal.Decimal { return r.TaxableIncome }},
	{"Total Tax", 2, func(r *ComparisonResult) decimal.Decimal { return r.TotalTax }},
	{"Net After Tax", 2, func(r *ComparisonResult) decimal.Decimal { return r.NetAfterTax }},
	{"Effective Rate", 4, func(r *ComparisonResult) decimal.Decimal { return r.EffectiveRate }},
	{"Tax Diff from Base", 2, func(r *ComparisonResult) decimal.Decimal { return r.TaxDiffFromBase }},
	{"Net Diff from Base", 2, func(r *ComparisonResult) decimal.Decimal { return r.NetDiffFromBase }},
	{"Rate Diff from Base", 4, func(r *ComparisonResult) decimal.Decimal { return r.RateDiffFromBase }},
}

// CSVFormatter writes one record per scenario, base first
type CSVFormatter struct{}

func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	records := [][]string{csvHeader()}
	if compSet.BaseResult != nil {
		records = append(records, csvRecord(compSet.BaseResult, "base"))
	}
	for i := range compSet.AlternativeResults {
		records = append(records, csvRecord(&compSet.AlternativeResults[i], "alternative"))
	}

	var out strings.Builder
	if err := csv.NewWriter(&out).WriteAll(records); err != nil {
		return "", err
	}
	return out.String(), nil
}

func csvHeader() []string {
	header := []string{"Scenario", "Type"}
	for _, col := range csvColumns {
		header = append(header, col.title)
	}
	return header
}

func csvRecord(result *ComparisonResult, kind string) []string {
	record := []string{result.ScenarioName, kind}
	for _, col := range csvColumns {
		record = append(record, col.value(result).StringFixed(col.places))
	}
	return record
}
