package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/shopspring/decimal"
)

// CSVSummarizer writes the breakdown as field,value rows with plain decimals.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	r := report.Computation

	rows := [][]string{
		{"field", "value"},
		{"year", strconv.Itoa(r.Year)},
	}
	if p := report.Projection; p != nil {
		rows = append(rows,
			[]string{"current_quarter", strconv.Itoa(p.CurrentQuarter)},
			money("year_to_date_profit", p.YearToDateProfit),
			[]string{"extrapolation_factor", p.ExtrapolationFactor.StringFixed(4)},
			money("projected_year_profit", p.ProjectedYearProfit),
			money("quarterly_set_aside", p.QuarterlySetAside),
		)
	}
	rows = append(rows,
		money("business_profit", r.BusinessProfit),
		money("other_income", r.OtherIncome),
		money("self_employed_deduction", r.SelfEmployedDeduction),
		money("reserve_contribution", r.ReserveContribution),
		money("small_business_exemption", r.SmallBusinessExemption),
		money("housing_adjustment", r.HousingAdjustment),
		money("other_deductions", r.OtherDeductions),
		money("taxable_income", r.TaxableIncome),
		money("gross_bracket_tax", r.GrossBracketTax),
		money("general_credit", r.GeneralCredit),
		money("labour_credit", r.LabourCredit),
		money("credits_correction", r.CreditsCorrection),
		money("net_income_tax", r.NetIncomeTax),
		money("secondary_contribution", r.SecondaryContribution),
		money("total_tax", r.TotalTax),
		[]string{"effective_tax_rate", r.EffectiveTaxRate.StringFixed(4)},
	)
	for _, a := range report.Alerts {
		rows = append(rows, []string{"alert", a.ID})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func money(field string, amount decimal.Decimal) []string {
	return []string{field, amount.StringFixed(2)}
}
