package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/rgehrsitz/opsdash/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func sampleParameters(year int) TaxYearParameters {
	return TaxYearParameters{
		Year:                        year,
		SelfEmployedDeductionAmount: dec("3750"),
		SmallBusinessExemptionRate:  dec("0.1331"),
		Brackets: []TaxBracket{
			{UpperBound: decPtr("73031"), Rate: dec("0.3697")},
			{Rate: dec("0.495")},
		},
		SecondaryContributionRate: dec("0.0586"),
		SecondaryContributionCap:  decPtr("71000"),
		GeneralCredit:             GeneralCreditRule{Max: dec("3362"), PhaseOutStart: dec("24812"), PhaseOutEnd: dec("75518")},
		LabourCredit: LabourCreditRule{
			BuildUpRate: dec("0.08425"), BuildUpThreshold: dec("11491"),
			Max: dec("5532"), MaxThreshold: dec("39958"), PhaseOutEnd: dec("124934"),
		},
	}
}

func TestTaxYearParameters_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *TaxYearParameters)
		wantErr bool
	}{
		{name: "valid", mutate: func(p *TaxYearParameters) {}},
		{name: "no brackets", mutate: func(p *TaxYearParameters) { p.Brackets = nil }, wantErr: true},
		{name: "bounded final bracket", mutate: func(p *TaxYearParameters) {
			p.Brackets[1].UpperBound = decPtr("100000")
		}, wantErr: true},
		{name: "unbounded middle bracket", mutate: func(p *TaxYearParameters) {
			p.Brackets = []TaxBracket{{Rate: dec("0.3")}, {Rate: dec("0.4")}}
		}, wantErr: true},
		{name: "descending bounds", mutate: func(p *TaxYearParameters) {
			p.Brackets = []TaxBracket{
				{UpperBound: decPtr("50000"), Rate: dec("0.3")},
				{UpperBound: decPtr("40000"), Rate: dec("0.4")},
				{Rate: dec("0.5")},
			}
		}, wantErr: true},
		{name: "rate of one", mutate: func(p *TaxYearParameters) { p.Brackets[1].Rate = dec("1") }, wantErr: true},
		{name: "negative deduction", mutate: func(p *TaxYearParameters) { p.SelfEmployedDeductionAmount = dec("-1") }, wantErr: true},
		{name: "general credit reversed", mutate: func(p *TaxYearParameters) {
			p.GeneralCredit.PhaseOutEnd = dec("1000")
		}, wantErr: true},
		{name: "labour credit reversed", mutate: func(p *TaxYearParameters) {
			p.LabourCredit.MaxThreshold = dec("5000")
		}, wantErr: true},
		{name: "no cap is fine", mutate: func(p *TaxYearParameters) { p.SecondaryContributionCap = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sampleParameters(2024)
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTaxTable_Resolve(t *testing.T) {
	table := TaxTable{Years: []TaxYearParameters{sampleParameters(2024), sampleParameters(2022)}}
	table.Years[1].SelfEmployedDeductionAmount = dec("6310")

	tests := []struct {
		year       int
		sourceYear int
	}{
		{2024, 2024},
		{2022, 2022},
		{2023, 2022},
		{2030, 2024},
		{2019, 2022},
	}

	for _, tt := range tests {
		got := table.Resolve(tt.year)
		assert.Equal(t, tt.year, got.Year)
		assert.Equal(t, tt.sourceYear, got.SourceYear, "year %d", tt.year)
	}

	assert.True(t, table.Resolve(2023).SelfEmployedDeductionAmount.Equal(dec("6310")))
}

func TestTaxTable_ResolveReturnsCopy(t *testing.T) {
	table := TaxTable{Years: []TaxYearParameters{sampleParameters(2024)}}

	resolved := table.Resolve(2024)
	*resolved.Brackets[0].UpperBound = dec("1")
	resolved.Brackets[1].Rate = dec("0.9")

	assert.True(t, table.Years[0].Brackets[0].UpperBound.Equal(dec("73031")))
	assert.True(t, table.Years[0].Brackets[1].Rate.Equal(dec("0.495")))
}

func TestTaxTable_Validate(t *testing.T) {
	assert.Error(t, (&TaxTable{}).Validate())

	dup := TaxTable{Years: []TaxYearParameters{sampleParameters(2024), sampleParameters(2024)}}
	assert.ErrorIs(t, dup.Validate(), apperrors.ErrValidation)

	ok := TaxTable{Years: []TaxYearParameters{sampleParameters(2025), sampleParameters(2024)}}
	require.NoError(t, ok.Validate())
	assert.Equal(t, []int{2024, 2025}, ok.KnownYears())
}

func TestPersonalYearProfile(t *testing.T) {
	var nilProfile *PersonalYearProfile
	assert.NoError(t, nilProfile.Validate())
	h, d, o, c := nilProfile.Amounts()
	assert.True(t, h.IsZero() && d.IsZero() && o.IsZero() && c.IsZero())

	p := &PersonalYearProfile{Year: 2024, OtherDeductions: dec("-5")}
	assert.ErrorIs(t, p.Validate(), apperrors.ErrValidation)

	p = &PersonalYearProfile{Year: 2024, OtherBox1Income: dec("-5")}
	assert.ErrorIs(t, p.Validate(), apperrors.ErrValidation)

	p = &PersonalYearProfile{Year: 2024, NetHousingAdjustment: dec("-1200"), CreditsCorrection: dec("-300")}
	assert.NoError(t, p.Validate())
}

func TestQuarterProjectionInput_Quarter(t *testing.T) {
	in := QuarterProjectionInput{Quarters: []QuarterState{{Income: dec("100"), Expenses: dec("30")}}}

	assert.True(t, in.Quarter(1).Profit().Equal(dec("70")))
	assert.True(t, in.Quarter(2).Profit().IsZero())
	assert.True(t, in.Quarter(0).Profit().IsZero())
	assert.True(t, in.Quarter(5).Profit().IsZero())
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  RawNumber
		want string
	}{
		{"invalid", RawNumber{}, "0"},
		{"empty", NewRawNumber(""), "0"},
		{"garbage", NewRawNumber("n/a"), "0"},
		{"string", NewRawNumber("79000.50"), "79000.5"},
		{"padded", NewRawNumber("  12 "), "12"},
		{"negative", NewRawNumber("-250"), "-250"},
		{"number", RawNumber{Text: "1e3", Valid: true}, "1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, ToNumber(tt.raw).Equal(dec(tt.want)), "got %s", ToNumber(tt.raw))
		})
	}
}

func TestRawFinancialYearRow_JSON(t *testing.T) {
	payload := `{"user_id":"u1","year":2024,"revenue":"120000.00","net_profit":79000,"cost_of_sales":null,"operating_costs":"abc"}`

	var row RawFinancialYearRow
	require.NoError(t, json.Unmarshal([]byte(payload), &row))

	assert.True(t, row.Revenue.Quoted)
	assert.False(t, row.NetProfit.Quoted)
	assert.False(t, row.CostOfSales.Valid)

	summary := row.Summary()
	assert.Equal(t, "u1", summary.UserID)
	assert.True(t, summary.Revenue.Equal(dec("120000")))
	assert.True(t, summary.NetProfit.Equal(dec("79000")))
	assert.True(t, summary.OperatingCosts.IsZero())
	assert.True(t, summary.TotalCosts().IsZero())

	out, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"revenue":"120000.00"`)
	assert.Contains(t, string(out), `"net_profit":79000`)
	assert.Contains(t, string(out), `"cost_of_sales":null`)
}
