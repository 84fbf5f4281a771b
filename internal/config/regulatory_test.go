package config

import (
	"testing"

	"github.com/rgehrsitz/opsdash/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTaxTable(t *testing.T) {
	table := DefaultTaxTable()
	require.NoError(t, table.Validate())
	assert.Equal(t, []int{2024}, table.KnownYears())

	p := ResolveParameters(2024)
	assert.True(t, p.SelfEmployedDeductionAmount.Equal(decimal.NewFromInt(3750)))
	assert.True(t, p.SmallBusinessExemptionRate.Equal(decimal.RequireFromString("0.1331")))
	require.Len(t, p.Brackets, 2)
	assert.True(t, p.Brackets[0].UpperBound.Equal(decimal.NewFromInt(73031)))
	assert.True(t, p.Brackets[0].Rate.Equal(decimal.RequireFromString("0.3697")))
	assert.Nil(t, p.Brackets[1].UpperBound)
	assert.True(t, p.Brackets[1].Rate.Equal(decimal.RequireFromString("0.495")))
	assert.True(t, p.SecondaryContributionRate.Equal(decimal.RequireFromString("0.0586")))
	require.NotNil(t, p.SecondaryContributionCap)
	assert.True(t, p.SecondaryContributionCap.Equal(decimal.NewFromInt(71000)))
	assert.True(t, p.GeneralCredit.Max.Equal(decimal.NewFromInt(3362)))
	assert.True(t, p.LabourCredit.PhaseOutEnd.Equal(decimal.NewFromInt(124934)))
}

func TestResolveParameters_AnyYear(t *testing.T) {
	for _, year := range []int{1990, 2023, 2024, 2025, 2099} {
		p := ResolveParameters(year)
		assert.Equal(t, year, p.Year)
		assert.Equal(t, 2024, p.SourceYear)
		assert.NotEmpty(t, p.Brackets)
	}
}

const tomlTable = `
[metadata]
description = "test"

[[years]]
year = 2023
self_employed_deduction = "5030"
small_business_exemption_rate = "0.14"
secondary_contribution_rate = "0.0543"
secondary_contribution_cap = "66956"

[[years.brackets]]
upper_bound = "73031"
rate = "0.3693"

[[years.brackets]]
rate = "0.495"

[years.general_credit]
max = "3070"
phase_out_start = "22660"
phase_out_end = "73031"

[years.labour_credit]
build_up_rate = "0.08231"
build_up_threshold = "10741"
max = "5052"
max_threshold = "37691"
phase_out_end = "115295"
`

func TestParseTaxTable_TOML(t *testing.T) {
	table, err := ParseTaxTable([]byte(tomlTable), "toml")
	require.NoError(t, err)

	p := table.Resolve(2024)
	assert.Equal(t, 2023, p.SourceYear)
	assert.True(t, p.SelfEmployedDeductionAmount.Equal(decimal.NewFromInt(5030)))
	require.Len(t, p.Brackets, 2)
	assert.Nil(t, p.Brackets[1].UpperBound)
	assert.True(t, p.LabourCredit.Max.Equal(decimal.NewFromInt(5052)))
}

func TestParseTaxTable_Invalid(t *testing.T) {
	_, err := ParseTaxTable([]byte("years: []"), "yaml")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = ParseTaxTable([]byte(`
years:
  - year: 2024
    brackets:
      - upper_bound: 50000
        rate: 0.3
`), "yaml")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = ParseTaxTable([]byte("{}"), "json")
	assert.Error(t, err)
}

func TestLoadTaxTable_ByExtension(t *testing.T) {
	path := writeTemp(t, "table.toml", tomlTable)
	table, err := LoadTaxTable(path)
	require.NoError(t, err)
	assert.Equal(t, []int{2023}, table.KnownYears())

	resolver, err := NewTableResolver(path)
	require.NoError(t, err)
	assert.Equal(t, 2023, resolver.Resolve(2030).SourceYear)

	defaults, err := NewTableResolver("")
	require.NoError(t, err)
	assert.Equal(t, 2024, defaults.Resolve(2030).SourceYear)
}

func TestLookupProfile(t *testing.T) {
	assert.Nil(t, LookupProfile(1999))

	p := LookupProfile(2024)
	require.NotNil(t, p)
	assert.Equal(t, 2024, p.Year)
	assert.True(t, p.NetHousingAdjustment.Equal(decimal.NewFromInt(-2100)))

	// returned profiles are copies
	p.OtherDeductions = decimal.NewFromInt(999999)
	assert.True(t, LookupProfile(2024).OtherDeductions.Equal(decimal.NewFromInt(450)))
}
