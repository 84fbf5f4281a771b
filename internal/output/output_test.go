package output

import (
	"bytes"
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

func sampleReport(t *testing.T) *Report {
	t.Helper()
	params := config.ResolveParameters(2024)
	result := calculation.ComputeTax(domain.TaxComputationInput{Year: 2024, BusinessProfit: decimal.NewFromInt(79000)}, params)
	return NewComputationReport(params, result, nil)
}

func sampleProjectionReport(t *testing.T) *Report {
	t.Helper()
	params := config.ResolveParameters(2024)
	projection := calculation.ProjectFromQuarters(domain.QuarterProjectionInput{
		Year:           2024,
		CurrentQuarter: 1,
		Quarters:       []domain.QuarterState{{Income: decimal.NewFromInt(45000), Expenses: decimal.NewFromInt(5000)}},
	}, params)
	return NewProjectionReport(params, projection, calculation.BuildAlerts(&projection, params))
}

func TestFormatEUR(t *testing.T) {
	tests := []struct {
		amount   string
		expected string
	}{
		{"0", "€ 0,00"},
		{"24605.50258", "€ 24.605,50"},
		{"1234567.891", "€ 1.234.567,89"},
		{"-120", "€ -120,00"},
		{"0.005", "€ 0,01"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatEUR(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestFormatEURWhole(t *testing.T) {
	assert.Equal(t, "€ 24.606", FormatEURWhole(decimal.RequireFromString("24605.50")))
	assert.Equal(t, "€ 150.000", FormatEURWhole(decimal.NewFromInt(150000)))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "31,1%", FormatPercent(decimal.RequireFromString("0.3115")))
	assert.Equal(t, "50,0%", FormatPercent(decimal.RequireFromString("0.5")))
}

func TestGetFormatterByName(t *testing.T) {
	for _, name := range []string{"console", "csv", "json", " JSON "} {
		f := GetFormatterByName(name)
		require.NotNil(t, f, name)
		assert.Equal(t, strings.ToLower(strings.TrimSpace(name)), f.Name())
	}
	assert.Nil(t, GetFormatterByName("html"))
	assert.Equal(t, []string{"console", "csv", "json"}, FormatterNames())
}

func TestConsoleFormatter(t *testing.T) {
	data, err := ConsoleFormatter{}.Format(sampleReport(t))
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "IB/ZVW BREAKDOWN 2024")
	assert.Contains(t, out, "€ 24.605,50")
	assert.Contains(t, out, "€ -3.750,00")
	assert.Contains(t, out, "31,1%")
	assert.Contains(t, out, "KEY ASSUMPTIONS:")
	assert.NotContains(t, out, "ALERTS")
	assert.NotContains(t, out, "PROJECTION")
}

func TestConsoleFormatter_Projection(t *testing.T) {
	data, err := ConsoleFormatter{}.Format(sampleProjectionReport(t))
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "QUARTER PROJECTION 2024 (Q1)")
	assert.Contains(t, out, "€ 160.000,00")
	assert.Contains(t, out, "ALERTS")
	assert.Contains(t, out, "Very high projected profit")
}

func TestCSVSummarizer(t *testing.T) {
	data, err := CSVSummarizer{}.Format(sampleProjectionReport(t))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)

	values := map[string]string{}
	var alerts []string
	for _, rec := range records[1:] {
		if rec[0] == "alert" {
			alerts = append(alerts, rec[1])
			continue
		}
		values[rec[0]] = rec[1]
	}
	assert.Equal(t, []string{"field", "value"}, records[0])
	assert.Equal(t, "1", values["current_quarter"])
	assert.Equal(t, "40000.00", values["year_to_date_profit"])
	assert.Equal(t, "160000.00", values["projected_year_profit"])
	assert.Contains(t, alerts, calculation.AlertVeryHighProfit)
}

func TestJSONFormatter(t *testing.T) {
	data, err := JSONFormatter{}.Format(sampleReport(t))
	require.NoError(t, err)

	var decoded struct {
		Computation map[string]interface{} `json:"computation"`
		Projection  map[string]interface{} `json:"projection"`
		Alerts      []domain.TaxAlert      `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded.Projection)
	assert.True(t, strings.HasPrefix(decoded.Computation["totalTax"].(string), "24605.50"))
	assert.NotNil(t, decoded.Alerts)
	assert.Empty(t, decoded.Alerts)
}

func TestGenerateReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GenerateReport(&buf, sampleReport(t), "csv"))
	assert.True(t, strings.HasPrefix(buf.String(), "field,value\n"))

	buf.Reset()
	require.NoError(t, GenerateReport(&buf, sampleReport(t), "json"))
	assert.True(t, strings.HasSuffix(buf.String(), "}\n"))

	assert.Error(t, GenerateReport(&buf, sampleReport(t), "pdf"))
}
