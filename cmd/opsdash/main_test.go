package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/opsdash/internal/cockpit"
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with a fresh command tree against a temporary database
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("OPSDASH_PG_URL", "")
	t.Setenv("OPSDASH_TAX_TABLE", "")

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

type reportJSON struct {
	Parameters  domain.TaxYearParameters        `json:"parameters"`
	Computation *domain.TaxComputationResult    `json:"computation"`
	Projection  *domain.QuarterProjectionResult `json:"projection"`
	Alerts      []domain.TaxAlert               `json:"alerts"`
}

const projectionYAML = `year: 2024
current_quarter: 3
quarters:
  - income: 20000
    expenses: 5000
  - income: 25000
    expenses: 4000
  - income: 22000
    expenses: 6000
`

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()

	assert.Equal(t, "opsdash", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	out, err := run(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
}

func TestCommandSubcommands(t *testing.T) {
	expected := []string{
		"params", "compute", "project", "alerts", "solve", "compare",
		"validate", "profile", "report", "cockpit", "serve", "version",
	}

	registered := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		registered[c.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, registered[name], "command %s not registered", name)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "opsdash dev")
}

func TestParams(t *testing.T) {
	out, err := run(t, "params", "2030", "--format", "json")
	require.NoError(t, err)

	var params domain.TaxYearParameters
	require.NoError(t, json.Unmarshal([]byte(out), &params))
	assert.Equal(t, 2030, params.Year)
	assert.Equal(t, 2024, params.SourceYear)
	assert.Len(t, params.Brackets, 2)

	out, err = run(t, "params", "2024")
	require.NoError(t, err)
	assert.Contains(t, out, "TAX PARAMETERS 2024")
	assert.Contains(t, out, "Zvw contribution")
	assert.NotContains(t, out, "table year")

	_, err = run(t, "params", "next")
	assert.Error(t, err)
}

func TestCompute(t *testing.T) {
	out, err := run(t, "compute", "--year", "2024", "--profit", "79000", "--profile", "none", "--format", "json")
	require.NoError(t, err)

	var report reportJSON
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.NotNil(t, report.Computation)
	assert.Equal(t, "24605.50", report.Computation.TotalTax.StringFixed(2))

	out, err = run(t, "compute", "--year", "2024", "--profit", "79000", "--reserve", "2000", "--profile", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "IB/ZVW BREAKDOWN 2024")
	assert.Contains(t, out, "€ 23.849,56")
}

func TestCompute_InvalidInput(t *testing.T) {
	_, err := run(t, "compute", "--profit", "lots")
	assert.Error(t, err)

	_, err = run(t, "compute")
	assert.Error(t, err)

	_, err = run(t, "compute", "--profit", "1000", "--profile", "somewhere")
	assert.Error(t, err)
}

func TestProject(t *testing.T) {
	file := writeFile(t, "q3.yaml", projectionYAML)

	out, err := run(t, "project", file, "--profile", "none", "--format", "json")
	require.NoError(t, err)

	var report reportJSON
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.NotNil(t, report.Projection)
	assert.Equal(t, "69333.33", report.Projection.ProjectedYearProfit.StringFixed(2))
	assert.Equal(t, "20224.80", report.Projection.TotalTax.StringFixed(2))
	assert.Equal(t, "5056.20", report.Projection.QuarterlySetAside.StringFixed(2))
}

func TestAlerts(t *testing.T) {
	file := writeFile(t, "q3.yaml", projectionYAML)

	out, err := run(t, "alerts", file, "--profile", "none", "--format", "json")
	require.NoError(t, err)

	var alerts []domain.TaxAlert
	require.NoError(t, json.Unmarshal([]byte(out), &alerts))
	for _, a := range alerts {
		assert.NotEmpty(t, a.Title)
	}
}

func TestSolve(t *testing.T) {
	out, err := run(t, "solve", "--year", "2024", "--target", "54394.50", "--profile", "none", "--format", "json")
	require.NoError(t, err)

	var result struct {
		Success        bool            `json:"success"`
		RequiredProfit decimal.Decimal `json:"required_profit"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Success)
	assert.True(t, result.RequiredProfit.Sub(decimal.NewFromInt(79000)).Abs().LessThan(decimal.NewFromInt(1)),
		"required profit %s", result.RequiredProfit)

	out, err = run(t, "solve", "--year", "2024", "--target", "30000,40000", "--profile", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "REQUIRED PROFIT LADDER 2024")

	_, err = run(t, "solve", "--year", "2024")
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	file := writeFile(t, "scenarios.yaml", `year: 2024
base:
  name: current
  business_profit: 79000
alternatives:
  - name: growth
    business_profit: 100000
  - name: quiet
    business_profit: 60000
`)

	out, err := run(t, "compare", file)
	require.NoError(t, err)
	assert.Contains(t, out, "PROFIT SCENARIO COMPARISON")
	assert.Contains(t, out, "growth")

	out, err = run(t, "compare", file, "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Scenario,Type,Business Profit")

	_, err = run(t, "compare", file, "--format", "xml")
	assert.Error(t, err)
}

func TestCompare_WithTemplates(t *testing.T) {
	file := writeFile(t, "base.yaml", "year: 2024\nbase:\n  name: current\n  business_profit: 80000\n")

	_, err := run(t, "compare", file)
	assert.Error(t, err, "a base without alternatives cannot be compared")

	out, err := run(t, "compare", file, "--with", "growth_10,scale_profit:percent=-25", "--format", "json")
	require.NoError(t, err)

	var result struct {
		Alternatives []struct {
			ScenarioName   string          `json:"scenario_name"`
			BusinessProfit decimal.Decimal `json:"business_profit"`
		} `json:"alternatives"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Alternatives, 2)
	assert.Equal(t, "growth_10", result.Alternatives[0].ScenarioName)
	assert.Equal(t, "88000.00", result.Alternatives[0].BusinessProfit.StringFixed(2))
	assert.Equal(t, "60000.00", result.Alternatives[1].BusinessProfit.StringFixed(2))

	_, err = run(t, "compare", file, "--with", "retire_early")
	assert.Error(t, err)

	out, err = run(t, "compare", "--list-templates")
	require.NoError(t, err)
	assert.Contains(t, out, "reserve_5000")
	assert.Contains(t, out, "scale_profit")
}

func TestValidate(t *testing.T) {
	good := writeFile(t, "good.yaml", projectionYAML)
	out, err := run(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "valid projection file")

	bad := writeFile(t, "bad.yaml", "year: 2024\ncurrent_quarter: 1\nquarters:\n  - income: -5\n")
	_, err = run(t, "validate", bad)
	assert.Error(t, err)

	_, err = run(t, "validate", good, "--kind", "tax-table")
	assert.Error(t, err)

	_, err = run(t, "validate", good, "--kind", "nonsense")
	assert.Error(t, err)
}

func TestProfileCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "opsdash.db")

	out, err := run(t, "profile", "list", "--db", db, "--user", "anna")
	require.NoError(t, err)
	assert.Contains(t, out, "No profiles stored for anna")

	_, err = run(t, "profile", "set", "--db", db, "--user", "anna", "--year", "2024",
		"--housing=-2100", "--deductions", "450", "--correction=-120")
	require.NoError(t, err)

	_, err = run(t, "profile", "set", "--db", db, "--user", "anna", "--year", "2024", "--other-income", "0")
	require.NoError(t, err)

	out, err = run(t, "profile", "show", "--db", db, "--user", "anna", "--year", "2024")
	require.NoError(t, err)
	var profile domain.PersonalYearProfile
	require.NoError(t, json.Unmarshal([]byte(out), &profile))
	assert.Equal(t, "-2100", profile.NetHousingAdjustment.String())
	assert.Equal(t, "450", profile.OtherDeductions.String())

	out, err = run(t, "compute", "--db", db, "--user", "anna", "--year", "2024", "--profit", "79000", "--profile", "stored", "--format", "json")
	require.NoError(t, err)
	var report reportJSON
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "23613.69", report.Computation.TotalTax.StringFixed(2))

	_, err = run(t, "profile", "set", "--db", db, "--user", "anna", "--year", "2024", "--deductions", "-1")
	assert.Error(t, err)

	_, err = run(t, "profile", "delete", "--db", db, "--user", "anna", "--year", "2024")
	require.NoError(t, err)
	_, err = run(t, "profile", "show", "--db", db, "--user", "anna", "--year", "2024")
	assert.Error(t, err)
}

func TestReportAndCockpit(t *testing.T) {
	db := filepath.Join(t.TempDir(), "opsdash.db")
	rows := writeFile(t, "rows.json", `[
  {"user_id": "anna", "year": 2024, "revenue": "120000.00", "net_profit": 79000},
  {"year": 2023, "revenue": 90000, "net_profit": "not a number"}
]`)

	out, err := run(t, "report", "import", rows, "--db", db, "--user", "anna")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 report row(s)")

	out, err = run(t, "report", "list", "--db", db, "--user", "anna")
	require.NoError(t, err)
	assert.Contains(t, out, "2024")
	assert.Contains(t, out, "2023")

	out, err = run(t, "cockpit", "--db", db, "--user", "anna", "--year", "2024", "--format", "json")
	require.NoError(t, err)
	var view cockpit.View
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, cockpit.StatusOK, view.Status)
	require.NotNil(t, view.Computation)
	assert.Equal(t, "24605.50", view.Computation.TotalTax.StringFixed(2))

	out, err = run(t, "cockpit", "--db", db, "--user", "anna", "--year", "2024")
	require.NoError(t, err)
	assert.Contains(t, out, "€ 24.605,50")

	out, err = run(t, "cockpit", "--db", db, "--user", "anna", "--year", "2022")
	assert.Error(t, err)
	assert.Contains(t, out, cockpit.MessageNoData)
}

func TestReportImport_Invalid(t *testing.T) {
	db := filepath.Join(t.TempDir(), "opsdash.db")

	missingYear := writeFile(t, "row.json", `{"user_id": "anna", "net_profit": 1000}`)
	_, err := run(t, "report", "import", missingYear, "--db", db)
	assert.Error(t, err)

	broken := writeFile(t, "broken.json", `{"year": `)
	_, err = run(t, "report", "import", broken, "--db", db)
	assert.Error(t, err)
}
