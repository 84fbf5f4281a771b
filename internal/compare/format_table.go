package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/opsdash/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("PROFIT SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Tax year: %d", compSet.Year))
	if compSet.SourceYear != 0 && compSet.SourceYear != compSet.Year {
		sb.WriteString(fmt.Sprintf(" (parameters of %d)", compSet.SourceYear))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n\n", compSet.BaseScenarioName))

	nameWidth := 20
	numWidth := 14

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "Profit",
		numWidth, "Total tax",
		numWidth, "Net",
		numWidth, "Eff. rate"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			sb.WriteString(fmt.Sprintf("  Total tax:      %s\n", signed(alt.TaxDiffFromBase, output.FormatEUR)))
			sb.WriteString(fmt.Sprintf("  Net after tax:  %s\n", signed(alt.NetDiffFromBase, output.FormatEUR)))
			sb.WriteString(fmt.Sprintf("  Effective rate: %s\n", signed(alt.RateDiffFromBase, output.FormatPercent)))
		}
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString("• " + rec + "\n")
		}
	}

	return sb.String()
}

func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " *"
	}
	if len(name) > nameWidth {
		name = name[:nameWidth-3] + "..."
	}
	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, name,
		numWidth, output.FormatEURWhole(result.BusinessProfit),
		numWidth, output.FormatEURWhole(result.TotalTax),
		numWidth, output.FormatEURWhole(result.NetAfterTax),
		numWidth, output.FormatPercent(result.EffectiveRate))
}

func signed(value decimal.Decimal, format func(decimal.Decimal) string) string {
	if value.IsPositive() {
		return "+" + format(value)
	}
	return format(value)
}
