package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/opsdash/internal/output"
)

// TableFormatter formats solver results as a console table
type TableFormatter struct{}

// Format generates a formatted table for a required-profit result
func (tf *TableFormatter) Format(result *RequiredProfitResult) string {
	var sb strings.Builder

	sb.WriteString("REQUIRED PROFIT FOR TARGET NET INCOME\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString(fmt.Sprintf("Tax Year:            %d\n", result.Request.Year))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("RESULT\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	sb.WriteString(fmt.Sprintf("Target Net Income:   %s\n", output.FormatEUR(result.Request.TargetNetIncome)))
	sb.WriteString(fmt.Sprintf("Required Profit:     %s\n", output.FormatEUR(result.RequiredProfit)))
	sb.WriteString(fmt.Sprintf("Total Tax:           %s\n", output.FormatEUR(result.Computation.TotalTax)))
	sb.WriteString(fmt.Sprintf("Achieved Net Income: %s\n", output.FormatEUR(result.NetIncome)))
	sb.WriteString(fmt.Sprintf("Effective Rate:      %s\n", output.FormatPercent(result.Computation.EffectiveTaxRate)))
	sb.WriteString(fmt.Sprintf("Marginal Rate:       %s\n", output.FormatPercent(result.MarginalRate)))
	sb.WriteString("\n")

	return sb.String()
}

// FormatLadder formats results for several targets as one table
func (tf *TableFormatter) FormatLadder(ladder *LadderResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("REQUIRED PROFIT LADDER %d\n", ladder.Year))
	sb.WriteString(strings.Repeat("=", 72) + "\n")
	sb.WriteString(fmt.Sprintf("%-16s %16s %14s %10s %10s\n", "Target Net", "Required Profit", "Total Tax", "Effective", "Marginal"))
	sb.WriteString(strings.Repeat("-", 72) + "\n")

	for _, res := range ladder.Results {
		sb.WriteString(fmt.Sprintf("%-16s %16s %14s %10s %10s\n",
			output.FormatEURWhole(res.Request.TargetNetIncome),
			output.FormatEURWhole(res.RequiredProfit),
			output.FormatEURWhole(res.Computation.TotalTax),
			output.FormatPercent(res.Computation.EffectiveTaxRate),
			output.FormatPercent(res.MarginalRate)))
	}
	sb.WriteString("\n")

	return sb.String()
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "✗ Did not converge"
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output for a result or a ladder
func (jf *JSONFormatter) Format(v interface{}) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}
	return string(data), nil
}
