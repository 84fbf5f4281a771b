package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleFormatter renders the detailed breakdown for a terminal
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	r := report.Computation

	rule := strings.Repeat("=", 60)
	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf, report.Title)
	fmt.Fprintln(&buf, rule)
	if report.Parameters.SourceYear != 0 && report.Parameters.SourceYear != report.Parameters.Year {
		fmt.Fprintf(&buf, "Parameters from tax year %d\n", report.Parameters.SourceYear)
	}
	fmt.Fprintln(&buf)

	if p := report.Projection; p != nil {
		fmt.Fprintln(&buf, "PROJECTION")
		fmt.Fprintln(&buf, strings.Repeat("-", 40))
		line(&buf, "Year-to-date profit", FormatEUR(p.YearToDateProfit))
		line(&buf, "Extrapolation factor", p.ExtrapolationFactor.StringFixed(4))
		line(&buf, "Projected year profit", FormatEUR(p.ProjectedYearProfit))
		line(&buf, "Set aside per quarter", FormatEUR(p.QuarterlySetAside))
		fmt.Fprintln(&buf)
	}

	fmt.Fprintln(&buf, "INCOME AND DEDUCTIONS")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	line(&buf, "Business profit", FormatEUR(r.BusinessProfit))
	if !r.OtherIncome.IsZero() {
		line(&buf, "Other box 1 income", FormatEUR(r.OtherIncome))
	}
	line(&buf, "Self-employed deduction", negated(r.SelfEmployedDeduction))
	if !r.ReserveContribution.IsZero() {
		line(&buf, "Reserve contribution", negated(r.ReserveContribution))
	}
	line(&buf, "Small-business exemption", negated(r.SmallBusinessExemption))
	if !r.HousingAdjustment.IsZero() {
		line(&buf, "Housing adjustment", FormatEUR(r.HousingAdjustment))
	}
	if !r.OtherDeductions.IsZero() {
		line(&buf, "Other deductions", negated(r.OtherDeductions))
	}
	line(&buf, "Taxable income", FormatEUR(r.TaxableIncome))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "TAX")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	line(&buf, "Bracket tax", FormatEUR(r.GrossBracketTax))
	line(&buf, "General credit", negated(r.GeneralCredit))
	line(&buf, "Labour credit", negated(r.LabourCredit))
	if !r.CreditsCorrection.IsZero() {
		line(&buf, "Credits correction", negated(r.CreditsCorrection))
	}
	line(&buf, "Net income tax", FormatEUR(r.NetIncomeTax))
	line(&buf, "Zvw contribution", FormatEUR(r.SecondaryContribution))
	line(&buf, "Total tax", FormatEUR(r.TotalTax))
	line(&buf, "Effective rate", FormatPercent(r.EffectiveTaxRate))
	line(&buf, "Net after tax", FormatEURWhole(r.NetAfterTax()))
	fmt.Fprintln(&buf)

	if len(report.Alerts) > 0 {
		fmt.Fprintln(&buf, "ALERTS")
		fmt.Fprintln(&buf, strings.Repeat("-", 40))
		for _, a := range report.Alerts {
			fmt.Fprintf(&buf, "[%s] %s\n", levelTag(a.Level), a.Title)
			fmt.Fprintf(&buf, "    %s\n", a.Description)
		}
		fmt.Fprintln(&buf)
	}

	assumptions := report.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range assumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}

	return buf.Bytes(), nil
}

func line(buf *bytes.Buffer, label, value string) {
	fmt.Fprintf(buf, "%-26s %16s\n", label+":", value)
}

func negated(amount decimal.Decimal) string {
	return FormatEUR(amount.Neg())
}

func levelTag(level domain.AlertLevel) string {
	switch level {
	case domain.AlertCritical:
		return "CRITICAL"
	case domain.AlertWarning:
		return "WARNING"
	default:
		return "INFO"
	}
}
