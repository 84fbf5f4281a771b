package output

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatEUR formats an amount for Dutch display with two decimals, e.g. "€ 24.605,50"
func FormatEUR(amount decimal.Decimal) string {
	return formatEUR(amount, 2)
}

// FormatEURWhole formats an amount without decimals for coarse summaries, e.g. "€ 24.606"
func FormatEURWhole(amount decimal.Decimal) string {
	return formatEUR(amount, 0)
}

// FormatPercent formats a fraction as a Dutch percentage with one decimal, e.g. "31,1%"
func FormatPercent(fraction decimal.Decimal) string {
	value := fraction.Mul(decimal.NewFromInt(100)).Round(1)
	return message.NewPrinter(language.Dutch).Sprint(number.Decimal(value.InexactFloat64(), number.Scale(1))) + "%"
}

func formatEUR(amount decimal.Decimal, places int32) string {
	rounded := amount.Round(places)
	p := message.NewPrinter(language.Dutch)
	formatted := p.Sprint(number.Decimal(rounded.Abs().InexactFloat64(), number.Scale(int(places))))
	if rounded.IsNegative() {
		return "€ -" + formatted
	}
	return "€ " + formatted
}
