package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/opsdash/internal/output"
)

// View renders the cockpit
func (m Model) View() string {
	header := lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render("opsdash · IB/Zvw cockpit"),
		SubtitleStyle.Render(fmt.Sprintf("Tax year %d · projecting from Q%d · %s", m.year, m.currentQuarter, m.profileStatus())),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderInputs(), "  ", m.renderResults())

	parts := []string{header, "", body}
	if alerts := m.renderAlerts(); alerts != "" {
		parts = append(parts, "", alerts)
	}
	if m.err != nil {
		parts = append(parts, "", ErrorStyle.Render("Error: "+m.err.Error()))
	}
	parts = append(parts, "", m.renderHelp())

	return AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) profileStatus() string {
	switch {
	case !m.profileLoaded && m.err == nil:
		return "loading profile..."
	case !m.profileLoaded:
		return "profile unavailable"
	case m.profile == nil:
		return "no personal profile"
	default:
		return "personal profile applied"
	}
}

func (m Model) renderInputs() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-4s %-13s %-13s\n", "", LabelStyle.Render("Income"), LabelStyle.Render("Expenses")))
	for q := 0; q < quarters; q++ {
		tag := FutureQuarterTag.Render(fmt.Sprintf("Q%d", q+1))
		if q+1 <= m.currentQuarter {
			tag = CurrentQuarterTag.Render(fmt.Sprintf("Q%d", q+1))
		}
		b.WriteString(fmt.Sprintf("%-4s %-13s %-13s\n", tag, m.inputs[2*q].View(), m.inputs[2*q+1].View()))
	}
	return ActivePanelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderResults() string {
	if !m.profileLoaded {
		return PanelStyle.Render(LabelStyle.Render("Waiting for profile data"))
	}

	p := m.projection
	rows := []struct {
		label string
		value string
		total bool
	}{
		{"Year-to-date profit", output.FormatEUR(p.YearToDateProfit), false},
		{"Projected year profit", output.FormatEUR(p.ProjectedYearProfit), false},
		{"Taxable income", output.FormatEUR(p.TaxableIncome), false},
		{"Bracket tax", output.FormatEUR(p.GrossBracketTax), false},
		{"Credits", output.FormatEUR(p.TotalCredits.Neg()), false},
		{"Income tax", output.FormatEUR(p.NetIncomeTax), false},
		{"Zvw contribution", output.FormatEUR(p.SecondaryContribution), false},
		{"Total tax", output.FormatEUR(p.TotalTax), true},
		{"Effective rate", output.FormatPercent(p.EffectiveTaxRate), false},
		{"Set aside per quarter", output.FormatEURWhole(p.QuarterlySetAside), true},
		{"Net after tax", output.FormatEURWhole(p.NetAfterTax()), false},
	}

	var b strings.Builder
	for _, r := range rows {
		value := ValueStyle.Render(r.value)
		if r.total {
			value = TotalStyle.Render(r.value)
		}
		b.WriteString(fmt.Sprintf("%-24s %16s\n", LabelStyle.Render(r.label), value))
	}
	return PanelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderAlerts() string {
	if len(m.alerts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.alerts))
	for _, a := range m.alerts {
		lines = append(lines, AlertStyle(a.Level).Render(fmt.Sprintf("[%s] %s", strings.ToUpper(string(a.Level)), a.Title))+
			" "+LabelStyle.Render(a.Description))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHelp() string {
	keys := []struct{ key, desc string }{
		{"tab/↓", "next field"},
		{"shift+tab/↑", "previous field"},
		{"+/-", "quarter"},
		{"pgup/pgdn", "year"},
		{"esc", "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, HelpKeyStyle.Render(k.key)+" "+HelpDescStyle.Render(k.desc))
	}
	return strings.Join(parts, "  ")
}
