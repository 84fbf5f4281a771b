package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rgehrsitz/opsdash/internal/apperrors"
	"github.com/rgehrsitz/opsdash/internal/breakeven"
	"github.com/rgehrsitz/opsdash/internal/calculation"
	"github.com/rgehrsitz/opsdash/internal/config"
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/rgehrsitz/opsdash/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func paramsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params [year]",
		Short: "Show the tax parameters used for a year",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year := currentYear()
			if len(args) == 1 {
				if _, err := fmt.Sscanf(args[0], "%d", &year); err != nil {
					return fmt.Errorf("%w: invalid year %q", apperrors.ErrValidation, args[0])
				}
			}
			params := a.engine.Parameters(year)

			format, _ := cmd.Flags().GetString("format")
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), params)
			}
			writeParameters(cmd.OutOrStdout(), params)
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "console", "Output format (console, json)")
	return cmd
}

func writeParameters(w io.Writer, p domain.TaxYearParameters) {
	fmt.Fprintf(w, "TAX PARAMETERS %d", p.Year)
	if p.SourceYear != p.Year {
		fmt.Fprintf(w, " (table year %d)", p.SourceYear)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Self-employed deduction\t%s\n", output.FormatEUR(p.SelfEmployedDeductionAmount))
	fmt.Fprintf(tw, "Small-business exemption\t%s\n", output.FormatPercent(p.SmallBusinessExemptionRate))
	lower := decimal.Zero
	for _, b := range p.Brackets {
		if b.IsUnbounded() {
			fmt.Fprintf(tw, "Bracket above %s\t%s\n", output.FormatEURWhole(lower), output.FormatPercent(b.Rate))
			continue
		}
		fmt.Fprintf(tw, "Bracket %s to %s\t%s\n", output.FormatEURWhole(lower), output.FormatEURWhole(*b.UpperBound), output.FormatPercent(b.Rate))
		lower = *b.UpperBound
	}
	zvwCap := "none"
	if p.SecondaryContributionCap != nil {
		zvwCap = output.FormatEURWhole(*p.SecondaryContributionCap)
	}
	fmt.Fprintf(tw, "Zvw contribution\t%s (cap %s)\n", output.FormatPercent(p.SecondaryContributionRate), zvwCap)
	gc := p.GeneralCredit
	fmt.Fprintf(tw, "General credit\t%s, phase-out %s to %s\n",
		output.FormatEURWhole(gc.Max), output.FormatEURWhole(gc.PhaseOutStart), output.FormatEURWhole(gc.PhaseOutEnd))
	lc := p.LabourCredit
	fmt.Fprintf(tw, "Labour credit\t%s at %s, phase-out to %s\n",
		output.FormatEURWhole(lc.Max), output.FormatEURWhole(lc.MaxThreshold), output.FormatEURWhole(lc.PhaseOutEnd))
	tw.Flush()
}

func computeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute IB and Zvw for a full-year business profit",
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			profit, err := decimalFlag(cmd, "profit")
			if err != nil {
				return err
			}
			reserve, err := optionalDecimalFlag(cmd, "reserve")
			if err != nil {
				return err
			}
			profile, err := a.resolveProfile(cmd.Context(), cmd, year)
			if err != nil {
				return err
			}

			result := a.engine.Compute(domain.TaxComputationInput{
				Year:                         year,
				BusinessProfit:               profit,
				Profile:                      profile,
				PriorYearReserveContribution: reserve,
			})
			params := a.engine.Parameters(year)
			projection := calculation.YearEndProjection(result)
			alerts := calculation.BuildAlerts(&projection, params)

			format, _ := cmd.Flags().GetString("format")
			return output.GenerateReport(cmd.OutOrStdout(), output.NewComputationReport(params, result, alerts), format)
		},
	}
	cmd.Flags().Int("year", currentYear(), "Tax year")
	cmd.Flags().String("profit", "", "Full-year business profit (required)")
	cmd.Flags().String("reserve", "", "Prior-year reserve contribution; defaults to 0")
	cmd.Flags().StringP("format", "f", "console", "Output format ("+strings.Join(output.FormatterNames(), ", ")+")")
	addProfileFlag(cmd)
	_ = cmd.MarkFlagRequired("profit")
	return cmd
}

// loadProjection reads a projection file and fills in the profile when the file has none
func (a *app) loadProjection(cmd *cobra.Command, filename string) (*domain.QuarterProjectionInput, error) {
	input, err := config.NewInputParser().LoadProjection(filename)
	if err != nil {
		return nil, err
	}
	if input.Profile == nil {
		input.Profile, err = a.resolveProfile(cmd.Context(), cmd, input.Year)
		if err != nil {
			return nil, err
		}
	}
	return input, nil
}

func projectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project [input-file]",
		Short: "Project the full year from the quarters booked so far",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := a.loadProjection(cmd, args[0])
			if err != nil {
				return err
			}
			projection, alerts := a.engine.Project(*input)

			format, _ := cmd.Flags().GetString("format")
			report := output.NewProjectionReport(a.engine.Parameters(input.Year), projection, alerts)
			return output.GenerateReport(cmd.OutOrStdout(), report, format)
		},
	}
	cmd.Flags().StringP("format", "f", "console", "Output format ("+strings.Join(output.FormatterNames(), ", ")+")")
	addProfileFlag(cmd)
	return cmd
}

func alertsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts [input-file]",
		Short: "List the coaching alerts for a quarterly projection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := a.loadProjection(cmd, args[0])
			if err != nil {
				return err
			}
			_, alerts := a.engine.Project(*input)

			format, _ := cmd.Flags().GetString("format")
			if format == "json" {
				if alerts == nil {
					alerts = []domain.TaxAlert{}
				}
				return writeJSON(cmd.OutOrStdout(), alerts)
			}
			out := cmd.OutOrStdout()
			if len(alerts) == 0 {
				fmt.Fprintln(out, "No alerts.")
				return nil
			}
			for _, alert := range alerts {
				fmt.Fprintf(out, "[%s] %s\n    %s\n", strings.ToUpper(string(alert.Level)), alert.Title, alert.Description)
			}
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "console", "Output format (console, json)")
	addProfileFlag(cmd)
	return cmd
}

func solveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Find the business profit that leaves a target net income after tax",
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			rawTargets, _ := cmd.Flags().GetStringSlice("target")
			if len(rawTargets) == 0 {
				return fmt.Errorf("%w: at least one --target is required", apperrors.ErrValidation)
			}
			targets := make([]decimal.Decimal, 0, len(rawTargets))
			for _, raw := range rawTargets {
				t, err := decimal.NewFromString(strings.TrimSpace(raw))
				if err != nil {
					return fmt.Errorf("%w: invalid target %q", apperrors.ErrValidation, raw)
				}
				targets = append(targets, t)
			}
			reserve, err := optionalDecimalFlag(cmd, "reserve")
			if err != nil {
				return err
			}
			profile, err := a.resolveProfile(cmd.Context(), cmd, year)
			if err != nil {
				return err
			}

			solver := breakeven.NewDefaultSolver(a.engine)
			req := breakeven.RequiredProfitRequest{
				Year:                         year,
				TargetNetIncome:              targets[0],
				Profile:                      profile,
				PriorYearReserveContribution: reserve,
			}
			format, _ := cmd.Flags().GetString("format")
			out := cmd.OutOrStdout()
			table := &breakeven.TableFormatter{}

			if len(targets) == 1 {
				result, err := solver.RequiredProfit(cmd.Context(), req)
				if err != nil {
					return err
				}
				if format == "json" {
					return writeJSON(out, result)
				}
				fmt.Fprint(out, table.Format(result))
				return nil
			}

			ladder, err := solver.Ladder(cmd.Context(), req, targets)
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(out, ladder)
			}
			fmt.Fprint(out, table.FormatLadder(ladder))
			return nil
		},
	}
	cmd.Flags().Int("year", currentYear(), "Tax year")
	cmd.Flags().StringSlice("target", nil, "Target net income; repeat or comma-separate for a ladder")
	cmd.Flags().String("reserve", "", "Prior-year reserve contribution; defaults to 0")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	addProfileFlag(cmd)
	return cmd
}

// Kinds of file accepted by validate
const (
	kindProjection = "projection"
	kindScenarios  = "scenarios"
	kindTaxTable   = "tax-table"
)

func validateCmd(_ *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate a projection, scenario or tax-table file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, _ := cmd.Flags().GetString("kind")
			parser := config.NewInputParser()

			var err error
			switch kind {
			case kindProjection:
				_, err = parser.LoadProjection(args[0])
			case kindScenarios:
				_, err = parser.LoadScenarios(args[0])
			case kindTaxTable:
				var table *domain.TaxTable
				if table, err = config.LoadTaxTable(args[0]); err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Tax years: %v\n", table.KnownYears())
				}
			default:
				return fmt.Errorf("%w: unknown kind %q", apperrors.ErrValidation, kind)
			}
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is a valid %s file\n", args[0], kind)
			return nil
		},
	}
	cmd.Flags().String("kind", kindProjection, "File kind (projection, scenarios, tax-table)")
	return cmd
}

func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: --%s must be a number, got %q", apperrors.ErrValidation, name, raw)
	}
	return d, nil
}

func optionalDecimalFlag(cmd *cobra.Command, name string) (*decimal.Decimal, error) {
	if raw, _ := cmd.Flags().GetString(name); raw == "" {
		return nil, nil
	}
	d, err := decimalFlag(cmd, name)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
