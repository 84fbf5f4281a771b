package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/opsdash/internal/compare"
	"github.com/rgehrsitz/opsdash/internal/config"
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/rgehrsitz/opsdash/internal/transform"
	"github.com/spf13/cobra"
)

func compareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [scenario-file]",
		Short: "Compare what-if profit scenarios against a base scenario",
		Long: "Computes every scenario in the file and reports tax, net income and\n" +
			"effective rate differences against the base scenario.\n\n" +
			"--with adds alternatives derived from the base, either built-in templates\n" +
			"(see --list-templates) or transform specs such as scale_profit:percent=10.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			templates := transform.CreateBuiltInTemplates()
			transforms := transform.NewTransformRegistry()

			if list, _ := cmd.Flags().GetBool("list-templates"); list {
				printTemplates(cmd, templates, transforms)
				return nil
			}
			if len(args) != 1 {
				return fmt.Errorf("a scenario file is required")
			}

			parser := config.NewInputParser()
			set, err := parser.ReadScenarios(args[0])
			if err != nil {
				return err
			}
			with, _ := cmd.Flags().GetStringSlice("with")
			for _, spec := range with {
				alt, err := transform.Resolve(templates, transforms, set.Base, spec)
				if err != nil {
					return fmt.Errorf("applying %s: %w", spec, err)
				}
				set.Alternatives = append(set.Alternatives, alt)
			}
			if err := parser.ValidateScenarios(set); err != nil {
				return fmt.Errorf("scenario validation failed: %w", err)
			}

			return a.runComparison(cmd, set)
		},
	}
	cmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json)")
	cmd.Flags().StringSlice("with", nil, "Templates or transform specs to compare against the base")
	cmd.Flags().Bool("list-templates", false, "List the built-in templates and transforms")
	return cmd
}

func (a *app) runComparison(cmd *cobra.Command, set *domain.ScenarioSet) error {
	compSet, err := compare.NewCompareEngine(a.engine).Compare(cmd.Context(), set)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	out := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "table":
		formatter := &compare.TableFormatter{}
		fmt.Fprint(out, formatter.Format(compSet))
	case "csv":
		formatter := &compare.CSVFormatter{}
		s, err := formatter.Format(compSet)
		if err != nil {
			return err
		}
		fmt.Fprint(out, s)
	case "json":
		formatter := &compare.JSONFormatter{Pretty: true}
		return formatter.Write(out, compSet)
	default:
		return fmt.Errorf("unsupported format: %s (supported: table, csv, json)", format)
	}
	return nil
}

func printTemplates(cmd *cobra.Command, templates *transform.TemplateRegistry, transforms *transform.TransformRegistry) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "TEMPLATES")
	for _, name := range templates.List() {
		t, _ := templates.Get(name)
		fmt.Fprintf(out, "  %-22s %s\n", t.Name, t.Description)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "TRANSFORMS (name:key=value)")
	fmt.Fprintf(out, "  %s\n", strings.Join(transforms.List(), ", "))
}
