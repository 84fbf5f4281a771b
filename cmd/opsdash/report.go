package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rgehrsitz/opsdash/internal/apperrors"
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/rgehrsitz/opsdash/internal/output"
	"github.com/spf13/cobra"
)

func reportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Manage financial-year report rows in the local database",
	}
	cmd.AddCommand(reportImportCmd(a), reportListCmd(a), reportShowCmd(a))
	return cmd
}

func reportImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import [json-file]",
		Short: "Import financial-year rows from a JSON file",
		Long: "Imports one row or an array of rows. Amounts may be JSON numbers or numeric\n" +
			"strings; rows without a user_id are stored for --user.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := readReportRows(args[0])
			if err != nil {
				return err
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			for _, row := range rows {
				if row.UserID == "" {
					row.UserID = a.cfg.UserID
				}
				if err := st.SaveFinancialYear(cmd.Context(), row); err != nil {
					return fmt.Errorf("importing %d for %s: %w", row.Year, row.UserID, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d report row(s).\n", len(rows))
			return nil
		},
	}
}

func readReportRows(filename string) ([]domain.RawFinancialYearRow, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	data = bytes.TrimSpace(data)

	var rows []domain.RawFinancialYearRow
	if len(data) > 0 && data[0] == '[' {
		err = json.Unmarshal(data, &rows)
	} else {
		var row domain.RawFinancialYearRow
		err = json.Unmarshal(data, &row)
		rows = append(rows, row)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	for i, row := range rows {
		if row.Year == 0 {
			return nil, fmt.Errorf("%w: row %d has no year", apperrors.ErrValidation, i+1)
		}
	}
	return rows, nil
}

func reportListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the years with report rows for the user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			years, err := st.ListFinancialYears(cmd.Context(), a.cfg.UserID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(years) == 0 {
				fmt.Fprintf(out, "No report rows for %s.\n", a.cfg.UserID)
				return nil
			}
			for _, year := range years {
				row, err := st.GetFinancialYear(cmd.Context(), a.cfg.UserID, year)
				if err != nil {
					return err
				}
				summary := row.Summary()
				fmt.Fprintf(out, "%d  revenue %s  net profit %s\n", year,
					output.FormatEURWhole(summary.Revenue), output.FormatEURWhole(summary.NetProfit))
			}
			return nil
		},
	}
}

func reportShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the raw report row for a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			row, err := st.GetFinancialYear(cmd.Context(), a.cfg.UserID, year)
			if err != nil {
				return fmt.Errorf("report %d for %s: %w", year, a.cfg.UserID, err)
			}
			return writeJSON(cmd.OutOrStdout(), row)
		},
	}
	cmd.Flags().Int("year", currentYear(), "Tax year")
	return cmd
}
