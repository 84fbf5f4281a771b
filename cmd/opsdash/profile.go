package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/rgehrsitz/opsdash/internal/apperrors"
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/rgehrsitz/opsdash/internal/output"
	"github.com/rgehrsitz/opsdash/internal/tui"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func profileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage stored personal profiles",
	}
	cmd.AddCommand(
		profileListCmd(a),
		profileShowCmd(a),
		profileSetCmd(a),
		profileEditCmd(a),
		profileDeleteCmd(a),
	)
	return cmd
}

func profileListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the stored profiles of the user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			profiles, err := st.ListProfiles(cmd.Context(), a.cfg.UserID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(profiles) == 0 {
				fmt.Fprintf(out, "No profiles stored for %s.\n", a.cfg.UserID)
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "Year\tHousing\tDeductions\tOther income\tCredits corr.\t")
			for _, p := range profiles {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n", p.Year,
					output.FormatEUR(p.NetHousingAdjustment),
					output.FormatEUR(p.OtherDeductions),
					output.FormatEUR(p.OtherBox1Income),
					output.FormatEUR(p.CreditsCorrection))
			}
			return tw.Flush()
		},
	}
}

func profileShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored profile for a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			profile, err := st.GetProfile(cmd.Context(), a.cfg.UserID, year)
			if err != nil {
				return fmt.Errorf("profile %d for %s: %w", year, a.cfg.UserID, err)
			}
			return writeJSON(cmd.OutOrStdout(), profile)
		},
	}
	cmd.Flags().Int("year", currentYear(), "Tax year")
	return cmd
}

func profileSetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store a profile for a year",
		Long:  "Stores a profile for a year. Amounts that are not given keep their stored value.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			profile, err := storedOrEmpty(cmd, st, a.cfg.UserID, year)
			if err != nil {
				return err
			}
			amounts := []struct {
				flag  string
				value *decimal.Decimal
			}{
				{"housing", &profile.NetHousingAdjustment},
				{"deductions", &profile.OtherDeductions},
				{"other-income", &profile.OtherBox1Income},
				{"correction", &profile.CreditsCorrection},
			}
			for _, amount := range amounts {
				if !cmd.Flags().Changed(amount.flag) {
					continue
				}
				v, err := decimalFlag(cmd, amount.flag)
				if err != nil {
					return err
				}
				*amount.value = v
			}

			if err := st.SaveProfile(cmd.Context(), a.cfg.UserID, profile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %d for %s.\n", year, a.cfg.UserID)
			return nil
		},
	}
	cmd.Flags().Int("year", currentYear(), "Tax year")
	cmd.Flags().String("housing", "", "Net housing adjustment (negative lowers taxable income)")
	cmd.Flags().String("deductions", "", "Other deductions")
	cmd.Flags().String("other-income", "", "Other Box 1 income")
	cmd.Flags().String("correction", "", "Credits correction")
	return cmd
}

func profileEditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the profile for a year in an interactive form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			accessible, _ := cmd.Flags().GetBool("accessible")
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			current, err := storedOrEmpty(cmd, st, a.cfg.UserID, year)
			if err != nil {
				return err
			}
			edited, err := tui.EditProfile(current, accessible, cmd.InOrStdin(), cmd.OutOrStdout())
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled, nothing saved.")
				return nil
			}
			if err != nil {
				return err
			}

			if err := st.SaveProfile(cmd.Context(), a.cfg.UserID, edited); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %d for %s.\n", year, a.cfg.UserID)
			return nil
		},
	}
	cmd.Flags().Int("year", currentYear(), "Tax year")
	cmd.Flags().Bool("accessible", false, "Use plain line-based prompts")
	return cmd
}

func profileDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the stored profile for a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.DeleteProfile(cmd.Context(), a.cfg.UserID, year); err != nil {
				return fmt.Errorf("profile %d for %s: %w", year, a.cfg.UserID, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %d for %s.\n", year, a.cfg.UserID)
			return nil
		},
	}
	cmd.Flags().Int("year", currentYear(), "Tax year")
	return cmd
}

// profileGetter is the part of the store storedOrEmpty needs
type profileGetter interface {
	GetProfile(ctx context.Context, userID string, year int) (*domain.PersonalYearProfile, error)
}

func storedOrEmpty(cmd *cobra.Command, st profileGetter, userID string, year int) (domain.PersonalYearProfile, error) {
	profile, err := st.GetProfile(cmd.Context(), userID, year)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.PersonalYearProfile{Year: year}, nil
	}
	if err != nil {
		return domain.PersonalYearProfile{}, err
	}
	return *profile, nil
}
