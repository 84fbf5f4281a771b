package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rgehrsitz/opsdash/internal/calculation"
	"github.com/rgehrsitz/opsdash/internal/config"
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/rgehrsitz/opsdash/internal/store"
	"github.com/rgehrsitz/opsdash/internal/tui"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "opsdash-tui",
		Short:         "Interactive quarterly IB/Zvw cockpit",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadAppConfig()
			if err != nil {
				return err
			}
			year, _ := cmd.Flags().GetInt("year")
			static, _ := cmd.Flags().GetBool("static-profiles")

			resolver, err := config.NewTableResolver(cfg.TaxTablePath)
			if err != nil {
				return fmt.Errorf("loading tax table: %w", err)
			}

			loader := tui.StaticProfiles
			if !static {
				st, err := store.Open(cfg.DBPath)
				if err != nil {
					return fmt.Errorf("opening database %s: %w", cfg.DBPath, err)
				}
				defer st.Close()
				loader = func(ctx context.Context, year int) (*domain.PersonalYearProfile, error) {
					return st.GetProfile(ctx, cfg.UserID, year)
				}
			}

			model := tui.NewModel(calculation.NewCalculationEngine(resolver), year, loader)
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}
	cmd.Flags().Int("year", time.Now().Year(), "Tax year to start with")
	cmd.Flags().Bool("static-profiles", false, "Use the built-in profile table instead of the database")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
