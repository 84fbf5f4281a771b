package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/rgehrsitz/opsdash/internal/apperrors"
	"github.com/rgehrsitz/opsdash/internal/calculation"
	"github.com/rgehrsitz/opsdash/internal/config"
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/rgehrsitz/opsdash/internal/store"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries what every subcommand needs once flags are parsed
type app struct {
	cfg    *config.AppConfig
	logger *slog.Logger
	engine *calculation.CalculationEngine
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "opsdash",
		Short: "IB/Zvw tax cockpit for Dutch self-employed",
		Long: "Computes Dutch income tax (IB) and the income-related health contribution (Zvw)\n" +
			"for self-employed business profit, projects the year from quarterly figures,\n" +
			"and keeps per-user profiles and financial-year reports in a local database.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().Bool("debug", false, "Enable debug logging")
	root.PersistentFlags().String("tax-table", "", "Tax table file (YAML or TOML); defaults to OPSDASH_TAX_TABLE or the built-in table")
	root.PersistentFlags().String("db", "", "SQLite database path; defaults to OPSDASH_DB_PATH")
	root.PersistentFlags().String("user", "", "User ID for stored profiles and reports; defaults to OPSDASH_USER_ID")

	root.AddCommand(
		paramsCmd(a),
		computeCmd(a),
		projectCmd(a),
		alertsCmd(a),
		solveCmd(a),
		compareCmd(a),
		validateCmd(a),
		profileCmd(a),
		reportCmd(a),
		cockpitCmd(a),
		serveCmd(a),
		versionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.LoadAppConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("tax-table"); v != "" {
		cfg.TaxTablePath = v
	}
	if v, _ := flags.GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := flags.GetString("user"); v != "" {
		cfg.UserID = v
	}

	level := cfg.LogLevel
	if debugMode, _ := flags.GetBool("debug"); debugMode {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	resolver, err := config.NewTableResolver(cfg.TaxTablePath)
	if err != nil {
		return fmt.Errorf("loading tax table: %w", err)
	}
	if cfg.TaxTablePath != "" {
		a.logger.Debug("using tax table", slog.String("path", cfg.TaxTablePath), slog.Any("years", resolver.Table.KnownYears()))
	}

	a.cfg = cfg
	a.engine = calculation.NewCalculationEngine(resolver)
	return nil
}

func (a *app) openStore() (*store.Store, error) {
	a.logger.Debug("opening database", slog.String("path", a.cfg.DBPath))
	st, err := store.Open(a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", a.cfg.DBPath, err)
	}
	return st, nil
}

// Profile sources selectable with --profile
const (
	profileStatic = "static"
	profileStored = "stored"
	profileNone   = "none"
)

func addProfileFlag(cmd *cobra.Command) {
	cmd.Flags().String("profile", profileStatic, "Personal profile source: static (built-in table), stored (database, per --user) or none")
}

// resolveProfile returns the profile for year from the source named by --profile
func (a *app) resolveProfile(ctx context.Context, cmd *cobra.Command, year int) (*domain.PersonalYearProfile, error) {
	source, _ := cmd.Flags().GetString("profile")
	switch source {
	case profileNone:
		return nil, nil
	case profileStatic, "":
		return config.LookupProfile(year), nil
	case profileStored:
		st, err := a.openStore()
		if err != nil {
			return nil, err
		}
		defer st.Close()

		profile, err := st.GetProfile(ctx, a.cfg.UserID, year)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				a.logger.Debug("no stored profile", slog.String("user_id", a.cfg.UserID), slog.Int("year", year))
				return nil, nil
			}
			return nil, err
		}
		return profile, nil
	default:
		return nil, fmt.Errorf("%w: unknown profile source %q", apperrors.ErrValidation, source)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "opsdash %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

func currentYear() int {
	return time.Now().Year()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
