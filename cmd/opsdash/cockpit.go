package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rgehrsitz/opsdash/internal/cockpit"
	"github.com/rgehrsitz/opsdash/internal/output"
	"github.com/rgehrsitz/opsdash/internal/server"
	"github.com/rgehrsitz/opsdash/internal/store"
	"github.com/rgehrsitz/opsdash/internal/store/pgsql"
	"github.com/spf13/cobra"
)

// newCockpit wires report rows from Postgres when OPSDASH_PG_URL is set and
// from the local database otherwise. Profiles always come from the local database.
func (a *app) newCockpit(ctx context.Context, st *store.Store, logger *slog.Logger) (*cockpit.Service, func(), error) {
	if a.cfg.PostgresURL == "" {
		return cockpit.NewService(st, st, a.engine, logger), func() {}, nil
	}

	pool, err := pgsql.NewPgxPool(ctx, a.cfg.PostgresURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to report database: %w", err)
	}
	logger.Debug("reading reports from postgres")
	return cockpit.NewService(pgsql.NewReportRepository(pool), st, a.engine, logger), pool.Close, nil
}

func cockpitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cockpit",
		Short: "Show the tax overview for the user's financial year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			format, _ := cmd.Flags().GetString("format")

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			svc, closeReports, err := a.newCockpit(cmd.Context(), st, a.logger)
			if err != nil {
				return err
			}
			defer closeReports()

			view, err := svc.Overview(cmd.Context(), a.cfg.UserID, year)
			if format == "json" && view != nil {
				if werr := writeJSON(cmd.OutOrStdout(), view); werr != nil {
					return werr
				}
				return err
			}
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, %d)\n", view.Message, a.cfg.UserID, year)
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Revenue %s, net profit %s\n\n",
				output.FormatEURWhole(view.Summary.Revenue), output.FormatEURWhole(view.Summary.NetProfit))
			report := output.NewComputationReport(a.engine.Parameters(year), *view.Computation, view.Alerts)
			return output.GenerateReport(out, report, format)
		},
	}
	cmd.Flags().Int("year", currentYear(), "Tax year")
	cmd.Flags().StringP("format", "f", "console", "Output format (console, csv, json)")
	return cmd
}

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tax engine and the cockpit over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := cmd.Flags().GetString("port")
			if port == "" {
				port = a.cfg.Port
			}

			logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: a.cfg.LogLevel}))
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			svc, closeReports, err := a.newCockpit(ctx, st, logger)
			if err != nil {
				return err
			}
			defer closeReports()

			router, err := server.NewRouter(&server.Server{
				Engine:   a.engine,
				Cockpit:  svc,
				Profiles: st,
				Logger:   logger,
			}, server.Options{
				CORSOrigins:  a.cfg.CORSOrigins,
				RateLimit:    a.cfg.RateLimit,
				IsProduction: a.cfg.IsProduction,
			})
			if err != nil {
				return err
			}
			return server.Run(ctx, ":"+port, router, logger)
		},
	}
	cmd.Flags().String("port", "", "Listen port; defaults to OPSDASH_PORT")
	return cmd
}
