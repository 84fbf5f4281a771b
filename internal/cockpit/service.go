// Package cockpit combines upstream financial data, personal profiles and the
// tax engine into the views a dashboard shows.
package cockpit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rgehrsitz/opsdash/internal/apperrors"
	"github.com/rgehrsitz/opsdash/internal/calculation"
	"github.com/rgehrsitz/opsdash/internal/config"
	"github.com/rgehrsitz/opsdash/internal/domain"
)

// ReportSource returns per-user financial-year rows
type ReportSource interface {
	GetFinancialYear(ctx context.Context, userID string, year int) (domain.RawFinancialYearRow, error)
}

// ProfileSource returns per-user profiles; missing profiles are apperrors.ErrNotFound
type ProfileSource interface {
	GetProfile(ctx context.Context, userID string, year int) (*domain.PersonalYearProfile, error)
}

// Status of a cockpit view
type Status string

const (
	StatusOK    Status = "ok"
	StatusEmpty Status = "empty"
	StatusError Status = "error"
)

// Messages shown instead of numbers when data is unavailable
const (
	MessageLoadFailed = "could not load financial data"
	MessageNoData     = "no financial data for this year"
)

// View is everything the dashboard needs for one user and year. Only
// Status and Message are set unless Status is StatusOK.
type View struct {
	Status      Status                          `json:"status"`
	Message     string                          `json:"message,omitempty"`
	UserID      string                          `json:"userId"`
	Year        int                             `json:"year"`
	SourceYear  int                             `json:"sourceYear,omitempty"`
	Summary     *domain.FinancialYearSummary    `json:"summary,omitempty"`
	Profile     *domain.PersonalYearProfile     `json:"profile,omitempty"`
	Computation *domain.TaxComputationResult    `json:"computation,omitempty"`
	Projection  *domain.QuarterProjectionResult `json:"projection,omitempty"`
	Alerts      []domain.TaxAlert               `json:"alerts,omitempty"`
}

// ProjectionView is the result of a quarterly projection for a user
type ProjectionView struct {
	Projection domain.QuarterProjectionResult `json:"projection"`
	Alerts     []domain.TaxAlert              `json:"alerts"`
}

// Service orchestrates fetch, compute and alerting. Profiles may be nil, in
// which case the built-in profile table is used.
type Service struct {
	Reports  ReportSource
	Profiles ProfileSource
	Engine   *calculation.CalculationEngine
	Logger   *slog.Logger
}

// NewService creates a cockpit service
func NewService(reports ReportSource, profiles ProfileSource, engine *calculation.CalculationEngine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Reports: reports, Profiles: profiles, Engine: engine, Logger: logger}
}

// Overview loads the financial year and profile of userID and computes the
// breakdown and alerts for its net profit. Nothing is computed unless both
// are known; the returned View carries the error state in that case.
func (s *Service) Overview(ctx context.Context, userID string, year int) (*View, error) {
	logger := s.logger().With(slog.String("user_id", userID), slog.Int("year", year))
	logger.Debug("building cockpit overview")

	view := &View{UserID: userID, Year: year}

	row, err := s.Reports.GetFinancialYear(ctx, userID, year)
	if err != nil {
		return s.failed(logger, view, "financial year", err)
	}

	profile, err := s.profile(ctx, userID, year)
	if err != nil {
		return s.failed(logger, view, "profile", err)
	}

	summary := row.Summary()
	params := s.Engine.Parameters(year)
	computation := calculation.ComputeTax(domain.TaxComputationInput{
		Year:           year,
		BusinessProfit: summary.NetProfit,
		Profile:        profile,
	}, params)
	projection := calculation.YearEndProjection(computation)

	view.Status = StatusOK
	view.SourceYear = params.SourceYear
	view.Summary = &summary
	view.Profile = profile
	view.Computation = &computation
	view.Projection = &projection
	view.Alerts = calculation.BuildAlerts(&projection, params)

	logger.Debug("cockpit overview ready",
		slog.String("net_profit", summary.NetProfit.StringFixed(2)),
		slog.String("total_tax", computation.TotalTax.StringFixed(2)),
		slog.Int("alerts", len(view.Alerts)))
	return view, nil
}

// Project runs a quarterly projection for userID. The stored profile is used
// when input carries none.
func (s *Service) Project(ctx context.Context, userID string, input domain.QuarterProjectionInput) (*ProjectionView, error) {
	logger := s.logger().With(slog.String("user_id", userID), slog.Int("year", input.Year))
	logger.Debug("projecting from quarters", slog.Int("current_quarter", input.CurrentQuarter))

	if input.Profile == nil {
		profile, err := s.profile(ctx, userID, input.Year)
		if err != nil {
			logger.Warn("profile lookup failed", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: loading profile: %v", apperrors.ErrUpstream, err)
		}
		input.Profile = profile
	}

	projection, alerts := s.Engine.Project(input)
	return &ProjectionView{Projection: projection, Alerts: alerts}, nil
}

// profile returns nil when the user has no profile for year
func (s *Service) profile(ctx context.Context, userID string, year int) (*domain.PersonalYearProfile, error) {
	if s.Profiles == nil {
		return config.LookupProfile(year), nil
	}
	profile, err := s.Profiles.GetProfile(ctx, userID, year)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	return profile, err
}

func (s *Service) failed(logger *slog.Logger, view *View, what string, err error) (*View, error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		logger.Debug("no data", slog.String("source", what))
		view.Status = StatusEmpty
		view.Message = MessageNoData
		return view, err
	}
	logger.Warn("upstream error", slog.String("source", what), slog.String("error", err.Error()))
	view.Status = StatusError
	view.Message = MessageLoadFailed
	return view, fmt.Errorf("%w: loading %s: %v", apperrors.ErrUpstream, what, err)
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
