package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rgehrsitz/opsdash/internal/apperrors"
	"github.com/rgehrsitz/opsdash/internal/domain"
)

// Querier is the subset of *pgxpool.Pool the repository needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ReportRepository reads per-user financial-year rows. Numeric columns are
// selected as text and stay raw until the cockpit coerces them.
type ReportRepository struct {
	DB Querier
}

// NewReportRepository creates a report repository over db
func NewReportRepository(db Querier) *ReportRepository {
	return &ReportRepository{DB: db}
}

const financialYearQuery = `
	SELECT
		revenue::text,
		net_profit::text,
		cost_of_sales::text,
		operating_costs::text,
		other_costs::text
	FROM financial_year_reports
	WHERE user_id = $1 AND year = $2
`

// GetFinancialYear returns the row of userID for year, or apperrors.ErrNotFound.
func (r *ReportRepository) GetFinancialYear(ctx context.Context, userID string, year int) (domain.RawFinancialYearRow, error) {
	row := domain.RawFinancialYearRow{UserID: userID, Year: year}
	var revenue, netProfit, costOfSales, operatingCosts, otherCosts *string

	err := r.DB.QueryRow(ctx, financialYearQuery, userID, year).
		Scan(&revenue, &netProfit, &costOfSales, &operatingCosts, &otherCosts)
	if errors.Is(err, pgx.ErrNoRows) {
		return row, fmt.Errorf("financial year %s/%d: %w", userID, year, apperrors.ErrNotFound)
	}
	if err != nil {
		return row, fmt.Errorf("error querying financial year %s/%d: %w", userID, year, err)
	}

	row.Revenue = rawNumber(revenue)
	row.NetProfit = rawNumber(netProfit)
	row.CostOfSales = rawNumber(costOfSales)
	row.OperatingCosts = rawNumber(operatingCosts)
	row.OtherCosts = rawNumber(otherCosts)
	return row, nil
}

func rawNumber(s *string) domain.RawNumber {
	if s == nil {
		return domain.RawNumber{}
	}
	return domain.NewRawNumber(*s)
}
