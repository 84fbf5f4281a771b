package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rgehrsitz/opsdash/internal/apperrors"
	"github.com/rgehrsitz/opsdash/internal/domain"
)

// SaveFinancialYear inserts or replaces a report row. Amounts are stored as
// the text they arrived with; invalid values are stored as NULL.
func (s *Store) SaveFinancialYear(ctx context.Context, row domain.RawFinancialYearRow) error {
	if row.UserID == "" {
		return fmt.Errorf("%w: user id is required", apperrors.ErrValidation)
	}

	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO financial_years
		(user_id, year, revenue, net_profit, cost_of_sales, operating_costs, other_costs, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		row.UserID, row.Year,
		nullable(row.Revenue),
		nullable(row.NetProfit),
		nullable(row.CostOfSales),
		nullable(row.OperatingCosts),
		nullable(row.OtherCosts),
		s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("saving financial year %s/%d: %w", row.UserID, row.Year, err)
	}
	return nil
}

// GetFinancialYear returns the report row of userID for year, or apperrors.ErrNotFound.
func (s *Store) GetFinancialYear(ctx context.Context, userID string, year int) (domain.RawFinancialYearRow, error) {
	row := domain.RawFinancialYearRow{UserID: userID, Year: year}
	var revenue, netProfit, costOfSales, operatingCosts, otherCosts sql.NullString

	err := s.db.QueryRowContext(ctx, `SELECT revenue, net_profit, cost_of_sales, operating_costs, other_costs
		FROM financial_years WHERE user_id = ? AND year = ?`, userID, year).
		Scan(&revenue, &netProfit, &costOfSales, &operatingCosts, &otherCosts)
	if errors.Is(err, sql.ErrNoRows) {
		return row, fmt.Errorf("financial year %s/%d: %w", userID, year, apperrors.ErrNotFound)
	}
	if err != nil {
		return row, fmt.Errorf("loading financial year %s/%d: %w", userID, year, err)
	}

	row.Revenue = rawNumber(revenue)
	row.NetProfit = rawNumber(netProfit)
	row.CostOfSales = rawNumber(costOfSales)
	row.OperatingCosts = rawNumber(operatingCosts)
	row.OtherCosts = rawNumber(otherCosts)
	return row, nil
}

// ListFinancialYears returns the years with a report row for userID, newest first.
func (s *Store) ListFinancialYears(ctx context.Context, userID string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT year FROM financial_years WHERE user_id = ? ORDER BY year DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing financial years: %w", err)
	}
	defer func() { _ = rows.Close() }()

	years := []int{}
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, err
		}
		years = append(years, year)
	}
	return years, rows.Err()
}

func nullable(n domain.RawNumber) sql.NullString {
	return sql.NullString{String: n.Text, Valid: n.Valid}
}

func rawNumber(ns sql.NullString) domain.RawNumber {
	if !ns.Valid {
		return domain.RawNumber{}
	}
	return domain.NewRawNumber(ns.String)
}
