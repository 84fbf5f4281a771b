package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rgehrsitz/opsdash/internal/apperrors"
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/shopspring/decimal"
)

// SaveProfile inserts or replaces the profile of userID for profile.Year.
func (s *Store) SaveProfile(ctx context.Context, userID string, profile domain.PersonalYearProfile) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", apperrors.ErrValidation)
	}
	if err := profile.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO personal_year_profiles
		(user_id, year, net_housing_adjustment, other_deductions, other_box1_income, credits_correction, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, profile.Year,
		profile.NetHousingAdjustment.String(),
		profile.OtherDeductions.String(),
		profile.OtherBox1Income.String(),
		profile.CreditsCorrection.String(),
		s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("saving profile %s/%d: %w", userID, profile.Year, err)
	}
	return nil
}

// GetProfile returns the profile of userID for year, or apperrors.ErrNotFound.
func (s *Store) GetProfile(ctx context.Context, userID string, year int) (*domain.PersonalYearProfile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT year, net_housing_adjustment, other_deductions, other_box1_income, credits_correction
		FROM personal_year_profiles WHERE user_id = ? AND year = ?`, userID, year)

	profile, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s/%d: %w", userID, year, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile %s/%d: %w", userID, year, err)
	}
	return profile, nil
}

// ListProfiles returns all profiles of userID ordered by year.
func (s *Store) ListProfiles(ctx context.Context, userID string) ([]domain.PersonalYearProfile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT year, net_housing_adjustment, other_deductions, other_box1_income, credits_correction
		FROM personal_year_profiles WHERE user_id = ? ORDER BY year`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	profiles := []domain.PersonalYearProfile{}
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		profiles = append(profiles, *profile)
	}
	return profiles, rows.Err()
}

// DeleteProfile removes the profile of userID for year.
func (s *Store) DeleteProfile(ctx context.Context, userID string, year int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM personal_year_profiles WHERE user_id = ? AND year = ?`, userID, year)
	if err != nil {
		return fmt.Errorf("deleting profile %s/%d: %w", userID, year, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("profile %s/%d: %w", userID, year, apperrors.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (*domain.PersonalYearProfile, error) {
	var (
		p                                       domain.PersonalYearProfile
		housing, deductions, income, correction string
	)
	if err := row.Scan(&p.Year, &housing, &deductions, &income, &correction); err != nil {
		return nil, err
	}

	var err error
	if p.NetHousingAdjustment, err = decimal.NewFromString(housing); err != nil {
		return nil, fmt.Errorf("net_housing_adjustment: %w", err)
	}
	if p.OtherDeductions, err = decimal.NewFromString(deductions); err != nil {
		return nil, fmt.Errorf("other_deductions: %w", err)
	}
	if p.OtherBox1Income, err = decimal.NewFromString(income); err != nil {
		return nil, fmt.Errorf("other_box1_income: %w", err)
	}
	if p.CreditsCorrection, err = decimal.NewFromString(correction); err != nil {
		return nil, fmt.Errorf("credits_correction: %w", err)
	}
	return &p, nil
}
