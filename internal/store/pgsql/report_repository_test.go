package pgsql

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rgehrsitz/opsdash/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	values []*string
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		*(d.(**string)) = r.values[i]
	}
	return nil
}

type fakeQuerier struct {
	row  fakeRow
	args []any
}

func (q *fakeQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	q.args = args
	return q.row
}

func str(s string) *string { return &s }

func TestGetFinancialYear(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: []*string{str("120000.00"), str("79000.00"), nil, str("15000"), str("")}}}
	repo := NewReportRepository(q)

	row, err := repo.GetFinancialYear(context.Background(), "u1", 2024)
	require.NoError(t, err)
	assert.Equal(t, []any{"u1", 2024}, q.args)

	summary := row.Summary()
	assert.Equal(t, "79000", summary.NetProfit.String())
	assert.Equal(t, "120000", summary.Revenue.String())
	assert.False(t, row.CostOfSales.Valid)
	assert.True(t, summary.OtherCosts.IsZero())
	assert.Equal(t, "15000", summary.TotalCosts().String())
}

func TestGetFinancialYear_NotFound(t *testing.T) {
	repo := NewReportRepository(&fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}})

	_, err := repo.GetFinancialYear(context.Background(), "u1", 2024)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetFinancialYear_QueryError(t *testing.T) {
	boom := errors.New("connection reset")
	repo := NewReportRepository(&fakeQuerier{row: fakeRow{err: boom}})

	_, err := repo.GetFinancialYear(context.Background(), "u1", 2024)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}

func TestNewPgxPool_EmptyURL(t *testing.T) {
	_, err := NewPgxPool(context.Background(), "")
	assert.Error(t, err)
}

func TestNewPgxPool_BadURL(t *testing.T) {
	_, err := NewPgxPool(context.Background(), "postgres://%zz")
	assert.Error(t, err)
}
