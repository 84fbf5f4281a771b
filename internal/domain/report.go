package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// RawNumber is a numeric field as it arrived from an external store.
// Hosted databases return numeric columns either as JSON numbers or as strings.
type RawNumber struct {
	Text   string
	Quoted bool // arrived as a string
	Valid  bool // false for null or absent
}

// NewRawNumber wraps a textual database value
func NewRawNumber(s string) RawNumber {
	return RawNumber{Text: s, Quoted: true, Valid: true}
}

// UnmarshalJSON accepts numbers, strings and null
func (n *RawNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = RawNumber{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = RawNumber{Text: s, Quoted: true, Valid: true}
		return nil
	}
	*n = RawNumber{Text: string(data), Valid: true}
	return nil
}

// MarshalJSON writes the value back in the shape it arrived in
func (n RawNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	if n.Quoted {
		return json.Marshal(n.Text)
	}
	return []byte(n.Text), nil
}

// ToNumber coerces a raw value to a decimal, returning zero when it is
// null, empty or not a number.
func ToNumber(n RawNumber) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	s := strings.TrimSpace(n.Text)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// RawFinancialYearRow is a per-user, per-year financial summary row as stored upstream
type RawFinancialYearRow struct {
	UserID         string    `json:"user_id"`
	Year           int       `json:"year"`
	Revenue        RawNumber `json:"revenue"`
	NetProfit      RawNumber `json:"net_profit"`
	CostOfSales    RawNumber `json:"cost_of_sales"`
	OperatingCosts RawNumber `json:"operating_costs"`
	OtherCosts     RawNumber `json:"other_costs"`
}

// FinancialYearSummary is the typed form of RawFinancialYearRow
type FinancialYearSummary struct {
	UserID         string          `json:"userId"`
	Year           int             `json:"year"`
	Revenue        decimal.Decimal `json:"revenue"`
	NetProfit      decimal.Decimal `json:"netProfit"`
	CostOfSales    decimal.Decimal `json:"costOfSales"`
	OperatingCosts decimal.Decimal `json:"operatingCosts"`
	OtherCosts     decimal.Decimal `json:"otherCosts"`
}

// TotalCosts sums the cost breakdown
func (s FinancialYearSummary) TotalCosts() decimal.Decimal {
	return s.CostOfSales.Add(s.OperatingCosts).Add(s.OtherCosts)
}

// Summary converts the row at the boundary so no string-typed numbers reach the engine
func (r RawFinancialYearRow) Summary() FinancialYearSummary {
	return FinancialYearSummary{
		UserID:         r.UserID,
		Year:           r.Year,
		Revenue:        ToNumber(r.Revenue),
		NetProfit:      ToNumber(r.NetProfit),
		CostOfSales:    ToNumber(r.CostOfSales),
		OperatingCosts: ToNumber(r.OperatingCosts),
		OtherCosts:     ToNumber(r.OtherCosts),
	}
}
