package breakeven

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Ladder solves RequiredProfit for several targets with the same year and profile
func (s *Solver) Ladder(ctx context.Context, base RequiredProfitRequest, targets []decimal.Decimal) (*LadderResult, error) {
	if len(targets) == 0 {
		return nil, &Error{Operation: "ladder", Message: "at least one target is required"}
	}

	ladder := &LadderResult{Year: base.Year}
	for _, target := range targets {
		req := base
		req.TargetNetIncome = target
		result, err := s.RequiredProfit(ctx, req)
		if err != nil {
			return nil, &Error{
				Operation: "ladder",
				Message:   fmt.Sprintf("target %s", target.StringFixed(2)),
				Cause:     err,
			}
		}
		ladder.Results = append(ladder.Results, *result)
	}
	return ladder, nil
}
