package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/opsdash/internal/calculation"
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/shopspring/decimal"
)

// Solver finds the business profit needed for a target net income
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
}

// NewSolver creates a new required-profit solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// RequiredProfit binary-searches business profit so that profit minus total tax
// lands within the tolerance of the target. Net income rises with profit because
// the combined marginal rate stays below 100%.
func (s *Solver) RequiredProfit(ctx context.Context, req RequiredProfitRequest) (*RequiredProfitResult, error) {
	if s.CalcEngine == nil || s.CalcEngine.Resolver == nil {
		return nil, &Error{Operation: "required_profit", Message: "calculation engine is not configured"}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}

	params := s.CalcEngine.Parameters(req.Year)
	net := func(profit decimal.Decimal) (decimal.Decimal, domain.TaxComputationResult) {
		result := calculation.ComputeTax(req.input(profit), params)
		return result.NetAfterTax(), result
	}

	lower := decimal.Zero
	if n, result := net(lower); n.GreaterThanOrEqual(req.TargetNetIncome.Sub(req.Tolerance)) {
		return s.finish(req, params, lower, n, result, 0, "Target reached without business profit"), nil
	}

	upper := s.Options.InitialUpper
	if !upper.IsPositive() {
		upper = DefaultSolverOptions().InitialUpper
	}

	iterations := 0
	for {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}
		if n, _ := net(upper); n.GreaterThanOrEqual(req.TargetNetIncome) {
			break
		}
		iterations++
		if iterations >= req.MaxIterations {
			return nil, &Error{
				Operation: "required_profit",
				Message:   fmt.Sprintf("no upper bound found for target %s", req.TargetNetIncome.StringFixed(2)),
			}
		}
		lower = upper
		upper = upper.Mul(decimal.NewFromInt(2))
	}

	two := decimal.NewFromInt(2)
	for iterations < req.MaxIterations {
		iterations++

		if err := checkContext(ctx); err != nil {
			return nil, err
		}

		mid := lower.Add(upper).Div(two)
		n, result := net(mid)
		diff := n.Sub(req.TargetNetIncome)

		if diff.Abs().LessThan(req.Tolerance) {
			info := fmt.Sprintf("Converged to target net income within %s", req.Tolerance.StringFixed(2))
			return s.finish(req, params, mid, n, result, iterations, info), nil
		}

		if diff.IsNegative() {
			lower = mid
		} else {
			upper = mid
		}
	}

	// Out of iterations: report the upper bound, which meets the target
	n, result := net(upper)
	res := s.finish(req, params, upper, n, result, iterations, "Maximum iterations reached")
	res.Success = false
	return res, nil
}

func (s *Solver) finish(req RequiredProfitRequest, params domain.TaxYearParameters, profit, net decimal.Decimal,
	result domain.TaxComputationResult, iterations int, info string) *RequiredProfitResult {
	return &RequiredProfitResult{
		Request:         req,
		Success:         true,
		Iterations:      iterations,
		ConvergenceInfo: info,
		RequiredProfit:  profit,
		NetIncome:       net,
		MarginalRate:    MarginalRate(params, profit, req.Profile, s.Options.MarginalStep),
		Computation:     result,
	}
}

// MarginalRate is the share of the next step of profit that goes to tax:
// (tax(profit+step) - tax(profit)) / step. A non-positive step uses 100.
func MarginalRate(params domain.TaxYearParameters, profit decimal.Decimal, profile *domain.PersonalYearProfile, step decimal.Decimal) decimal.Decimal {
	if !step.IsPositive() {
		step = decimal.NewFromInt(100)
	}
	base := calculation.ComputeTax(domain.TaxComputationInput{Year: params.Year, BusinessProfit: profit, Profile: profile}, params)
	next := calculation.ComputeTax(domain.TaxComputationInput{Year: params.Year, BusinessProfit: profit.Add(step), Profile: profile}, params)
	return next.TotalTax.Sub(base.TotalTax).Div(step)
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return &Error{Operation: "required_profit", Message: "cancelled", Cause: ctx.Err()}
	default:
		return nil
	}
}
