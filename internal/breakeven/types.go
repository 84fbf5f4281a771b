package breakeven

import (
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/shopspring/decimal"
)

// RequiredProfitRequest asks for the business profit that leaves TargetNetIncome after IB and Zvw
type RequiredProfitRequest struct {
	Year                         int                         `json:"year"`
	TargetNetIncome              decimal.Decimal             `json:"target_net_income"`
	Profile                      *domain.PersonalYearProfile `json:"profile,omitempty"`
	PriorYearReserveContribution *decimal.Decimal            `json:"prior_year_reserve,omitempty"`
	MaxIterations                int                         `json:"-"` // zero uses the solver default
	Tolerance                    decimal.Decimal             `json:"-"` // zero uses the solver default
}

// Validate checks the request before solving
func (r *RequiredProfitRequest) Validate() error {
	if r.TargetNetIncome.IsNegative() {
		return &Error{
			Operation: "validate_request",
			Message:   "target net income cannot be negative",
		}
	}
	if err := r.Profile.Validate(); err != nil {
		return &Error{
			Operation: "validate_request",
			Message:   "invalid profile",
			Cause:     err,
		}
	}
	return nil
}

func (r *RequiredProfitRequest) input(profit decimal.Decimal) domain.TaxComputationInput {
	return domain.TaxComputationInput{
		Year:                         r.Year,
		BusinessProfit:               profit,
		Profile:                      r.Profile,
		PriorYearReserveContribution: r.PriorYearReserveContribution,
	}
}

// RequiredProfitResult is the outcome of a required-profit search
type RequiredProfitResult struct {
	Request         RequiredProfitRequest       `json:"request"`
	Success         bool                        `json:"success"`
	Iterations      int                         `json:"iterations"`
	ConvergenceInfo string                      `json:"convergence_info"`
	RequiredProfit  decimal.Decimal             `json:"required_profit"`
	NetIncome       decimal.Decimal             `json:"net_income"`
	MarginalRate    decimal.Decimal             `json:"marginal_rate"`
	Computation     domain.TaxComputationResult `json:"result"`
}

// LadderResult holds required-profit results for several targets
type LadderResult struct {
	Year    int                    `json:"year"`
	Results []RequiredProfitResult `json:"results"`
}

// SolverOptions configures the search
type SolverOptions struct {
	Tolerance     decimal.Decimal // accepted distance from the target net income
	MaxIterations int
	InitialUpper  decimal.Decimal // first upper bound; doubled while it is too low
	MarginalStep  decimal.Decimal // profit step used for the marginal-rate probe
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.RequireFromString("0.01"),
		MaxIterations: 200,
		InitialUpper:  decimal.NewFromInt(250000),
		MarginalStep:  decimal.NewFromInt(100),
	}
}

// Error represents errors from the required-profit solver
type Error struct {
	Operation string
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}
