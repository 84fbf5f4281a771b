package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/shopspring/decimal"
)

// Numeric fields accept JSON numbers and numeric strings.

// ProfileRequest is the wire form of a personal year profile
type ProfileRequest struct {
	NetHousingAdjustment decimal.Decimal `json:"net_housing_adjustment"`
	OtherDeductions      decimal.Decimal `json:"other_deductions" binding:"nonnegative"`
	OtherBox1Income      decimal.Decimal `json:"other_box1_income" binding:"nonnegative"`
	CreditsCorrection    decimal.Decimal `json:"credits_correction"`
}

func (p *ProfileRequest) toDomain(year int) *domain.PersonalYearProfile {
	if p == nil {
		return nil
	}
	return &domain.PersonalYearProfile{
		Year:                 year,
		NetHousingAdjustment: p.NetHousingAdjustment,
		OtherDeductions:      p.OtherDeductions,
		OtherBox1Income:      p.OtherBox1Income,
		CreditsCorrection:    p.CreditsCorrection,
	}
}

// ComputeRequest asks for a full-year breakdown
type ComputeRequest struct {
	Year             int              `json:"year" binding:"required,gte=2000,lte=2100"`
	BusinessProfit   decimal.Decimal  `json:"business_profit"`
	PriorYearReserve *decimal.Decimal `json:"prior_year_reserve" binding:"omitempty,nonnegative"`
	Profile          *ProfileRequest  `json:"profile"`
}

func (r ComputeRequest) toDomain() domain.TaxComputationInput {
	return domain.TaxComputationInput{
		Year:                         r.Year,
		BusinessProfit:               r.BusinessProfit,
		Profile:                      r.Profile.toDomain(r.Year),
		PriorYearReserveContribution: r.PriorYearReserve,
	}
}

// QuarterRequest is one quarter of booked income and expenses
type QuarterRequest struct {
	Income   decimal.Decimal `json:"income" binding:"nonnegative"`
	Expenses decimal.Decimal `json:"expenses" binding:"nonnegative"`
}

// ProjectRequest asks for a projection from year-to-date quarters
type ProjectRequest struct {
	Year           int              `json:"year" binding:"required,gte=2000,lte=2100"`
	CurrentQuarter int              `json:"current_quarter" binding:"required,gte=1,lte=4"`
	Quarters       []QuarterRequest `json:"quarters" binding:"max=4,dive"`
	Profile        *ProfileRequest  `json:"profile"`
}

func (r ProjectRequest) toDomain() domain.QuarterProjectionInput {
	quarters := make([]domain.QuarterState, len(r.Quarters))
	for i, q := range r.Quarters {
		quarters[i] = domain.QuarterState{Income: q.Income, Expenses: q.Expenses}
	}
	return domain.QuarterProjectionInput{
		Year:           r.Year,
		CurrentQuarter: r.CurrentQuarter,
		Quarters:       quarters,
		Profile:        r.Profile.toDomain(r.Year),
	}
}

// RequiredProfitRequest asks for the profit that yields a target net income
type RequiredProfitRequest struct {
	Year             int              `json:"year" binding:"required,gte=2000,lte=2100"`
	TargetNetIncome  decimal.Decimal  `json:"target_net_income" binding:"nonnegative"`
	PriorYearReserve *decimal.Decimal `json:"prior_year_reserve" binding:"omitempty,nonnegative"`
	Profile          *ProfileRequest  `json:"profile"`
}

// ProjectionResponse pairs a projection with its alerts
type ProjectionResponse struct {
	Projection domain.QuarterProjectionResult `json:"projection"`
	Alerts     []domain.TaxAlert              `json:"alerts"`
}

// RegisterValidations adds the decimal validations used by the request types
// to Gin's validator. It is safe to call more than once.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	return v.RegisterValidation("nonnegative", func(fl validator.FieldLevel) bool {
		switch value := fl.Field().Interface().(type) {
		case decimal.Decimal:
			return !value.IsNegative()
		case *decimal.Decimal:
			return value == nil || !value.IsNegative()
		default:
			return false
		}
	})
}

// validationFields lists the failing fields of a binding error
func validationFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		ns := fe.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		fields = append(fields, fmt.Sprintf("%s (%s)", ns, fe.Tag()))
	}
	return fields
}
