package output

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/opsdash/internal/domain"
)

// Report is everything a formatter can render for one computation
type Report struct {
	Title       string
	Parameters  domain.TaxYearParameters
	Computation domain.TaxComputationResult
	Projection  *domain.QuarterProjectionResult // nil for a plain computation
	Alerts      []domain.TaxAlert
	Assumptions []string
}

// NewComputationReport builds a report for a single-year computation
func NewComputationReport(params domain.TaxYearParameters, result domain.TaxComputationResult, alerts []domain.TaxAlert) *Report {
	return &Report{
		Title:       fmt.Sprintf("IB/ZVW BREAKDOWN %d", result.Year),
		Parameters:  params,
		Computation: result,
		Alerts:      alerts,
	}
}

// NewProjectionReport builds a report for a quarter projection
func NewProjectionReport(params domain.TaxYearParameters, projection domain.QuarterProjectionResult, alerts []domain.TaxAlert) *Report {
	return &Report{
		Title:       fmt.Sprintf("QUARTER PROJECTION %d (Q%d)", projection.Year, projection.CurrentQuarter),
		Parameters:  params,
		Computation: projection.TaxComputationResult,
		Projection:  &projection,
		Alerts:      alerts,
	}
}

// Formatter renders a report
type Formatter interface {
	Name() string
	Format(report *Report) ([]byte, error)
}

var formatters = []Formatter{
	ConsoleFormatter{},
	CSVSummarizer{},
	JSONFormatter{},
}

// GetFormatterByName returns the formatter registered under name, or nil
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, f := range formatters {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// FormatterNames lists the available output formats
func FormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for _, f := range formatters {
		names = append(names, f.Name())
	}
	return names
}
