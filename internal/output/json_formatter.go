package output

import (
	"encoding/json"

	"github.com/rgehrsitz/opsdash/internal/domain"
)

// JSONFormatter renders the report as indented JSON
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

type jsonReport struct {
	Parameters  domain.TaxYearParameters        `json:"parameters"`
	Computation *domain.TaxComputationResult    `json:"computation,omitempty"`
	Projection  *domain.QuarterProjectionResult `json:"projection,omitempty"`
	Alerts      []domain.TaxAlert               `json:"alerts"`
}

func (j JSONFormatter) Format(report *Report) ([]byte, error) {
	out := jsonReport{Parameters: report.Parameters, Alerts: report.Alerts}
	if out.Alerts == nil {
		out.Alerts = []domain.TaxAlert{}
	}
	if report.Projection != nil {
		out.Projection = report.Projection
	} else {
		out.Computation = &report.Computation
	}
	return json.MarshalIndent(out, "", "  ")
}
