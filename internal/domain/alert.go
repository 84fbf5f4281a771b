package domain

// AlertLevel is the severity of a coaching alert
type AlertLevel string

const (
	AlertInfo     AlertLevel = "info"
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
)

// TaxAlert is a qualitative note derived from a projection
type TaxAlert struct {
	ID          string     `json:"id"`
	Level       AlertLevel `json:"level"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
}
