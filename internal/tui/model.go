package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rgehrsitz/opsdash/internal/apperrors"
	"github.com/rgehrsitz/opsdash/internal/calculation"
	"github.com/rgehrsitz/opsdash/internal/config"
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/shopspring/decimal"
)

const quarters = 4

// ProfileLoader fetches the profile for a year; nil means no profile.
type ProfileLoader func(ctx context.Context, year int) (*domain.PersonalYearProfile, error)

// StaticProfiles loads profiles from the built-in table
func StaticProfiles(_ context.Context, year int) (*domain.PersonalYearProfile, error) {
	return config.LookupProfile(year), nil
}

// Model is the quarterly cockpit. The projection is recomputed
// synchronously after every change to an input.
type Model struct {
	engine        *calculation.CalculationEngine
	loadProfile   ProfileLoader
	year          int
	profile       *domain.PersonalYearProfile
	profileLoaded bool

	// inputs holds income and expenses per quarter: [2*q] income, [2*q+1] expenses
	inputs         [quarters * 2]textinput.Model
	focus          int
	currentQuarter int

	projection domain.QuarterProjectionResult
	alerts     []domain.TaxAlert

	width  int
	height int
	err    error
}

// NewModel creates a cockpit for year with quarter 1 selected
func NewModel(engine *calculation.CalculationEngine, year int, loader ProfileLoader) Model {
	if loader == nil {
		loader = StaticProfiles
	}
	m := Model{
		engine:         engine,
		loadProfile:    loader,
		year:           year,
		currentQuarter: 1,
		width:          80,
		height:         24,
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = "0"
		ti.CharLimit = 12
		ti.Width = 12
		ti.Prompt = ""
		m.inputs[i] = ti
	}
	m.inputs[0].Focus()
	return m
}

// Init loads the profile for the starting year
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, loadProfileCmd(m.loadProfile, m.year))
}

func loadProfileCmd(loader ProfileLoader, year int) tea.Cmd {
	return func() tea.Msg {
		profile, err := loader(context.Background(), year)
		if errors.Is(err, apperrors.ErrNotFound) {
			return ProfileLoadedMsg{Year: year}
		}
		return ProfileLoadedMsg{Year: year, Profile: profile, Err: err}
	}
}

// ProjectionInput builds the engine input from the current field values.
// Unparseable fields count as zero.
func (m Model) ProjectionInput() domain.QuarterProjectionInput {
	states := make([]domain.QuarterState, quarters)
	for q := 0; q < quarters; q++ {
		states[q] = domain.QuarterState{
			Income:   parseAmount(m.inputs[2*q].Value()),
			Expenses: parseAmount(m.inputs[2*q+1].Value()),
		}
	}
	return domain.QuarterProjectionInput{
		Year:           m.year,
		CurrentQuarter: m.currentQuarter,
		Quarters:       states,
		Profile:        m.profile,
	}
}

// recompute runs the engine once the profile for the year is known
func (m *Model) recompute() {
	if !m.profileLoaded {
		m.projection, m.alerts = domain.QuarterProjectionResult{}, nil
		return
	}
	m.projection, m.alerts = m.engine.Project(m.ProjectionInput())
}

// Ready reports whether the profile is loaded and the projection is current
func (m Model) Ready() bool { return m.profileLoaded }

// Projection returns the latest projection
func (m Model) Projection() domain.QuarterProjectionResult { return m.projection }

// Alerts returns the alerts for the latest projection
func (m Model) Alerts() []domain.TaxAlert { return m.alerts }

// Year returns the selected tax year
func (m Model) Year() int { return m.year }

// CurrentQuarter returns the selected quarter
func (m Model) CurrentQuarter() int { return m.currentQuarter }

// parseAmount accepts Dutch or plain notation ("12.500,50", "12500.50")
func parseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return domain.ToNumber(domain.NewRawNumber(s))
}
