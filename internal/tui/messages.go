package tui

import (
	"github.com/rgehrsitz/opsdash/internal/domain"
)

// Message types for the Bubble Tea update cycle

// ProfileLoadedMsg carries the profile for the selected year
type ProfileLoadedMsg struct {
	Year    int
	Profile *domain.PersonalYearProfile
	Err     error
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}
