package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ProfileLoadedMsg:
		if msg.Year != m.year {
			return m, nil // stale response for a year no longer selected
		}
		m.err = msg.Err
		m.profile = msg.Profile
		m.profileLoaded = msg.Err == nil
		m.recompute()
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "tab", "down", "enter":
		return m.moveFocus(1), nil

	case "shift+tab", "up":
		return m.moveFocus(-1), nil

	case "+", "]":
		return m.setQuarter(m.currentQuarter + 1), nil

	case "-", "[":
		return m.setQuarter(m.currentQuarter - 1), nil

	case "pgup":
		return m.setYear(m.year + 1)

	case "pgdown":
		return m.setYear(m.year - 1)
	}

	if msg.Type == tea.KeyRunes && !amountRunes(msg.Runes) {
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.recompute()
	return m, cmd
}

func (m Model) moveFocus(delta int) Model {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}

func (m Model) setQuarter(q int) Model {
	if q < 1 || q > quarters {
		return m
	}
	m.currentQuarter = q
	m.recompute()
	return m
}

func (m Model) setYear(year int) (Model, tea.Cmd) {
	m.year = year
	m.profile = nil
	m.profileLoaded = false
	m.recompute()
	return m, loadProfileCmd(m.loadProfile, year)
}

func amountRunes(runes []rune) bool {
	for _, r := range runes {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			return false
		}
	}
	return true
}
