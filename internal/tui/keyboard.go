package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/keenthemes/ktui-picker/internal/picker"
	"github.com/keenthemes/ktui-picker/internal/store"
)

// Keyboard Handlers
//
// handleKeyPress dispatches by mode first (quick entry, help), then by
// the focused surface.

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.shutdown()
		return m, tea.Quit
	}

	if m.quickEntry.IsVisible() {
		var cmd tea.Cmd
		m.quickEntry, cmd = m.quickEntry.Update(msg)
		return m, cmd
	}

	if m.helpMode {
		m.helpMode = false
		return m, nil
	}

	m.lastError = nil

	switch m.focus {
	case FocusSegments:
		return m.handleSegmentKeys(msg)
	case FocusSpinner:
		return m.handleSpinnerKeys(msg)
	default:
		return m.handleCalendarKeys(msg)
	}
}

func (m *Model) handleSegmentKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.segments.Blur()
		m.setFocus(FocusCalendar)
		return m, nil
	}
	var cmd tea.Cmd
	m.segments, cmd = m.segments.Update(msg)
	return m, cmd
}

func (m *Model) handleSpinnerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.spinner.Blur()
		m.setFocus(FocusCalendar)
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m *Model) handleCalendarKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.shutdown()
		return m, tea.Quit

	case "?":
		m.helpMode = true
		return m, nil

	case "i":
		m.setFocus(FocusSegments)
		return m, nil

	case "t":
		if m.spinner != nil {
			m.setFocus(FocusSpinner)
		}
		return m, nil

	case "/":
		return m, m.quickEntry.Show()

	case "c":
		picker.ClearSelection(m.st)
		return m, nil

	case "o":
		snap := m.st.GetState()
		m.st.Update(store.NewPartial().Open(!snap.IsOpen), store.SourceProgram, true)
		return m, nil

	case "v":
		m.cycleViewMode()
		return m, nil

	case "Y":
		picker.StepYear(m.st, 1)
		return m, nil

	case "y":
		picker.StepYear(m.st, -1)
		return m, nil
	}

	var cmd tea.Cmd
	m.calendar, cmd = m.calendar.Update(msg)
	return m, cmd
}

func (m *Model) setFocus(f FocusArea) {
	m.calendar.Blur()
	m.segments.Blur()
	if m.spinner != nil {
		m.spinner.Blur()
	}

	m.focus = f
	switch f {
	case FocusSegments:
		m.segments.Focus()
	case FocusSpinner:
		m.spinner.Focus()
	default:
		m.calendar.Focus()
	}
}

// cycleViewMode steps days -> months -> years -> days.
func (m *Model) cycleViewMode() {
	snap := m.st.GetState()
	var next store.ViewMode
	switch snap.ViewMode {
	case store.ViewDays:
		next = store.ViewMonths
	case store.ViewMonths:
		next = store.ViewYears
	default:
		next = store.ViewDays
	}
	m.st.Update(store.NewPartial().ViewMode(next), store.SourceProgram, true)
}
