package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/keenthemes/ktui-picker/internal/datetime"
	"github.com/keenthemes/ktui-picker/internal/logger"
	"github.com/keenthemes/ktui-picker/internal/picker"
	"github.com/keenthemes/ktui-picker/internal/store"
)

// Message Handlers
//
// Non-keyboard messages land here, keyboard input in keyboard.go.

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.terminalTooSmall = msg.Width < MinTerminalWidth || msg.Height < MinTerminalHeight
	return m, nil
}

// handleOptionsReloaded applies a live edit of the options file to the
// running picker. The compiled segment layout cannot change mid-edit,
// so a new format, or a granularity change that alters the segment set,
// only takes full effect after a restart; the spinner and the store
// still pick up the new granularity live.
func (m *Model) handleOptionsReloaded(msg optionsReloadedMsg) (tea.Model, tea.Cmd) {
	opts := msg.opts
	logger.Info("tui: options reloaded", "mode", opts.Mode, "weekStart", opts.WeekStart)

	mode, _ := picker.ParseMode(opts.Mode)
	selectCfg := picker.SelectConfig{
		Mode:          mode,
		CloseOnSelect: opts.CloseOnSelect,
		MinDate:       opts.MinDateTime(),
		MaxDate:       opts.MaxDateTime(),
	}
	gridCfg := picker.GridConfig{
		WeekStart: opts.WeekStartDay(),
		MinDate:   opts.MinDateTime(),
		MaxDate:   opts.MaxDateTime(),
	}
	m.calendar.SetConfig(selectCfg, gridCfg, opts.Locale)
	m.quickEntry.SetConfig(selectCfg, m.layout)

	granularity, _ := datetime.ParseGranularity(opts.Granularity)
	if m.spinner != nil {
		m.spinner.SetGranularity(granularity)
	}
	m.st.Update(store.NewPartial().TimeGranularity(granularity), store.SourceConfig, true)

	m.opts = opts
	return m, m.waitForOptionsChange()
}

func (m *Model) handleValueChanged(msg valueChangedMsg) (tea.Model, tea.Cmd) {
	return m, tea.Batch(m.recordPick(msg.value), m.waitForValueChange())
}
