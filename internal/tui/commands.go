package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/keenthemes/ktui-picker/internal/config"
	"github.com/keenthemes/ktui-picker/internal/logger"
)

// Command Builders
//
// These methods create tea.Cmd functions for async work. Values a
// closure needs are captured before the closure is created, so model
// state changing underneath never leaks into a running command.

// stateCommittedMsg wakes the program loop after a store commit. The
// components already refreshed themselves through their subscriptions;
// the message only forces a redraw.
type stateCommittedMsg struct{}

// optionsReloadedMsg carries freshly reloaded options from the watcher.
type optionsReloadedMsg struct {
	opts config.Options
}

// valueChangedMsg carries a new serialized selection value.
type valueChangedMsg struct {
	value string
}

// pickRecordedMsg reports the outcome of persisting a pick.
type pickRecordedMsg struct {
	err error
}

type errMsg struct {
	err error
}

// waitForCommit blocks on the relay channel until the next commit.
func (m *Model) waitForCommit() tea.Cmd {
	ch := m.relay
	return func() tea.Msg {
		_, ok := <-ch
		if !ok {
			return nil
		}
		return stateCommittedMsg{}
	}
}

// waitForOptionsChange blocks until the watcher reloads the options file.
func (m *Model) waitForOptionsChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	ch := m.watcher.Changes()
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return optionsReloadedMsg{opts: event.Options}
	}
}

// waitForValueChange blocks until the value bar publishes a new value.
func (m *Model) waitForValueChange() tea.Cmd {
	ch := m.valueBar.Changes()
	return func() tea.Msg {
		value, ok := <-ch
		if !ok {
			return nil
		}
		return valueChangedMsg{value: value}
	}
}

// recordPick persists a committed value to the history database.
func (m *Model) recordPick(value string) tea.Cmd {
	if m.history == nil || !m.opts.RecordHistory || value == "" {
		return nil
	}
	capturedMode := m.opts.Mode
	capturedAt := m.clock()
	repo := m.history
	return func() tea.Msg {
		_, err := repo.Record(capturedMode, value, capturedAt)
		if err != nil {
			logger.Error("tui: failed to record pick", "error", err)
		}
		return pickRecordedMsg{err: err}
	}
}
