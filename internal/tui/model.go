package tui

import (
	stdtime "time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/keenthemes/ktui-picker/internal/config"
	"github.com/keenthemes/ktui-picker/internal/datetime"
	"github.com/keenthemes/ktui-picker/internal/logger"
	"github.com/keenthemes/ktui-picker/internal/picker"
	"github.com/keenthemes/ktui-picker/internal/storage"
	"github.com/keenthemes/ktui-picker/internal/store"
	"github.com/keenthemes/ktui-picker/internal/sync"
	"github.com/keenthemes/ktui-picker/internal/tui/components"
)

// FocusArea is the surface currently receiving keyboard input.
type FocusArea int

const (
	FocusCalendar FocusArea = iota
	FocusSegments
	FocusSpinner
)

func focusName(f FocusArea) string {
	switch f {
	case FocusSegments:
		return "Field"
	case FocusSpinner:
		return "Time"
	default:
		return "Calendar"
	}
}

// Minimum terminal dimensions
const (
	MinTerminalWidth  = 48
	MinTerminalHeight = 16
)

// relay is the bridge between store subscriptions, which run on timer
// goroutines, and the Bubble Tea loop. It runs after every component so
// their cached views are already invalidated when the redraw lands.
type relay struct {
	ch chan struct{}
}

func (r *relay) UpdatePriority() int { return 100 }

func (r *relay) OnStateChange(next, old store.Snapshot) {
	select {
	case r.ch <- struct{}{}:
	default:
	}
}

// Model is the main TUI state.
type Model struct {
	st      *store.Store
	opts    config.Options
	layout  datetime.Layout
	watcher *sync.Watcher
	history *storage.HistoryRepository
	clock   func() stdtime.Time

	// Components
	segments   *components.SegmentedInput
	calendar   *components.Calendar
	spinner    *components.TimeSpinner
	valueBar   *components.ValueBar
	quickEntry *components.QuickEntry

	relay       chan struct{}
	unsubscribe []func()

	focus  FocusArea
	width  int
	height int

	helpMode  bool
	lastError error

	terminalTooSmall bool
}

// NewModel wires the store, the components and their subscriptions.
// watcher and history may be nil; the picker runs without live reload
// or persistence then.
func NewModel(st *store.Store, opts config.Options, watcher *sync.Watcher, history *storage.HistoryRepository) (*Model, error) {
	layout, err := datetime.CompileLayout(opts.Format)
	if err != nil {
		return nil, err
	}
	granularity, _ := datetime.ParseGranularity(opts.Granularity)
	// Segments the granularity excludes must not be editable.
	layout = layout.FilterGranularity(granularity)

	clock := stdtime.Now
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
	m := &Model{
		st:      st,
		opts:    opts,
		layout:  layout,
		watcher: watcher,
		history: history,
		clock:   clock,
		relay:   make(chan struct{}, 1),
		focus:   FocusCalendar,
	}

	input := picker.NewInput(layout, st, picker.WithInputClock(clock))
	m.segments = components.NewSegmentedInput(input, st)
	m.calendar = components.NewCalendar(st, selectCfg, gridCfg, opts.Locale, clock)
	m.valueBar = components.NewValueBar(st, mode)
	m.quickEntry = components.NewQuickEntry(st, selectCfg, layout, clock)
	if layout.HasTime() {
		m.spinner = components.NewTimeSpinner(st, granularity)
	}

	m.unsubscribe = append(m.unsubscribe, st.Subscribe(m.segments))
	m.unsubscribe = append(m.unsubscribe, st.Subscribe(m.calendar))
	if m.spinner != nil {
		m.unsubscribe = append(m.unsubscribe, st.Subscribe(m.spinner))
	}
	m.unsubscribe = append(m.unsubscribe, st.Subscribe(m.valueBar))
	m.unsubscribe = append(m.unsubscribe, st.Subscribe(&relay{ch: m.relay}))

	m.calendar.Focus()

	// Restore the most recent pick before the first render.
	if history != nil && opts.RecordHistory {
		if pick, err := history.Latest(opts.Mode); err == nil && pick != nil {
			if p, perr := picker.ParseFormValue(pick.Value, mode, stdtime.Local); perr == nil {
				st.Update(p, store.SourceProgram, true)
			} else {
				logger.Warn("tui: skipping unparsable pick", "value", pick.Value, "error", perr)
			}
		}
	}

	st.Update(store.NewPartial().
		TimeGranularity(granularity).
		Open(true).
		Focused(true), store.SourceConfig, true)

	return m, nil
}

// Init starts the watcher and the channel pumps.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForCommit(), m.waitForValueChange()}

	if m.watcher != nil {
		if err := m.watcher.Start(); err != nil {
			logger.Warn("tui: options watcher failed to start", "error", err)
		} else {
			cmds = append(cmds, m.waitForOptionsChange())
		}
	}

	return tea.Batch(cmds...)
}

// Update routes messages to the handlers in handlers.go and keyboard.go.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case stateCommittedMsg:
		return m, m.waitForCommit()

	case optionsReloadedMsg:
		return m.handleOptionsReloaded(msg)

	case valueChangedMsg:
		return m.handleValueChanged(msg)

	case pickRecordedMsg:
		return m, nil

	case errMsg:
		m.lastError = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	default:
		return m, nil
	}
}

// shutdown stops timers, subscriptions and the watcher before quitting.
func (m *Model) shutdown() {
	m.st.Flush()
	m.st.LogDispatchStats()
	for _, unsub := range m.unsubscribe {
		unsub()
	}
	m.calendar.Stop()
	if m.watcher != nil {
		m.watcher.Stop()
	}
}

var (
	appTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	closedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// View renders the TUI.
func (m *Model) View() string {
	if m.terminalTooSmall {
		return m.terminalTooSmallView()
	}

	if m.quickEntry.IsVisible() {
		return m.quickEntry.View()
	}

	if m.helpMode {
		return m.helpView()
	}

	snap := m.st.GetState()

	sections := []string{
		appTitleStyle.Render("ktpick"),
		m.segments.View(),
	}

	if snap.IsOpen {
		sections = append(sections, m.calendar.View())
		if m.spinner != nil {
			sections = append(sections, m.spinner.View())
		}
	} else {
		sections = append(sections, closedStyle.Render("(closed, press o to open)"))
	}

	sections = append(sections, m.valueBar.View())
	sections = append(sections, m.statusLine(snap))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) statusLine(snap store.Snapshot) string {
	if m.lastError != nil {
		return errorStyle.Render("Error: " + m.lastError.Error())
	}
	line := focusName(m.focus) + " · " + m.opts.Mode + " · ?: help  q: quit"
	if !snap.IsValid && len(snap.ValidationErrors) > 0 {
		line = snap.ValidationErrors[0]
		return errorStyle.Render(line)
	}
	return statusStyle.Render(line)
}

func (m *Model) terminalTooSmallView() string {
	return "Terminal too small.\nResize to at least 48x16."
}

func (m *Model) helpView() string {
	return appTitleStyle.Render("ktpick keys") + `

  i          edit the date field
  t          edit the time
  esc        back to the calendar
  enter      select the day under the cursor
  h/j/k/l    move the cursor
  H/L        previous / next month
  v          cycle days / months / years view
  /          type a date (t, +3d, fri, ...)
  c          clear the selection
  o          open / close the calendar
  q          quit

Press any key to return.`
}
