package components

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/keenthemes/ktui-picker/internal/datetime"
	"github.com/keenthemes/ktui-picker/internal/store"
)

var (
	spinnerUnitStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	spinnerFocusedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("231")).
				Background(lipgloss.Color("39")).
				Bold(true)

	spinnerArrowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
)

// TimeSpinner renders the hour/minute/second spinner and writes
// adjustments straight into the store.
type TimeSpinner struct {
	st *store.Store

	// mu guards everything below. OnStateChange runs on the store's
	// dispatch goroutine while Update and View run on the tea loop.
	mu          sync.Mutex
	granularity datetime.Granularity
	focused     bool
	unit        int // 0 hour, 1 minute, 2 second
	cached      string
	dirty       bool
}

// NewTimeSpinner creates the spinner.
func NewTimeSpinner(st *store.Store, granularity datetime.Granularity) *TimeSpinner {
	return &TimeSpinner{st: st, granularity: granularity, dirty: true}
}

// UpdatePriority runs the spinner after the calendar grid.
func (ts *TimeSpinner) UpdatePriority() int { return 30 }

// OnStateChange implements store.Observer.
func (ts *TimeSpinner) OnStateChange(next, old store.Snapshot) {
	cs := ts.st.LastChanges()
	if !cs.Any(store.FieldSelectedTime, store.FieldTimeGranularity) {
		return
	}
	ts.mu.Lock()
	if cs.Has(store.FieldTimeGranularity) {
		ts.granularity = next.TimeGranularity
		ts.clampUnit()
	}
	ts.dirty = true
	ts.mu.Unlock()
}

// SetGranularity narrows or widens the editable units.
func (ts *TimeSpinner) SetGranularity(g datetime.Granularity) {
	ts.mu.Lock()
	ts.granularity = g
	ts.clampUnit()
	ts.dirty = true
	ts.mu.Unlock()
}

func (ts *TimeSpinner) clampUnit() {
	if ts.unit > ts.maxUnit() {
		ts.unit = ts.maxUnit()
	}
}

func (ts *TimeSpinner) maxUnit() int {
	switch ts.granularity {
	case datetime.GranularityHour:
		return 0
	case datetime.GranularityMinute:
		return 1
	default:
		return 2
	}
}

// Focus gives the spinner keyboard focus.
func (ts *TimeSpinner) Focus() {
	ts.mu.Lock()
	ts.focused = true
	ts.dirty = true
	ts.mu.Unlock()
}

// Blur releases focus.
func (ts *TimeSpinner) Blur() {
	ts.mu.Lock()
	ts.focused = false
	ts.dirty = true
	ts.mu.Unlock()
}

// IsFocused reports whether the spinner holds keyboard focus.
func (ts *TimeSpinner) IsFocused() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.focused
}

// Update handles Bubble Tea messages while focused. The lock is
// released before step commits: a synchronous commit dispatches
// straight back into OnStateChange.
func (ts *TimeSpinner) Update(msg tea.Msg) (*TimeSpinner, tea.Cmd) {
	ts.mu.Lock()
	if !ts.focused {
		ts.mu.Unlock()
		return ts, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		ts.mu.Unlock()
		return ts, nil
	}

	delta := 0
	switch keyMsg.String() {
	case "left", "shift+tab":
		if ts.unit > 0 {
			ts.unit--
		}
	case "right", "tab":
		if ts.unit < ts.maxUnit() {
			ts.unit++
		}
	case "up", "k":
		delta = 1
	case "down", "j":
		delta = -1
	}
	unit := ts.unit
	ts.dirty = true
	ts.mu.Unlock()

	if delta != 0 {
		ts.step(unit, delta)
	}
	return ts, nil
}

// step adjusts the given unit, wrapping in its range, and commits
// immediately so the segmented field follows.
func (ts *TimeSpinner) step(unit, delta int) {
	tod := ts.current()
	switch unit {
	case 0:
		tod.Hour = wrap(tod.Hour+delta, 0, 23)
	case 1:
		tod.Minute = wrap(tod.Minute+delta, 0, 59)
	default:
		tod.Second = wrap(tod.Second+delta, 0, 59)
	}
	ts.st.Update(store.NewPartial().SelectedTime(&tod), store.SourceSpinner, true)
}

func wrap(n, min, max int) int {
	if n > max {
		return min
	}
	if n < min {
		return max
	}
	return n
}

func (ts *TimeSpinner) current() datetime.TimeOfDay {
	snap := ts.st.GetState()
	if snap.SelectedTime != nil {
		return *snap.SelectedTime
	}
	now := time.Now()
	return datetime.TimeOfDay{Hour: now.Hour(), Minute: now.Minute()}
}

// View renders the spinner.
func (ts *TimeSpinner) View() string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if !ts.dirty {
		return ts.cached
	}

	tod := ts.current()
	units := []int{tod.Hour, tod.Minute, tod.Second}

	var b strings.Builder
	if ts.focused {
		b.WriteString(spinnerArrowStyle.Render(strings.Repeat(" ", ts.unit*3) + " ▲"))
		b.WriteString("\n")
	}
	for i := 0; i <= ts.maxUnit(); i++ {
		if i > 0 {
			b.WriteString(spinnerUnitStyle.Render(":"))
		}
		label := fmt.Sprintf("%02d", units[i])
		if ts.focused && i == ts.unit {
			b.WriteString(spinnerFocusedStyle.Render(label))
		} else {
			b.WriteString(spinnerUnitStyle.Render(label))
		}
	}
	if ts.focused {
		b.WriteString("\n")
		b.WriteString(spinnerArrowStyle.Render(strings.Repeat(" ", ts.unit*3) + " ▼"))
	}

	ts.cached = b.String()
	ts.dirty = false
	return ts.cached
}
