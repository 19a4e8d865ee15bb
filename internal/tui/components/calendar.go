package components

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/keenthemes/ktui-picker/internal/datetime"
	"github.com/keenthemes/ktui-picker/internal/picker"
	"github.com/keenthemes/ktui-picker/internal/store"
)

var (
	calTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	calHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	calDayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	calOutsideStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	calTodayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")).
			Bold(true)

	calSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("231")).
				Background(lipgloss.Color("39")).
				Bold(true)

	calInRangeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("25"))

	calPreviewStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("60"))

	calCursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("205")).
			Bold(true)

	calDisabledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("236")).
				Strikethrough(true)
)

// weekdayNames maps a locale to short weekday labels, Monday first.
// Only the weekday headers are localized; everything else is numeric.
var weekdayNames = map[string][]string{
	"en": {"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"},
	"de": {"Mo", "Di", "Mi", "Do", "Fr", "Sa", "So"},
	"fr": {"Lu", "Ma", "Me", "Je", "Ve", "Sa", "Di"},
	"es": {"Lu", "Ma", "Mi", "Ju", "Vi", "Sá", "Do"},
}

// Calendar renders the day grid and owns the keyboard cursor. The
// cursor doubles as the hover position for range previews. It is the
// grid's store synchronizer: only commits that touch the cursor month
// or a selection shape rebuild the grid.
type Calendar struct {
	st      *store.Store
	clock   func() time.Time
	tracker *picker.HoverTracker

	// mu guards everything below. OnStateChange runs on the store's
	// dispatch goroutine while Update and View run on the tea loop, so
	// the cursor and config are shared state, not just the cache.
	mu      sync.Mutex
	cfg     picker.SelectConfig
	grid    picker.GridConfig
	locale  string
	cursor  time.Time
	focused bool
	cached  string
	dirty   bool
}

// NewCalendar creates the grid component.
func NewCalendar(st *store.Store, cfg picker.SelectConfig, grid picker.GridConfig, locale string, clock func() time.Time) *Calendar {
	if clock == nil {
		clock = time.Now
	}
	c := &Calendar{
		st:      st,
		cfg:     cfg,
		grid:    grid,
		locale:  locale,
		clock:   clock,
		tracker: picker.NewHoverTracker(picker.HoverClearDelay),
		dirty:   true,
	}
	c.cursor = datetime.StartOfDay(clock())
	return c
}

// UpdatePriority runs the grid after the segmented field.
func (c *Calendar) UpdatePriority() int { return 20 }

// OnStateChange implements store.Observer.
func (c *Calendar) OnStateChange(next, old store.Snapshot) {
	cs := c.st.LastChanges()
	if !cs.Any(
		store.FieldCursorMonth,
		store.FieldSelectedDate,
		store.FieldSelectedRange,
		store.FieldSelectedDates,
		store.FieldViewMode,
	) {
		return
	}
	c.mu.Lock()
	// Keep the cursor inside the displayed month after navigation.
	if cs.Has(store.FieldCursorMonth) {
		m := next.CursorMonth
		if c.cursor.Month() != m.Month() || c.cursor.Year() != m.Year() {
			day := datetime.ClampDay(m.Year(), m.Month(), c.cursor.Day())
			c.cursor = time.Date(m.Year(), m.Month(), day, 0, 0, 0, 0, m.Location())
		}
	}
	c.dirty = true
	c.mu.Unlock()
}

// SetConfig swaps the selection behavior, e.g. after an options reload.
func (c *Calendar) SetConfig(cfg picker.SelectConfig, grid picker.GridConfig, locale string) {
	c.mu.Lock()
	c.cfg = cfg
	c.grid = grid
	c.locale = locale
	c.dirty = true
	c.mu.Unlock()
}

// Focus gives the grid keyboard focus.
func (c *Calendar) Focus() {
	c.mu.Lock()
	c.focused = true
	cur := c.cursor
	c.dirty = true
	c.mu.Unlock()
	c.tracker.Enter(cur)
}

// Blur releases focus; the preview clears after its debounce.
func (c *Calendar) Blur() {
	c.mu.Lock()
	c.focused = false
	c.dirty = true
	c.mu.Unlock()
	c.tracker.Leave()
}

// IsFocused reports whether the grid holds keyboard focus.
func (c *Calendar) IsFocused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focused
}

// Cursor returns the day under the keyboard cursor.
func (c *Calendar) Cursor() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// Stop releases the hover tracker's timer.
func (c *Calendar) Stop() { c.tracker.Stop() }

// Update handles Bubble Tea messages while focused. The lock is
// released before every store call: a synchronous commit dispatches
// straight back into OnStateChange.
func (c *Calendar) Update(msg tea.Msg) (*Calendar, tea.Cmd) {
	c.mu.Lock()
	focused := c.focused
	cfg := c.cfg
	cursor := c.cursor
	c.mu.Unlock()
	if !focused {
		return c, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	snap := c.st.GetState()
	switch snap.ViewMode {
	case store.ViewMonths:
		c.updateMonths(keyMsg)
		c.invalidate()
		return c, nil
	case store.ViewYears:
		c.updateYears(keyMsg)
		c.invalidate()
		return c, nil
	}

	switch keyMsg.String() {
	case "left", "h":
		c.moveCursor(0, -1)
	case "right", "l":
		c.moveCursor(0, 1)
	case "up", "k":
		c.moveCursor(0, -7)
	case "down", "j":
		c.moveCursor(0, 7)
	case "pgup", "H":
		c.moveCursor(-1, 0)
	case "pgdown", "L":
		c.moveCursor(1, 0)
	case "enter", " ":
		picker.SelectDay(c.st, cfg, cursor, store.SourceCalendar)
	case "g":
		c.jumpTo(c.clock())
	}
	c.invalidate()
	return c, nil
}

// updateMonths navigates the twelve-month view. Enter drills back into
// the day grid on the chosen month.
func (c *Calendar) updateMonths(msg tea.KeyMsg) {
	switch msg.String() {
	case "left", "h":
		picker.StepMonth(c.st, -1)
	case "right", "l":
		picker.StepMonth(c.st, 1)
	case "up", "k":
		picker.StepMonth(c.st, -4)
	case "down", "j":
		picker.StepMonth(c.st, 4)
	case "enter", " ":
		c.st.Update(store.NewPartial().ViewMode(store.ViewDays), store.SourceCalendar, true)
	}
}

// updateYears navigates the twelve-year page. Enter drills into the
// months view on the chosen year.
func (c *Calendar) updateYears(msg tea.KeyMsg) {
	switch msg.String() {
	case "left", "h":
		picker.StepYear(c.st, -1)
	case "right", "l":
		picker.StepYear(c.st, 1)
	case "up", "k":
		picker.StepYear(c.st, -4)
	case "down", "j":
		picker.StepYear(c.st, 4)
	case "enter", " ":
		c.st.Update(store.NewPartial().ViewMode(store.ViewMonths), store.SourceCalendar, true)
	}
}

// moveCursor shifts the keyboard cursor by months and days, following
// it across month boundaries.
func (c *Calendar) moveCursor(months, days int) {
	c.mu.Lock()
	c.cursor = c.cursor.AddDate(0, months, days)
	cur := c.cursor
	c.mu.Unlock()

	snap := c.st.GetState()
	if cur.Month() != snap.CursorMonth.Month() || cur.Year() != snap.CursorMonth.Year() {
		c.st.Update(store.NewPartial().CursorMonth(cur), store.SourceCalendar, false)
	}
	c.tracker.Enter(cur)
}

func (c *Calendar) jumpTo(day time.Time) {
	cur := datetime.StartOfDay(day)
	c.mu.Lock()
	c.cursor = cur
	c.mu.Unlock()

	c.st.Update(store.NewPartial().CursorMonth(cur), store.SourceCalendar, false)
	c.tracker.Enter(cur)
}

func (c *Calendar) invalidate() {
	c.mu.Lock()
	c.dirty = true
	c.mu.Unlock()
}

// View renders the grid, rebuilding only when invalidated.
func (c *Calendar) View() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return c.cached
	}

	snap := c.st.GetState()
	switch snap.ViewMode {
	case store.ViewMonths:
		c.cached = c.renderMonths(snap)
	case store.ViewYears:
		c.cached = c.renderYears(snap)
	default:
		c.cached = c.renderDays(snap)
	}
	c.dirty = false
	return c.cached
}

func (c *Calendar) renderDays(snap store.Snapshot) string {
	var hover *time.Time
	if c.focused {
		hover = c.tracker.Hover()
	}
	grid := picker.BuildGrid(snap, hover, c.clock(), c.grid)

	var b strings.Builder
	b.WriteString(calTitleStyle.Render(grid.Month.Format("January 2006")))
	b.WriteString("\n")

	names := weekdayNames[c.locale]
	if names == nil {
		names = weekdayNames["en"]
	}
	header := names
	if c.grid.WeekStart == time.Sunday {
		header = append([]string{names[6]}, names[:6]...)
	}
	for _, h := range header {
		b.WriteString(calHeaderStyle.Render(fmt.Sprintf("%3s", h)))
	}
	b.WriteString("\n")

	cursorKey := datetime.DayKey(c.cursor)
	for _, week := range grid.Weeks {
		for _, cell := range week {
			label := fmt.Sprintf("%3d", cell.Date.Day())
			style := calDayStyle
			switch {
			case c.focused && datetime.DayKey(cell.Date) == cursorKey:
				style = calCursorStyle
			case cell.Disabled:
				style = calDisabledStyle
			case cell.IsSelected:
				style = calSelectedStyle
			case cell.InPreview:
				style = calPreviewStyle
			case cell.InRange:
				style = calInRangeStyle
			case cell.IsToday:
				style = calTodayStyle
			case !cell.InMonth:
				style = calOutsideStyle
			}
			b.WriteString(style.Render(label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (c *Calendar) renderMonths(snap store.Snapshot) string {
	var b strings.Builder
	b.WriteString(calTitleStyle.Render(fmt.Sprintf("%d", snap.CursorMonth.Year())))
	b.WriteString("\n")
	for i, m := range picker.BuildMonths(snap, c.clock()) {
		label := fmt.Sprintf("%4s", m.Month.String()[:3])
		style := calDayStyle
		switch {
		case m.IsCursor:
			style = calSelectedStyle
		case m.IsCurrent:
			style = calTodayStyle
		}
		b.WriteString(style.Render(label))
		if (i+1)%4 == 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (c *Calendar) renderYears(snap store.Snapshot) string {
	var b strings.Builder
	years := picker.BuildYears(snap, c.clock())
	b.WriteString(calTitleStyle.Render(
		fmt.Sprintf("%d – %d", years[0].Year, years[len(years)-1].Year)))
	b.WriteString("\n")
	for i, y := range years {
		label := fmt.Sprintf("%5d", y.Year)
		style := calDayStyle
		switch {
		case y.IsCursor:
			style = calSelectedStyle
		case y.IsCurrent:
			style = calTodayStyle
		}
		b.WriteString(style.Render(label))
		if (i+1)%4 == 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
