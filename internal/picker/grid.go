package picker

import (
	"sync"
	"time"

	"github.com/keenthemes/ktui-picker/internal/datetime"
	"github.com/keenthemes/ktui-picker/internal/store"
)

// HoverClearDelay debounces clearing the range preview when the pointer
// leaves the grid, so moving between adjacent cells does not flicker.
const HoverClearDelay = 50 * time.Millisecond

// Cell is one day cell of the calendar grid.
type Cell struct {
	Date       time.Time
	InMonth    bool // belongs to the cursor month, not adjacent fill
	IsToday    bool
	IsSelected bool // single selection, any multi entry, or a range endpoint
	InRange    bool // inside the committed range, endpoints inclusive
	InPreview  bool // inside the hover preview span
	Tabbable   bool // exactly one cell per grid
	Disabled   bool // outside the min/max selectable window
}

// Grid is the day grid for one visible month: whole weeks, 7 columns,
// leading/trailing days pulled from the adjacent months.
type Grid struct {
	Month time.Time // first of the cursor month
	Weeks [][]Cell
}

// GridConfig carries the non-state inputs of the grid build.
type GridConfig struct {
	WeekStart time.Weekday
	MinDate   *time.Time
	MaxDate   *time.Time
}

// BuildGrid computes the grid for the snapshot's cursor month. hover is
// the day currently under the pointer (nil when none); now supplies
// "today". The build is pure: committed state is never touched.
func BuildGrid(snap store.Snapshot, hover *time.Time, now time.Time, cfg GridConfig) Grid {
	month := datetime.StartOfMonth(snap.CursorMonth)

	// Walk back to the week start covering the 1st.
	first := month
	for first.Weekday() != cfg.WeekStart {
		first = first.AddDate(0, 0, -1)
	}

	todayKey := datetime.DayKey(now)
	tabKey := tabbableKey(snap, todayKey)

	previewLo, previewHi, hasPreview := previewSpan(snap, hover)

	g := Grid{Month: month}
	day := first
	tabbed := false
	for {
		week := make([]Cell, 0, 7)
		for i := 0; i < 7; i++ {
			key := datetime.DayKey(day)
			cell := Cell{
				Date:       day,
				InMonth:    day.Month() == month.Month() && day.Year() == month.Year(),
				IsToday:    key == todayKey,
				IsSelected: isSelected(snap, key),
				InRange:    inRange(snap, key),
				InPreview:  hasPreview && key >= previewLo && key <= previewHi,
				Disabled:   outOfWindow(day, cfg),
			}
			if !tabbed && key == tabKey {
				cell.Tabbable = true
				tabbed = true
			}
			week = append(week, cell)
			day = day.AddDate(0, 0, 1)
		}
		g.Weeks = append(g.Weeks, week)
		if day.Month() != month.Month() || day.Year() != month.Year() {
			break
		}
	}

	// The preferred tab target can sit outside the visible weeks; fall
	// back to the first in-month cell so exactly one cell is tabbable.
	if !tabbed {
		for wi := range g.Weeks {
			for ci := range g.Weeks[wi] {
				if g.Weeks[wi][ci].InMonth {
					g.Weeks[wi][ci].Tabbable = true
					return g
				}
			}
		}
	}
	return g
}

// tabbableKey picks the day that should hold keyboard focus: the
// selected date, else today, else the first day across the multi-date
// list and range start.
func tabbableKey(snap store.Snapshot, todayKey int) int {
	if snap.SelectedDate != nil {
		return datetime.DayKey(*snap.SelectedDate)
	}
	if len(snap.SelectedDates) > 0 || (snap.SelectedRange != nil && snap.SelectedRange.Start != nil) {
		best := 0
		for _, d := range snap.SelectedDates {
			if k := datetime.DayKey(d); best == 0 || k < best {
				best = k
			}
		}
		if snap.SelectedRange != nil && snap.SelectedRange.Start != nil {
			if k := datetime.DayKey(*snap.SelectedRange.Start); best == 0 || k < best {
				best = k
			}
		}
		return best
	}
	return todayKey
}

func isSelected(snap store.Snapshot, key int) bool {
	if snap.SelectedDate != nil && datetime.DayKey(*snap.SelectedDate) == key {
		return true
	}
	for _, d := range snap.SelectedDates {
		if datetime.DayKey(d) == key {
			return true
		}
	}
	if r := snap.SelectedRange; r != nil {
		if r.Start != nil && datetime.DayKey(*r.Start) == key {
			return true
		}
		if r.End != nil && datetime.DayKey(*r.End) == key {
			return true
		}
	}
	return false
}

func inRange(snap store.Snapshot, key int) bool {
	r := snap.SelectedRange
	if r == nil || r.Start == nil || r.End == nil {
		return false
	}
	lo, hi := datetime.DayKey(*r.Start), datetime.DayKey(*r.End)
	if lo > hi {
		// Inverted ranges are flagged invalid, never highlighted.
		return false
	}
	return key >= lo && key <= hi
}

// previewSpan returns the hover preview window while a range has a
// start but no end. The span is order-independent: hovering before the
// start still yields a contiguous highlight.
func previewSpan(snap store.Snapshot, hover *time.Time) (lo, hi int, ok bool) {
	r := snap.SelectedRange
	if hover == nil || r == nil || r.Start == nil || r.End != nil {
		return 0, 0, false
	}
	a, b := datetime.DayKey(*r.Start), datetime.DayKey(*hover)
	if a > b {
		a, b = b, a
	}
	return a, b, true
}

func outOfWindow(day time.Time, cfg GridConfig) bool {
	key := datetime.DayKey(day)
	if cfg.MinDate != nil && key < datetime.DayKey(*cfg.MinDate) {
		return true
	}
	if cfg.MaxDate != nil && key > datetime.DayKey(*cfg.MaxDate) {
		return true
	}
	return false
}

// MonthCell is one entry of the months view.
type MonthCell struct {
	Month     time.Month
	IsCursor  bool
	IsCurrent bool
}

// BuildMonths produces the twelve-month picker for the cursor year.
func BuildMonths(snap store.Snapshot, now time.Time) []MonthCell {
	out := make([]MonthCell, 0, 12)
	for m := time.January; m <= time.December; m++ {
		out = append(out, MonthCell{
			Month:     m,
			IsCursor:  m == snap.CursorMonth.Month(),
			IsCurrent: m == now.Month() && snap.CursorMonth.Year() == now.Year(),
		})
	}
	return out
}

// YearCell is one entry of the years view.
type YearCell struct {
	Year      int
	IsCursor  bool
	IsCurrent bool
}

// BuildYears produces a twelve-year page around the cursor year.
func BuildYears(snap store.Snapshot, now time.Time) []YearCell {
	base := snap.CursorMonth.Year() - snap.CursorMonth.Year()%12
	out := make([]YearCell, 0, 12)
	for y := base; y < base+12; y++ {
		out = append(out, YearCell{
			Year:      y,
			IsCursor:  y == snap.CursorMonth.Year(),
			IsCurrent: y == now.Year(),
		})
	}
	return out
}

// HoverTracker tracks the cell under the pointer for range previews.
// Leaving the grid clears the hover after a short debounce; entering a
// new cell cancels any pending clear.
type HoverTracker struct {
	mu    sync.Mutex
	hover *time.Time
	timer *time.Timer
	delay time.Duration
}

// NewHoverTracker creates a tracker with the given clear delay.
func NewHoverTracker(delay time.Duration) *HoverTracker {
	return &HoverTracker{delay: delay}
}

// Enter records the hovered day.
func (h *HoverTracker) Enter(day time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	d := day
	h.hover = &d
}

// Leave schedules the hover to clear after the debounce window.
func (h *HoverTracker) Leave() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.timer != nil {
		h.timer.Stop()
	}
	if h.delay <= 0 {
		h.hover = nil
		return
	}
	h.timer = time.AfterFunc(h.delay, func() {
		h.mu.Lock()
		h.hover = nil
		h.timer = nil
		h.mu.Unlock()
	})
}

// Hover returns the hovered day, nil when none.
func (h *HoverTracker) Hover() *time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.hover == nil {
		return nil
	}
	d := *h.hover
	return &d
}

// Stop cancels any pending clear timer.
func (h *HoverTracker) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}
