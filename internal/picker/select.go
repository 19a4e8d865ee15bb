package picker

import (
	"time"

	"github.com/keenthemes/ktui-picker/internal/datetime"
	"github.com/keenthemes/ktui-picker/internal/store"
)

// Mode is the selection shape the picker operates in.
type Mode int

const (
	ModeSingle Mode = iota
	ModeRange
	ModeMulti
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeRange:
		return "range"
	case ModeMulti:
		return "multi"
	default:
		return "unknown"
	}
}

// ParseMode reads a mode name from configuration.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "single", "":
		return ModeSingle, true
	case "range":
		return ModeRange, true
	case "multi", "multiple":
		return ModeMulti, true
	default:
		return ModeSingle, false
	}
}

// SelectConfig carries the selection behavior options.
type SelectConfig struct {
	Mode          Mode
	CloseOnSelect bool
	MinDate       *time.Time
	MaxDate       *time.Time
}

// SelectDay applies a day activation (click/enter on a grid cell, or a
// quick-entry commit) to the store under the configured mode, tagged
// with the given source. It returns false when the activation was
// refused: picker disabled, day outside the selectable window, or the
// commit rejected.
func SelectDay(st *store.Store, cfg SelectConfig, day time.Time, source string) bool {
	snap := st.GetState()
	if snap.IsDisabled {
		return false
	}
	if outOfWindow(day, GridConfig{MinDate: cfg.MinDate, MaxDate: cfg.MaxDate}) {
		return false
	}

	day = datetime.StartOfDay(day)

	switch cfg.Mode {
	case ModeRange:
		return selectRangeDay(st, snap, day, source)
	case ModeMulti:
		return selectMultiDay(st, snap, day, source)
	default:
		p := store.NewPartial().
			SelectedDate(&day).
			CursorMonth(day)
		if cfg.CloseOnSelect {
			p = p.Open(false)
		}
		return st.Update(p, source, true)
	}
}

// selectRangeDay implements the range gesture: the first activation
// starts a range, the second completes it, and any activation after a
// complete range starts over. Completion orders the endpoints here, at
// the call site; the store itself never swaps what it is given.
func selectRangeDay(st *store.Store, snap store.Snapshot, day time.Time, source string) bool {
	r := snap.SelectedRange
	inProgress := r != nil && r.Start != nil && r.End == nil

	var next *store.DateRange
	if inProgress {
		start := *r.Start
		lo, hi := start, day
		if datetime.DayKey(lo) > datetime.DayKey(hi) {
			lo, hi = hi, lo
		}
		next = &store.DateRange{Start: &lo, End: &hi}
	} else {
		next = &store.DateRange{Start: &day}
	}
	p := store.NewPartial().
		SelectedRange(next).
		CursorMonth(day)
	return st.Update(p, source, true)
}

// selectMultiDay toggles the day in the multi-date list by day key,
// preserving click order for the dates that stay.
func selectMultiDay(st *store.Store, snap store.Snapshot, day time.Time, source string) bool {
	key := datetime.DayKey(day)
	next := make([]time.Time, 0, len(snap.SelectedDates)+1)
	removed := false
	for _, d := range snap.SelectedDates {
		if datetime.DayKey(d) == key {
			removed = true
			continue
		}
		next = append(next, d)
	}
	if !removed {
		next = append(next, day)
	}
	p := store.NewPartial().
		SelectedDates(next).
		CursorMonth(day)
	return st.Update(p, source, true)
}

// StepMonth moves the cursor month by delta months. The move is purely
// navigational, so it rides the store's batching window.
func StepMonth(st *store.Store, delta int) bool {
	snap := st.GetState()
	return st.Update(store.NewPartial().CursorMonth(snap.CursorMonth.AddDate(0, delta, 0)),
		store.SourceCalendar, false)
}

// StepYear moves the cursor by delta years.
func StepYear(st *store.Store, delta int) bool {
	snap := st.GetState()
	return st.Update(store.NewPartial().CursorMonth(snap.CursorMonth.AddDate(delta, 0, 0)),
		store.SourceCalendar, false)
}

// ClearSelection wipes every selection shape at once.
func ClearSelection(st *store.Store) bool {
	p := store.NewPartial().
		SelectedDate(nil).
		SelectedRange(nil).
		SelectedDates(nil).
		SelectedTime(nil)
	return st.Update(p, store.SourceProgram, true)
}
