package store

import (
	"time"

	"github.com/keenthemes/ktui-picker/internal/datetime"
)

// ViewMode is which panel of the picker is showing.
type ViewMode int

const (
	ViewDays ViewMode = iota
	ViewMonths
	ViewYears
)

func (v ViewMode) String() string {
	switch v {
	case ViewDays:
		return "days"
	case ViewMonths:
		return "months"
	case ViewYears:
		return "years"
	default:
		return "unknown"
	}
}

// DateRange is a range selection. Either endpoint may be unset while the
// user is mid-gesture.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

func (r *DateRange) clone() *DateRange {
	if r == nil {
		return nil
	}
	c := &DateRange{}
	if r.Start != nil {
		t := *r.Start
		c.Start = &t
	}
	if r.End != nil {
		t := *r.End
		c.End = &t
	}
	return c
}

// State is the picker's single source of truth. It is owned exclusively
// by the Store; everything outside the store package sees only Snapshot
// copies and requests mutations through Store.Update.
type State struct {
	// CursorMonth is the month currently displayed, normalized to the
	// first of the month. Never zero.
	CursorMonth time.Time

	SelectedDate  *time.Time
	SelectedRange *DateRange
	SelectedDates []time.Time
	SelectedTime  *datetime.TimeOfDay

	TimeGranularity datetime.Granularity
	ViewMode        ViewMode

	IsOpen          bool
	IsFocused       bool
	IsDisabled      bool
	IsTransitioning bool

	// Derived on every commit.
	ValidationErrors []string
	IsValid          bool
}

// Snapshot is a defensive copy of State handed to observers and callers.
// Mutating a snapshot has no effect on the store.
type Snapshot = State

func (s State) clone() State {
	c := s
	if s.SelectedDate != nil {
		t := *s.SelectedDate
		c.SelectedDate = &t
	}
	c.SelectedRange = s.SelectedRange.clone()
	if s.SelectedDates != nil {
		c.SelectedDates = append([]time.Time(nil), s.SelectedDates...)
	}
	if s.SelectedTime != nil {
		t := *s.SelectedTime
		c.SelectedTime = &t
	}
	if s.ValidationErrors != nil {
		c.ValidationErrors = append([]string(nil), s.ValidationErrors...)
	}
	return c
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func timesEqual(a, b []time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func todPtrEqual(a, b *datetime.TimeOfDay) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
