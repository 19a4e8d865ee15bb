package store

import (
	"fmt"

	"github.com/keenthemes/ktui-picker/internal/datetime"
)

// validate checks a candidate state. Hard violations (malformed dates,
// out-of-range time components, duplicate multi-selection days) reject
// the commit outright. An inverted
// range is only flagged: it is applied, IsValid drops to false, and the
// endpoints are never silently swapped.
func validate(s State) (errs []string, hard bool) {
	if s.CursorMonth.IsZero() {
		errs = append(errs, "cursorMonth: date is not set")
		hard = true
	}
	if s.SelectedDate != nil && s.SelectedDate.IsZero() {
		errs = append(errs, "selectedDate: invalid date")
		hard = true
	}
	if r := s.SelectedRange; r != nil {
		if r.Start != nil && r.Start.IsZero() {
			errs = append(errs, "selectedRange.start: invalid date")
			hard = true
		}
		if r.End != nil && r.End.IsZero() {
			errs = append(errs, "selectedRange.end: invalid date")
			hard = true
		}
		if r.Start != nil && r.End != nil && !r.Start.IsZero() && !r.End.IsZero() &&
			datetime.DayKey(*r.Start) > datetime.DayKey(*r.End) {
			errs = append(errs, "selectedRange: start is after end")
		}
	}
	seen := make(map[int]bool, len(s.SelectedDates))
	for i, d := range s.SelectedDates {
		if d.IsZero() {
			errs = append(errs, fmt.Sprintf("selectedDates[%d]: invalid date", i))
			hard = true
			continue
		}
		key := datetime.DayKey(d)
		if seen[key] {
			errs = append(errs, fmt.Sprintf("selectedDates[%d]: duplicate day", i))
			hard = true
		}
		seen[key] = true
	}
	if t := s.SelectedTime; t != nil && !t.Valid() {
		errs = append(errs, fmt.Sprintf("selectedTime: %s out of range", t))
		hard = true
	}
	return errs, hard
}
