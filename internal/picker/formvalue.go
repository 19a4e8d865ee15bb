package picker

import (
	"fmt"
	"strings"
	"time"

	"github.com/keenthemes/ktui-picker/internal/datetime"
	"github.com/keenthemes/ktui-picker/internal/store"
)

const isoDay = "2006-01-02"

// FormValue serializes the selection the way a surrounding form submits
// it: ISO date for single mode, "start – end" for a range, and a
// comma-joined list for multi-date. An empty selection yields "".
func FormValue(snap store.Snapshot, mode Mode) string {
	switch mode {
	case ModeRange:
		r := snap.SelectedRange
		if r == nil || r.Start == nil {
			return ""
		}
		var b strings.Builder
		b.WriteString(r.Start.Format(isoDay))
		b.WriteString(" – ")
		if r.End != nil {
			b.WriteString(r.End.Format(isoDay))
		}
		return b.String()
	case ModeMulti:
		if len(snap.SelectedDates) == 0 {
			return ""
		}
		parts := make([]string, len(snap.SelectedDates))
		for i, d := range snap.SelectedDates {
			parts[i] = d.Format(isoDay)
		}
		return strings.Join(parts, ", ")
	default:
		if snap.SelectedDate == nil {
			return ""
		}
		if snap.SelectedTime != nil {
			d := *snap.SelectedDate
			t := *snap.SelectedTime
			return time.Date(d.Year(), d.Month(), d.Day(), t.Hour, t.Minute, t.Second, 0, d.Location()).
				Format("2006-01-02 15:04:05")
		}
		return snap.SelectedDate.Format(isoDay)
	}
}

// ParseFormValue reads a serialized selection back into a partial, the
// inverse of FormValue. It is used to restore the latest recorded pick
// on startup. An empty value yields an empty partial.
func ParseFormValue(value string, mode Mode, loc *time.Location) (store.Partial, error) {
	p := store.NewPartial()
	value = strings.TrimSpace(value)
	if value == "" {
		return p, nil
	}

	switch mode {
	case ModeRange:
		parts := strings.SplitN(value, " – ", 2)
		start, err := time.ParseInLocation(isoDay, strings.TrimSpace(parts[0]), loc)
		if err != nil {
			return p, fmt.Errorf("invalid range start: %w", err)
		}
		r := &store.DateRange{Start: &start}
		if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
			end, err := time.ParseInLocation(isoDay, strings.TrimSpace(parts[1]), loc)
			if err != nil {
				return p, fmt.Errorf("invalid range end: %w", err)
			}
			r.End = &end
		}
		return p.SelectedRange(r).CursorMonth(start), nil

	case ModeMulti:
		var dates []time.Time
		for _, part := range strings.Split(value, ",") {
			d, err := time.ParseInLocation(isoDay, strings.TrimSpace(part), loc)
			if err != nil {
				return p, fmt.Errorf("invalid date in list: %w", err)
			}
			dates = append(dates, d)
		}
		return p.SelectedDates(dates).CursorMonth(dates[0]), nil

	default:
		if t, err := time.ParseInLocation("2006-01-02 15:04:05", value, loc); err == nil {
			d := datetime.StartOfDay(t)
			tod := datetime.TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
			return p.SelectedDate(&d).SelectedTime(&tod).CursorMonth(d), nil
		}
		d, err := time.ParseInLocation(isoDay, value, loc)
		if err != nil {
			return p, fmt.Errorf("invalid date: %w", err)
		}
		return p.SelectedDate(&d).CursorMonth(d), nil
	}
}

// SelectionChanged reports whether any selection-bearing field is in
// the change set. The value-bar synchronizer keys off this predicate.
func SelectionChanged(cs store.ChangeSet) bool {
	return cs.Any(
		store.FieldSelectedDate,
		store.FieldSelectedRange,
		store.FieldSelectedDates,
		store.FieldSelectedTime,
	)
}
