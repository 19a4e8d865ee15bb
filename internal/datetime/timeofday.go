package datetime

import "fmt"

// Granularity controls how much of the time-of-day is editable.
type Granularity int

const (
	GranularityHour Granularity = iota
	GranularityMinute
	GranularitySecond
)

// ParseGranularity reads a granularity name from configuration.
func ParseGranularity(s string) (Granularity, bool) {
	switch s {
	case "hour":
		return GranularityHour, true
	case "minute", "":
		return GranularityMinute, true
	case "second":
		return GranularitySecond, true
	default:
		return GranularityMinute, false
	}
}

// TimeOfDay is a wall-clock time. Hour is always stored in 24-hour form;
// 12-hour display is a rendering concern only.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// Valid reports whether every component is in range.
func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 &&
		t.Minute >= 0 && t.Minute <= 59 &&
		t.Second >= 0 && t.Second <= 59
}

// Hour12 returns the hour mapped onto a 12-hour clock (1-12).
func (t TimeOfDay) Hour12() int {
	h := t.Hour % 12
	if h == 0 {
		h = 12
	}
	return h
}

// Meridiem returns "AM" or "PM" for the stored 24-hour value.
func (t TimeOfDay) Meridiem() string {
	if t.Hour >= 12 {
		return "PM"
	}
	return "AM"
}

// WithHour12 returns a copy with the 24-hour value rewritten from a
// 12-hour clock reading, keeping the current meridiem.
func (t TimeOfDay) WithHour12(hour12 int) TimeOfDay {
	h := hour12 % 12
	if t.Hour >= 12 {
		h += 12
	}
	t.Hour = h
	return t
}

// ToggleMeridiem flips AM/PM by shifting the stored hour twelve hours.
func (t TimeOfDay) ToggleMeridiem() TimeOfDay {
	if t.Hour >= 12 {
		t.Hour -= 12
	} else {
		t.Hour += 12
	}
	return t
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}
