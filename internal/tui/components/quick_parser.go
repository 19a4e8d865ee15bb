package components

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/keenthemes/ktui-picker/internal/datetime"
)

// ParseQuickDate parses quick-entry shorthand against the configured
// display layout. Supported forms:
//   - the layout's own format ("2024-03-15" under yyyy-MM-dd)
//   - "t" / "today", "tm" / "tomorrow", "yd" / "yesterday"
//   - "mon".."sun" for the next occurrence of that weekday
//   - "+3d" / "-3d", "+2w" / "-2w", "+1m" / "-1m" offsets from today
func ParseQuickDate(input string, layout datetime.Layout, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return time.Time{}, fmt.Errorf("empty input")
	}

	switch input {
	case "t", "today":
		return datetime.StartOfDay(now), nil
	case "tm", "tomorrow":
		return datetime.StartOfDay(now.AddDate(0, 0, 1)), nil
	case "yd", "yesterday":
		return datetime.StartOfDay(now.AddDate(0, 0, -1)), nil
	}

	if t, ok := parseOffset(input, now); ok {
		return t, nil
	}

	if wd, ok := quickWeekdays[input]; ok {
		days := int(wd - now.Weekday())
		if days <= 0 {
			days += 7
		}
		return datetime.StartOfDay(now.AddDate(0, 0, days)), nil
	}

	parsed, err := layout.Parse(input, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q: %w", input, err)
	}
	return parsed, nil
}

var quickWeekdays = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

// parseOffset handles signed day, week, and month offsets such as
// "+3d", "-2w" and "+1m".
func parseOffset(input string, now time.Time) (time.Time, bool) {
	if len(input) < 3 {
		return time.Time{}, false
	}
	sign := 1
	switch input[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return time.Time{}, false
	}
	unit := input[len(input)-1]
	n, err := strconv.Atoi(input[1 : len(input)-1])
	if err != nil || n == 0 {
		return time.Time{}, false
	}
	n *= sign
	switch unit {
	case 'd':
		return datetime.StartOfDay(now.AddDate(0, 0, n)), true
	case 'w':
		return datetime.StartOfDay(now.AddDate(0, 0, n*7)), true
	case 'm':
		return datetime.StartOfDay(now.AddDate(0, n, 0)), true
	}
	return time.Time{}, false
}

// DescribeDate returns a short human description of a date relative
// to now, shown as the quick-entry preview.
func DescribeDate(date, now time.Time) string {
	daysDiff := int(datetime.StartOfDay(date).Sub(datetime.StartOfDay(now)).Hours() / 24)

	switch daysDiff {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	case -1:
		return "yesterday"
	}
	if daysDiff > 1 && daysDiff < 7 {
		return date.Weekday().String()
	}
	if daysDiff >= 7 && daysDiff < 28 && daysDiff%7 == 0 {
		if daysDiff == 7 {
			return "in 1 week"
		}
		return fmt.Sprintf("in %d weeks", daysDiff/7)
	}
	if daysDiff < 0 && daysDiff > -7 {
		return fmt.Sprintf("%d days ago", -daysDiff)
	}
	return date.Format("Jan 2, 2006")
}
