package datetime

import (
	"testing"
	"time"
)

func TestDayKeyIgnoresTimeOfDay(t *testing.T) {
	leap := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)
	lateLeap := time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC)

	if DayKey(leap) != DayKey(lateLeap) {
		t.Errorf("Expected same day key for same calendar day, got %d and %d",
			DayKey(leap), DayKey(lateLeap))
	}

	if DayKey(leap) != 20240229 {
		t.Errorf("Expected key 20240229, got %d", DayKey(leap))
	}
}

func TestDayKeyDiffersAcrossComponents(t *testing.T) {
	base := time.Date(2024, time.February, 29, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		other time.Time
	}{
		{"year", time.Date(2025, time.February, 28, 12, 0, 0, 0, time.UTC)},
		{"month", time.Date(2024, time.March, 29, 12, 0, 0, 0, time.UTC)},
		{"day", time.Date(2024, time.February, 28, 12, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if DayKey(base) == DayKey(tc.other) {
				t.Errorf("Expected different day keys for %s change", tc.name)
			}
		})
	}
}

func TestDayKeyOrders(t *testing.T) {
	a := time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC)
	b := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	if DayKey(a) >= DayKey(b) {
		t.Errorf("Expected key ordering to follow day ordering: %d vs %d", DayKey(a), DayKey(b))
	}
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2024, time.January, 31},
		{2100, time.February, 28}, // century non-leap
	}

	for _, tc := range cases {
		if got := DaysInMonth(tc.year, tc.month); got != tc.want {
			t.Errorf("DaysInMonth(%d, %s) = %d, want %d", tc.year, tc.month, got, tc.want)
		}
	}
}

func TestClampDay(t *testing.T) {
	if got := ClampDay(2023, time.February, 31); got != 28 {
		t.Errorf("Expected 31 clamped to 28, got %d", got)
	}
	if got := ClampDay(2024, time.February, 29); got != 29 {
		t.Errorf("Expected 29 preserved in a leap year, got %d", got)
	}
	if got := ClampDay(2024, time.February, 0); got != 1 {
		t.Errorf("Expected 0 clamped to 1, got %d", got)
	}
}

func TestTimeOfDayTwelveHourMapping(t *testing.T) {
	cases := []struct {
		hour     int
		hour12   int
		meridiem string
	}{
		{0, 12, "AM"},
		{1, 1, "AM"},
		{11, 11, "AM"},
		{12, 12, "PM"},
		{13, 1, "PM"},
		{23, 11, "PM"},
	}

	for _, tc := range cases {
		tod := TimeOfDay{Hour: tc.hour}
		if tod.Hour12() != tc.hour12 {
			t.Errorf("Hour12(%d) = %d, want %d", tc.hour, tod.Hour12(), tc.hour12)
		}
		if tod.Meridiem() != tc.meridiem {
			t.Errorf("Meridiem(%d) = %s, want %s", tc.hour, tod.Meridiem(), tc.meridiem)
		}
	}
}

func TestTimeOfDayToggleMeridiem(t *testing.T) {
	tod := TimeOfDay{Hour: 9, Minute: 30}
	flipped := tod.ToggleMeridiem()
	if flipped.Hour != 21 {
		t.Errorf("Expected 9 AM toggled to 21, got %d", flipped.Hour)
	}
	if back := flipped.ToggleMeridiem(); back.Hour != 9 {
		t.Errorf("Expected toggle to round-trip, got %d", back.Hour)
	}
}
