package picker

import (
	"testing"
	"time"

	"github.com/keenthemes/ktui-picker/internal/datetime"
	"github.com/keenthemes/ktui-picker/internal/store"
)

func testClock() time.Time {
	return time.Date(2024, time.March, 15, 10, 30, 45, 0, time.UTC)
}

func newTestInput(t *testing.T, format string) (*Input, *store.Store) {
	t.Helper()
	layout, err := datetime.CompileLayout(format)
	if err != nil {
		t.Fatalf("CompileLayout(%q) failed: %v", format, err)
	}
	st := store.New(store.WithClock(testClock), store.WithoutBatching())
	in := NewInput(layout, st,
		WithInputClock(testClock),
		WithPropagateDelay(0))
	return in, st
}

func segmentTexts(in *Input) []string {
	var out []string
	for _, s := range in.Segments() {
		out = append(out, s.Text())
	}
	return out
}

func TestNewInputBuildsSegmentsInLayoutOrder(t *testing.T) {
	in, _ := newTestInput(t, "yyyy-MM-dd")

	segs := in.Segments()
	if len(segs) != 3 {
		t.Fatalf("Expected 3 segments, got %d", len(segs))
	}

	want := []datetime.SegmentKind{datetime.SegYear, datetime.SegMonth, datetime.SegDay}
	for i, k := range want {
		if segs[i].Kind != k {
			t.Errorf("Segment %d: expected %s, got %s", i, k, segs[i].Kind)
		}
	}

	texts := segmentTexts(in)
	if texts[0] != "2024" || texts[1] != "03" || texts[2] != "15" {
		t.Errorf("Expected initial texts from clock, got %v", texts)
	}
}

func TestTypingDigitsAccumulatesAndPropagates(t *testing.T) {
	in, st := newTestInput(t, "yyyy-MM-dd")

	in.Focus(2) // day
	in.InputDigit('2')
	in.InputDigit('1')

	snap := st.GetState()
	if snap.SelectedDate == nil {
		t.Fatal("Expected typed day to propagate to the store")
	}
	if snap.SelectedDate.Day() != 21 {
		t.Errorf("Expected day 21, got %d", snap.SelectedDate.Day())
	}
}

func TestTypingCapsBufferAtWidthKeepingNewest(t *testing.T) {
	in, _ := newTestInput(t, "yyyy-MM-dd")

	in.Focus(0) // year
	for _, d := range "20251" {
		in.InputDigit(d)
	}

	// Five digits into a four-wide field: the oldest digit falls off.
	if got := in.Segments()[0].Text(); got != "0251" {
		t.Errorf("Expected buffer capped to newest four digits (0251), got %q", got)
	}
}

func TestTypingClampsAboveMaximum(t *testing.T) {
	in, st := newTestInput(t, "yyyy-MM-dd")

	in.Focus(1) // month
	in.InputDigit('1')
	in.InputDigit('9') // 19 > 12

	if got := in.Segments()[1].Text(); got != "12" {
		t.Errorf("Expected month clamped to 12, got %q", got)
	}
	snap := st.GetState()
	if snap.SelectedDate == nil || snap.SelectedDate.Month() != time.December {
		t.Error("Expected clamped month to reach the store")
	}
}

func TestDayMaximumTracksBufferedMonth(t *testing.T) {
	in, _ := newTestInput(t, "yyyy-MM-dd")

	// Move to February first, then type a too-large day.
	in.Focus(1)
	in.InputDigit('0')
	in.InputDigit('2')
	in.Focus(2)
	in.InputDigit('3')
	in.InputDigit('1')

	// 2024 is a leap year: 31 clamps to 29.
	if got := in.Segments()[2].Text(); got != "29" {
		t.Errorf("Expected day clamped to February length, got %q", got)
	}
}

func TestEditingMonthClampsExistingDay(t *testing.T) {
	in, st := newTestInput(t, "yyyy-MM-dd")

	// Day 31, then month 04 (April has 30 days).
	in.Focus(2)
	in.InputDigit('3')
	in.InputDigit('1')
	in.Focus(1)
	in.InputDigit('0')
	in.InputDigit('4')

	snap := st.GetState()
	if snap.SelectedDate == nil {
		t.Fatal("Expected propagated date")
	}
	if snap.SelectedDate.Month() != time.April || snap.SelectedDate.Day() != 30 {
		t.Errorf("Expected Apr 30, got %s", snap.SelectedDate.Format("2006-01-02"))
	}
}

func TestLowPrefixIsNotClampedWhileTyping(t *testing.T) {
	in, _ := newTestInput(t, "yyyy-MM-dd")

	in.Focus(2)
	in.InputDigit('0')

	// "0" is below the day minimum but may be the prefix of "07";
	// the buffer must stay as typed.
	if got := in.Segments()[2].Text(); got != "0" {
		t.Errorf("Expected buffer to keep low prefix, got %q", got)
	}
}

func TestArrowStepWrapsWithinRange(t *testing.T) {
	in, st := newTestInput(t, "yyyy-MM-dd")

	in.Focus(1) // month, currently March
	for i := 0; i < 10; i++ {
		in.StepUp()
	}
	// March + 10 = January (wraps 12 -> 1)
	snap := st.GetState()
	if snap.SelectedDate == nil || snap.SelectedDate.Month() != time.January {
		t.Errorf("Expected month to wrap to January, got %v", snap.SelectedDate)
	}

	in.StepDown()
	snap = st.GetState()
	if snap.SelectedDate.Month() != time.December {
		t.Errorf("Expected wrap back to December, got %s", snap.SelectedDate.Month())
	}
}

func TestArrowStepSaturatesYear(t *testing.T) {
	in, st := newTestInput(t, "yyyy-MM-dd")

	in.Focus(0)
	for _, d := range "9999" {
		in.InputDigit(d)
	}
	in.StepUp()
	snap := st.GetState()
	if snap.SelectedDate == nil || snap.SelectedDate.Year() != 9999 {
		t.Errorf("Expected year to stay at 9999, got %v", snap.SelectedDate)
	}

	for _, d := range "0001" {
		in.InputDigit(d)
	}
	in.StepDown()
	snap = st.GetState()
	if snap.SelectedDate.Year() != 1 {
		t.Errorf("Expected year to stay at 1, got %d", snap.SelectedDate.Year())
	}
}

func TestArrowStepWritesThroughImmediatelyWithArrowSource(t *testing.T) {
	in, st := newTestInput(t, "yyyy-MM-dd")

	in.Focus(2)
	in.StepUp()

	if st.LastSource() != store.SourceArrowNav {
		t.Errorf("Expected arrow-nav source, got %q", st.LastSource())
	}
	snap := st.GetState()
	if snap.SelectedDate == nil || snap.SelectedDate.Day() != 16 {
		t.Error("Expected day 16 committed immediately on arrow step")
	}
}

func TestNavigationMovesFocusWithWrap(t *testing.T) {
	in, _ := newTestInput(t, "yyyy-MM-dd")

	in.Focus(0)
	in.Next()
	if in.FocusedSegment() != 1 {
		t.Errorf("Expected focus 1, got %d", in.FocusedSegment())
	}
	in.Next()
	in.Next() // wraps
	if in.FocusedSegment() != 0 {
		t.Errorf("Expected wrap to 0, got %d", in.FocusedSegment())
	}
	in.Prev() // wraps backward
	if in.FocusedSegment() != 2 {
		t.Errorf("Expected wrap to 2, got %d", in.FocusedSegment())
	}
}

func TestBlurWithoutChangeIsSilent(t *testing.T) {
	in, st := newTestInput(t, "yyyy-MM-dd")

	d := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	st.Update(store.NewPartial().SelectedDate(&d), store.SourceProgram, true)
	in.ApplyState(st.GetState(), store.SourceProgram)
	before := st.LastChanges()

	in.Focus(2)
	in.Blur()

	if st.LastChanges().Len() != before.Len() {
		t.Error("Expected no change event from a no-op blur")
	}
}

func TestExternalRerenderPreservesFocusAndCaret(t *testing.T) {
	in, st := newTestInput(t, "yyyy-MM-dd")

	in.Focus(2) // day segment
	in.InputDigit('2')

	// An unrelated commit re-renders the input while the day edit is in
	// progress; the year text updates but focus and caret stay put.
	y := time.Date(2030, time.June, 1, 0, 0, 0, 0, time.UTC)
	st.Update(store.NewPartial().CursorMonth(y), store.SourceProgram, true)
	in.ApplyState(st.GetState(), store.SourceProgram)

	if in.FocusedSegment() != 2 {
		t.Errorf("Expected focus to stay on day segment, got %d", in.FocusedSegment())
	}
	if in.CaretOffset() != 1 {
		t.Errorf("Expected caret pinned after one typed digit, got %d", in.CaretOffset())
	}

	in.InputDigit('5')
	if got := in.Segments()[2].Text(); got != "25" {
		t.Errorf("Expected edit to continue with buffer 25, got %q", got)
	}
	if in.CaretOffset() != 2 {
		t.Errorf("Expected caret at end of buffer, got %d", in.CaretOffset())
	}
}

func TestApplyStateSkipsOwnWriteBacks(t *testing.T) {
	in, st := newTestInput(t, "yyyy-MM-dd")

	in.Focus(2)
	in.InputDigit('2')
	in.InputDigit('0')

	// The store notification caused by segment propagation comes back
	// with the segment source and must not rebuild the edit.
	in.ApplyState(st.GetState(), store.SourceSegment)
	if got := in.Segments()[2].Text(); got != "20" {
		t.Errorf("Expected buffer untouched by own write-back, got %q", got)
	}

	in.ApplyState(st.GetState(), store.SourceArrowNav)
	if in.FocusedSegment() != 2 {
		t.Error("Expected arrow-nav notifications to leave the gesture alone")
	}
}

func TestDebouncedPropagationCoalesces(t *testing.T) {
	layout, err := datetime.CompileLayout("yyyy-MM-dd")
	if err != nil {
		t.Fatalf("CompileLayout failed: %v", err)
	}
	st := store.New(store.WithClock(testClock), store.WithoutBatching())
	in := NewInput(layout, st,
		WithInputClock(testClock),
		WithPropagateDelay(30*time.Millisecond))

	in.Focus(2)
	in.InputDigit('2')
	in.InputDigit('1')

	if st.GetState().SelectedDate != nil {
		t.Fatal("Expected nothing committed inside the debounce window")
	}

	time.Sleep(90 * time.Millisecond)

	snap := st.GetState()
	if snap.SelectedDate == nil || snap.SelectedDate.Day() != 21 {
		t.Errorf("Expected one debounced commit with day 21, got %v", snap.SelectedDate)
	}
}

func TestTwelveHourSegmentsAndMeridiemToggle(t *testing.T) {
	in, st := newTestInput(t, "yyyy-MM-dd hh:mm a")

	segs := in.Segments()
	last := segs[len(segs)-1]
	if last.Kind != datetime.SegMeridiem {
		t.Fatalf("Expected trailing meridiem segment, got %s", last.Kind)
	}

	// Clock is 10:30 -> displayed hour 10 AM.
	hourIdx := 3
	if got := segs[hourIdx].Text(); got != "10" {
		t.Errorf("Expected 12-hour text 10, got %q", got)
	}
	if last.Text() != "AM" {
		t.Errorf("Expected AM, got %q", last.Text())
	}

	in.Focus(len(segs) - 1)
	in.StepUp() // toggles meridiem

	snap := st.GetState()
	if snap.SelectedTime == nil || snap.SelectedTime.Hour != 22 {
		t.Errorf("Expected stored 24-hour value 22 after toggle, got %v", snap.SelectedTime)
	}
	if got := in.Segments()[hourIdx].Text(); got != "10" {
		t.Errorf("Expected displayed hour to stay 10 after toggle, got %q", got)
	}
}

func TestHourEditingInTwelveHourModeStoresCanonical(t *testing.T) {
	in, st := newTestInput(t, "yyyy-MM-dd hh:mm a")

	// Clock is 10:30 AM. Typing hour 09 keeps AM -> canonical 9.
	in.Focus(3)
	in.InputDigit('0')
	in.InputDigit('9')

	snap := st.GetState()
	if snap.SelectedTime == nil || snap.SelectedTime.Hour != 9 {
		t.Errorf("Expected canonical hour 9, got %v", snap.SelectedTime)
	}
}

func TestSegmentInfoExposesBounds(t *testing.T) {
	in, _ := newTestInput(t, "yyyy-MM-dd HH:mm")

	cases := []struct {
		idx      int
		kind     datetime.SegmentKind
		min, max int
	}{
		{0, datetime.SegYear, 1, 9999},
		{1, datetime.SegMonth, 1, 12},
		{2, datetime.SegDay, 1, 31}, // March
		{3, datetime.SegHour, 0, 23},
		{4, datetime.SegMinute, 0, 59},
	}

	for _, tc := range cases {
		info := in.Info(tc.idx)
		if info.Kind != tc.kind {
			t.Errorf("Segment %d: expected kind %s, got %s", tc.idx, tc.kind, info.Kind)
		}
		if info.Min != tc.min || info.Max != tc.max {
			t.Errorf("Segment %s: expected bounds [%d,%d], got [%d,%d]",
				tc.kind, tc.min, tc.max, info.Min, info.Max)
		}
	}
}
