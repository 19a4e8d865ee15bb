package picker

import (
	"testing"
	"time"

	"github.com/keenthemes/ktui-picker/internal/datetime"
	"github.com/keenthemes/ktui-picker/internal/store"
)

func gridSnapshot(t *testing.T, st *store.Store) store.Snapshot {
	t.Helper()
	return st.GetState()
}

func newGridStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(store.WithClock(testClock), store.WithoutBatching())
}

func countTabbable(g Grid) int {
	n := 0
	for _, w := range g.Weeks {
		for _, c := range w {
			if c.Tabbable {
				n++
			}
		}
	}
	return n
}

func findCell(g Grid, day time.Time) *Cell {
	key := datetime.DayKey(day)
	for wi := range g.Weeks {
		for ci := range g.Weeks[wi] {
			if datetime.DayKey(g.Weeks[wi][ci].Date) == key {
				return &g.Weeks[wi][ci]
			}
		}
	}
	return nil
}

func TestBuildGridCoversWholeWeeks(t *testing.T) {
	st := newGridStore(t)
	g := BuildGrid(gridSnapshot(t, st), nil, testClock(), GridConfig{WeekStart: time.Monday})

	// March 2024 starts on a Friday and ends on a Sunday; with Monday
	// start that is exactly 5 whole weeks: Feb 26 through Mar 31.
	if len(g.Weeks) != 5 {
		t.Fatalf("Expected 5 weeks for March 2024, got %d", len(g.Weeks))
	}
	for wi, w := range g.Weeks {
		if len(w) != 7 {
			t.Errorf("Week %d: expected 7 cells, got %d", wi, len(w))
		}
	}

	first := g.Weeks[0][0]
	if first.Date.Month() != time.February || first.Date.Day() != 26 {
		t.Errorf("Expected leading fill to start Feb 26, got %s", first.Date.Format("2006-01-02"))
	}
	if first.InMonth {
		t.Error("Leading fill cells must not be marked in-month")
	}

	last := g.Weeks[4][6]
	if last.Date.Month() != time.March || last.Date.Day() != 31 {
		t.Errorf("Expected grid to end Mar 31, got %s", last.Date.Format("2006-01-02"))
	}
}

func TestGridMarksTodayAndSelection(t *testing.T) {
	st := newGridStore(t)
	d := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	st.Update(store.NewPartial().SelectedDate(&d), store.SourceProgram, true)

	g := BuildGrid(gridSnapshot(t, st), nil, testClock(), GridConfig{WeekStart: time.Monday})

	today := findCell(g, testClock())
	if today == nil || !today.IsToday {
		t.Error("Expected today's cell to be marked")
	}

	sel := findCell(g, d)
	if sel == nil || !sel.IsSelected {
		t.Error("Expected the selected day's cell to be marked")
	}
}

func TestGridRangeIsInclusiveByDayKey(t *testing.T) {
	st := newGridStore(t)
	start := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 14, 23, 30, 0, 0, time.UTC)
	st.Update(store.NewPartial().SelectedRange(&store.DateRange{Start: &start, End: &end}),
		store.SourceProgram, true)

	g := BuildGrid(gridSnapshot(t, st), nil, testClock(), GridConfig{WeekStart: time.Monday})

	for day := 10; day <= 14; day++ {
		c := findCell(g, time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC))
		if c == nil || !c.InRange {
			t.Errorf("Expected Mar %d in range despite differing times of day", day)
		}
	}
	for _, day := range []int{9, 15} {
		c := findCell(g, time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC))
		if c != nil && c.InRange {
			t.Errorf("Expected Mar %d outside the range", day)
		}
	}

	if s := findCell(g, start); s == nil || !s.IsSelected {
		t.Error("Expected range endpoints marked selected")
	}
}

func TestGridExactlyOneTabbable(t *testing.T) {
	st := newGridStore(t)

	// No selection: today is tabbable.
	g := BuildGrid(gridSnapshot(t, st), nil, testClock(), GridConfig{WeekStart: time.Monday})
	if countTabbable(g) != 1 {
		t.Fatalf("Expected exactly one tabbable cell, got %d", countTabbable(g))
	}
	if c := findCell(g, testClock()); c == nil || !c.Tabbable {
		t.Error("Expected today to be the tabbable cell with no selection")
	}

	// Selection wins over today.
	d := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	st.Update(store.NewPartial().SelectedDate(&d), store.SourceProgram, true)
	g = BuildGrid(gridSnapshot(t, st), nil, testClock(), GridConfig{WeekStart: time.Monday})
	if countTabbable(g) != 1 {
		t.Fatalf("Expected exactly one tabbable cell, got %d", countTabbable(g))
	}
	if c := findCell(g, d); c == nil || !c.Tabbable {
		t.Error("Expected the selected day to be tabbable")
	}
}

func TestGridTabbableFallsBackWhenTargetInvisible(t *testing.T) {
	st := newGridStore(t)
	d := time.Date(2023, time.November, 5, 0, 0, 0, 0, time.UTC)
	// Selection far outside the displayed month; cursor stays on March.
	st.Update(store.NewPartial().SelectedDate(&d), store.SourceProgram, true)

	g := BuildGrid(gridSnapshot(t, st), nil, testClock(), GridConfig{WeekStart: time.Monday})
	if countTabbable(g) != 1 {
		t.Errorf("Expected exactly one tabbable cell even with off-grid selection, got %d",
			countTabbable(g))
	}
}

func TestGridRangePreviewIsOrderIndependent(t *testing.T) {
	st := newGridStore(t)
	start := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	st.Update(store.NewPartial().SelectedRange(&store.DateRange{Start: &start}),
		store.SourceProgram, true)

	// Hover earlier than start: span still contiguous.
	hover := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	g := BuildGrid(gridSnapshot(t, st), &hover, testClock(), GridConfig{WeekStart: time.Monday})

	for day := 10; day <= 15; day++ {
		c := findCell(g, time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC))
		if c == nil || !c.InPreview {
			t.Errorf("Expected Mar %d in hover preview", day)
		}
	}
	if c := findCell(g, time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)); c != nil && c.InPreview {
		t.Error("Expected Mar 9 outside the preview")
	}

	// Committed state untouched by hovering.
	snap := st.GetState()
	if snap.SelectedRange.End != nil {
		t.Error("Hover preview must not mutate committed state")
	}
}

func TestGridNoPreviewOnceRangeComplete(t *testing.T) {
	st := newGridStore(t)
	start := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC)
	st.Update(store.NewPartial().SelectedRange(&store.DateRange{Start: &start, End: &end}),
		store.SourceProgram, true)

	hover := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	g := BuildGrid(gridSnapshot(t, st), &hover, testClock(), GridConfig{WeekStart: time.Monday})

	if c := findCell(g, hover); c != nil && c.InPreview {
		t.Error("Expected no preview once the range is complete")
	}
}

func TestGridDisablesOutOfWindowCells(t *testing.T) {
	st := newGridStore(t)
	min := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	max := time.Date(2024, time.March, 25, 0, 0, 0, 0, time.UTC)

	g := BuildGrid(gridSnapshot(t, st), nil, testClock(),
		GridConfig{WeekStart: time.Monday, MinDate: &min, MaxDate: &max})

	if c := findCell(g, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)); c == nil || !c.Disabled {
		t.Error("Expected Mar 4 disabled below the minimum")
	}
	if c := findCell(g, time.Date(2024, time.March, 26, 0, 0, 0, 0, time.UTC)); c == nil || !c.Disabled {
		t.Error("Expected Mar 26 disabled above the maximum")
	}
	if c := findCell(g, min); c == nil || c.Disabled {
		t.Error("Expected the minimum day itself selectable")
	}
}

func TestHoverTrackerDebouncesClear(t *testing.T) {
	h := NewHoverTracker(30 * time.Millisecond)
	defer h.Stop()

	day := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	h.Enter(day)
	h.Leave()

	// Re-entering an adjacent cell inside the window cancels the clear.
	next := day.AddDate(0, 0, 1)
	h.Enter(next)
	time.Sleep(60 * time.Millisecond)

	got := h.Hover()
	if got == nil || !got.Equal(next) {
		t.Error("Expected hover preserved when re-entering within the debounce window")
	}

	h.Leave()
	time.Sleep(60 * time.Millisecond)
	if h.Hover() != nil {
		t.Error("Expected hover cleared after leaving the grid for good")
	}
}

func TestBuildMonthsAndYears(t *testing.T) {
	st := newGridStore(t)
	snap := gridSnapshot(t, st)

	months := BuildMonths(snap, testClock())
	if len(months) != 12 {
		t.Fatalf("Expected 12 months, got %d", len(months))
	}
	if !months[int(time.March)-1].IsCursor {
		t.Error("Expected March marked as cursor month")
	}

	years := BuildYears(snap, testClock())
	if len(years) != 12 {
		t.Fatalf("Expected 12 years, got %d", len(years))
	}
	foundCursor := false
	for _, y := range years {
		if y.Year == 2024 && y.IsCursor {
			foundCursor = true
		}
	}
	if !foundCursor {
		t.Error("Expected 2024 marked as cursor year")
	}
}
