// Package picker holds the pure widget logic: the segmented editable
// input, the calendar grid builder, selection operations, and the form
// value serializer. Nothing in here renders; the tui package maps this
// onto the screen.
package picker

import (
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/keenthemes/ktui-picker/internal/datetime"
	"github.com/keenthemes/ktui-picker/internal/logger"
	"github.com/keenthemes/ktui-picker/internal/store"
)

// SegmentState is the per-segment editing state machine.
type SegmentState int

const (
	SegmentIdle SegmentState = iota
	SegmentFocused
	SegmentEditing
	SegmentNavigating
)

// PropagateDelay is the debounce applied to digit-typing before the
// composite value is pushed into the store.
const PropagateDelay = 150 * time.Millisecond

// Segment is one focusable, independently editable date/time cell.
type Segment struct {
	Kind   datetime.SegmentKind
	text   string
	buffer string
	state  SegmentState
}

// Text returns the segment's display text. While the user is mid-edit
// the local buffer is authoritative, otherwise the committed value is.
func (s *Segment) Text() string {
	if s.state == SegmentEditing && s.buffer != "" {
		return s.buffer
	}
	return s.text
}

// State returns the segment's editing state.
func (s *Segment) State() SegmentState { return s.state }

// SegmentInfo is the accessibility/testing contract for one segment:
// its kind, current numeric value and valid range, independent of how
// the segment is styled.
type SegmentInfo struct {
	Kind    datetime.SegmentKind
	Text    string
	Value   int
	Min     int
	Max     int
	Focused bool
}

// Input is the segmented editable input. It owns keyboard navigation,
// digit accumulation, caret and focus preservation across re-renders,
// and debounced propagation of completed edits into the store.
type Input struct {
	mu sync.Mutex

	layout   datetime.Layout
	segments []*Segment
	focus    int

	// value is the composite date/time implied by the segments right
	// now; committed mirrors the store's last applied value.
	value     time.Time
	committed time.Time

	st    *store.Store
	clock func() time.Time
	log   *slog.Logger

	propagateDelay time.Duration
	propagateTimer *time.Timer
}

// InputOption configures an Input.
type InputOption func(*Input)

// WithInputClock injects the time source used for the initial value.
func WithInputClock(clock func() time.Time) InputOption {
	return func(in *Input) { in.clock = clock }
}

// WithPropagateDelay overrides the typing debounce (tests use 0).
func WithPropagateDelay(d time.Duration) InputOption {
	return func(in *Input) { in.propagateDelay = d }
}

// WithInputLogger injects the structured logger.
func WithInputLogger(log *slog.Logger) InputOption {
	return func(in *Input) { in.log = log }
}

// NewInput builds the segment list from the compiled layout. Segments
// that the granularity excludes are filtered out by the caller through
// the layout it compiles.
func NewInput(layout datetime.Layout, st *store.Store, opts ...InputOption) *Input {
	in := &Input{
		layout:         layout,
		st:             st,
		focus:          -1,
		clock:          time.Now,
		propagateDelay: PropagateDelay,
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.log == nil {
		in.log = logger.GetLogger()
	}
	for _, kind := range layout.Segments() {
		in.segments = append(in.segments, &Segment{Kind: kind})
	}
	in.value = in.clock()
	in.committed = in.value
	in.rebuildTexts(-1)
	return in
}

// Layout returns the compiled layout the input renders.
func (in *Input) Layout() datetime.Layout { return in.layout }

// Segments returns the segments in display order. Callers must treat
// them as read-only.
func (in *Input) Segments() []*Segment {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make([]*Segment, len(in.segments))
	copy(out, in.segments)
	return out
}

// Info returns the contract view of segment i.
func (in *Input) Info(i int) SegmentInfo {
	in.mu.Lock()
	defer in.mu.Unlock()
	seg := in.segments[i]
	min, max := in.boundsLocked(seg.Kind)
	return SegmentInfo{
		Kind:    seg.Kind,
		Text:    seg.Text(),
		Value:   in.componentLocked(seg.Kind),
		Min:     min,
		Max:     max,
		Focused: i == in.focus,
	}
}

// FocusedSegment returns the index of the focused segment, -1 if none.
func (in *Input) FocusedSegment() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.focus
}

// CaretOffset returns the caret position inside the focused segment.
// The caret is always pinned to the end of the visible text.
func (in *Input) CaretOffset() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.focus < 0 {
		return 0
	}
	return len(in.segments[in.focus].Text())
}

// Value returns the composite date/time the segments currently imply.
func (in *Input) Value() time.Time {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.value
}

// Focus moves focus onto segment i, blurring any previous segment.
func (in *Input) Focus(i int) {
	in.mu.Lock()
	if i < 0 || i >= len(in.segments) || i == in.focus {
		in.mu.Unlock()
		return
	}
	pending := in.blurLocked()
	in.focus = i
	in.segments[i].state = SegmentFocused
	in.mu.Unlock()
	if pending {
		in.propagateNow(store.SourceSegment)
	}
}

// Blur drops focus entirely, committing any in-progress edit whose
// value differs from the last committed one.
func (in *Input) Blur() {
	in.mu.Lock()
	pending := in.blurLocked()
	in.focus = -1
	in.mu.Unlock()
	if pending {
		in.propagateNow(store.SourceSegment)
	}
}

// blurLocked finishes the focused segment's edit. It reports whether a
// changed value still needs to be propagated.
func (in *Input) blurLocked() bool {
	if in.focus < 0 {
		return false
	}
	seg := in.segments[in.focus]
	wasEditing := seg.state == SegmentEditing
	seg.state = SegmentIdle
	seg.buffer = ""
	in.rebuildTextsLocked(-1)
	if !wasEditing {
		return false
	}
	if in.propagateTimer != nil {
		in.propagateTimer.Stop()
		in.propagateTimer = nil
	}
	// Unchanged edits stay silent so no redundant change event fires.
	return !in.value.Equal(in.committed)
}

// Next moves focus forward, wrapping at the end.
func (in *Input) Next() { in.move(1) }

// Prev moves focus backward, wrapping at the start.
func (in *Input) Prev() { in.move(-1) }

func (in *Input) move(delta int) {
	in.mu.Lock()
	if len(in.segments) == 0 {
		in.mu.Unlock()
		return
	}
	pending := in.blurLocked()
	if in.focus < 0 {
		in.focus = 0
	} else {
		in.focus = (in.focus + delta + len(in.segments)) % len(in.segments)
	}
	in.segments[in.focus].state = SegmentFocused
	in.mu.Unlock()
	if pending {
		in.propagateNow(store.SourceSegment)
	}
}

// InputDigit appends one typed digit to the focused segment's buffer.
// The buffer is capped at the segment's width keeping the newest
// digits; a result above the segment's maximum is clamped down at once,
// while a low prefix (e.g. "0" on the way to "07") is left alone until
// the edit completes. Propagation into the store is debounced.
func (in *Input) InputDigit(d rune) {
	if d < '0' || d > '9' {
		return
	}
	in.mu.Lock()
	if in.focus < 0 {
		in.mu.Unlock()
		return
	}
	seg := in.segments[in.focus]
	if seg.Kind == datetime.SegMeridiem {
		in.mu.Unlock()
		return
	}
	if seg.state != SegmentEditing {
		seg.state = SegmentEditing
		seg.buffer = ""
	}
	seg.buffer += string(d)
	if w := seg.Kind.Width(); len(seg.buffer) > w {
		seg.buffer = seg.buffer[len(seg.buffer)-w:]
	}

	n, _ := strconv.Atoi(seg.buffer)
	min, max := in.boundsLocked(seg.Kind)
	if n > max {
		n = max
		seg.buffer = strconv.Itoa(n)
	}
	if n >= min {
		in.setComponentLocked(seg.Kind, n)
	}
	in.mu.Unlock()

	in.schedulePropagate()
}

// StepUp increments the focused segment by one, wrapping in its range
// (years saturate instead), and writes through to the store immediately
// so dependent UI follows the gesture live.
func (in *Input) StepUp() { in.step(1) }

// StepDown decrements the focused segment by one, wrapping.
func (in *Input) StepDown() { in.step(-1) }

func (in *Input) step(delta int) {
	in.mu.Lock()
	if in.focus < 0 {
		in.mu.Unlock()
		return
	}
	seg := in.segments[in.focus]
	seg.state = SegmentNavigating
	seg.buffer = ""
	if in.propagateTimer != nil {
		in.propagateTimer.Stop()
		in.propagateTimer = nil
	}

	if seg.Kind == datetime.SegMeridiem {
		tod := in.timeOfDayLocked().ToggleMeridiem()
		in.setTimeLocked(tod)
	} else {
		min, max := in.boundsLocked(seg.Kind)
		n := in.componentLocked(seg.Kind) + delta
		if seg.Kind == datetime.SegYear {
			// Years saturate; wrapping 9999 around to 1 would be a
			// nine-millennia jump for one keypress.
			if n > max {
				n = max
			}
			if n < min {
				n = min
			}
		} else {
			if n > max {
				n = min
			}
			if n < min {
				n = max
			}
		}
		in.setComponentLocked(seg.Kind, n)
	}
	seg.state = SegmentFocused
	in.mu.Unlock()

	in.propagateNow(store.SourceArrowNav)
}

// ToggleMeridiem flips AM/PM when the focused segment is the meridiem.
func (in *Input) ToggleMeridiem() {
	in.mu.Lock()
	if in.focus < 0 || in.segments[in.focus].Kind != datetime.SegMeridiem {
		in.mu.Unlock()
		return
	}
	in.setTimeLocked(in.timeOfDayLocked().ToggleMeridiem())
	in.mu.Unlock()
	in.propagateNow(store.SourceSegment)
}

// ApplyState is the input's synchronizer half: it rebuilds segment
// texts from a committed snapshot. The segment currently being edited
// keeps its local buffer, and the input's own write-backs (typing
// propagation, arrow stepping) are skipped entirely so a re-render can
// never clobber the gesture in progress.
func (in *Input) ApplyState(next store.Snapshot, source string) {
	if source == store.SourceSegment || source == store.SourceArrowNav {
		return
	}
	in.mu.Lock()
	defer in.mu.Unlock()

	if next.SelectedDate != nil {
		d := *next.SelectedDate
		v := in.value
		in.value = time.Date(d.Year(), d.Month(), d.Day(),
			v.Hour(), v.Minute(), v.Second(), 0, v.Location())
	}
	if next.SelectedTime != nil {
		t := *next.SelectedTime
		v := in.value
		in.value = time.Date(v.Year(), v.Month(), v.Day(),
			t.Hour, t.Minute, t.Second, 0, v.Location())
	}
	in.committed = in.value

	editing := -1
	if in.focus >= 0 && in.segments[in.focus].state == SegmentEditing {
		editing = in.focus
	}
	in.rebuildTextsLocked(editing)
}

// Propagate flushes any pending debounced edit immediately.
func (in *Input) Propagate() {
	in.mu.Lock()
	if in.propagateTimer != nil {
		in.propagateTimer.Stop()
		in.propagateTimer = nil
	}
	in.mu.Unlock()
	in.propagateNow(store.SourceSegment)
}

func (in *Input) schedulePropagate() {
	in.mu.Lock()
	if in.propagateTimer != nil {
		in.propagateTimer.Stop()
	}
	if in.propagateDelay <= 0 {
		in.propagateTimer = nil
		in.mu.Unlock()
		in.propagateNow(store.SourceSegment)
		return
	}
	in.propagateTimer = time.AfterFunc(in.propagateDelay, func() {
		in.propagateNow(store.SourceSegment)
	})
	in.mu.Unlock()
}

// propagateNow pushes the composite value into the store.
func (in *Input) propagateNow(source string) {
	in.mu.Lock()
	v := in.value
	in.committed = v
	in.rebuildTextsLocked(in.editingIndexLocked())
	in.mu.Unlock()

	day := datetime.StartOfDay(v)
	p := store.NewPartial().
		SelectedDate(&day).
		CursorMonth(v)
	if in.layout.HasTime() {
		tod := datetime.TimeOfDay{Hour: v.Hour(), Minute: v.Minute(), Second: v.Second()}
		p = p.SelectedTime(&tod)
	}
	if !in.st.Update(p, source, true) {
		in.log.Warn("segment propagation rejected", "source", source, "value", v)
	}
}

func (in *Input) editingIndexLocked() int {
	if in.focus >= 0 && in.segments[in.focus].state == SegmentEditing {
		return in.focus
	}
	return -1
}

// rebuildTexts rebuilds display text for every segment except skip.
func (in *Input) rebuildTexts(skip int) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.rebuildTextsLocked(skip)
}

func (in *Input) rebuildTextsLocked(skip int) {
	for i, seg := range in.segments {
		if i == skip {
			continue
		}
		seg.text = in.layout.SegmentText(seg.Kind, in.value)
	}
}

func (in *Input) timeOfDayLocked() datetime.TimeOfDay {
	return datetime.TimeOfDay{
		Hour:   in.value.Hour(),
		Minute: in.value.Minute(),
		Second: in.value.Second(),
	}
}

func (in *Input) setTimeLocked(t datetime.TimeOfDay) {
	v := in.value
	in.value = time.Date(v.Year(), v.Month(), v.Day(), t.Hour, t.Minute, t.Second, 0, v.Location())
}

// componentLocked reads the numeric value of one segment kind from the
// composite value, in display units (12-hour hour when applicable).
func (in *Input) componentLocked(kind datetime.SegmentKind) int {
	v := in.value
	switch kind {
	case datetime.SegYear:
		return v.Year()
	case datetime.SegMonth:
		return int(v.Month())
	case datetime.SegDay:
		return v.Day()
	case datetime.SegHour:
		if in.layout.Hour12 {
			return in.timeOfDayLocked().Hour12()
		}
		return v.Hour()
	case datetime.SegMinute:
		return v.Minute()
	case datetime.SegSecond:
		return v.Second()
	case datetime.SegMeridiem:
		if v.Hour() >= 12 {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// setComponentLocked writes one component back into the composite
// value. The day is clamped to the month length implied by the
// currently buffered month and year, so editing the month of Jan 31
// down to February lands on Feb 28/29 rather than overflowing.
func (in *Input) setComponentLocked(kind datetime.SegmentKind, n int) {
	v := in.value
	year, month, day := v.Year(), v.Month(), v.Day()
	tod := in.timeOfDayLocked()

	switch kind {
	case datetime.SegYear:
		year = n
	case datetime.SegMonth:
		month = time.Month(n)
	case datetime.SegDay:
		day = n
	case datetime.SegHour:
		if in.layout.Hour12 {
			tod = tod.WithHour12(n)
		} else {
			tod.Hour = n
		}
	case datetime.SegMinute:
		tod.Minute = n
	case datetime.SegSecond:
		tod.Second = n
	}

	day = datetime.ClampDay(year, month, day)
	in.value = time.Date(year, month, day, tod.Hour, tod.Minute, tod.Second, 0, v.Location())
}

// boundsLocked returns the valid numeric range for a segment kind. The
// day bound tracks the buffered month and year.
func (in *Input) boundsLocked(kind datetime.SegmentKind) (min, max int) {
	switch kind {
	case datetime.SegYear:
		return 1, 9999
	case datetime.SegMonth:
		return 1, 12
	case datetime.SegDay:
		return 1, datetime.DaysInMonth(in.value.Year(), in.value.Month())
	case datetime.SegHour:
		if in.layout.Hour12 {
			return 1, 12
		}
		return 0, 23
	case datetime.SegMinute, datetime.SegSecond:
		return 0, 59
	case datetime.SegMeridiem:
		return 0, 1
	default:
		return 0, 0
	}
}
