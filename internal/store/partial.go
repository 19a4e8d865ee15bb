package store

import (
	"time"

	"github.com/keenthemes/ktui-picker/internal/datetime"
)

// Field names one updatable piece of State. The two selectedRange.* keys
// never appear in a Partial; they show up only in change sets, when the
// composite range actually differed on that side.
type Field string

const (
	FieldCursorMonth     Field = "cursorMonth"
	FieldSelectedDate    Field = "selectedDate"
	FieldSelectedRange   Field = "selectedRange"
	FieldRangeStart      Field = "selectedRange.start"
	FieldRangeEnd        Field = "selectedRange.end"
	FieldSelectedDates   Field = "selectedDates"
	FieldSelectedTime    Field = "selectedTime"
	FieldTimeGranularity Field = "timeGranularity"
	FieldViewMode        Field = "viewMode"
	FieldIsOpen          Field = "isOpen"
	FieldIsFocused       Field = "isFocused"
	FieldIsDisabled      Field = "isDisabled"
	FieldIsTransitioning Field = "isTransitioning"
)

// Partial is a set of fields to merge into the state on commit. Zero
// value is usable. Setters return the Partial so updates read as one
// expression; setting the same field twice keeps the later value.
type Partial struct {
	fields map[Field]any
}

func NewPartial() Partial {
	return Partial{fields: make(map[Field]any)}
}

func (p Partial) set(f Field, v any) Partial {
	if p.fields == nil {
		p.fields = make(map[Field]any)
	}
	p.fields[f] = v
	return p
}

// Empty reports whether no field is set.
func (p Partial) Empty() bool { return len(p.fields) == 0 }

// Fields returns the set fields in unspecified order.
func (p Partial) Fields() []Field {
	out := make([]Field, 0, len(p.fields))
	for f := range p.fields {
		out = append(out, f)
	}
	return out
}

// merge folds o into p, later call's fields winning on conflict.
func (p Partial) merge(o Partial) Partial {
	for f, v := range o.fields {
		p = p.set(f, v)
	}
	return p
}

func (p Partial) CursorMonth(t time.Time) Partial { return p.set(FieldCursorMonth, t) }

func (p Partial) SelectedDate(d *time.Time) Partial { return p.set(FieldSelectedDate, d) }

func (p Partial) SelectedRange(r *DateRange) Partial { return p.set(FieldSelectedRange, r.clone()) }

func (p Partial) SelectedDates(ds []time.Time) Partial {
	return p.set(FieldSelectedDates, append([]time.Time(nil), ds...))
}

func (p Partial) SelectedTime(t *datetime.TimeOfDay) Partial {
	if t != nil {
		c := *t
		t = &c
	}
	return p.set(FieldSelectedTime, t)
}

func (p Partial) TimeGranularity(g datetime.Granularity) Partial {
	return p.set(FieldTimeGranularity, g)
}

func (p Partial) ViewMode(v ViewMode) Partial { return p.set(FieldViewMode, v) }

func (p Partial) Open(open bool) Partial { return p.set(FieldIsOpen, open) }

func (p Partial) Focused(focused bool) Partial { return p.set(FieldIsFocused, focused) }

func (p Partial) Disabled(disabled bool) Partial { return p.set(FieldIsDisabled, disabled) }

func (p Partial) Transitioning(on bool) Partial { return p.set(FieldIsTransitioning, on) }

// apply merges the partial into a clone of prev and returns the candidate.
func (p Partial) apply(prev State) State {
	next := prev.clone()
	for f, v := range p.fields {
		switch f {
		case FieldCursorMonth:
			next.CursorMonth = datetime.StartOfMonth(v.(time.Time))
		case FieldSelectedDate:
			next.SelectedDate = clonePtr(v.(*time.Time))
		case FieldSelectedRange:
			next.SelectedRange = v.(*DateRange).clone()
		case FieldSelectedDates:
			next.SelectedDates = append([]time.Time(nil), v.([]time.Time)...)
		case FieldSelectedTime:
			t := v.(*datetime.TimeOfDay)
			if t != nil {
				c := *t
				t = &c
			}
			next.SelectedTime = t
		case FieldTimeGranularity:
			next.TimeGranularity = v.(datetime.Granularity)
		case FieldViewMode:
			next.ViewMode = v.(ViewMode)
		case FieldIsOpen:
			next.IsOpen = v.(bool)
		case FieldIsFocused:
			next.IsFocused = v.(bool)
		case FieldIsDisabled:
			next.IsDisabled = v.(bool)
		case FieldIsTransitioning:
			next.IsTransitioning = v.(bool)
		}
	}
	// A disabled picker cannot stay open or mid-transition.
	if next.IsDisabled {
		next.IsOpen = false
		next.IsTransitioning = false
	}
	return next
}

func clonePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
