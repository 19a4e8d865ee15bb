package store

import "sort"

// ChangeSet is the set of fields that actually differed in one commit.
// It is retained by the store until the next commit.
type ChangeSet struct {
	fields map[Field]bool
}

func newChangeSet() ChangeSet {
	return ChangeSet{fields: make(map[Field]bool)}
}

func (c ChangeSet) add(f Field) {
	c.fields[f] = true
}

// Has reports whether the field changed in the last commit.
func (c ChangeSet) Has(f Field) bool { return c.fields[f] }

// Any reports whether any of the given fields changed.
func (c ChangeSet) Any(fs ...Field) bool {
	for _, f := range fs {
		if c.fields[f] {
			return true
		}
	}
	return false
}

// Empty reports whether nothing changed.
func (c ChangeSet) Empty() bool { return len(c.fields) == 0 }

// Len returns the number of changed fields, nested range keys included.
func (c ChangeSet) Len() int { return len(c.fields) }

// Fields returns the changed fields sorted by name.
func (c ChangeSet) Fields() []Field {
	out := make([]Field, 0, len(c.fields))
	for f := range c.fields {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// diff compares old and next for every field named in the partial.
// Instants compare by value, sequences structurally and order-sensitive,
// and the composite range decomposes into selectedRange.start/.end keys
// only when the parent differs.
func diff(old, next State, p Partial) ChangeSet {
	cs := newChangeSet()
	for f := range p.fields {
		switch f {
		case FieldCursorMonth:
			if !old.CursorMonth.Equal(next.CursorMonth) {
				cs.add(f)
			}
		case FieldSelectedDate:
			if !timePtrEqual(old.SelectedDate, next.SelectedDate) {
				cs.add(f)
			}
		case FieldSelectedRange:
			diffRange(cs, old.SelectedRange, next.SelectedRange)
		case FieldSelectedDates:
			if !timesEqual(old.SelectedDates, next.SelectedDates) {
				cs.add(f)
			}
		case FieldSelectedTime:
			if !todPtrEqual(old.SelectedTime, next.SelectedTime) {
				cs.add(f)
			}
		case FieldTimeGranularity:
			if old.TimeGranularity != next.TimeGranularity {
				cs.add(f)
			}
		case FieldViewMode:
			if old.ViewMode != next.ViewMode {
				cs.add(f)
			}
		case FieldIsOpen:
			if old.IsOpen != next.IsOpen {
				cs.add(f)
			}
		case FieldIsFocused:
			if old.IsFocused != next.IsFocused {
				cs.add(f)
			}
		case FieldIsDisabled:
			if old.IsDisabled != next.IsDisabled {
				cs.add(f)
			}
		case FieldIsTransitioning:
			if old.IsTransitioning != next.IsTransitioning {
				cs.add(f)
			}
		}
	}
	// Normalization side effects count as changes even when the flag
	// itself was not in the partial.
	if old.IsOpen != next.IsOpen {
		cs.add(FieldIsOpen)
	}
	if old.IsTransitioning != next.IsTransitioning {
		cs.add(FieldIsTransitioning)
	}
	return cs
}

func diffRange(cs ChangeSet, old, next *DateRange) {
	if old == nil && next == nil {
		return
	}
	if old == nil || next == nil {
		cs.add(FieldSelectedRange)
		if old == nil {
			old = &DateRange{}
		}
		if next == nil {
			next = &DateRange{}
		}
		if !timePtrEqual(old.Start, next.Start) {
			cs.add(FieldRangeStart)
		}
		if !timePtrEqual(old.End, next.End) {
			cs.add(FieldRangeEnd)
		}
		return
	}
	startChanged := !timePtrEqual(old.Start, next.Start)
	endChanged := !timePtrEqual(old.End, next.End)
	if !startChanged && !endChanged {
		return
	}
	cs.add(FieldSelectedRange)
	if startChanged {
		cs.add(FieldRangeStart)
	}
	if endChanged {
		cs.add(FieldRangeEnd)
	}
}
