package datetime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SegmentKind identifies one editable date/time component.
type SegmentKind int

const (
	SegYear SegmentKind = iota
	SegMonth
	SegDay
	SegHour
	SegMinute
	SegSecond
	SegMeridiem
)

func (k SegmentKind) String() string {
	switch k {
	case SegYear:
		return "year"
	case SegMonth:
		return "month"
	case SegDay:
		return "day"
	case SegHour:
		return "hour"
	case SegMinute:
		return "minute"
	case SegSecond:
		return "second"
	case SegMeridiem:
		return "ampm"
	default:
		return "unknown"
	}
}

// Width returns the maximum digit count for the segment.
func (k SegmentKind) Width() int {
	if k == SegYear {
		return 4
	}
	return 2
}

// Element is one compiled piece of a format layout: either a segment
// placeholder or a literal separator.
type Element struct {
	Kind    SegmentKind
	Literal string // non-empty for literals; Kind is ignored then
}

// IsLiteral reports whether the element is a literal separator.
func (e Element) IsLiteral() bool { return e.Literal != "" }

// Layout is a format token string compiled into an ordered element list.
// Hour12 is true when the hour token was "hh" (12-hour display).
type Layout struct {
	Elements []Element
	Hour12   bool
}

// format tokens, longest first so "yyyy" wins over "yy".
var formatTokens = []struct {
	tok    string
	kind   SegmentKind
	hour12 bool
}{
	{"yyyy", SegYear, false},
	{"MM", SegMonth, false},
	{"dd", SegDay, false},
	{"HH", SegHour, false},
	{"hh", SegHour, true},
	{"mm", SegMinute, false},
	{"ss", SegSecond, false},
	{"a", SegMeridiem, false},
}

// CompileLayout turns a token format string (e.g. "yyyy-MM-dd HH:mm:ss")
// into a Layout. Unknown runs of characters become literal separators.
// A 12-hour ("hh") layout without an "a" token gets a trailing meridiem
// segment appended so the value stays unambiguous.
func CompileLayout(format string) (Layout, error) {
	if strings.TrimSpace(format) == "" {
		return Layout{}, fmt.Errorf("empty format string")
	}

	var layout Layout
	seen := map[SegmentKind]bool{}
	var lit strings.Builder

	flushLit := func() {
		if lit.Len() > 0 {
			layout.Elements = append(layout.Elements, Element{Literal: lit.String()})
			lit.Reset()
		}
	}

	i := 0
scan:
	for i < len(format) {
		for _, t := range formatTokens {
			if strings.HasPrefix(format[i:], t.tok) {
				if seen[t.kind] {
					return Layout{}, fmt.Errorf("duplicate %s token in format %q", t.kind, format)
				}
				seen[t.kind] = true
				flushLit()
				layout.Elements = append(layout.Elements, Element{Kind: t.kind})
				if t.hour12 {
					layout.Hour12 = true
				}
				i += len(t.tok)
				continue scan
			}
		}
		lit.WriteByte(format[i])
		i++
	}
	flushLit()

	if len(layout.Elements) == 0 || !hasSegment(layout) {
		return Layout{}, fmt.Errorf("format %q contains no recognized tokens", format)
	}
	if layout.Hour12 && !seen[SegMeridiem] {
		layout.Elements = append(layout.Elements,
			Element{Literal: " "}, Element{Kind: SegMeridiem})
	}
	return layout, nil
}

func hasSegment(l Layout) bool {
	for _, e := range l.Elements {
		if !e.IsLiteral() {
			return true
		}
	}
	return false
}

// Segments returns the segment kinds in display order.
func (l Layout) Segments() []SegmentKind {
	var kinds []SegmentKind
	for _, e := range l.Elements {
		if !e.IsLiteral() {
			kinds = append(kinds, e.Kind)
		}
	}
	return kinds
}

// FilterGranularity drops the time segments the granularity excludes
// (seconds below GranularitySecond, minutes below GranularityMinute),
// together with the literal separator in front of each dropped segment.
func (l Layout) FilterGranularity(g Granularity) Layout {
	drop := func(k SegmentKind) bool {
		switch k {
		case SegSecond:
			return g != GranularitySecond
		case SegMinute:
			return g == GranularityHour
		default:
			return false
		}
	}
	out := Layout{Hour12: l.Hour12}
	for _, e := range l.Elements {
		if !e.IsLiteral() && drop(e.Kind) {
			if n := len(out.Elements); n > 0 && out.Elements[n-1].IsLiteral() {
				out.Elements = out.Elements[:n-1]
			}
			continue
		}
		out.Elements = append(out.Elements, e)
	}
	return out
}

// HasTime reports whether the layout carries any time-of-day segment.
func (l Layout) HasTime() bool {
	for _, e := range l.Elements {
		if e.IsLiteral() {
			continue
		}
		switch e.Kind {
		case SegHour, SegMinute, SegSecond, SegMeridiem:
			return true
		}
	}
	return false
}

// SegmentText renders one segment of t according to the layout.
func (l Layout) SegmentText(kind SegmentKind, t time.Time) string {
	tod := TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
	switch kind {
	case SegYear:
		return fmt.Sprintf("%04d", t.Year())
	case SegMonth:
		return fmt.Sprintf("%02d", int(t.Month()))
	case SegDay:
		return fmt.Sprintf("%02d", t.Day())
	case SegHour:
		if l.Hour12 {
			return fmt.Sprintf("%02d", tod.Hour12())
		}
		return fmt.Sprintf("%02d", tod.Hour)
	case SegMinute:
		return fmt.Sprintf("%02d", tod.Minute)
	case SegSecond:
		return fmt.Sprintf("%02d", tod.Second)
	case SegMeridiem:
		return tod.Meridiem()
	default:
		return ""
	}
}

// Placeholder renders the layout as an uppercase hint string such as
// "YYYY-MM-DD".
func (l Layout) Placeholder() string {
	var b strings.Builder
	for _, e := range l.Elements {
		if e.IsLiteral() {
			b.WriteString(e.Literal)
			continue
		}
		switch e.Kind {
		case SegYear:
			b.WriteString("YYYY")
		case SegMonth:
			b.WriteString("MM")
		case SegDay:
			b.WriteString("DD")
		case SegHour:
			b.WriteString("HH")
		case SegMinute:
			b.WriteString("MM")
		case SegSecond:
			b.WriteString("SS")
		case SegMeridiem:
			b.WriteString("AM")
		}
	}
	return b.String()
}

// Format renders t through the compiled layout.
func (l Layout) Format(t time.Time) string {
	var b strings.Builder
	for _, e := range l.Elements {
		if e.IsLiteral() {
			b.WriteString(e.Literal)
			continue
		}
		b.WriteString(l.SegmentText(e.Kind, t))
	}
	return b.String()
}

// Parse reads a string produced by Format back into a time.Time in loc.
func (l Layout) Parse(s string, loc *time.Location) (time.Time, error) {
	year, month, day := 1970, 1, 1
	hour, minute, second := 0, 0, 0
	pm := false
	sawMeridiem := false

	rest := s
	for _, e := range l.Elements {
		if e.IsLiteral() {
			if !strings.HasPrefix(rest, e.Literal) {
				return time.Time{}, fmt.Errorf("parse %q: expected %q", s, e.Literal)
			}
			rest = rest[len(e.Literal):]
			continue
		}
		if e.Kind == SegMeridiem {
			switch {
			case strings.HasPrefix(rest, "AM"), strings.HasPrefix(rest, "am"):
				rest = rest[2:]
			case strings.HasPrefix(rest, "PM"), strings.HasPrefix(rest, "pm"):
				pm = true
				rest = rest[2:]
			default:
				return time.Time{}, fmt.Errorf("parse %q: expected AM/PM", s)
			}
			sawMeridiem = true
			continue
		}
		w := e.Kind.Width()
		if len(rest) < w {
			return time.Time{}, fmt.Errorf("parse %q: truncated %s", s, e.Kind)
		}
		n, err := strconv.Atoi(rest[:w])
		if err != nil {
			return time.Time{}, fmt.Errorf("parse %q: bad %s: %w", s, e.Kind, err)
		}
		rest = rest[w:]
		switch e.Kind {
		case SegYear:
			year = n
		case SegMonth:
			month = n
		case SegDay:
			day = n
		case SegHour:
			hour = n
		case SegMinute:
			minute = n
		case SegSecond:
			second = n
		}
	}
	if rest != "" {
		return time.Time{}, fmt.Errorf("parse %q: trailing %q", s, rest)
	}

	if l.Hour12 && sawMeridiem {
		hour = hour % 12
		if pm {
			hour += 12
		}
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("parse %q: month %d out of range", s, month)
	}
	if day < 1 || day > DaysInMonth(year, time.Month(month)) {
		return time.Time{}, fmt.Errorf("parse %q: day %d out of range", s, day)
	}
	tod := TimeOfDay{Hour: hour, Minute: minute, Second: second}
	if !tod.Valid() {
		return time.Time{}, fmt.Errorf("parse %q: time %s out of range", s, tod)
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc), nil
}
