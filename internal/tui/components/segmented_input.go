package components

import (
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/keenthemes/ktui-picker/internal/datetime"
	"github.com/keenthemes/ktui-picker/internal/picker"
	"github.com/keenthemes/ktui-picker/internal/store"
)

var (
	segmentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	segmentFocusedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("231")).
				Background(lipgloss.Color("39")).
				Bold(true)

	segmentEditingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("231")).
				Background(lipgloss.Color("208")).
				Bold(true)

	segmentLiteralStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	segmentBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)

	segmentBoxBlurredStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1)
)

// SegmentedInput renders the segmented editable field and owns its
// keyboard handling. It is also the store synchronizer for the field:
// committed changes rebuild the segment texts through the picker input,
// which preserves the focused segment and its caret.
type SegmentedInput struct {
	input   *picker.Input
	st      *store.Store
	focused bool

	mu     sync.Mutex
	cached string
	dirty  bool
}

// NewSegmentedInput wraps a picker input.
func NewSegmentedInput(input *picker.Input, st *store.Store) *SegmentedInput {
	return &SegmentedInput{input: input, st: st, dirty: true}
}

// UpdatePriority puts the segmented field first among the
// synchronizers: its caret bookkeeping must settle before the heavier
// fragments redraw.
func (si *SegmentedInput) UpdatePriority() int { return 10 }

// OnStateChange implements store.Observer.
func (si *SegmentedInput) OnStateChange(next, old store.Snapshot) {
	cs := si.st.LastChanges()
	if !cs.Any(store.FieldSelectedDate, store.FieldSelectedTime, store.FieldSelectedRange) {
		return
	}
	si.input.ApplyState(next, si.st.LastSource())
	si.invalidate()
}

// Focus gives the component keyboard focus, landing on the first
// segment when none is active.
func (si *SegmentedInput) Focus() {
	si.focused = true
	if si.input.FocusedSegment() < 0 {
		si.input.Focus(0)
	}
	si.invalidate()
}

// Blur releases keyboard focus, committing any in-progress edit.
func (si *SegmentedInput) Blur() {
	si.focused = false
	si.input.Blur()
	si.invalidate()
}

// IsFocused reports whether the component holds keyboard focus.
func (si *SegmentedInput) IsFocused() bool { return si.focused }

// Update handles Bubble Tea messages while focused.
func (si *SegmentedInput) Update(msg tea.Msg) (*SegmentedInput, tea.Cmd) {
	if !si.focused {
		return si, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return si, nil
	}

	switch keyMsg.String() {
	case "up":
		si.input.StepUp()
	case "down":
		si.input.StepDown()
	case "left", "shift+tab":
		si.input.Prev()
	case "right", "tab", "enter":
		si.input.Next()
	case "a", "p":
		si.input.ToggleMeridiem()
	default:
		r := keyMsg.Runes
		if len(r) == 1 && r[0] >= '0' && r[0] <= '9' {
			si.input.InputDigit(r[0])
		}
	}
	si.invalidate()
	return si, nil
}

func (si *SegmentedInput) invalidate() {
	si.mu.Lock()
	si.dirty = true
	si.mu.Unlock()
}

// View renders the field, rebuilding the cached string only when a
// relevant change invalidated it.
func (si *SegmentedInput) View() string {
	si.mu.Lock()
	defer si.mu.Unlock()
	if !si.dirty {
		return si.cached
	}

	var b strings.Builder
	segIdx := 0
	focusIdx := si.input.FocusedSegment()
	segs := si.input.Segments()

	for _, el := range si.input.Layout().Elements {
		if el.IsLiteral() {
			b.WriteString(segmentLiteralStyle.Render(el.Literal))
			continue
		}
		seg := segs[segIdx]
		text := seg.Text()
		if seg.Kind != datetime.SegMeridiem {
			for len(text) < seg.Kind.Width() {
				text = " " + text
			}
		}
		switch {
		case si.focused && segIdx == focusIdx && seg.State() == picker.SegmentEditing:
			b.WriteString(segmentEditingStyle.Render(text))
		case si.focused && segIdx == focusIdx:
			b.WriteString(segmentFocusedStyle.Render(text))
		default:
			b.WriteString(segmentStyle.Render(text))
		}
		segIdx++
	}

	box := segmentBoxBlurredStyle
	if si.focused {
		box = segmentBoxStyle
	}
	si.cached = box.Render(b.String())
	si.dirty = false
	return si.cached
}
