package components

import (
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/keenthemes/ktui-picker/internal/picker"
	"github.com/keenthemes/ktui-picker/internal/store"
)

var (
	valueLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	valueTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")).
			Bold(true)

	valueEmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	valueInvalidStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("203"))
)

// ValueBar mirrors the committed selection as its serialized form value,
// the way a form field would carry it. Changes are published on a channel
// so callers can react to completed selections.
type ValueBar struct {
	st   *store.Store
	mode picker.Mode

	mu     sync.Mutex
	value  string
	errs   []string
	dirty  bool
	cached string

	changes chan string
}

// NewValueBar creates the bar for the given selection mode.
func NewValueBar(st *store.Store, mode picker.Mode) *ValueBar {
	vb := &ValueBar{
		st:      st,
		mode:    mode,
		dirty:   true,
		changes: make(chan string, 8),
	}
	vb.value = picker.FormValue(st.GetState(), mode)
	return vb
}

// UpdatePriority runs the value bar last, after the editing surfaces.
func (vb *ValueBar) UpdatePriority() int { return 40 }

// OnStateChange implements store.Observer.
func (vb *ValueBar) OnStateChange(next, old store.Snapshot) {
	cs := vb.st.LastChanges()
	if !picker.SelectionChanged(cs) && next.IsValid == old.IsValid {
		return
	}

	value := picker.FormValue(next, vb.mode)

	vb.mu.Lock()
	changed := value != vb.value
	vb.value = value
	vb.errs = append([]string(nil), next.ValidationErrors...)
	vb.dirty = true
	vb.mu.Unlock()

	if changed {
		select {
		case vb.changes <- value:
		default:
		}
	}
}

// Changes returns the channel carrying new serialized values.
func (vb *ValueBar) Changes() <-chan string { return vb.changes }

// Value returns the current serialized selection.
func (vb *ValueBar) Value() string {
	vb.mu.Lock()
	defer vb.mu.Unlock()
	return vb.value
}

// View renders the bar.
func (vb *ValueBar) View() string {
	vb.mu.Lock()
	defer vb.mu.Unlock()
	if !vb.dirty {
		return vb.cached
	}

	line := valueLabelStyle.Render("value: ")
	switch {
	case len(vb.errs) > 0:
		line += valueInvalidStyle.Render(vb.errs[0])
	case vb.value == "":
		line += valueEmptyStyle.Render("(none)")
	default:
		line += valueTextStyle.Render(vb.value)
	}

	vb.cached = line
	vb.dirty = false
	return vb.cached
}
