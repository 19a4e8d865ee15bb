package components

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/keenthemes/ktui-picker/internal/datetime"
	"github.com/keenthemes/ktui-picker/internal/picker"
	"github.com/keenthemes/ktui-picker/internal/store"
)

var (
	quickEntryBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")).
				Padding(1, 2)

	quickEntryTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	quickEntryPreviewStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("40")).
				Italic(true)

	quickEntryErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Italic(true)

	quickEntryHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
)

// QuickEntry is an overlay for typing a date as free text. Shorthand
// like "t", "+3d" or "fri" resolves against the configured layout and
// commits into the store the same way a calendar click would.
type QuickEntry struct {
	textInput textinput.Model
	st        *store.Store
	cfg       picker.SelectConfig
	layout    datetime.Layout
	clock     func() time.Time

	visible bool
	error   string
	preview string
}

// NewQuickEntry creates the quick entry overlay.
func NewQuickEntry(st *store.Store, cfg picker.SelectConfig, layout datetime.Layout, clock func() time.Time) *QuickEntry {
	ti := textinput.New()
	ti.Placeholder = layout.Placeholder() + ", t, tm, mon-sun, +3d, +2w"
	ti.CharLimit = 64
	ti.Width = 34

	if clock == nil {
		clock = time.Now
	}
	return &QuickEntry{
		textInput: ti,
		st:        st,
		cfg:       cfg,
		layout:    layout,
		clock:     clock,
	}
}

// SetConfig applies reloaded selection options.
func (qe *QuickEntry) SetConfig(cfg picker.SelectConfig, layout datetime.Layout) {
	qe.cfg = cfg
	qe.layout = layout
	qe.textInput.Placeholder = layout.Placeholder() + ", t, tm, mon-sun, +3d, +2w"
}

// Show displays the overlay and focuses the input.
func (qe *QuickEntry) Show() tea.Cmd {
	qe.visible = true
	qe.error = ""
	qe.preview = ""
	qe.textInput.SetValue("")
	return qe.textInput.Focus()
}

// Hide dismisses the overlay.
func (qe *QuickEntry) Hide() {
	qe.visible = false
	qe.textInput.Blur()
	qe.error = ""
	qe.preview = ""
	qe.textInput.SetValue("")
}

// IsVisible reports whether the overlay is showing.
func (qe *QuickEntry) IsVisible() bool {
	return qe.visible
}

// Update handles Bubble Tea messages while visible.
func (qe *QuickEntry) Update(msg tea.Msg) (*QuickEntry, tea.Cmd) {
	if !qe.visible {
		return qe, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			qe.Hide()
			return qe, nil
		case tea.KeyEnter:
			input := qe.textInput.Value()
			if input == "" {
				qe.error = "Please enter a date"
				return qe, nil
			}
			date, err := ParseQuickDate(input, qe.layout, qe.clock())
			if err != nil {
				qe.error = err.Error()
				return qe, nil
			}
			if !picker.SelectDay(qe.st, qe.cfg, date, store.SourceQuickSet) {
				qe.error = "Date is outside the selectable window"
				return qe, nil
			}
			qe.Hide()
			return qe, nil
		}
	}

	var cmd tea.Cmd
	qe.textInput, cmd = qe.textInput.Update(msg)
	qe.updatePreview()
	return qe, cmd
}

func (qe *QuickEntry) updatePreview() {
	input := qe.textInput.Value()
	if input == "" {
		qe.error = ""
		qe.preview = ""
		return
	}

	date, err := ParseQuickDate(input, qe.layout, qe.clock())
	if err != nil {
		qe.error = err.Error()
		qe.preview = ""
		return
	}

	qe.error = ""
	qe.preview = qe.layout.Format(date) + " (" + DescribeDate(date, qe.clock()) + ")"
}

// View renders the overlay.
func (qe *QuickEntry) View() string {
	if !qe.visible {
		return ""
	}

	var content string
	content += quickEntryTitleStyle.Render("Go to date") + "\n\n"
	content += "Date: " + qe.textInput.View() + "\n"

	if qe.error != "" {
		content += quickEntryErrorStyle.Render("✗ "+qe.error) + "\n"
	} else if qe.preview != "" {
		content += quickEntryPreviewStyle.Render("→ "+qe.preview) + "\n"
	} else {
		content += "\n"
	}

	content += "\n"
	content += quickEntryHelpStyle.Render("ESC: cancel  ENTER: confirm")

	return quickEntryBoxStyle.Render(content)
}
