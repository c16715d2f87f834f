package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// SelectOption is one choice of a Select.
type SelectOption struct {
	Value string
	Label string
}

// Select is a single-choice field cycled with the arrow keys. The empty
// value shows the placeholder.
type Select struct {
	Label       string
	Placeholder string
	Required    bool
	Width       int
	Error       string

	options []SelectOption
	index   int // -1 when nothing is chosen
	focused bool
}

// NewSelect creates a select with value preselected when it matches.
func NewSelect(label string, options []SelectOption, value string) Select {
	s := Select{Label: label, Width: 40, options: options, index: -1}
	return s.SetValue(value)
}

// Value returns the chosen value or "".
func (s Select) Value() string {
	if s.index < 0 || s.index >= len(s.options) {
		return ""
	}
	return s.options[s.index].Value
}

// SetValue chooses the option with value, or clears the choice.
func (s Select) SetValue(value string) Select {
	s.index = -1
	for i, opt := range s.options {
		if opt.Value == value {
			s.index = i
			break
		}
	}
	return s
}

// Focus gives the field keyboard focus.
func (s Select) Focus() Select {
	s.focused = true
	return s
}

// Blur removes keyboard focus.
func (s Select) Blur() Select {
	s.focused = false
	return s
}

// Focused reports whether the field has keyboard focus.
func (s Select) Focused() bool { return s.focused }

// Update cycles the choice. It reports whether the value changed.
func (s Select) Update(msg tea.Msg) (Select, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !s.focused || len(s.options) == 0 {
		return s, false
	}
	before := s.index
	switch keyMsg.String() {
	case "right", "down", "l", "j", " ":
		s.index = (s.index + 1) % len(s.options)
	case "left", "up", "h", "k":
		if s.index <= 0 {
			s.index = len(s.options) - 1
		} else {
			s.index--
		}
	case "home":
		s.index = 0
	case "end":
		s.index = len(s.options) - 1
	}
	return s, s.index != before
}

// View renders the label, the current choice and the error line.
func (s Select) View() string {
	var b strings.Builder
	b.WriteString(fieldLabel(s.Label, s.Required))
	b.WriteString("\n")

	current := styleMuted().Render(s.Placeholder)
	if s.index >= 0 {
		current = styleText().Render(s.options[s.index].Label)
	}
	if s.focused {
		current = styleMuted().Render("◂ ") + current + styleMuted().Render(" ▸")
	}
	b.WriteString(styleInput(s.focused, s.Error != "").Width(s.Width - 2).Render(current))
	if s.Error != "" {
		b.WriteString("\n")
		b.WriteString(styleFieldError().Render(s.Error))
	}
	return b.String()
}
