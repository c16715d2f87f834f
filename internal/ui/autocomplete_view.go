package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"onboard/internal/autocomplete"
)

// View renders the label, the input box, the clear hint and the host error.
// The dropdown is rendered separately by DropdownView so the page can paint
// it over the fields below.
func (a Autocomplete) View() string {
	var b strings.Builder
	b.WriteString(fieldLabel(a.Label, a.state.Config.Required))
	b.WriteString("\n")

	inner := a.input.View()
	if a.state.Config.Disabled {
		text := a.state.Text
		if text == "" {
			text = a.Placeholder
		}
		inner = styleMuted().Render(text)
	}
	if a.focused && a.state.ClearVisible() {
		hint := styleMuted().Render("^X clear")
		gap := a.Width - 4 - lipgloss.Width(inner) - lipgloss.Width(hint)
		if gap > 0 {
			inner += strings.Repeat(" ", gap) + hint
		}
	}
	b.WriteString(styleInput(a.focused, a.Error != "").Width(a.Width - 2).Render(inner))

	if a.Error != "" {
		b.WriteString("\n")
		b.WriteString(styleFieldError().Render(a.Error))
	}
	return b.String()
}

// DropdownView renders the dropdown, or "" when nothing is shown.
func (a Autocomplete) DropdownView() string {
	dd := a.state.Dropdown(a.SelectedValue)
	width := max(10, a.Width-2)

	var lines []string
	switch dd.Kind {
	case autocomplete.DropdownHidden, autocomplete.DropdownEmpty:
		return ""
	case autocomplete.DropdownLoading:
		lines = append(lines, styleDropdownHint().Width(width).Render(" Searching..."))
	case autocomplete.DropdownNoResults:
		lines = append(lines, styleDropdownHint().Width(width).Render(" No results found"))
	case autocomplete.DropdownOptions:
		start, end := visibleWindow(len(dd.Items), a.state.FocusedIndex, a.MaxVisible)
		if start > 0 {
			lines = append(lines, styleDropdownHint().Width(width).Render(" ▲ more above"))
		}
		for _, item := range dd.Items[start:end] {
			lines = append(lines, renderDropdownItem(item, width))
		}
		if end < len(dd.Items) {
			lines = append(lines, styleDropdownHint().Width(width).Render(" ▼ more below"))
		}
	}
	return styleDropdown().Render(strings.Join(lines, "\n"))
}

func renderDropdownItem(item autocomplete.DropdownItem, width int) string {
	marker := "  "
	if item.Selected {
		marker = "✓ "
	}
	text := fit(marker+item.Label, width-1)
	switch {
	case item.Focused:
		return styleDropdownFocused().Width(width).Render("▸" + text)
	case item.Selected:
		return styleDropdownSelected().Width(width).Render(" " + text)
	default:
		return styleDropdownOption().Width(width).Render(" " + text)
	}
}

// visibleWindow returns the [start,end) slice of n rows that keeps focus in
// view, showing at most limit rows.
func visibleWindow(n, focus, limit int) (int, int) {
	if limit <= 0 || n <= limit {
		return 0, n
	}
	start := 0
	if focus >= limit {
		start = focus - limit + 1
	}
	return start, start + limit
}

func fieldLabel(label string, required bool) string {
	out := styleFieldLabel().Render(label)
	if required {
		out += " " + styleRequired().Render("*")
	}
	return out
}
