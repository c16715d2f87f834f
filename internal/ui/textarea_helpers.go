package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/lipgloss"

	"onboard/internal/ui/theme"
)

const (
	notesCharLimit = 1000
	notesPadding   = 1
)

// newNotesTextarea returns the wizard's notes editor without prompt or line
// numbers, so the whole interior is input space.
func newNotesTextarea(width, height int, value string) textarea.Model {
	ta := textarea.New()
	ta.Prompt = ""
	ta.Placeholder = "Enter any additional notes..."
	ta.ShowLineNumbers = false
	ta.CharLimit = notesCharLimit
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.SetWidth(textareaContentWidth(width, notesPadding))
	ta.SetHeight(height)
	ta.SetValue(value)
	return ta
}

// textareaContentWidth is the inner width left after horizontal padding.
func textareaContentWidth(containerWidth, padding int) int {
	return max(1, containerWidth-padding*2)
}

// padTextareaView pads each line with the secondary background so the input
// area lines up with the text inputs above it.
func padTextareaView(view string, padding int) string {
	if padding <= 0 {
		return view
	}
	pad := lipgloss.NewStyle().
		Background(theme.Current().BackgroundSecondary).
		Render(strings.Repeat(" ", padding))

	lines := strings.Split(view, "\n")
	for i, line := range lines {
		if line == "" && i == len(lines)-1 {
			continue
		}
		lines[i] = pad + line + pad
	}
	return strings.Join(lines, "\n")
}
