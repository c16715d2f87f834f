package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"onboard/internal/ui/theme"
)

// Styles are functions so a theme switch takes effect on the next frame.

func styleAppHeader() lipgloss.Style {
	t := theme.Current()
	return lipgloss.NewStyle().
		Foreground(t.TextEmphasized).
		Background(t.Primary).
		Bold(true).
		Padding(0, 1)
}

func styleTitle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().Accent).Bold(true)
}

func styleSubtitle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().TextMuted).Italic(true)
}

func styleText() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().Text)
}

func styleMuted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().TextMuted)
}

func styleFieldLabel() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().Secondary).Bold(true)
}

func styleRequired() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().Warning).Bold(true)
}

func styleFieldError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().Error)
}

func styleSuccess() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().Success).Bold(true)
}

func styleInfo() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().Info)
}

func styleID() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().Accent).Bold(true)
}

func styleInput(focused, invalid bool) lipgloss.Style {
	t := theme.Current()
	border := t.BorderDim
	switch {
	case invalid:
		border = t.Error
	case focused:
		border = t.BorderFocused
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Foreground(t.Text).
		Padding(0, 1)
}

func styleDropdown() lipgloss.Style {
	t := theme.Current()
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(t.BorderNormal).
		Background(t.BackgroundSecondary)
}

func styleDropdownOption() lipgloss.Style {
	t := theme.Current()
	return lipgloss.NewStyle().Foreground(t.Text).Background(t.BackgroundSecondary)
}

func styleDropdownFocused() lipgloss.Style {
	t := theme.Current()
	return lipgloss.NewStyle().
		Foreground(t.TextEmphasized).
		Background(t.Primary).
		Bold(true)
}

func styleDropdownSelected() lipgloss.Style {
	t := theme.Current()
	return lipgloss.NewStyle().Foreground(t.Success).Background(t.BackgroundSecondary).Bold(true)
}

func styleDropdownHint() lipgloss.Style {
	t := theme.Current()
	return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.BackgroundSecondary).Italic(true)
}

func styleTableHeader() lipgloss.Style {
	t := theme.Current()
	return lipgloss.NewStyle().Foreground(t.Secondary).Bold(true)
}

func styleRowSelected() lipgloss.Style {
	t := theme.Current()
	return lipgloss.NewStyle().Foreground(t.TextEmphasized).Background(t.BackgroundSecondary).Bold(true)
}

func stylePane(focused bool) lipgloss.Style {
	t := theme.Current()
	if focused {
		return lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(t.BorderFocused).Padding(0, 1)
	}
	return lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.BorderNormal).Padding(0, 1)
}

func styleButton(active, disabled bool) lipgloss.Style {
	t := theme.Current()
	s := lipgloss.NewStyle().Padding(0, 2)
	switch {
	case disabled:
		return s.Foreground(t.TextMuted).Background(t.BackgroundDarker)
	case active:
		return s.Foreground(t.TextEmphasized).Background(t.Primary).Bold(true)
	default:
		return s.Foreground(t.Text).Background(t.BackgroundSecondary)
	}
}

func styleKeyPill() lipgloss.Style {
	t := theme.Current()
	return lipgloss.NewStyle().Background(t.Primary).Foreground(t.TextEmphasized).Bold(true)
}

func styleKeyDesc() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().TextMuted)
}

func styleToast(isError bool) lipgloss.Style {
	t := theme.Current()
	border := t.Success
	if isError {
		border = t.Error
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Foreground(t.Text).
		Padding(0, 1)
}

// buildMarkdownRenderer returns a notes renderer. "plain" or a glamour
// failure falls back to word wrapping.
func buildMarkdownRenderer(format string, width int) func(string) string {
	if width < 10 {
		width = 10
	}
	fallback := func(input string) string {
		return wordwrap.String(input, width)
	}

	style := strings.ToLower(strings.TrimSpace(format))
	if style == "" || style == "rich" {
		style = "dark"
	}
	if style == "plain" {
		return fallback
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fallback
	}
	return func(input string) string {
		out, err := renderer.Render(input)
		if err != nil {
			return fallback(input)
		}
		return strings.TrimSpace(out)
	}
}
