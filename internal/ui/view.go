package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"onboard/internal/ui/theme"
)

func (m *App) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.page == pageWizard {
		b.WriteString(m.wizard.View())
	} else {
		b.WriteString(m.directory.View())
	}
	b.WriteString("\n")

	if m.toast != nil {
		b.WriteString("\n")
		b.WriteString(styleToast(m.toast.isError).Render(m.toast.text))
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *App) renderHeader() string {
	title := "ONBOARD"
	if m.cfg.Version != "" {
		title += " v" + m.cfg.Version
	}
	section := "Directory"
	if m.page == pageWizard {
		section = "Add employee"
	}
	left := styleAppHeader().Render(title) + " " + styleMuted().Render(section)
	if m.width <= 0 {
		return left
	}
	right := styleMuted().Render("theme: " + theme.CurrentName())
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}
