package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"onboard/internal/ui"
	"onboard/internal/ui/theme"
)

// ExitSummary is printed once the TUI leaves the alt screen.
type ExitSummary struct {
	Version  string
	Duration time.Duration
	Session  ui.SessionSummary
}

func printExitSummary(w io.Writer, summary ExitSummary) {
	palette := theme.Current()
	appStyle := lipgloss.NewStyle().Bold(true).Foreground(palette.Primary)
	dimStyle := lipgloss.NewStyle().Foreground(palette.TextMuted)
	idStyle := lipgloss.NewStyle().Foreground(palette.Success)

	versionStr := ""
	if summary.Version != "" {
		versionStr = dimStyle.Render(fmt.Sprintf(" v%s", summary.Version))
	}
	sessionStr := dimStyle.Render(fmt.Sprintf(" • %s session", formatDuration(summary.Duration)))
	_, _ = fmt.Fprintln(w, appStyle.Render("Onboard")+versionStr+sessionStr)

	added := summary.Session.Added
	switch len(added) {
	case 0:
		_, _ = fmt.Fprintln(w, dimStyle.Render("No employees added"))
	default:
		noun := "employees"
		if len(added) == 1 {
			noun = "employee"
		}
		_, _ = fmt.Fprintf(w, "Added %d %s: %s\n", len(added), noun, idStyle.Render(strings.Join(added, ", ")))
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		if secs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm %ds", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}
