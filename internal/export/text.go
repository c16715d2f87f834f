package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"onboard/internal/domain"
)

// Text formats accepted by WriteText.
const (
	FormatRich  = "rich"
	FormatPlain = "plain"
	FormatJSON  = "json"
)

var textColumns = []string{"ID", "Name", "Department", "Role", "Location", "Photo"}

func textRow(e domain.Employee) []string {
	photo := ""
	if e.HasPhoto() {
		photo = "●"
	}
	return []string{e.EmployeeID, e.Name, e.Department, e.Role.Label(), e.Location, photo}
}

// WriteText prints rows in the given format. Unknown formats fall back to
// plain.
func WriteText(w io.Writer, rows []domain.Employee, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case FormatRich:
		return writeRich(w, rows)
	default:
		return writePlain(w, rows)
	}
}

func writePlain(w io.Writer, rows []domain.Employee) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(textColumns, "\t"))
	for _, e := range rows {
		fmt.Fprintln(tw, strings.Join(textRow(e), "\t"))
	}
	return tw.Flush()
}

func writeRich(w io.Writer, rows []domain.Employee) error {
	const maxCell = 28
	widths := make([]int, len(textColumns))
	for i, c := range textColumns {
		widths[i] = ansi.StringWidth(c)
	}
	cells := make([][]string, len(rows))
	for r, e := range rows {
		cells[r] = textRow(e)
		for i, v := range cells[r] {
			v = ansi.Truncate(v, maxCell, "…")
			cells[r][i] = v
			widths[i] = max(widths[i], ansi.StringWidth(v))
		}
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	pad := func(s string, width int) string {
		return s + strings.Repeat(" ", max(0, width-ansi.StringWidth(s)))
	}

	var sb strings.Builder
	for i, c := range textColumns {
		sb.WriteString(headerStyle.Render(pad(c, widths[i])))
		sb.WriteString("  ")
	}
	sb.WriteString("\n")
	for i := range textColumns {
		sb.WriteString(dimStyle.Render(strings.Repeat("─", widths[i])))
		sb.WriteString("  ")
	}
	sb.WriteString("\n")
	for _, r := range cells {
		for i, v := range r {
			sb.WriteString(pad(v, widths[i]))
			sb.WriteString("  ")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(fmt.Sprintf("%d employees", len(rows))))
	sb.WriteString("\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
