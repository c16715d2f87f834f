package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"onboard/internal/api"
	"onboard/internal/avatar"
	"onboard/internal/domain"
	appErrors "onboard/internal/errors"
)

// writeClipboard is swapped in tests.
var writeClipboard = clipboard.WriteAll

const loadFailedText = "Failed to load employees"

// Directory is the paginated employee table with a detail pane for the
// highlighted row.
type Directory struct {
	client  api.Client
	keys    KeyMap
	limit   int
	timeout time.Duration

	page    int
	data    domain.EmployeePage
	loading bool
	err     error
	cursor  int

	spinner     spinner.Model
	pager       paginator.Model
	notesFormat string
	renderNotes func(string) string
	notesWidth  int

	width  int
	height int
}

// NewDirectory creates the page on page 1. Call Init to load it.
func NewDirectory(client api.Client, keys KeyMap, limit int, timeout time.Duration, notesFormat string) Directory {
	if limit <= 0 {
		limit = 10
	}
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = styleInfo()

	pg := paginator.New()
	pg.Type = paginator.Dots
	pg.PerPage = 1
	pg.ActiveDot = "●"
	pg.InactiveDot = "○"

	return Directory{
		client:      client,
		keys:        keys,
		limit:       limit,
		timeout:     timeout,
		page:        1,
		loading:     true,
		spinner:     sp,
		pager:       pg,
		notesFormat: notesFormat,
		notesWidth:  notesWidthFor(0),
		renderNotes: buildMarkdownRenderer(notesFormat, notesWidthFor(0)),
	}
}

// Init loads the current page.
func (d Directory) Init() tea.Cmd {
	return tea.Batch(d.spinner.Tick, loadEmployeesCmd(d.client, d.page, d.limit, d.timeout))
}

// Page returns the 1-based page number being shown or loaded.
func (d Directory) Page() int { return d.page }

// Loading reports whether a page request is in flight.
func (d Directory) Loading() bool { return d.loading }

// Selected returns the highlighted employee.
func (d Directory) Selected() (domain.Employee, bool) {
	if d.loading || d.err != nil || d.cursor < 0 || d.cursor >= len(d.data.Items) {
		return domain.Employee{}, false
	}
	return d.data.Items[d.cursor], true
}

// SetSize adjusts the layout.
func (d Directory) SetSize(width, height int) Directory {
	d.width, d.height = width, height
	if w := notesWidthFor(width); w != d.notesWidth {
		d.notesWidth = w
		d.renderNotes = buildMarkdownRenderer(d.notesFormat, w)
	}
	return d
}

// Reload fetches the current page again.
func (d Directory) Reload() (Directory, tea.Cmd) {
	return d.goTo(d.page)
}

func (d Directory) goTo(page int) (Directory, tea.Cmd) {
	d.page = max(1, page)
	d.loading = true
	d.err = nil
	return d, tea.Batch(d.spinner.Tick, loadEmployeesCmd(d.client, d.page, d.limit, d.timeout))
}

// Update handles page loads and directory keys. The returned toast, if any,
// is shown by the app.
func (d Directory) Update(msg tea.Msg) (Directory, tea.Cmd, *toast) {
	switch msg := msg.(type) {
	case employeesLoadedMsg:
		// A response for a page we navigated away from is dropped.
		if msg.err == nil && msg.page.Page != 0 && msg.page.Page != d.page {
			return d, nil, nil
		}
		d.loading = false
		if msg.err != nil {
			d.err = msg.err
			return d, nil, nil
		}
		d.err = nil
		d.data = msg.page
		d.cursor = min(d.cursor, max(0, len(d.data.Items)-1))
		d.pager.SetTotalPages(d.data.TotalPages())
		d.pager.Page = d.page - 1
		return d, nil, nil

	case spinner.TickMsg:
		if !d.loading {
			return d, nil, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd, nil

	case tea.KeyMsg:
		return d.handleKey(msg)
	}
	return d, nil, nil
}

func (d Directory) handleKey(msg tea.KeyMsg) (Directory, tea.Cmd, *toast) {
	switch {
	case key.Matches(msg, d.keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(msg, d.keys.Down):
		if d.cursor < len(d.data.Items)-1 {
			d.cursor++
		}
	case key.Matches(msg, d.keys.PrevPage):
		if !d.loading && d.data.HasPrev() {
			d.cursor = 0
			var cmd tea.Cmd
			d, cmd = d.goTo(d.page - 1)
			return d, cmd, nil
		}
	case key.Matches(msg, d.keys.NextPage):
		if !d.loading && d.data.HasNext() {
			d.cursor = 0
			var cmd tea.Cmd
			d, cmd = d.goTo(d.page + 1)
			return d, cmd, nil
		}
	case key.Matches(msg, d.keys.Refresh):
		var cmd tea.Cmd
		d, cmd = d.Reload()
		return d, cmd, nil
	case key.Matches(msg, d.keys.Copy):
		emp, ok := d.Selected()
		if !ok || emp.EmployeeID == "" {
			return d, nil, nil
		}
		if err := writeClipboard(emp.EmployeeID); err != nil {
			return d, nil, errorToast("Copy failed: " + err.Error())
		}
		return d, nil, infoToast(fmt.Sprintf("Copied '%s' to clipboard.", emp.EmployeeID))
	}
	return d, nil, nil
}

// View renders the table, pagination and the detail pane.
func (d Directory) View() string {
	var b strings.Builder
	b.WriteString(styleTitle().Render("Employees"))
	b.WriteString("\n\n")

	switch {
	case d.loading:
		b.WriteString(d.spinner.View() + " " + styleInfo().Render("Loading..."))
		return b.String()
	case d.err != nil:
		b.WriteString(styleFieldError().Render(loadFailedText))
		if detail := loadErrorDetail(d.err); detail != "" {
			b.WriteString("\n")
			b.WriteString(styleMuted().Render(detail))
		}
		b.WriteString("\n")
		b.WriteString(styleMuted().Render("press r to retry"))
		return b.String()
	}

	table := d.renderTable()
	if pane := d.renderDetail(); pane != "" && d.width >= 100 {
		table = lipgloss.JoinHorizontal(lipgloss.Top, table, "  ", pane)
	} else if pane != "" {
		table += "\n\n" + pane
	}
	b.WriteString(table)
	b.WriteString("\n\n")
	b.WriteString(d.renderPagination())
	return b.String()
}

var directoryColumns = []struct {
	title string
	width int
}{
	{"Photo", 5},
	{"Name", 22},
	{"Department", 16},
	{"Role", 10},
	{"Location", 14},
}

func (d Directory) renderTable() string {
	var lines []string
	var header []string
	for _, col := range directoryColumns {
		header = append(header, fit(col.title, col.width))
	}
	lines = append(lines, styleTableHeader().Render(strings.Join(header, " ")))

	if len(d.data.Items) == 0 {
		lines = append(lines, styleMuted().Render("No employees yet. Press n to add one."))
		return strings.Join(lines, "\n")
	}
	for i, emp := range d.data.Items {
		photo := "  ○"
		if emp.HasPhoto() {
			photo = "  ●"
		}
		cells := []string{photo, emp.Name, emp.Department, emp.Role.Label(), emp.Location}
		parts := make([]string, len(cells))
		for j, cell := range cells {
			parts[j] = fit(cell, directoryColumns[j].width)
		}
		row := strings.Join(parts, " ")
		if i == d.cursor {
			row = styleRowSelected().Render(row)
		} else {
			row = styleText().Render(row)
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}

func (d Directory) renderPagination() string {
	total := d.data.TotalPages()
	prev := styleButton(false, !d.data.HasPrev()).Render("Previous")
	next := styleButton(false, !d.data.HasNext()).Render("Next")
	info := styleText().Render(fmt.Sprintf("Page %d of %d", d.page, total))
	line := prev + "  " + info + "  " + next
	if total > 1 {
		line += "  " + styleMuted().Render(d.pager.View())
	}
	return line
}

func notesWidthFor(termWidth int) int {
	if termWidth >= 100 {
		return max(30, termWidth-90)
	}
	return 40
}

func (d Directory) renderDetail() string {
	emp, ok := d.Selected()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(styleTitle().Render(emp.Name))
	if emp.EmployeeID != "" {
		b.WriteString("  " + styleID().Render(emp.EmployeeID))
	}
	b.WriteString("\n")
	rows := [][2]string{
		{"Email", emp.Email},
		{"Department", emp.Department},
		{"Role", emp.Role.Label()},
		{"Location", emp.Location},
		{"Type", emp.EmploymentType.Label()},
		{"Started", emp.StartDate},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		b.WriteString(styleFieldLabel().Render(fit(r[0], 11)) + styleText().Render(r[1]) + "\n")
	}
	if emp.HasPhoto() {
		if preview, err := avatar.PreviewDataURL(emp.Image, 16); err == nil {
			b.WriteString("\n" + preview + "\n")
		}
	}
	if strings.TrimSpace(emp.Notes) != "" {
		b.WriteString("\n" + d.renderNotes(emp.Notes))
	}
	return stylePane(false).Render(strings.TrimRight(b.String(), "\n"))
}

func loadErrorDetail(err error) string {
	var appErr appErrors.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}
