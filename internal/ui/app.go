package ui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"onboard/internal/api"
	"onboard/internal/autocomplete"
	"onboard/internal/draft"
	"onboard/internal/ui/theme"
)

const toastDuration = 3 * time.Second

// Config configures the UI application.
type Config struct {
	Client       api.Client
	Drafts       *draft.Store
	PageSize     int
	Search       autocomplete.Config
	Timeout      time.Duration
	OutputFormat string
	Version      string
	// ExportDir is where the x key writes workbooks. Empty means the
	// working directory.
	ExportDir string
	// SaveTheme persists a theme switch. Optional.
	SaveTheme func(name string) error
	Now       func() time.Time
}

type appPage int

const (
	pageDirectory appPage = iota
	pageWizard
)

type toast struct {
	text    string
	isError bool
}

func infoToast(text string) *toast  { return &toast{text: text} }
func errorToast(text string) *toast { return &toast{text: text, isError: true} }

// App implements the Bubble Tea model for onboard.
type App struct {
	cfg  Config
	keys KeyMap

	page      appPage
	directory Directory
	wizard    Wizard
	wizardOn  bool

	help     help.Model
	showHelp bool

	toast    *toast
	toastSeq int
	added    []string

	width  int
	height int
}

// NewApp creates the app on the directory page.
func NewApp(cfg Config) (*App, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("ui: client is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	keys := DefaultKeyMap()
	return &App{
		cfg:       cfg,
		keys:      keys,
		page:      pageDirectory,
		directory: NewDirectory(cfg.Client, keys, cfg.PageSize, cfg.Timeout, cfg.OutputFormat),
		help:      help.New(),
	}, nil
}

func (m *App) Init() tea.Cmd {
	return m.directory.Init()
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.directory = m.directory.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case wizardDoneMsg:
		m.closeWizard()
		m.added = append(m.added, msg.info.EmployeeID)
		cmd := m.showToast(infoToast(fmt.Sprintf("Added %s (%s).", msg.info.Name, msg.info.EmployeeID)))
		var reload tea.Cmd
		m.directory, reload = m.directory.Reload()
		return m, tea.Batch(cmd, reload)

	case wizardCancelMsg:
		m.closeWizard()
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			return m, m.showToast(errorToast("Export failed: " + msg.err.Error()))
		}
		return m, m.showToast(infoToast(fmt.Sprintf("Exported %d employees to %s", msg.count, msg.path)))

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil

	case employeesLoadedMsg:
		var cmd tea.Cmd
		m.directory, cmd, _ = m.directory.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var c1, c2 tea.Cmd
		m.directory, c1, _ = m.directory.Update(msg)
		if m.wizardOn {
			m.wizard, c2 = m.wizard.Update(msg)
		}
		return m, tea.Batch(c1, c2)
	}

	if m.wizardOn {
		var cmd tea.Cmd
		m.wizard, cmd = m.wizard.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Theme) {
		name := theme.CycleTheme()
		if m.cfg.SaveTheme != nil {
			if err := m.cfg.SaveTheme(name); err != nil {
				return m, m.showToast(errorToast("Theme not saved: " + err.Error()))
			}
		}
		return m, m.showToast(infoToast("Theme: " + name))
	}

	if m.page == pageWizard {
		var cmd tea.Cmd
		m.wizard, cmd = m.wizard.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.New):
		return m, m.openWizard()
	case key.Matches(msg, m.keys.Export):
		path := filepath.Join(m.cfg.ExportDir, "employees-"+m.cfg.Now().Format("20060102-150405")+".xlsx")
		return m, tea.Batch(
			m.showToast(infoToast("Exporting...")),
			exportCmd(m.cfg.Client, m.directory.limit, path),
		)
	}

	var cmd tea.Cmd
	var t *toast
	m.directory, cmd, t = m.directory.Update(msg)
	if t != nil {
		return m, tea.Batch(cmd, m.showToast(t))
	}
	return m, cmd
}

func (m *App) openWizard() tea.Cmd {
	m.wizard = NewWizard(WizardConfig{
		Client:  m.cfg.Client,
		Drafts:  m.cfg.Drafts,
		Keys:    m.keys,
		Search:  m.cfg.Search,
		Timeout: m.cfg.Timeout,
		Now:     m.cfg.Now,
	})
	var cmd tea.Cmd
	m.wizard, cmd = m.wizard.Start()
	m.wizardOn = true
	m.page = pageWizard
	m.showHelp = false
	return cmd
}

func (m *App) closeWizard() {
	if m.wizardOn {
		m.wizard = m.wizard.Teardown()
	}
	m.wizardOn = false
	m.page = pageDirectory
}

func (m *App) showToast(t *toast) tea.Cmd {
	m.toastSeq++
	m.toast = t
	return scheduleToastExpiry(m.toastSeq, toastDuration)
}
