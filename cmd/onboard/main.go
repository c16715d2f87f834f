package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"onboard/internal/api"
	"onboard/internal/autocomplete"
	"onboard/internal/config"
	"onboard/internal/debug"
	"onboard/internal/draft"
	"onboard/internal/export"
	"onboard/internal/ui"
	"onboard/internal/ui/theme"
)

const (
	serviceCheckTimeout = 3 * time.Second
	spinnerDelay        = 150 * time.Millisecond
)

func main() {
	if err := config.Initialize(); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	versionFlag := flag.Bool("version", false, "Print version information and exit")
	debugFlag := flag.Bool("debug", false, "Write a debug log to ~/.onboard/debug.log")
	basicInfoURLFlag := flag.String("basic-info-url", config.GetString(config.KeyBasicInfoURL), "Base URL of the basic info service")
	detailsURLFlag := flag.String("details-url", config.GetString(config.KeyDetailsURL), "Base URL of the details service")
	pageSizeFlag := flag.Int("page-size", config.PageSize(), "Employees per directory page")
	outputFormatFlag := flag.String("output-format", config.GetString(config.KeyOutputFormat), "Notes style in the TUI and --list format (rich, plain, json)")
	draftPathFlag := flag.String("draft-path", config.GetString(config.KeyDraftPath), "Path of the wizard draft database")
	themeFlag := flag.String("theme", config.GetString(config.KeyTheme), "Color theme (harbor, ember, meadow, paper)")
	exportFlag := flag.String("export", "", "Write the whole directory to this .xlsx file and exit")
	listFlag := flag.Bool("list", false, "Print the whole directory to stdout and exit")
	flag.Parse()

	if *versionFlag {
		printVersion()
		os.Exit(0)
	}

	if err := debug.Init(*debugFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: debug log disabled: %v\n", err)
	}
	defer debug.Close()

	visited := map[string]struct{}{}
	flag.CommandLine.Visit(func(f *flag.Flag) {
		visited[f.Name] = struct{}{}
	})

	runtime := computeRuntimeOptions(runtimeFlags{
		basicInfoURL: basicInfoURLFlag,
		detailsURL:   detailsURLFlag,
		pageSize:     pageSizeFlag,
		outputFormat: outputFormatFlag,
		draftPath:    draftPathFlag,
		theme:        themeFlag,
		exportPath:   exportFlag,
		list:         listFlag,
	}, visited)

	if err := runWithRuntime(runtime, defaultDeps()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type programRunner interface {
	Run() (tea.Model, error)
}

type programFactory func(*ui.App) programRunner

type startupAnimator interface {
	ui.StartupReporter
	Stop()
}

// runDeps are the pieces runWithRuntime needs from the outside world.
type runDeps struct {
	stdout     io.Writer
	stderr     io.Writer
	newClient  func(runtimeOptions) api.Client
	openDrafts func(path string) (*draft.Store, error)
	newSpinner func() startupAnimator
	buildApp   func(ui.Config) (*ui.App, error)
	factory    programFactory
	saveTheme  func(string) error
	now        func() time.Time
}

func defaultDeps() runDeps {
	return runDeps{
		stdout: os.Stdout,
		stderr: os.Stderr,
		newClient: func(rt runtimeOptions) api.Client {
			return api.New(
				api.WithBasicInfoURL(rt.basicInfoURL),
				api.WithDetailsURL(rt.detailsURL),
				api.WithTimeout(rt.timeout),
			)
		},
		openDrafts: func(path string) (*draft.Store, error) {
			return draft.Open(path)
		},
		newSpinner: func() startupAnimator {
			return newStartupSpinner(os.Stderr, spinnerDelay)
		},
		buildApp: ui.NewApp,
		factory: func(app *ui.App) programRunner {
			return tea.NewProgram(app, tea.WithAltScreen())
		},
		saveTheme: config.SaveTheme,
		now:       time.Now,
	}
}

// runWithRuntime runs one of the batch modes (--export, --list) or the TUI.
func runWithRuntime(rt runtimeOptions, deps runDeps) error {
	client := deps.newClient(rt)

	switch {
	case rt.exportPath != "":
		return exportDirectory(client, rt, deps.stdout)
	case rt.list:
		rows, err := export.Collect(context.Background(), client, rt.pageSize)
		if err != nil {
			return fmt.Errorf("load employees: %w", err)
		}
		return export.WriteText(deps.stdout, rows, rt.outputFormat)
	}

	if rt.theme != "" && !theme.SetTheme(rt.theme) {
		fmt.Fprintf(deps.stderr, "Warning: unknown theme %q, using %s\n", rt.theme, theme.CurrentName())
	}

	spinner := deps.newSpinner()
	drafts := openDrafts(rt.draftPath, deps, spinner)
	if drafts != nil {
		defer func() {
			_ = drafts.Close()
		}()
	}
	checkServices(client, spinner)
	spinner.Stage(ui.StartupStageReady, "")
	spinner.Stop()

	start := deps.now()
	cfg := ui.Config{
		Client:       client,
		Drafts:       drafts,
		PageSize:     rt.pageSize,
		Search:       rt.search,
		Timeout:      rt.timeout,
		OutputFormat: rt.outputFormat,
		Version:      Version,
		SaveTheme:    deps.saveTheme,
		Now:          deps.now,
	}
	app, err := runProgram(cfg, deps.buildApp, deps.factory)
	if err != nil {
		return err
	}
	printExitSummary(deps.stdout, ExitSummary{
		Version:  Version,
		Duration: deps.now().Sub(start),
		Session:  app.Summary(),
	})
	return nil
}

func exportDirectory(client api.Client, rt runtimeOptions, out io.Writer) error {
	rows, err := export.Collect(context.Background(), client, rt.pageSize)
	if err != nil {
		return fmt.Errorf("load employees: %w", err)
	}
	f, err := os.Create(rt.exportPath)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	if err := export.WriteXLSX(f, rows); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d employees to %s\n", len(rows), rt.exportPath)
	return nil
}

// openDrafts opens the draft database. On failure the wizard runs without
// drafts.
func openDrafts(path string, deps runDeps, reporter ui.StartupReporter) *draft.Store {
	reporter.Stage(ui.StartupStageOpeningDrafts, path)
	store, err := deps.openDrafts(path)
	if err != nil {
		debug.Logf("open drafts %s: %v", path, err)
		fmt.Fprintf(deps.stderr, "Warning: drafts disabled: %v\n", err)
		return nil
	}
	return store
}

// checkServices pings the basic info service so the spinner can say when it
// is down. The directory page shows its own error either way.
func checkServices(client api.Client, reporter ui.StartupReporter) {
	reporter.Stage(ui.StartupStageCheckingServices, "")
	ctx, cancel := context.WithTimeout(context.Background(), serviceCheckTimeout)
	defer cancel()
	if _, err := client.Departments(ctx); err != nil {
		debug.Logf("service check: %v", err)
		reporter.Stage(ui.StartupStageCheckingServices, "unreachable")
	}
}

func runProgram(cfg ui.Config, builder func(ui.Config) (*ui.App, error), factory programFactory) (*ui.App, error) {
	app, err := builder(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize UI: %w", err)
	}
	if factory == nil {
		return nil, errors.New("program factory is nil")
	}
	prog := factory(app)
	if prog == nil {
		return nil, errors.New("program is nil")
	}
	if _, err := prog.Run(); err != nil {
		return nil, fmt.Errorf("run UI: %w", err)
	}
	return app, nil
}

type runtimeFlags struct {
	basicInfoURL *string
	detailsURL   *string
	pageSize     *int
	outputFormat *string
	draftPath    *string
	theme        *string
	exportPath   *string
	list         *bool
}

type runtimeOptions struct {
	basicInfoURL string
	detailsURL   string
	timeout      time.Duration
	pageSize     int
	outputFormat string
	draftPath    string
	theme        string
	exportPath   string
	list         bool
	search       autocomplete.Config
}

// computeRuntimeOptions layers explicitly set flags over configuration.
func computeRuntimeOptions(flags runtimeFlags, visited map[string]struct{}) runtimeOptions {
	rt := runtimeOptions{
		basicInfoURL: strings.TrimSpace(config.GetString(config.KeyBasicInfoURL)),
		detailsURL:   strings.TrimSpace(config.GetString(config.KeyDetailsURL)),
		timeout:      config.GetDuration(config.KeyAPITimeout),
		pageSize:     config.PageSize(),
		outputFormat: strings.TrimSpace(config.GetString(config.KeyOutputFormat)),
		draftPath:    strings.TrimSpace(config.GetString(config.KeyDraftPath)),
		theme:        strings.TrimSpace(config.GetString(config.KeyTheme)),
		search: autocomplete.Config{
			Debounce:  config.Debounce(),
			MinLength: max(0, config.GetInt(config.KeyMinLength)),
		},
	}
	if rt.search.Debounce == 0 {
		// Zero would pick up the package default; the wizard wants no delay.
		rt.search.Debounce = -1
	}

	if flagWasExplicitlySet("basic-info-url", visited) {
		rt.basicInfoURL = strings.TrimSpace(*flags.basicInfoURL)
	}
	if flagWasExplicitlySet("details-url", visited) {
		rt.detailsURL = strings.TrimSpace(*flags.detailsURL)
	}
	if flagWasExplicitlySet("page-size", visited) && *flags.pageSize > 0 {
		rt.pageSize = *flags.pageSize
	}
	if flagWasExplicitlySet("output-format", visited) {
		rt.outputFormat = strings.TrimSpace(*flags.outputFormat)
	}
	if flagWasExplicitlySet("draft-path", visited) {
		rt.draftPath = strings.TrimSpace(*flags.draftPath)
	}
	if flagWasExplicitlySet("theme", visited) {
		rt.theme = strings.TrimSpace(*flags.theme)
	}
	if flags.exportPath != nil {
		rt.exportPath = strings.TrimSpace(*flags.exportPath)
	}
	if flags.list != nil {
		rt.list = *flags.list
	}
	if rt.draftPath == "" {
		rt.draftPath = defaultDraftPath()
	}
	return rt
}

func defaultDraftPath() string {
	dir, err := config.Dir()
	if err != nil {
		return filepath.Join(os.TempDir(), "onboard-drafts.db")
	}
	return filepath.Join(dir, "drafts.db")
}

func flagWasExplicitlySet(name string, visited map[string]struct{}) bool {
	if _, ok := visited[name]; ok {
		return true
	}
	f := flag.CommandLine.Lookup(name)
	if f == nil {
		return false
	}
	return f.Value.String() != f.DefValue
}
