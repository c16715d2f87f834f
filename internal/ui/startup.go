package ui

// StartupStage enumerates the phases before the TUI takes over the screen.
type StartupStage int

const (
	StartupStageInit StartupStage = iota
	StartupStageOpeningDrafts
	StartupStageCheckingServices
	StartupStageReady
)

// StartupReporter receives progress notifications during startup.
// Implementations should be safe for concurrent use.
type StartupReporter interface {
	Stage(stage StartupStage, detail string)
}

// StartupReporterFunc adapts a function to the StartupReporter interface.
type StartupReporterFunc func(stage StartupStage, detail string)

// Stage implements StartupReporter.
func (f StartupReporterFunc) Stage(stage StartupStage, detail string) {
	if f == nil {
		return
	}
	f(stage, detail)
}

// SessionSummary is what the exit banner reports.
type SessionSummary struct {
	Added []string // employee IDs created this session
}

// Summary returns the session's results.
func (m *App) Summary() SessionSummary {
	return SessionSummary{Added: append([]string(nil), m.added...)}
}
