package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"onboard/internal/ui"
	"onboard/internal/ui/theme"
)

const clearLine = "\r\033[2K"

// startupSpinner shows what onboard is doing on stderr before the TUI takes
// the screen. It stays hidden when startup finishes within delay. Stage
// redraws at once when visible; a ticker advances the frame in between.
type startupSpinner struct {
	out   io.Writer
	look  spinner.Spinner
	frame lipgloss.Style

	mu      sync.Mutex
	message string
	visible bool
	index   int
	stopped bool

	stop chan struct{}
	done chan struct{}
}

func newStartupSpinner(w io.Writer, delay time.Duration) *startupSpinner {
	if w == nil {
		w = io.Discard
	}
	s := &startupSpinner{
		out:   w,
		look:  spinner.MiniDot,
		frame: lipgloss.NewStyle().Foreground(theme.Current().Primary),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	s.visible = delay <= 0
	go s.run(delay)
	return s
}

// Stage replaces the status line.
func (s *startupSpinner) Stage(stage ui.StartupStage, detail string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.message = formatStageMessage(stage, detail)
	if s.visible {
		s.drawLocked()
	}
}

// Stop erases the line and waits for the ticker. Safe to call twice.
func (s *startupSpinner) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stop)
	s.mu.Unlock()
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visible {
		_, _ = io.WriteString(s.out, clearLine)
	}
}

func (s *startupSpinner) run(delay time.Duration) {
	defer close(s.done)

	var reveal <-chan time.Time
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		reveal = timer.C
	}
	ticker := time.NewTicker(s.look.FPS)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-reveal:
			reveal = nil
			s.mu.Lock()
			s.visible = true
			s.drawLocked()
			s.mu.Unlock()
		case <-ticker.C:
			s.mu.Lock()
			if s.visible {
				s.index++
				s.drawLocked()
			}
			s.mu.Unlock()
		}
	}
}

func (s *startupSpinner) drawLocked() {
	if s.message == "" {
		return
	}
	frames := s.look.Frames
	glyph := s.frame.Render(frames[s.index%len(frames)])
	_, _ = fmt.Fprintf(s.out, "%s%s %s", clearLine, glyph, s.message)
}

var stageMessages = map[ui.StartupStage]string{
	ui.StartupStageInit:             "Getting ready...",
	ui.StartupStageOpeningDrafts:    "Opening drafts...",
	ui.StartupStageCheckingServices: "Checking services...",
	ui.StartupStageReady:            "Opening the directory...",
}

func formatStageMessage(stage ui.StartupStage, detail string) string {
	msg := stageMessages[stage]
	if msg == "" {
		msg = "Starting..."
	}
	detail = strings.TrimSpace(detail)
	if detail == "" {
		return msg
	}
	return fmt.Sprintf("%s - %s", msg, detail)
}
