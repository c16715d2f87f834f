package ui

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"onboard/internal/autocomplete"
	"onboard/internal/debug"
)

var acLogger = debug.Scope("autocomplete")

// acInstances numbers every field ever built. Timer generations and search
// tokens restart with each field, so late messages are matched on the
// instance as well as the ID.
var acInstances atomic.Uint64

// AutocompleteSelectedMsg reports a committed option. An empty Value means
// the field was cleared.
type AutocompleteSelectedMsg struct {
	ID     string
	Value  string
	Option autocomplete.Option
}

// AutocompleteClearedMsg reports the clear affordance. It always precedes
// the empty AutocompleteSelectedMsg.
type AutocompleteClearedMsg struct{ ID string }

// AutocompleteFocusMsg and AutocompleteBlurMsg forward focus changes.
type AutocompleteFocusMsg struct{ ID string }

type AutocompleteBlurMsg struct{ ID string }

type autocompleteTimerMsg struct {
	id       string
	instance uint64
	gen      uint64
}

type autocompleteResultMsg struct {
	id       string
	instance uint64
	token    uint64
	query   string
	options []autocomplete.Option
	err     error
}

// Autocomplete is the Bubble Tea host of the autocomplete state machine. It
// turns ArmTimer into tea.Tick and IssueSearch into a command; stale ticks
// and results are discarded by the state machine itself.
type Autocomplete struct {
	ID          string
	Label       string
	Placeholder string
	Width       int
	MaxVisible  int
	// Error is rendered verbatim under the field.
	Error string
	// SelectedValue marks the committed option in the dropdown.
	SelectedValue string

	instance uint64
	state    autocomplete.State
	input    textinput.Model
	searcher autocomplete.Searcher
	timeout  time.Duration
	focused  bool
}

// NewAutocomplete creates a field seeded with value.
func NewAutocomplete(id, label string, cfg autocomplete.Config, searcher autocomplete.Searcher, value string) Autocomplete {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 100
	ti.SetValue(value)

	a := Autocomplete{
		ID:         id,
		Label:      label,
		Width:      40,
		MaxVisible: 6,
		instance:   acInstances.Add(1),
		state:      autocomplete.New(cfg, value),
		input:      ti,
		searcher:   searcher,
	}
	a.input.Width = a.Width - 4
	return a
}

// WithPlaceholder sets the placeholder text.
func (a Autocomplete) WithPlaceholder(s string) Autocomplete {
	a.Placeholder = s
	a.input.Placeholder = s
	return a
}

// WithWidth sets the visual width including the border.
func (a Autocomplete) WithWidth(w int) Autocomplete {
	a.Width = w
	a.input.Width = max(1, w-4)
	return a
}

// WithTimeout bounds each search request.
func (a Autocomplete) WithTimeout(d time.Duration) Autocomplete {
	a.timeout = d
	return a
}

// State exposes the machine state for rendering and tests.
func (a Autocomplete) State() autocomplete.State { return a.state }

// Value returns the text in the input.
func (a Autocomplete) Value() string { return a.state.Text }

// Focused reports whether the field has keyboard focus.
func (a Autocomplete) Focused() bool { return a.focused }

// Focus gives the field keyboard focus.
func (a Autocomplete) Focus() (Autocomplete, tea.Cmd) {
	a.focused = true
	cmd := a.input.Focus()
	a, evCmd := a.apply(autocomplete.Focused{})
	return a, tea.Batch(cmd, evCmd)
}

// Blur removes keyboard focus.
func (a Autocomplete) Blur() (Autocomplete, tea.Cmd) {
	a.focused = false
	a.input.Blur()
	return a.apply(autocomplete.Blurred{})
}

// Select commits opt as if it had been picked from the dropdown.
func (a Autocomplete) Select(opt autocomplete.Option) (Autocomplete, tea.Cmd) {
	return a.apply(autocomplete.Selected{Option: opt})
}

// Clear empties the field.
func (a Autocomplete) Clear() (Autocomplete, tea.Cmd) {
	return a.apply(autocomplete.Cleared{})
}

// SetValue syncs the host value. Ignored while the user is typing.
func (a Autocomplete) SetValue(value string) Autocomplete {
	a, _ = a.apply(autocomplete.ValueSynced{Value: value})
	return a
}

// SetDisabled toggles interaction.
func (a Autocomplete) SetDisabled(disabled bool) Autocomplete {
	a, _ = a.apply(autocomplete.DisabledSet{Disabled: disabled})
	return a
}

// Teardown stops the pending timer and drops late results.
func (a Autocomplete) Teardown() Autocomplete {
	a, _ = a.apply(autocomplete.TornDown{})
	return a
}

// Update implements the tea component contract. Keys are only handled while
// focused; timer and result messages must come from this field instance.
func (a Autocomplete) Update(msg tea.Msg) (Autocomplete, tea.Cmd) {
	switch msg := msg.(type) {
	case autocompleteTimerMsg:
		if msg.id != a.ID || msg.instance != a.instance {
			return a, nil
		}
		return a.apply(autocomplete.TimerFired{Gen: msg.gen})
	case autocompleteResultMsg:
		if msg.id != a.ID || msg.instance != a.instance {
			return a, nil
		}
		return a.apply(autocomplete.SearchResolved{Token: msg.token, Query: msg.query, Options: msg.options, Err: msg.err})
	case tea.KeyMsg:
		if !a.focused {
			return a, nil
		}
		return a.handleKey(msg)
	}
	return a, nil
}

func (a Autocomplete) handleKey(msg tea.KeyMsg) (Autocomplete, tea.Cmd) {
	switch msg.Type {
	case tea.KeyDown:
		return a.apply(autocomplete.KeyPressed{Key: autocomplete.KeyArrowDown})
	case tea.KeyUp:
		return a.apply(autocomplete.KeyPressed{Key: autocomplete.KeyArrowUp})
	case tea.KeyEnter:
		return a.apply(autocomplete.KeyPressed{Key: autocomplete.KeyEnter})
	case tea.KeyEsc:
		return a.apply(autocomplete.KeyPressed{Key: autocomplete.KeyEscape})
	case tea.KeyCtrlX:
		if !a.state.ClearVisible() {
			return a, nil
		}
		return a.apply(autocomplete.Cleared{})
	}
	if a.state.Config.Disabled {
		return a, nil
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if a.input.Value() == before {
		return a, cmd
	}
	a, evCmd := a.apply(autocomplete.InputChanged{Text: a.input.Value()})
	return a, tea.Batch(cmd, evCmd)
}

// apply runs one event through the reducer and turns its effects into
// commands. Host notifications are sequenced so they arrive in effect order.
func (a Autocomplete) apply(ev autocomplete.Event) (Autocomplete, tea.Cmd) {
	next, effects := autocomplete.Reduce(a.state, ev)
	a.state = next
	if a.input.Value() != a.state.Text {
		a.input.SetValue(a.state.Text)
		a.input.CursorEnd()
	}

	var async, notify []tea.Cmd
	for _, eff := range effects {
		switch e := eff.(type) {
		case autocomplete.ArmTimer:
			async = append(async, a.tick(e))
		case autocomplete.CancelTimer:
			// tea.Tick cannot be stopped; the stale tick is ignored by gen.
		case autocomplete.IssueSearch:
			async = append(async, a.search(e))
		case autocomplete.ReportFailure:
			acLogger.Logf("%s: search %q failed: %v", a.ID, e.Query, e.Err)
		case autocomplete.NotifySelect:
			notify = append(notify, emit(AutocompleteSelectedMsg{ID: a.ID, Value: e.Value, Option: e.Option}))
		case autocomplete.NotifyClear:
			notify = append(notify, emit(AutocompleteClearedMsg{ID: a.ID}))
		case autocomplete.NotifyFocus:
			notify = append(notify, emit(AutocompleteFocusMsg{ID: a.ID}))
		case autocomplete.NotifyBlur:
			notify = append(notify, emit(AutocompleteBlurMsg{ID: a.ID}))
		}
	}
	if len(notify) > 0 {
		async = append(async, tea.Sequence(notify...))
	}
	return a, tea.Batch(async...)
}

func (a Autocomplete) tick(e autocomplete.ArmTimer) tea.Cmd {
	id, instance, gen := a.ID, a.instance, e.Gen
	return tea.Tick(e.After, func(time.Time) tea.Msg {
		return autocompleteTimerMsg{id: id, instance: instance, gen: gen}
	})
}

func (a Autocomplete) search(e autocomplete.IssueSearch) tea.Cmd {
	id, instance, searcher, timeout := a.ID, a.instance, a.searcher, a.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		var (
			opts []autocomplete.Option
			err  error
		)
		if searcher != nil {
			opts, err = searcher.Search(ctx, e.Query)
		}
		return autocompleteResultMsg{id: id, instance: instance, token: e.Token, query: e.Query, options: opts, err: err}
	}
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
