// Package autocomplete implements the search/selection state machine behind
// the onboarding form's lookup fields.
//
// The package is host-agnostic. Reduce is a pure transition function that
// returns the next State plus a list of effects (arm a timer, issue a search,
// notify the host). Controller drives Reduce with real timers and goroutines;
// the Bubble Tea adapter in internal/ui drives it with tea commands.
package autocomplete

import (
	"time"
	"unicode/utf8"
)

const (
	// DefaultDebounce is the delay between the last keystroke and the search.
	DefaultDebounce = 300 * time.Millisecond
	// DefaultMinLength is the shortest query that triggers a search.
	DefaultMinLength = 2
)

// Option is one selectable search result. Options are equal when their
// Values are equal.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Equal reports whether two options identify the same value.
func (o Option) Equal(other Option) bool {
	return o.Value == other.Value
}

// Config holds the host-supplied settings of one field.
type Config struct {
	Debounce  time.Duration
	MinLength int
	Disabled  bool
	// Required only affects presentation (an asterisk marker).
	Required bool
}

// WithDefaults fills zero values with the package defaults. A negative
// Debounce or MinLength is treated as zero.
func (c Config) WithDefaults() Config {
	if c.Debounce == 0 {
		c.Debounce = DefaultDebounce
	}
	if c.Debounce < 0 {
		c.Debounce = 0
	}
	if c.MinLength == 0 {
		c.MinLength = DefaultMinLength
	}
	if c.MinLength < 0 {
		c.MinLength = 0
	}
	return c
}

// QueryState is the text in the input and whether the user is editing it.
type QueryState struct {
	Text     string
	IsTyping bool
}

// SearchState is the most recent search attempt and its results.
type SearchState struct {
	IsLoading       bool
	Options         []Option
	LastIssuedQuery string
}

// FocusState is dropdown visibility plus the keyboard-highlighted row.
type FocusState struct {
	IsOpen       bool
	FocusedIndex int
}

// State is the complete controller state. The zero value is not usable; call
// New.
type State struct {
	Config Config
	QueryState
	SearchState
	FocusState

	timerGen   uint64
	timerArmed bool
	searchSeq  uint64
}

// New creates a state seeded with the host's current value.
func New(cfg Config, value string) State {
	return State{
		Config:     cfg.WithDefaults(),
		QueryState: QueryState{Text: value},
		FocusState: FocusState{FocusedIndex: -1},
	}
}

// TimerPending reports whether a debounce timer is armed.
func (s State) TimerPending() bool {
	return s.timerArmed
}

// SearchToken returns the token of the latest issued search. Responses
// carrying any other token are stale.
func (s State) SearchToken() uint64 {
	return s.searchSeq
}

// MeetsMinLength reports whether the current text is long enough to search.
func (s State) MeetsMinLength() bool {
	return utf8.RuneCountInString(s.Text) >= s.Config.MinLength
}

// ClearVisible reports whether the clear affordance should be offered.
func (s State) ClearVisible() bool {
	return s.Text != "" && !s.Config.Disabled && !s.IsLoading
}

// Focused returns the highlighted option, if any.
func (s State) Focused() (Option, bool) {
	if s.FocusedIndex < 0 || s.FocusedIndex >= len(s.Options) {
		return Option{}, false
	}
	return s.Options[s.FocusedIndex], true
}
