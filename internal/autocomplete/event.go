package autocomplete

import "time"

// Key is a navigation key as far as the dropdown is concerned.
type Key int

const (
	// KeyOther is any key the dropdown does not react to.
	KeyOther Key = iota
	// KeyArrowDown moves the highlight down and wraps to the top. It reopens
	// a closed dropdown that still has options.
	KeyArrowDown
	// KeyArrowUp moves the highlight up and wraps to the bottom.
	KeyArrowUp
	// KeyEnter commits the highlighted option.
	KeyEnter
	// KeyEscape closes the dropdown and drops the highlight.
	KeyEscape
)

func (k Key) String() string {
	switch k {
	case KeyArrowDown:
		return "ArrowDown"
	case KeyArrowUp:
		return "ArrowUp"
	case KeyEnter:
		return "Enter"
	case KeyEscape:
		return "Escape"
	default:
		return "Other"
	}
}

// Event is an input to Reduce.
type Event interface{ isEvent() }

// InputChanged is a keystroke that changed the text.
type InputChanged struct{ Text string }

// Focused is the input gaining focus.
type Focused struct{}

// Blurred is the input losing focus. IntoDropdown is true when focus moved
// into the dropdown itself (a click selection is still in flight).
type Blurred struct{ IntoDropdown bool }

// Cleared is the clear affordance being activated.
type Cleared struct{}

// Selected is an option being chosen, by keyboard or pointer.
type Selected struct{ Option Option }

// KeyPressed is a navigation key press.
type KeyPressed struct{ Key Key }

// ValueSynced carries the host's controlled value.
type ValueSynced struct{ Value string }

// DisabledSet toggles the disabled flag.
type DisabledSet struct{ Disabled bool }

// TimerFired is the debounce timer with generation Gen going off.
type TimerFired struct{ Gen uint64 }

// SearchResolved is the outcome of the search issued with Token.
type SearchResolved struct {
	Token   uint64
	Query   string
	Options []Option
	Err     error
}

// TornDown is the field being removed. Pending timers are cancelled and
// late search results are dropped.
type TornDown struct{}

func (InputChanged) isEvent()   {}
func (Focused) isEvent()        {}
func (Blurred) isEvent()        {}
func (Cleared) isEvent()        {}
func (Selected) isEvent()       {}
func (KeyPressed) isEvent()     {}
func (ValueSynced) isEvent()    {}
func (DisabledSet) isEvent()    {}
func (TimerFired) isEvent()     {}
func (SearchResolved) isEvent() {}
func (TornDown) isEvent()       {}

// Effect is a side effect requested by Reduce. The host performs effects in
// the order they are returned.
type Effect interface{ isEffect() }

// ArmTimer asks the host to deliver TimerFired{Gen} after the delay.
type ArmTimer struct {
	Gen   uint64
	After time.Duration
}

// CancelTimer asks the host to stop the timer armed with Gen. Hosts that
// cannot stop timers may ignore it; the stale TimerFired is discarded.
type CancelTimer struct{ Gen uint64 }

// IssueSearch asks the host to run the lookup and deliver SearchResolved
// with the same Token.
type IssueSearch struct {
	Token uint64
	Query string
}

// NotifySelect is the host's select(value, option) callback.
type NotifySelect struct {
	Value  string
	Option Option
}

// NotifyClear is the host's clear() callback.
type NotifyClear struct{}

// NotifyFocus forwards focus to the host.
type NotifyFocus struct{}

// NotifyBlur forwards blur to the host.
type NotifyBlur struct{}

// ReportFailure asks the host to log a failed search.
type ReportFailure struct {
	Query string
	Err   error
}

func (ArmTimer) isEffect()      {}
func (CancelTimer) isEffect()   {}
func (IssueSearch) isEffect()   {}
func (NotifySelect) isEffect()  {}
func (NotifyClear) isEffect()   {}
func (NotifyFocus) isEffect()   {}
func (NotifyBlur) isEffect()    {}
func (ReportFailure) isEffect() {}
