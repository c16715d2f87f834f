package autocomplete

import (
	"errors"
	"math/rand"
	"testing"
	"time"
)

// harness applies events and records every effect, resolving the timer
// generation and search token the way a host would.
type harness struct {
	t       *testing.T
	state   State
	effects []Effect
}

func newHarness(t *testing.T, cfg Config, value string) *harness {
	return &harness{t: t, state: New(cfg, value)}
}

func (h *harness) send(ev Event) []Effect {
	h.t.Helper()
	next, effects := Reduce(h.state, ev)
	h.state = next
	h.effects = append(h.effects, effects...)
	assertFocusInRange(h.t, h.state)
	return effects
}

func (h *harness) typeText(text string) ArmTimer {
	h.t.Helper()
	var arm ArmTimer
	found := false
	for _, eff := range h.send(InputChanged{Text: text}) {
		if a, ok := eff.(ArmTimer); ok {
			arm, found = a, true
		}
	}
	if !found {
		h.t.Fatalf("typing %q did not arm a timer", text)
	}
	return arm
}

func (h *harness) fire(arm ArmTimer) (IssueSearch, bool) {
	h.t.Helper()
	for _, eff := range h.send(TimerFired{Gen: arm.Gen}) {
		if s, ok := eff.(IssueSearch); ok {
			return s, true
		}
	}
	return IssueSearch{}, false
}

func (h *harness) searches() []IssueSearch {
	var out []IssueSearch
	for _, eff := range h.effects {
		if s, ok := eff.(IssueSearch); ok {
			out = append(out, s)
		}
	}
	return out
}

func (h *harness) selects() []NotifySelect {
	var out []NotifySelect
	for _, eff := range h.effects {
		if s, ok := eff.(NotifySelect); ok {
			out = append(out, s)
		}
	}
	return out
}

func assertFocusInRange(t *testing.T, s State) {
	t.Helper()
	if s.FocusedIndex < -1 || s.FocusedIndex > len(s.Options)-1 {
		t.Fatalf("focused index %d out of range for %d options", s.FocusedIndex, len(s.Options))
	}
}

var acme = Option{Value: "1", Label: "Acme"}

func TestNewSeedsTextAndDefaults(t *testing.T) {
	s := New(Config{}, "Engineering")
	if s.Text != "Engineering" {
		t.Fatalf("expected seeded text, got %q", s.Text)
	}
	if s.Config.Debounce != DefaultDebounce || s.Config.MinLength != DefaultMinLength {
		t.Fatalf("expected defaults, got %+v", s.Config)
	}
	if s.FocusedIndex != -1 || s.IsOpen || s.IsTyping || s.IsLoading {
		t.Fatalf("unexpected initial state %+v", s)
	}
}

func TestInputChangeArmsTimerWithoutSearching(t *testing.T) {
	h := newHarness(t, Config{Debounce: 500 * time.Millisecond, MinLength: 1}, "")
	arm := h.typeText("a")

	if arm.After != 500*time.Millisecond {
		t.Fatalf("expected 500ms debounce, got %v", arm.After)
	}
	if !h.state.IsTyping || !h.state.IsOpen || !h.state.IsLoading {
		t.Fatalf("expected typing/open/loading after keystroke, got %+v", h.state)
	}
	if len(h.searches()) != 0 {
		t.Fatal("keystroke must not search before the timer fires")
	}
}

func TestScenarioTypeSelectWithKeyboard(t *testing.T) {
	h := newHarness(t, Config{Debounce: 500 * time.Millisecond, MinLength: 1}, "")
	search, ok := h.fire(h.typeText("a"))
	if !ok || search.Query != "a" {
		t.Fatalf("expected search for %q, got %+v (issued=%v)", "a", search, ok)
	}
	if n := len(h.searches()); n != 1 {
		t.Fatalf("expected exactly one search, got %d", n)
	}

	h.send(SearchResolved{Token: search.Token, Query: "a", Options: []Option{acme}})
	if h.state.IsLoading || len(h.state.Options) != 1 {
		t.Fatalf("expected one option and loading cleared, got %+v", h.state.SearchState)
	}

	h.send(KeyPressed{Key: KeyArrowDown})
	if h.state.FocusedIndex != 0 {
		t.Fatalf("expected focus on first option, got %d", h.state.FocusedIndex)
	}

	h.send(KeyPressed{Key: KeyEnter})
	sel := h.selects()
	if len(sel) != 1 || sel[0].Value != "1" || sel[0].Option != acme {
		t.Fatalf("expected select(1, Acme), got %+v", sel)
	}
	if h.state.Text != "Acme" || h.state.IsOpen || h.state.IsTyping {
		t.Fatalf("expected committed text and closed dropdown, got %+v", h.state)
	}
}

func TestRapidKeystrokesCoalesceIntoOneSearch(t *testing.T) {
	h := newHarness(t, Config{Debounce: 500 * time.Millisecond, MinLength: 1}, "")
	first := h.typeText("ab")
	second := h.typeText("abc")

	cancelled := false
	for _, eff := range h.effects {
		if c, ok := eff.(CancelTimer); ok && c.Gen == first.Gen {
			cancelled = true
		}
	}
	if !cancelled {
		t.Fatal("second keystroke should cancel the first timer")
	}

	// A host that could not stop the first timer still delivers it.
	if _, issued := h.fire(first); issued {
		t.Fatal("stale timer must not issue a search")
	}
	search, issued := h.fire(second)
	if !issued || search.Query != "abc" {
		t.Fatalf("expected one search for abc, got %+v", search)
	}
	for _, s := range h.searches() {
		if s.Query == "ab" {
			t.Fatal(`search("ab") must never be issued`)
		}
	}
	if n := len(h.searches()); n != 1 {
		t.Fatalf("expected exactly one search, got %d", n)
	}
}

func TestBelowMinLengthNeverSearchesAndClearsOptions(t *testing.T) {
	h := newHarness(t, Config{MinLength: 3}, "")
	search, _ := h.fire(h.typeText("eng"))
	h.send(SearchResolved{Token: search.Token, Query: "eng", Options: []Option{{Value: "2", Label: "Engineering"}}})

	arm := h.typeText("en")
	if !h.state.IsLoading {
		t.Fatal("loading flashes even below min length")
	}
	if _, issued := h.fire(arm); issued {
		t.Fatal("query below min length must not search")
	}
	if len(h.state.Options) != 0 || h.state.IsLoading {
		t.Fatalf("expected options cleared and loading off, got %+v", h.state.SearchState)
	}
	if n := len(h.searches()); n != 1 {
		t.Fatalf("expected only the first search, got %d", n)
	}
}

func TestMinLengthCountsRunes(t *testing.T) {
	h := newHarness(t, Config{MinLength: 2}, "")
	if _, issued := h.fire(h.typeText("é")); issued {
		t.Fatal("a single multi-byte rune is below min length 2")
	}
	if _, issued := h.fire(h.typeText("ég")); !issued {
		t.Fatal("two runes should meet min length 2")
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	h := newHarness(t, Config{MinLength: 1}, "")
	searchA, _ := h.fire(h.typeText("a"))
	searchB, _ := h.fire(h.typeText("ab"))

	fresh := []Option{{Value: "b", Label: "Bravo"}}
	stale := []Option{{Value: "a", Label: "Alpha"}}

	// B resolves first, then the slow A arrives.
	h.send(SearchResolved{Token: searchB.Token, Query: "ab", Options: fresh})
	h.send(SearchResolved{Token: searchA.Token, Query: "a", Options: stale})

	if len(h.state.Options) != 1 || h.state.Options[0].Value != "b" {
		t.Fatalf("expected options from B, got %+v", h.state.Options)
	}
	if h.state.LastIssuedQuery != "ab" {
		t.Fatalf("expected last issued query ab, got %q", h.state.LastIssuedQuery)
	}
}

func TestStaleResponseCannotClearLoadingOfNewerSearch(t *testing.T) {
	h := newHarness(t, Config{MinLength: 1}, "")
	searchA, _ := h.fire(h.typeText("a"))
	h.fire(h.typeText("ab"))

	h.send(SearchResolved{Token: searchA.Token, Query: "a", Options: []Option{acme}})
	if !h.state.IsLoading {
		t.Fatal("newer search is still pending; loading must stay on")
	}
	if len(h.state.Options) != 0 {
		t.Fatal("stale options must not be applied")
	}
}

func TestSearchFailureDegradesToEmpty(t *testing.T) {
	h := newHarness(t, Config{MinLength: 1}, "")
	search, _ := h.fire(h.typeText("a"))
	h.send(SearchResolved{Token: search.Token, Query: "a", Options: []Option{acme}})

	search, _ = h.fire(h.typeText("ac"))
	effects := h.send(SearchResolved{Token: search.Token, Query: "ac", Err: errors.New("boom")})

	if len(h.state.Options) != 0 || h.state.IsLoading {
		t.Fatalf("expected empty, idle state after failure, got %+v", h.state.SearchState)
	}
	if len(effects) != 1 {
		t.Fatalf("expected a single failure report, got %+v", effects)
	}
	if r, ok := effects[0].(ReportFailure); !ok || r.Query != "ac" {
		t.Fatalf("expected ReportFailure for ac, got %+v", effects[0])
	}
	if h.state.Dropdown("").Kind != DropdownNoResults {
		t.Fatal("failures render exactly like no results")
	}
}

func TestKeyboardNavigationWraps(t *testing.T) {
	opts := []Option{{Value: "1", Label: "One"}, {Value: "2", Label: "Two"}, {Value: "3", Label: "Three"}}
	h := newHarness(t, Config{MinLength: 1}, "")
	search, _ := h.fire(h.typeText("t"))
	h.send(SearchResolved{Token: search.Token, Query: "t", Options: opts})

	steps := []struct {
		key  Key
		want int
	}{
		{KeyArrowDown, 0},
		{KeyArrowDown, 1},
		{KeyArrowDown, 2},
		{KeyArrowDown, 0},
		{KeyArrowUp, 2},
		{KeyArrowUp, 1},
		{KeyArrowUp, 0},
		{KeyArrowUp, 2},
	}
	for i, step := range steps {
		h.send(KeyPressed{Key: step.key})
		if h.state.FocusedIndex != step.want {
			t.Fatalf("step %d (%s): expected focus %d, got %d", i, step.key, step.want, h.state.FocusedIndex)
		}
	}
}

func TestArrowUpFromNoFocusWrapsToLast(t *testing.T) {
	h := newHarness(t, Config{MinLength: 1}, "")
	search, _ := h.fire(h.typeText("t"))
	h.send(SearchResolved{Token: search.Token, Options: []Option{acme, {Value: "2", Label: "Two"}}})

	h.send(KeyPressed{Key: KeyArrowUp})
	if h.state.FocusedIndex != 1 {
		t.Fatalf("expected ArrowUp from -1 to focus last option, got %d", h.state.FocusedIndex)
	}
}

func TestArrowDownWhileClosedOnlyOpens(t *testing.T) {
	h := newHarness(t, Config{MinLength: 1}, "")
	search, _ := h.fire(h.typeText("a"))
	h.send(SearchResolved{Token: search.Token, Options: []Option{acme}})
	h.send(KeyPressed{Key: KeyEscape})

	h.send(KeyPressed{Key: KeyArrowDown})
	if !h.state.IsOpen || h.state.FocusedIndex != -1 {
		t.Fatalf("first ArrowDown from closed should open without focus, got %+v", h.state.FocusState)
	}
	h.send(KeyPressed{Key: KeyArrowDown})
	if h.state.FocusedIndex != 0 {
		t.Fatalf("second ArrowDown should focus first option, got %d", h.state.FocusedIndex)
	}
}

func TestArrowDownWhileClosedWithoutOptionsStaysClosed(t *testing.T) {
	h := newHarness(t, Config{}, "")
	h.send(KeyPressed{Key: KeyArrowDown})
	if h.state.IsOpen {
		t.Fatal("nothing to show; dropdown must stay closed")
	}
}

func TestArrowKeysWithNoOptionsKeepFocusNone(t *testing.T) {
	h := newHarness(t, Config{MinLength: 1}, "")
	h.send(Focused{})
	h.send(KeyPressed{Key: KeyArrowDown})
	h.send(KeyPressed{Key: KeyArrowUp})
	if h.state.FocusedIndex != -1 {
		t.Fatalf("expected -1 with no options, got %d", h.state.FocusedIndex)
	}
}

func TestEnterWithoutFocusIsNoop(t *testing.T) {
	h := newHarness(t, Config{MinLength: 1}, "")
	search, _ := h.fire(h.typeText("a"))
	h.send(SearchResolved{Token: search.Token, Options: []Option{acme}})

	before := h.state
	effects := h.send(KeyPressed{Key: KeyEnter})
	if len(effects) != 0 || len(h.selects()) != 0 {
		t.Fatalf("Enter with no focus must not select, got %+v", effects)
	}
	if h.state.IsOpen != before.IsOpen || h.state.Text != before.Text {
		t.Fatal("Enter with no focus must not change state")
	}
}

func TestEscapeAlwaysClosesAndResetsFocus(t *testing.T) {
	prep := map[string]func(h *harness){
		"closed": func(h *harness) {},
		"open no focus": func(h *harness) {
			h.send(Focused{})
		},
		"open focused": func(h *harness) {
			search, _ := h.fire(h.typeText("a"))
			h.send(SearchResolved{Token: search.Token, Options: []Option{acme}})
			h.send(KeyPressed{Key: KeyArrowDown})
		},
	}
	for name, setup := range prep {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, Config{MinLength: 1}, "")
			setup(h)
			h.send(KeyPressed{Key: KeyEscape})
			if h.state.IsOpen || h.state.FocusedIndex != -1 {
				t.Fatalf("expected closed with no focus, got %+v", h.state.FocusState)
			}
		})
	}
}

func TestClearAfterSelection(t *testing.T) {
	h := newHarness(t, Config{MinLength: 1}, "")
	search, _ := h.fire(h.typeText("a"))
	h.send(SearchResolved{Token: search.Token, Options: []Option{acme}})
	h.send(Selected{Option: acme})
	h.effects = nil

	effects := h.send(Cleared{})
	if len(effects) != 2 {
		t.Fatalf("expected clear then select, got %+v", effects)
	}
	if _, ok := effects[0].(NotifyClear); !ok {
		t.Fatalf("expected NotifyClear first, got %T", effects[0])
	}
	sel, ok := effects[1].(NotifySelect)
	if !ok || sel.Value != "" || sel.Option != (Option{}) {
		t.Fatalf("expected select(\"\", {}), got %+v", effects[1])
	}
	if h.state.Text != "" || len(h.state.Options) != 0 || h.state.IsOpen {
		t.Fatalf("expected reset state, got %+v", h.state)
	}
}

func TestClearCancelsPendingTimerAndInFlightSearch(t *testing.T) {
	h := newHarness(t, Config{MinLength: 1}, "")
	inflight, _ := h.fire(h.typeText("a"))
	pending := h.typeText("ab")

	effects := h.send(Cleared{})
	if c, ok := effects[0].(CancelTimer); !ok || c.Gen != pending.Gen {
		t.Fatalf("expected pending timer cancelled first, got %+v", effects)
	}
	if _, issued := h.fire(pending); issued {
		t.Fatal("cancelled timer must not search")
	}
	h.send(SearchResolved{Token: inflight.Token, Options: []Option{acme}})
	if len(h.state.Options) != 0 {
		t.Fatal("search issued before clear must not repopulate options")
	}
	if h.state.IsLoading {
		t.Fatal("clear must stop the loading indicator")
	}
}

func TestSelectDoesNotSearch(t *testing.T) {
	h := newHarness(t, Config{MinLength: 1}, "")
	pending := h.typeText("ac")
	h.send(Selected{Option: acme})

	if _, issued := h.fire(pending); issued {
		t.Fatal("selection cancels the pending keystroke search")
	}
	if h.state.IsLoading {
		t.Fatal("selection clears loading")
	}
}

func TestBlurIntoDropdownIsSuppressed(t *testing.T) {
	h := newHarness(t, Config{MinLength: 1}, "")
	h.typeText("a")

	if effects := h.send(Blurred{IntoDropdown: true}); len(effects) != 0 {
		t.Fatalf("expected no effects, got %+v", effects)
	}
	if !h.state.IsOpen || !h.state.IsTyping {
		t.Fatal("blur into dropdown must leave the field untouched")
	}

	effects := h.send(Blurred{})
	if len(effects) != 1 {
		t.Fatalf("expected blur notification, got %+v", effects)
	}
	if h.state.IsOpen || h.state.IsTyping {
		t.Fatal("real blur closes and ends typing")
	}
}

func TestFocusOpensWithoutSearching(t *testing.T) {
	h := newHarness(t, Config{}, "")
	effects := h.send(Focused{})
	if !h.state.IsOpen {
		t.Fatal("focus opens the dropdown")
	}
	if len(effects) != 1 {
		t.Fatalf("focus only notifies the host, got %+v", effects)
	}
	if _, ok := effects[0].(NotifyFocus); !ok {
		t.Fatalf("expected NotifyFocus, got %T", effects[0])
	}
}

func TestValueSyncRespectsTyping(t *testing.T) {
	h := newHarness(t, Config{}, "Sales")
	h.send(ValueSynced{Value: "Finance"})
	if h.state.Text != "Finance" {
		t.Fatalf("idle field should adopt host value, got %q", h.state.Text)
	}

	h.typeText("Eng")
	h.send(ValueSynced{Value: ""})
	if h.state.Text != "Eng" {
		t.Fatalf("host value must not clobber active typing, got %q", h.state.Text)
	}

	h.send(Blurred{})
	h.send(ValueSynced{Value: ""})
	if h.state.Text != "" {
		t.Fatalf("after blur the host value wins, got %q", h.state.Text)
	}
}

func TestDisabledIgnoresInteraction(t *testing.T) {
	h := newHarness(t, Config{Disabled: true}, "")
	for _, ev := range []Event{InputChanged{Text: "x"}, Focused{}, Cleared{}, Selected{Option: acme}, KeyPressed{Key: KeyArrowDown}} {
		if effects := h.send(ev); len(effects) != 0 {
			t.Fatalf("disabled field produced effects for %T: %+v", ev, effects)
		}
	}
	if h.state.Text != "" || h.state.IsOpen {
		t.Fatalf("disabled field changed state: %+v", h.state)
	}

	h.send(DisabledSet{Disabled: false})
	h.typeText("x")
	if h.state.Text != "x" {
		t.Fatal("re-enabled field accepts input")
	}
	h.send(DisabledSet{Disabled: true})
	if h.state.IsOpen || h.state.IsTyping {
		t.Fatal("disabling closes the dropdown")
	}
}

func TestTearDownCancelsTimerAndDropsResults(t *testing.T) {
	h := newHarness(t, Config{MinLength: 1}, "")
	inflight, _ := h.fire(h.typeText("a"))
	pending := h.typeText("ab")

	effects := h.send(TornDown{})
	if len(effects) != 1 {
		t.Fatalf("expected timer cancellation, got %+v", effects)
	}
	if _, issued := h.fire(pending); issued {
		t.Fatal("timer must not fire after teardown")
	}
	h.send(SearchResolved{Token: inflight.Token, Options: []Option{acme}})
	if len(h.state.Options) != 0 {
		t.Fatal("results after teardown are dropped")
	}
}

func TestOptionsChangeResetsFocus(t *testing.T) {
	h := newHarness(t, Config{MinLength: 1}, "")
	search, _ := h.fire(h.typeText("a"))
	h.send(SearchResolved{Token: search.Token, Options: []Option{acme, {Value: "2", Label: "Apex"}}})
	h.send(KeyPressed{Key: KeyArrowDown})
	h.send(KeyPressed{Key: KeyArrowDown})

	search, _ = h.fire(h.typeText("ap"))
	h.send(SearchResolved{Token: search.Token, Options: []Option{{Value: "2", Label: "Apex"}}})
	if h.state.FocusedIndex != -1 {
		t.Fatalf("new options reset focus, got %d", h.state.FocusedIndex)
	}
}

func TestReduceDoesNotAliasOptions(t *testing.T) {
	h := newHarness(t, Config{MinLength: 1}, "")
	search, _ := h.fire(h.typeText("a"))
	results := []Option{acme}
	h.send(SearchResolved{Token: search.Token, Options: results})

	results[0].Label = "mutated"
	if h.state.Options[0].Label != "Acme" {
		t.Fatal("state must not alias the searcher's slice")
	}
}

// TestRandomEventSequencesKeepInvariants drives the reducer with random
// events and checks the focus index and stale-result properties after each.
func TestRandomEventSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	texts := []string{"", "a", "ab", "abc", "x"}
	keys := []Key{KeyArrowDown, KeyArrowUp, KeyEnter, KeyEscape, KeyOther}

	for run := 0; run < 200; run++ {
		h := newHarness(t, Config{MinLength: 1 + rng.Intn(2)}, "")
		var arms []ArmTimer
		var issued []IssueSearch

		for step := 0; step < 60; step++ {
			switch rng.Intn(8) {
			case 0, 1:
				arms = append(arms, h.typeText(texts[rng.Intn(len(texts))]))
			case 2:
				if len(arms) > 0 {
					if s, ok := h.fire(arms[rng.Intn(len(arms))]); ok {
						issued = append(issued, s)
					}
				}
			case 3:
				if len(issued) > 0 {
					s := issued[rng.Intn(len(issued))]
					n := rng.Intn(4)
					opts := make([]Option, n)
					for i := range opts {
						opts[i] = Option{Value: s.Query + string(rune('0'+i)), Label: s.Query}
					}
					before := h.state
					h.send(SearchResolved{Token: s.Token, Query: s.Query, Options: opts})
					if s.Token != before.SearchToken() && len(h.state.Options) != len(before.Options) {
						t.Fatalf("run %d: stale token %d changed options", run, s.Token)
					}
				}
			case 4, 5:
				h.send(KeyPressed{Key: keys[rng.Intn(len(keys))]})
			case 6:
				h.send(Blurred{IntoDropdown: rng.Intn(2) == 0})
			case 7:
				if rng.Intn(3) == 0 {
					h.send(Cleared{})
				} else {
					h.send(Focused{})
				}
			}
			if !h.state.IsOpen && h.state.FocusedIndex != -1 {
				t.Fatalf("run %d: closed dropdown with focus %d", run, h.state.FocusedIndex)
			}
		}
	}
}
