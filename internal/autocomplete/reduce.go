package autocomplete

// Reduce applies one event and returns the next state together with the
// effects the host must carry out. It never mutates s.Options in place, so
// the previous state stays valid.
func Reduce(s State, ev Event) (State, []Effect) {
	if s.Config.Disabled && blockedWhileDisabled(ev) {
		return s, nil
	}

	switch e := ev.(type) {
	case InputChanged:
		return onInputChanged(s, e.Text)

	case Focused:
		s.IsOpen = true
		return s, []Effect{NotifyFocus{}}

	case Blurred:
		if e.IntoDropdown {
			return s, nil
		}
		s.IsTyping = false
		s = closeDropdown(s)
		return s, []Effect{NotifyBlur{}}

	case Cleared:
		var effects []Effect
		s, effects = cancelTimer(s, effects)
		s.searchSeq++
		s.IsLoading = false
		s.IsTyping = false
		s.Text = ""
		s.Options = nil
		s = closeDropdown(s)
		return s, append(effects, NotifyClear{}, NotifySelect{Value: "", Option: Option{}})

	case Selected:
		return onSelected(s, e.Option)

	case KeyPressed:
		return onKey(s, e.Key)

	case ValueSynced:
		if !s.IsTyping && s.Text != e.Value {
			s.Text = e.Value
		}
		return s, nil

	case DisabledSet:
		s.Config.Disabled = e.Disabled
		if e.Disabled {
			s.IsTyping = false
			s = closeDropdown(s)
		}
		return s, nil

	case TimerFired:
		return onTimerFired(s, e.Gen)

	case SearchResolved:
		return onSearchResolved(s, e)

	case TornDown:
		var effects []Effect
		s, effects = cancelTimer(s, effects)
		s.searchSeq++
		s.IsLoading = false
		return s, effects
	}
	return s, nil
}

func blockedWhileDisabled(ev Event) bool {
	switch ev.(type) {
	case InputChanged, Focused, Cleared, Selected, KeyPressed:
		return true
	}
	return false
}

func onInputChanged(s State, text string) (State, []Effect) {
	var effects []Effect
	s.IsTyping = true
	s.Text = text
	s.IsOpen = true
	s.FocusedIndex = -1

	s, effects = cancelTimer(s, effects)
	// Loading shows immediately, even below MinLength; the timer clears it.
	s.IsLoading = true
	s.timerGen++
	s.timerArmed = true
	return s, append(effects, ArmTimer{Gen: s.timerGen, After: s.Config.Debounce})
}

func onTimerFired(s State, gen uint64) (State, []Effect) {
	if !s.timerArmed || gen != s.timerGen {
		return s, nil
	}
	s.timerArmed = false
	// Any search still in flight belongs to older text.
	s.searchSeq++

	if !s.MeetsMinLength() {
		s = setOptions(s, nil)
		s.IsLoading = false
		return s, nil
	}
	s.LastIssuedQuery = s.Text
	return s, []Effect{IssueSearch{Token: s.searchSeq, Query: s.Text}}
}

func onSearchResolved(s State, e SearchResolved) (State, []Effect) {
	if e.Token != s.searchSeq {
		return s, nil
	}
	s.IsLoading = false
	if e.Err != nil {
		s = setOptions(s, nil)
		return s, []Effect{ReportFailure{Query: e.Query, Err: e.Err}}
	}
	s = setOptions(s, e.Options)
	return s, nil
}

func onSelected(s State, opt Option) (State, []Effect) {
	var effects []Effect
	// A keystroke may still be waiting on its timer; the selection wins.
	s, effects = cancelTimer(s, effects)
	s.IsLoading = false
	s.IsTyping = false
	s.Text = opt.Label
	s = closeDropdown(s)
	return s, append(effects, NotifySelect{Value: opt.Value, Option: opt})
}

func onKey(s State, key Key) (State, []Effect) {
	if key == KeyEscape {
		return closeDropdown(s), nil
	}
	if !s.IsOpen {
		if key == KeyArrowDown && len(s.Options) > 0 {
			s.IsOpen = true
		}
		return s, nil
	}

	n := len(s.Options)
	switch key {
	case KeyArrowDown:
		if n == 0 {
			return s, nil
		}
		if s.FocusedIndex < n-1 {
			s.FocusedIndex++
		} else {
			s.FocusedIndex = 0
		}
	case KeyArrowUp:
		if n == 0 {
			return s, nil
		}
		if s.FocusedIndex > 0 {
			s.FocusedIndex--
		} else {
			s.FocusedIndex = n - 1
		}
	case KeyEnter:
		if opt, ok := s.Focused(); ok {
			return onSelected(s, opt)
		}
	}
	return s, nil
}

func cancelTimer(s State, effects []Effect) (State, []Effect) {
	if !s.timerArmed {
		return s, effects
	}
	s.timerArmed = false
	return s, append(effects, CancelTimer{Gen: s.timerGen})
}

func closeDropdown(s State) State {
	s.IsOpen = false
	s.FocusedIndex = -1
	return s
}

func setOptions(s State, opts []Option) State {
	if len(opts) == 0 {
		s.Options = nil
	} else {
		s.Options = append([]Option(nil), opts...)
	}
	s.FocusedIndex = -1
	return s
}
