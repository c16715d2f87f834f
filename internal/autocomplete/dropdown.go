package autocomplete

// DropdownKind is what the dropdown region shows.
type DropdownKind int

const (
	// DropdownHidden - the dropdown is closed.
	DropdownHidden DropdownKind = iota
	// DropdownLoading - a search is pending.
	DropdownLoading
	// DropdownNoResults - the query is long enough but nothing matched.
	DropdownNoResults
	// DropdownOptions - the result list.
	DropdownOptions
	// DropdownEmpty - open, but the query is shorter than MinLength.
	DropdownEmpty
)

func (k DropdownKind) String() string {
	switch k {
	case DropdownLoading:
		return "loading"
	case DropdownNoResults:
		return "no-results"
	case DropdownOptions:
		return "options"
	case DropdownEmpty:
		return "empty"
	default:
		return "hidden"
	}
}

// DropdownItem is one rendered row.
type DropdownItem struct {
	Option
	Selected bool
	Focused  bool
}

// Dropdown describes the dropdown contents for a renderer.
type Dropdown struct {
	Kind  DropdownKind
	Items []DropdownItem
}

// Dropdown resolves what the dropdown shows, in priority order: loading,
// no results, the option list, nothing. selectedValue marks which option
// renders as selected.
func (s State) Dropdown(selectedValue string) Dropdown {
	if !s.IsOpen {
		return Dropdown{Kind: DropdownHidden}
	}
	if s.IsLoading {
		return Dropdown{Kind: DropdownLoading}
	}
	if !s.MeetsMinLength() {
		return Dropdown{Kind: DropdownEmpty}
	}
	if len(s.Options) == 0 {
		return Dropdown{Kind: DropdownNoResults}
	}
	items := make([]DropdownItem, len(s.Options))
	for i, opt := range s.Options {
		items[i] = DropdownItem{
			Option:   opt,
			Selected: selectedValue != "" && opt.Value == selectedValue,
			Focused:  i == s.FocusedIndex,
		}
	}
	return Dropdown{Kind: DropdownOptions, Items: items}
}
