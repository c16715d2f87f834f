package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keyboard shortcuts. Form fields consume printable keys,
// so wizard actions use ctrl chords.
type KeyMap struct {
	// Directory
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Refresh  key.Binding
	Copy     key.Binding
	New      key.Binding
	Export   key.Binding

	// Wizard
	NextField  key.Binding
	PrevField  key.Binding
	Submit     key.Binding
	Back       key.Binding
	ClearDraft key.Binding
	ClearField key.Binding
	Cancel     key.Binding

	// Global
	Theme key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "Previous row"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "Next row"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h", "pgup"),
			key.WithHelp("←/h", "Previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l", "pgdown"),
			key.WithHelp("→/l", "Next page"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Copy employee ID"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Add employee"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Export XLSX"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("⇥", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("⇧⇥", "Previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("^S", "Next/Submit"),
		),
		Back: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("^B", "Back"),
		),
		ClearDraft: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("^D", "Clear draft"),
		),
		ClearField: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("^X", "Clear field"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "Close/cancel"),
		),

		Theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("^T", "Cycle theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
	}
}

// directoryHelp adapts the directory bindings to help.KeyMap.
type directoryHelp struct{ k KeyMap }

func (h directoryHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Up, h.k.PrevPage, h.k.NextPage, h.k.New, h.k.Copy, h.k.Help, h.k.Quit}
}

func (h directoryHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.k.Up, h.k.Down, h.k.PrevPage, h.k.NextPage},
		{h.k.Refresh, h.k.Copy, h.k.New, h.k.Export},
		{h.k.Theme, h.k.Help, h.k.Quit},
	}
}

// wizardHelp adapts the wizard bindings to help.KeyMap.
type wizardHelp struct{ k KeyMap }

func (h wizardHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.NextField, h.k.Submit, h.k.Back, h.k.ClearDraft, h.k.Cancel}
}

func (h wizardHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.k.NextField, h.k.PrevField, h.k.ClearField},
		{h.k.Submit, h.k.Back, h.k.ClearDraft, h.k.Cancel},
		{h.k.Theme},
	}
}
