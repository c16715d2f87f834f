package ui

// renderFooter renders the key hints for the active page. "?" expands the
// directory hints into the full table.
func (m *App) renderFooter() string {
	h := m.help
	h.ShowAll = m.showHelp
	if m.page == pageWizard {
		return h.View(wizardHelp{m.keys})
	}
	return h.View(directoryHelp{m.keys})
}
