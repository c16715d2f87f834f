// Package theme provides the semantic color palette for the onboard UI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme is a named semantic palette. Every color adapts to light and dark
// terminals.
type Theme struct {
	Name string

	Primary   lipgloss.AdaptiveColor // focused borders, active buttons
	Secondary lipgloss.AdaptiveColor // field labels
	Accent    lipgloss.AdaptiveColor // employee IDs, titles

	Error   lipgloss.AdaptiveColor // validation messages, load failures
	Warning lipgloss.AdaptiveColor // required markers
	Success lipgloss.AdaptiveColor // saved drafts, submitted
	Info    lipgloss.AdaptiveColor // loading states

	Text           lipgloss.AdaptiveColor
	TextMuted      lipgloss.AdaptiveColor // hints, disabled controls
	TextEmphasized lipgloss.AdaptiveColor

	Background          lipgloss.AdaptiveColor
	BackgroundSecondary lipgloss.AdaptiveColor // selected rows, dropdowns
	BackgroundDarker    lipgloss.AdaptiveColor // badges

	BorderNormal  lipgloss.AdaptiveColor
	BorderFocused lipgloss.AdaptiveColor
	BorderDim     lipgloss.AdaptiveColor
}

func c(dark, light string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Dark: dark, Light: light}
}

// Harbor is the default: cool blues on slate.
var Harbor = Theme{
	Name:                "harbor",
	Primary:             c("#82aaff", "#2e7de9"),
	Secondary:           c("#c099ff", "#9854f1"),
	Accent:              c("#ff966c", "#b15c00"),
	Error:               c("#ff757f", "#f52a65"),
	Warning:             c("#ffc777", "#8c6c3e"),
	Success:             c("#c3e88d", "#587539"),
	Info:                c("#7dcfff", "#0db9d7"),
	Text:                c("#c8d3f5", "#3760bf"),
	TextMuted:           c("#636da6", "#848cb5"),
	TextEmphasized:      c("#ffc777", "#8c6c3e"),
	Background:          c("#222436", "#e1e2e7"),
	BackgroundSecondary: c("#2f334d", "#c8c9ce"),
	BackgroundDarker:    c("#1e2030", "#d5d6db"),
	BorderNormal:        c("#3b4261", "#a8aecb"),
	BorderFocused:       c("#82aaff", "#2e7de9"),
	BorderDim:           c("#292e42", "#c8c9ce"),
}

// Ember is a warm, low-blue palette.
var Ember = Theme{
	Name:                "ember",
	Primary:             c("#fe8019", "#af3a03"),
	Secondary:           c("#d3869b", "#8f3f71"),
	Accent:              c("#fabd2f", "#b57614"),
	Error:               c("#fb4934", "#9d0006"),
	Warning:             c("#fabd2f", "#b57614"),
	Success:             c("#b8bb26", "#79740e"),
	Info:                c("#83a598", "#076678"),
	Text:                c("#ebdbb2", "#3c3836"),
	TextMuted:           c("#928374", "#7c6f64"),
	TextEmphasized:      c("#fbf1c7", "#282828"),
	Background:          c("#282828", "#fbf1c7"),
	BackgroundSecondary: c("#3c3836", "#ebdbb2"),
	BackgroundDarker:    c("#1d2021", "#f2e5bc"),
	BorderNormal:        c("#504945", "#bdae93"),
	BorderFocused:       c("#fe8019", "#af3a03"),
	BorderDim:           c("#3c3836", "#d5c4a1"),
}

// Meadow is a muted green palette.
var Meadow = Theme{
	Name:                "meadow",
	Primary:             c("#a7c080", "#8da101"),
	Secondary:           c("#83c092", "#35a77c"),
	Accent:              c("#dbbc7f", "#dfa000"),
	Error:               c("#e67e80", "#f85552"),
	Warning:             c("#e69875", "#f57d26"),
	Success:             c("#a7c080", "#8da101"),
	Info:                c("#7fbbb3", "#3a94c5"),
	Text:                c("#d3c6aa", "#5c6a72"),
	TextMuted:           c("#859289", "#939f91"),
	TextEmphasized:      c("#dbbc7f", "#dfa000"),
	Background:          c("#2d353b", "#fdf6e3"),
	BackgroundSecondary: c("#343f44", "#f4f0d9"),
	BackgroundDarker:    c("#232a2e", "#efebd4"),
	BorderNormal:        c("#475258", "#e0dcc7"),
	BorderFocused:       c("#a7c080", "#8da101"),
	BorderDim:           c("#3d484d", "#e6e2cc"),
}

// Paper is a high-contrast monochrome palette with a single blue accent.
var Paper = Theme{
	Name:                "paper",
	Primary:             c("#4c9aff", "#0052cc"),
	Secondary:           c("#c0c0c0", "#404040"),
	Accent:              c("#4c9aff", "#0052cc"),
	Error:               c("#ff5c5c", "#bf2600"),
	Warning:             c("#ffab00", "#974f0c"),
	Success:             c("#57d9a3", "#006644"),
	Info:                c("#4c9aff", "#0052cc"),
	Text:                c("#e6e6e6", "#1a1a1a"),
	TextMuted:           c("#8c8c8c", "#6b6b6b"),
	TextEmphasized:      c("#ffffff", "#000000"),
	Background:          c("#141414", "#ffffff"),
	BackgroundSecondary: c("#262626", "#ebebeb"),
	BackgroundDarker:    c("#0a0a0a", "#f5f5f5"),
	BorderNormal:        c("#404040", "#c2c2c2"),
	BorderFocused:       c("#4c9aff", "#0052cc"),
	BorderDim:           c("#2b2b2b", "#dedede"),
}

func init() {
	RegisterTheme(Harbor)
	RegisterTheme(Ember)
	RegisterTheme(Meadow)
	RegisterTheme(Paper)
}
