package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

var testRoleOptions = []SelectOption{
	{Value: "ops", Label: "Ops"},
	{Value: "admin", Label: "Admin"},
	{Value: "engineer", Label: "Engineer"},
}

func TestSelectCyclesWithArrowKeys(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		key     tea.KeyMsg
		want    string
		changed bool
	}{
		{name: "right from empty picks first", start: "", key: keyType(tea.KeyRight), want: "ops", changed: true},
		{name: "left from empty picks last", start: "", key: keyType(tea.KeyLeft), want: "engineer", changed: true},
		{name: "right wraps", start: "engineer", key: keyType(tea.KeyRight), want: "ops", changed: true},
		{name: "left wraps", start: "ops", key: keyType(tea.KeyLeft), want: "engineer", changed: true},
		{name: "space advances", start: "ops", key: tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, want: "admin", changed: true},
		{name: "home", start: "engineer", key: keyType(tea.KeyHome), want: "ops", changed: true},
		{name: "end on last is no change", start: "engineer", key: keyType(tea.KeyEnd), want: "engineer", changed: false},
		{name: "other keys ignored", start: "admin", key: keyRunes("z"), want: "admin", changed: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelect("Role", testRoleOptions, tt.start).Focus()
			s, changed := s.Update(tt.key)
			if s.Value() != tt.want || changed != tt.changed {
				t.Fatalf("got %q changed=%v, want %q changed=%v", s.Value(), changed, tt.want, tt.changed)
			}
		})
	}
}

func TestSelectIgnoresKeysWhenBlurred(t *testing.T) {
	s := NewSelect("Role", testRoleOptions, "ops")
	s, changed := s.Update(keyType(tea.KeyRight))
	if changed || s.Value() != "ops" {
		t.Fatalf("blurred select should not change, got %q", s.Value())
	}
}

func TestSelectUnknownValueClearsChoice(t *testing.T) {
	s := NewSelect("Role", testRoleOptions, "admin").SetValue("nope")
	if s.Value() != "" {
		t.Fatalf("expected no choice, got %q", s.Value())
	}
}

func TestSelectView(t *testing.T) {
	plainColors(t)
	s := NewSelect("Role", testRoleOptions, "")
	s.Placeholder = "Select role"
	s.Required = true
	s.Error = "Role is required"

	view := ansi.Strip(s.View())
	for _, want := range []string{"Role *", "Select role", "Role is required"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	s = s.SetValue("admin").Focus()
	s.Error = ""
	view = ansi.Strip(s.View())
	if !strings.Contains(view, "◂ Admin ▸") {
		t.Fatalf("focused view should show the arrows around the choice:\n%s", view)
	}
}
