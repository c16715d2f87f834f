package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestCanvasNormalizesNewlines(t *testing.T) {
	canvas := NewCanvas(8, 4)
	canvas.DrawStringAt(0, 0, "A\r\nB")

	lines := strings.Split(canvas.Render(), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected at least 2 lines, got %d", len(lines))
	}
	if got := strings.TrimSpace(ansi.Strip(lines[0])); got != "A" {
		t.Fatalf("line 0 mismatch, expected A got %q", got)
	}
	if got := strings.TrimSpace(ansi.Strip(lines[1])); got != "B" {
		t.Fatalf("line 1 mismatch, expected B got %q", got)
	}
}

func TestOverlayPaintsOverBase(t *testing.T) {
	base := "name......\nemail.....\nrole......"
	out := overlay(base, "XX\nYY", 2, 1)

	lines := strings.Split(ansi.Strip(out), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
	}
	if lines[0] != "name......" {
		t.Fatalf("row above the overlay changed: %q", lines[0])
	}
	if lines[1] != "emXX......" {
		t.Fatalf("unexpected row 1: %q", lines[1])
	}
	if lines[2] != "roYY......" {
		t.Fatalf("unexpected row 2: %q", lines[2])
	}
}

func TestOverlayGrowsFrameForTallDropdown(t *testing.T) {
	out := overlay("one", "a\nb\nc", 0, 1)
	lines := strings.Split(ansi.Strip(out), "\n")
	if len(lines) < 4 {
		t.Fatalf("expected frame to grow to 4 lines, got %q", lines)
	}
	if lines[3] != "c" {
		t.Fatalf("last overlay row missing: %q", lines)
	}
}

func TestOverlayEmptyTopReturnsBase(t *testing.T) {
	if got := overlay("base", "", 3, 3); got != "base" {
		t.Fatalf("expected base unchanged, got %q", got)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{in: "abc", width: 5, want: "abc  "},
		{in: "abcdef", width: 4, want: "abc…"},
		{in: "abc", width: 0, want: ""},
	}
	for _, tt := range tests {
		if got := fit(tt.in, tt.width); got != tt.want {
			t.Errorf("fit(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
