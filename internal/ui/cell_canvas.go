package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/x/cellbuf"
)

// Canvas composes lipgloss-rendered blocks in a cell buffer so a dropdown
// can be painted over the rows below its field.
type Canvas struct {
	screen *cellbuf.Screen
	writer *cellbuf.ScreenWriter
	width  int
	height int
}

// NewCanvas returns a blank canvas of at least 1x1 cells.
func NewCanvas(width, height int) *Canvas {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	screen := cellbuf.NewScreen(io.Discard, width, height, &cellbuf.ScreenOptions{
		ShowCursor: false,
		AltScreen:  false,
	})
	return &Canvas{
		screen: screen,
		writer: cellbuf.NewScreenWriter(screen),
		width:  width,
		height: height,
	}
}

// DrawStringAt writes block with its top-left corner at x,y, cropping at the
// canvas edge. Cells the block does not cover keep their content.
func (c *Canvas) DrawStringAt(x, y int, block string) {
	if c == nil || c.writer == nil || block == "" {
		return
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	for i, line := range splitLines(block) {
		row := y + i
		if row >= c.height {
			break
		}
		if line == "" {
			continue
		}
		c.writer.PrintCropAt(x, row, line, "")
	}
}

// Render returns the frame as newline-delimited text and releases the
// screen.
func (c *Canvas) Render() string {
	if c == nil || c.screen == nil {
		return ""
	}
	raw := cellbuf.Render(c.screen)
	_ = c.screen.Close()
	return strings.ReplaceAll(raw, "\r\n", "\n")
}

// overlay paints top over base at x,y. base determines the frame size, grown
// when top would hang off the bottom.
func overlay(base, top string, x, y int) string {
	if top == "" {
		return base
	}
	baseLines := splitLines(base)
	topLines := splitLines(top)
	width := max(maxLineWidth(baseLines), x+maxLineWidth(topLines))
	height := max(len(baseLines), y+len(topLines))

	c := NewCanvas(width, height)
	c.DrawStringAt(0, 0, base)
	c.DrawStringAt(x, y, top)
	return trimTrailingSpace(c.Render())
}
