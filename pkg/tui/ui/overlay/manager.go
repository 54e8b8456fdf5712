// Package overlay composites modal views over the dashboard.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Placement controls overlay alignment and sizing.
type Placement struct {
	Horizontal lipgloss.Position
	Vertical   lipgloss.Position
	MarginX    int
	MarginY    int
	Width      int
	Height     int
}

// Centered places the overlay in the middle of the screen.
var Centered = Placement{Horizontal: lipgloss.Center, Vertical: lipgloss.Center}

// Compose draws foreground over background, keeping the background's cells
// (including their styling) outside the overlay bounds.
func Compose(background string, width, height int, foreground string, placement Placement) string {
	bgLines := normalizeBackground(background, width, height)
	if foreground == "" || width <= 0 || height <= 0 {
		return strings.Join(bgLines, "\n")
	}
	fgLines := strings.Split(foreground, "\n")

	overlayWidth := placement.Width
	if overlayWidth <= 0 {
		for _, line := range fgLines {
			if w := ansi.StringWidth(line); w > overlayWidth {
				overlayWidth = w
			}
		}
	}
	overlayWidth = min(overlayWidth, width)
	overlayHeight := placement.Height
	if overlayHeight <= 0 {
		overlayHeight = len(fgLines)
	}
	overlayHeight = min(overlayHeight, height)
	if overlayWidth <= 0 || overlayHeight <= 0 {
		return strings.Join(bgLines, "\n")
	}

	offsetX, offsetY := computeOffsets(width, height, overlayWidth, overlayHeight, placement)

	for row := 0; row < overlayHeight; row++ {
		destY := offsetY + row
		if destY < 0 || destY >= len(bgLines) {
			continue
		}
		fgLine := ""
		if row < len(fgLines) {
			fgLine = fgLines[row]
		}
		fgLine = padToWidth(fgLine, overlayWidth)

		base := bgLines[destY]
		prefix := ansi.Truncate(base, offsetX, "")
		suffix := ansi.TruncateLeft(base, offsetX+overlayWidth, "")
		// Reset styling so the overlay does not inherit the background's.
		bgLines[destY] = prefix + ansi.ResetStyle + fgLine + ansi.ResetStyle + suffix
	}
	return strings.Join(bgLines, "\n")
}

func normalizeBackground(view string, width, height int) []string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = padToWidth(lines[i], width)
	}
	return lines
}

func padToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w > width {
		return ansi.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-w)
}

func computeOffsets(width, height, overlayWidth, overlayHeight int, placement Placement) (int, int) {
	offsetX := placement.MarginX
	switch placement.Horizontal {
	case lipgloss.Right:
		offsetX = width - overlayWidth - placement.MarginX
	case lipgloss.Center:
		offsetX = (width - overlayWidth) / 2
	}
	offsetX = max(0, min(offsetX, width-overlayWidth))

	offsetY := placement.MarginY
	switch placement.Vertical {
	case lipgloss.Bottom:
		offsetY = height - overlayHeight - placement.MarginY
	case lipgloss.Center:
		offsetY = (height - overlayHeight) / 2
	}
	offsetY = max(0, min(offsetY, height-overlayHeight))
	return offsetX, offsetY
}
