package layout

import (
	"github.com/charmbracelet/lipgloss"
)

// SideBySideMinWidth is the narrowest screen that fits content and map next
// to each other.
const SideBySideMinWidth = 100

// Panes returns the widths of the content and map panes. A zero map width
// means the panes are stacked and both use the full width.
func Panes(width int) (content, mapWidth int) {
	if width < SideBySideMinWidth {
		return width, 0
	}
	mapWidth = width * 2 / 5
	return width - mapWidth - 1, mapWidth
}

// Body places the content and map panes for the given width.
func Body(width int, content, mapView string) string {
	if _, mapWidth := Panes(width); mapWidth == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, content, "", mapView)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, content, " ", mapView)
}

// Screen stacks the header, body and footer, padding the body so the footer
// sits at the bottom.
func Screen(height int, header, body, footer string) string {
	used := lipgloss.Height(header) + lipgloss.Height(body) + lipgloss.Height(footer)
	gap := ""
	if height > used {
		gap = lipgloss.NewStyle().Height(height - used).Render("")
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, gap, footer)
}
