package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rohanverma/upq/internal/engine"
	"github.com/rohanverma/upq/internal/tui/styles"
)

// RenderUploadList renders the scrollable queue, keeping the selection
// centered when the list overflows the viewport.
func RenderUploadList(uploads []engine.UploadInfo, selected int, width, height int, expanded bool) string {
	if len(uploads) == 0 {
		return renderEmptyView(width, height)
	}

	if height <= 0 {
		return lipgloss.NewStyle().Width(width).Height(height).Render("")
	}

	itemHeight := 1
	if expanded {
		itemHeight = 4
	}

	var rows []string

	visibleCount := height / itemHeight
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := selected - (visibleCount / 2)
	if start < 0 {
		start = 0
	}

	end := start + visibleCount
	if end > len(uploads) {
		end = len(uploads)

		start = end - visibleCount
		if start < 0 {
			start = 0
		}
	}

	for i := start; i < end; i++ {
		item := UploadItem(uploads[i], width, i == selected, expanded)
		rows = append(rows, item)
	}

	listContent := lipgloss.JoinVertical(lipgloss.Left, rows...)

	return lipgloss.NewStyle().Width(width).Height(height).Render(listContent)
}

// renderEmptyView displays instructions when the queue is empty.
func renderEmptyView(width, height int) string {
	logo := []string{
		"██╗   ██╗██████╗  ██████╗ ",
		"██║   ██║██╔══██╗██╔═══██╗",
		"██║   ██║██████╔╝██║   ██║",
		"██║   ██║██╔═══╝ ██║▄▄ ██║",
		"╚██████╔╝██║     ╚██████╔╝",
		" ╚═════╝ ╚═╝      ╚══▀▀═╝ ",
	}

	colors := []lipgloss.Color{
		styles.Blue, styles.Mauve, styles.Red,
		styles.Peach, styles.Yellow, styles.Green,
	}

	var lines []string

	for i, line := range logo {
		styled := lipgloss.NewStyle().Foreground(colors[i]).Render(line)
		lines = append(lines, styled)
	}

	subtitle := lipgloss.NewStyle().Foreground(styles.Text).Italic(true).Render("Upload Queue Manager")
	instruction := lipgloss.NewStyle().Foreground(styles.Subtext0).Render("Press 'a' to add a file or 'q' to quit")

	lines = append(lines, "", subtitle, "", instruction)

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
