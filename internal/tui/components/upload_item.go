package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rohanverma/upq/internal/engine"
	"github.com/rohanverma/upq/internal/status"
	"github.com/rohanverma/upq/internal/tui/styles"
)

// UploadItem renders a single queue entry. Compact mode is a single line;
// expanded mode adds the bar and transfer details.
func UploadItem(info engine.UploadInfo, width int, selected, expanded bool) string {
	name := info.Filename

	maxNameLen := 30
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	progressPercent := info.Progress.GetPercentage() / 100

	percent := fmt.Sprintf("%.1f%%", info.Progress.GetPercentage())

	statusLabel := statusBadge(info.Status)

	nameWidth := maxNameLen
	statusWidth := lipgloss.Width(statusLabel)

	percentStyle := lipgloss.NewStyle().Width(10).Align(lipgloss.Right)
	formattedPercent := percentStyle.Render(percent)

	remainingSpace := width - nameWidth - statusWidth - lipgloss.Width(formattedPercent) - 3
	if remainingSpace < 2 {
		remainingSpace = 2
	}

	padding := strings.Repeat(" ", remainingSpace)

	line1 := fmt.Sprintf("%-*s %s%s%s",
		nameWidth,
		name,
		statusLabel,
		padding,
		formattedPercent)

	if !expanded {
		if selected {
			return styles.SelectedItemStyle.Width(width).Render(line1)
		}

		return styles.ListItemStyle.Width(width).Render(line1)
	}

	barWidth := width - 2
	if barWidth < 10 {
		barWidth = 10
	}

	bar := ProgressBar(barWidth, progressPercent, info.Status)
	line2 := styles.ListItemStyle.Render(bar)

	sizeInfo := fmt.Sprintf("%s / %s",
		FormatSize(info.Progress.GetUploaded()),
		FormatSize(info.Progress.GetTotalSize()))

	speedInfo := "--/s"
	if info.Status == status.Uploading {
		speedInfo = FormatSize(info.Progress.GetSpeedBPS()) + "/s"
	}

	eta := "--"

	switch {
	case info.Status == status.Uploading:
		eta = info.Progress.GetETA()
	case info.Status == status.Completed:
		eta = "Done"
	}

	detail := fmt.Sprintf("%s  %s  ETA %s", sizeInfo, speedInfo, eta)

	if info.Error != "" {
		detail += "  " + styles.StatusFailed.Render(info.Error)
	}

	line3 := styles.ListItemStyle.Faint(true).Render(detail)

	item := lipgloss.JoinVertical(lipgloss.Left, line1, line2, line3)
	if selected {
		return styles.SelectedItemStyle.Width(width).Render(item)
	}

	return styles.ListItemStyle.Width(width).Render(item)
}

func statusBadge(s status.Status) string {
	switch s {
	case status.Uploading:
		return styles.StatusUploading.Render("▲ uploading")
	case status.Pending, status.Queued:
		return styles.StatusQueued.Render("○ queued")
	case status.Paused:
		return styles.StatusPaused.Render("❚❚ paused")
	case status.Completed:
		return styles.StatusCompleted.Render("✔ completed")
	case status.Cancelled:
		return styles.StatusCancelled.Render("⊘ cancelled")
	case status.Failed:
		return styles.StatusFailed.Render("✖ failed")
	default:
		return styles.StatusFailed.Render("unknown")
	}
}

// FormatSize converts bytes into a human-readable string.
func FormatSize(bytes int64) string {
	const unit = 1000

	if bytes < 0 {
		return "Unknown"
	}

	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	d := float64(bytes)
	exp := 0

	for d >= unit {
		d /= unit
		exp++
	}

	prefixes := "kMGTPE"

	idx := exp - 1
	if idx < 0 {
		idx = 0
	} else if idx >= len(prefixes) {
		idx = len(prefixes) - 1
	}

	return fmt.Sprintf("%.1f %cB", d, prefixes[idx])
}

// FormatDuration returns a user-friendly duration string.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)

	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		m := d / time.Minute
		s := (d % time.Minute) / time.Second

		return fmt.Sprintf("%dm %ds", m, s)
	}

	h := d / time.Hour
	m := (d % time.Hour) / time.Minute

	return fmt.Sprintf("%dh %dm", h, m)
}
