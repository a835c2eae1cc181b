// Package styles holds the shared color palette and lipgloss styles for the
// queue view. Colors are the Catppuccin Mocha set.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	Base     = lipgloss.Color("#1e1e2e")
	Surface0 = lipgloss.Color("#313244")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")

	Pink   = lipgloss.Color("#f5c2e7")
	Mauve  = lipgloss.Color("#cba6f7")
	Red    = lipgloss.Color("#f38ba8")
	Peach  = lipgloss.Color("#fab387")
	Yellow = lipgloss.Color("#f9e2af")
	Green  = lipgloss.Color("#a6e3a1")
	Teal   = lipgloss.Color("#94e2d5")
	Blue   = lipgloss.Color("#89b4fa")
)

// Status badges, one accent per transfer state.
var (
	StatusUploading = lipgloss.NewStyle().Foreground(Teal).Bold(true)
	StatusQueued    = lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	StatusPaused    = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	StatusCompleted = lipgloss.NewStyle().Foreground(Green).Bold(true)
	StatusCancelled = lipgloss.NewStyle().Foreground(Mauve).Bold(true)
	StatusFailed    = lipgloss.NewStyle().Foreground(Red).Bold(true)
)

var (
	ListItemStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(Text)

	// The selection is marked with a left border rather than inverted video
	// so the progress bar colors stay readable.
	SelectedItemStyle = lipgloss.NewStyle().
				BorderLeft(true).
				BorderStyle(lipgloss.ThickBorder()).
				BorderForeground(Pink).
				Padding(0, 1).
				Foreground(Text)

	ProgressBarEmptyStyle = lipgloss.NewStyle().Foreground(Surface0)

	FooterStyle = lipgloss.NewStyle().
			Foreground(Subtext0).
			Padding(0, 1).
			Align(lipgloss.Center)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Base).
			Background(Red).
			Padding(0, 1).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Base).
			Background(Green).
			Padding(0, 1).
			Bold(true)
)
