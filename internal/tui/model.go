package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rohanverma/upq/internal/engine"
	"github.com/rohanverma/upq/internal/status"
	"github.com/rohanverma/upq/internal/tui/components"
	"github.com/rohanverma/upq/internal/tui/styles"
	"github.com/rohanverma/upq/internal/upload"
)

type currentView int

const (
	viewList currentView = iota
	viewAdd
	viewConfirmRemove
	viewConfirmCancel
)

const refreshInterval = 500 * time.Millisecond

type (
	tickMsg     time.Time
	uploadError struct{ err error }
	flashExpiry struct{}
)

// Model is the main TUI application model.
type Model struct {
	actions           engineActions
	view              currentView
	addFormFocusIndex int

	list        listModel
	pathInput   textinput.Model
	folderInput textinput.Model
	tagsInput   textinput.Model
	spinner     spinner.Model
	help        help.Model
	keys        keyMap

	width, height int
	errMsg        string
	successMsg    string
	expanded      bool
	stats         engine.Stats
}

type listModel struct {
	uploads  []engine.UploadInfo
	selected int
}

func NewModel(actions engineActions) Model {
	pathInput := textinput.New()
	pathInput.Placeholder = "/path/to/file"
	pathInput.Focus()
	pathInput.Width = 60

	folderInput := textinput.New()
	folderInput.Placeholder = "destination folder (optional)"
	folderInput.Width = 60

	tagsInput := textinput.New()
	tagsInput.Placeholder = "tags, comma separated (optional)"
	tagsInput.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Pink)

	return Model{
		actions:     actions,
		view:        viewList,
		pathInput:   pathInput,
		folderInput: folderInput,
		tagsInput:   tagsInput,
		spinner:     sp,
		help:        help.New(),
		keys:        newKeyMap(),
		expanded:    true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func clearFlash() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return flashExpiry{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		return m, nil

	case tickMsg:
		m.list.uploads = m.actions.GetAll()
		m.stats = m.actions.Stats()

		if m.list.selected >= len(m.list.uploads) {
			m.list.selected = len(m.list.uploads) - 1
		}

		if m.list.selected < 0 {
			m.list.selected = 0
		}

		return m, tick()

	case uploadError:
		m.errMsg = msg.err.Error()
		return m, clearFlash()

	case flashExpiry:
		m.errMsg = ""
		m.successMsg = ""

		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.KeyMsg:
		switch m.view {
		case viewAdd:
			return m.updateAddView(msg)
		case viewConfirmRemove, viewConfirmCancel:
			return m.updateConfirmView(msg)
		default:
			return m.updateListView(msg)
		}
	}

	return m, nil
}

func (m Model) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.list.selected > 0 {
			m.list.selected--
		}

	case key.Matches(msg, m.keys.Down):
		if m.list.selected < len(m.list.uploads)-1 {
			m.list.selected++
		}

	case key.Matches(msg, m.keys.Add):
		m.view = viewAdd
		m.addFormFocusIndex = 0
		m.pathInput.SetValue("")
		m.folderInput.SetValue("")
		m.tagsInput.SetValue("")
		m.pathInput.Focus()
		m.folderInput.Blur()
		m.tagsInput.Blur()

		return m, textinput.Blink

	case key.Matches(msg, m.keys.Expand):
		m.expanded = !m.expanded

	case key.Matches(msg, m.keys.Pause):
		if info, ok := m.selectedUpload(); ok {
			m.actions.Pause(info.ID)
		}

	case key.Matches(msg, m.keys.Resume):
		if info, ok := m.selectedUpload(); ok {
			m.actions.Resume(info.ID)
		}

	case key.Matches(msg, m.keys.Retry):
		if info, ok := m.selectedUpload(); ok {
			m.actions.Retry(info.ID)
		}

	case key.Matches(msg, m.keys.Cancel):
		if _, ok := m.selectedUpload(); ok {
			m.view = viewConfirmCancel
		}

	case key.Matches(msg, m.keys.Remove):
		if _, ok := m.selectedUpload(); ok {
			m.view = viewConfirmRemove
		}

	case key.Matches(msg, m.keys.Clear):
		m.actions.ClearCompleted()
	}

	return m, nil
}

func (m Model) updateAddView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.view = viewList
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if m.addFormFocusIndex < 2 {
			return m.cycleAddFocus(m.addFormFocusIndex + 1)
		}

		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			m.errMsg = "file path is required"
			return m, clearFlash()
		}

		opts := upload.DefaultOptions()
		opts.Folder = strings.TrimSpace(m.folderInput.Value())

		if tags := strings.TrimSpace(m.tagsInput.Value()); tags != "" {
			for _, tag := range strings.Split(tags, ",") {
				opts.Tags = append(opts.Tags, strings.TrimSpace(tag))
			}
		}

		if err := m.actions.Add(path, opts); err != nil {
			m.errMsg = err.Error()
			return m, clearFlash()
		}

		m.successMsg = "Upload added"
		m.view = viewList

		return m, clearFlash()

	case msg.String() == "tab" || msg.String() == "down":
		return m.cycleAddFocus((m.addFormFocusIndex + 1) % 3)

	case msg.String() == "shift+tab" || msg.String() == "up":
		return m.cycleAddFocus((m.addFormFocusIndex + 2) % 3)
	}

	var cmd tea.Cmd

	switch m.addFormFocusIndex {
	case 0:
		m.pathInput, cmd = m.pathInput.Update(msg)
	case 1:
		m.folderInput, cmd = m.folderInput.Update(msg)
	default:
		m.tagsInput, cmd = m.tagsInput.Update(msg)
	}

	return m, cmd
}

func (m Model) cycleAddFocus(next int) (tea.Model, tea.Cmd) {
	m.addFormFocusIndex = next

	m.pathInput.Blur()
	m.folderInput.Blur()
	m.tagsInput.Blur()

	switch next {
	case 0:
		m.pathInput.Focus()
	case 1:
		m.folderInput.Focus()
	default:
		m.tagsInput.Focus()
	}

	return m, textinput.Blink
}

func (m Model) updateConfirmView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.view = viewList

	case key.Matches(msg, m.keys.Confirm):
		info, ok := m.selectedUpload()
		if !ok {
			m.view = viewList
			return m, nil
		}

		if m.view == viewConfirmCancel {
			m.actions.Cancel(info.ID)
		} else {
			if info.Status == status.Uploading {
				m.actions.Cancel(info.ID)
			}

			if err := m.actions.Remove(info.ID); err != nil {
				m.errMsg = err.Error()
				m.view = viewList

				return m, clearFlash()
			}
		}

		m.view = viewList
	}

	return m, nil
}

func (m Model) selectedUpload() (engine.UploadInfo, bool) {
	if m.list.selected < 0 || m.list.selected >= len(m.list.uploads) {
		return engine.UploadInfo{}, false
	}

	return m.list.uploads[m.list.selected], true
}

func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	switch m.view {
	case viewAdd:
		return m.renderAddView()
	case viewConfirmRemove:
		return m.renderConfirmView("Remove selected upload?")
	case viewConfirmCancel:
		return m.renderConfirmView("Cancel selected upload?")
	default:
		return m.renderListView()
	}
}

func (m Model) renderListView() string {
	header := m.renderHeader()
	footer := m.renderFooter()

	flash := ""
	if m.errMsg != "" {
		flash = styles.ErrorStyle.Render(m.errMsg)
	} else if m.successMsg != "" {
		flash = styles.SuccessStyle.Render(m.successMsg)
	}

	chromeHeight := lipgloss.Height(header) + lipgloss.Height(footer)
	if flash != "" {
		chromeHeight += lipgloss.Height(flash)
	}

	listHeight := m.height - chromeHeight
	list := components.RenderUploadList(m.list.uploads, m.list.selected, m.width, listHeight, m.expanded)

	sections := []string{header, list}
	if flash != "" {
		sections = append(sections, flash)
	}

	sections = append(sections, footer)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().Foreground(styles.Pink).Bold(true).Render("upq")

	spin := ""
	if m.stats.Uploading > 0 {
		spin = " " + m.spinner.View()
	}

	line := fmt.Sprintf("%s%s  %d uploading · %d queued · %d done · %d failed",
		title, spin, m.stats.Uploading, m.stats.Queued, m.stats.Completed, m.stats.Failed)

	return lipgloss.NewStyle().Padding(0, 1).Render(line)
}

func (m Model) renderFooter() string {
	speed := components.FormatSize(m.stats.AverageSpeed) + "/s"

	totals := fmt.Sprintf("%s / %s  %s  ETA %s",
		components.FormatSize(m.stats.UploadedBytes),
		components.FormatSize(m.stats.TotalBytes),
		speed,
		m.stats.GetETA())

	helpView := m.help.View(m.keys)

	return styles.FooterStyle.Width(m.width).Render(totals + "\n" + helpView)
}

func (m Model) renderAddView() string {
	form := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(styles.Pink).Bold(true).Render("Add upload"),
		"",
		"File path:",
		m.pathInput.View(),
		"",
		"Folder:",
		m.folderInput.View(),
		"",
		"Tags:",
		m.tagsInput.View(),
		"",
		lipgloss.NewStyle().Foreground(styles.Subtext0).Render("enter to confirm · esc to go back"),
	)

	if m.errMsg != "" {
		form = lipgloss.JoinVertical(lipgloss.Left, form, "", styles.ErrorStyle.Render(m.errMsg))
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
}

func (m Model) renderConfirmView(prompt string) string {
	info, _ := m.selectedUpload()

	box := lipgloss.JoinVertical(lipgloss.Center,
		prompt,
		"",
		lipgloss.NewStyle().Foreground(styles.Subtext0).Render(info.Filename),
		"",
		"enter to confirm · esc to go back",
	)

	styled := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Peach).
		Padding(1, 2).
		Render(box)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, styled)
}
