// Package tui provides a Bubble Tea terminal user interface for
// osu-downloader.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/riuna/osu-downloader/internal/config"
	"github.com/riuna/osu-downloader/internal/download"
	httpclient "github.com/riuna/osu-downloader/internal/http"
	ioutils "github.com/riuna/osu-downloader/internal/io"
	"github.com/riuna/osu-downloader/internal/mirror"
	"github.com/riuna/osu-downloader/internal/model"
	"github.com/riuna/osu-downloader/internal/osu"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF66AA")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateFetching
	StateDownloading
	StateComplete
	StateError
)

// field indexes the focusable text inputs on the input screen.
type field int

const (
	fieldUserID field = iota
	fieldLimit
	fieldOffset
	numFields = 3
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	inputs   []textinput.Model
	focused  field
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	logs     []LogEntry
	err      error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	// Pipeline
	manager *download.Manager
	events  chan download.ProgressEvent
	opts    model.DownloadOptions
	summary download.Summary

	fetched int

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings) Model {
	inputs := make([]textinput.Model, numFields)

	user := textinput.New()
	user.Placeholder = "osu! user ID"
	user.CharLimit = 12
	user.Width = 20
	user.Focus()
	inputs[fieldUserID] = user

	count := textinput.New()
	count.Placeholder = "10"
	count.CharLimit = 6
	count.Width = 8
	inputs[fieldLimit] = count

	offset := textinput.New()
	offset.Placeholder = "0"
	offset.CharLimit = 6
	offset.Width = 8
	inputs[fieldOffset] = offset

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF66AA"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateInput,
		inputs:   inputs,
		spinner:  sp,
		progress: prog,
		settings: settings,
		logs:     make([]LogEntry, 0),
		events:   make(chan download.ProgressEvent, 64),
		opts:     model.DownloadOptions{NoVideo: true},
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent when a batch progress event arrives.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// FetchDoneMsg is sent when the listing fetch completes.
	FetchDoneMsg struct {
		Entries []model.MostPlayedEntry
		Manager *download.Manager
		Err     error
	}

	// DownloadDoneMsg is sent when the batch completes.
	DownloadDoneMsg struct {
		Summary download.Summary
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateFetching || m.state == StateDownloading {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "tab", "shift+tab", "down", "up":
			if m.state == StateInput {
				if msg.String() == "shift+tab" || msg.String() == "up" {
					m.focused = (m.focused + numFields - 1) % numFields
				} else {
					m.focused = (m.focused + 1) % numFields
				}
				for i := range m.inputs {
					if field(i) == m.focused {
						m.inputs[i].Focus()
					} else {
						m.inputs[i].Blur()
					}
				}
			}

		case "enter":
			if m.state == StateInput && isDigits(m.inputs[fieldUserID].Value()) {
				m.state = StateFetching
				return m, tea.Batch(m.startFetch(), m.spinner.Tick)
			}

		case "h":
			if m.state == StateInput && m.focused != fieldUserID {
				m.opts.NoHitsound = !m.opts.NoHitsound
			}

		case "s":
			if m.state == StateInput && m.focused != fieldUserID {
				m.opts.NoStoryboard = !m.opts.NoStoryboard
			}

		case "b":
			if m.state == StateInput && m.focused != fieldUserID {
				m.opts.NoBackground = !m.opts.NoBackground
			}

		case "v":
			if m.state == StateInput && m.focused != fieldUserID {
				m.opts.NoVideo = !m.opts.NoVideo
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new run
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.manager = nil
				m.events = make(chan download.ProgressEvent, 64)
				m.fetched = 0
				m.summary = download.Summary{}
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.inputs[fieldUserID].SetValue("")
				m.focused = fieldUserID
				m.inputs[fieldUserID].Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Event.Level != download.LevelVerbose {
			m.logs = append(m.logs, LogEntry{
				Message: msg.Event.Message,
				Level:   msg.Event.Level,
			})
			// Keep only last 10 logs
			if len(m.logs) > 10 {
				m.logs = m.logs[len(m.logs)-10:]
			}
		}
		cmds = append(cmds, m.waitForEvent())

	case FetchDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else if len(msg.Entries) == 0 {
			m.state = StateError
			m.err = fmt.Errorf("no beatmaps found")
		} else {
			m.fetched = len(msg.Entries)
			m.manager = msg.Manager
			m.state = StateDownloading
			cmds = append(cmds, m.startDownload(msg.Entries), m.tickProgress(), m.waitForEvent())
		}

	case DownloadDoneMsg:
		m.summary = msg.Summary
		if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateDownloading {
			downloaded, failed, total := m.manager.Progress()
			var percent float64
			if total > 0 {
				percent = float64(downloaded+failed) / float64(total)
			}
			progressCmd := m.progress.SetPercent(percent)
			cmds = append(cmds, progressCmd, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text inputs
	if m.state == StateInput {
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent blocks on the manager's event channel and forwards the next
// batch progress event into the update loop.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return ProgressMsg{Event: <-events}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("osu! Beatmap Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Bulk-download your most-played beatmaps"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateFetching:
		b.WriteString(m.viewFetching())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Who and how much:"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  User ID: %s\n", m.inputs[fieldUserID].View()))
	b.WriteString(fmt.Sprintf("  Count:   %s\n", m.inputs[fieldLimit].View()))
	b.WriteString(fmt.Sprintf("  Offset:  %s\n", m.inputs[fieldOffset].View()))
	b.WriteString("\n")

	check := func(on bool) string {
		if on {
			return "[x]"
		}
		return "[ ]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s No hitsounds (h)\n", check(m.opts.NoHitsound)))
	b.WriteString(fmt.Sprintf("  %s No storyboards (s)\n", check(m.opts.NoStoryboard)))
	b.WriteString(fmt.Sprintf("  %s No backgrounds (b)\n", check(m.opts.NoBackground)))
	b.WriteString(fmt.Sprintf("  %s No videos (v)\n", check(m.opts.NoVideo)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output path: %s", m.settings.OutputDir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewFetching() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Fetching most-played beatmaps..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	downloaded, failed, total := int32(0), int32(0), int32(m.fetched)
	if m.manager != nil {
		downloaded, failed, total = m.manager.Progress()
	}

	var percent float64
	if total > 0 {
		percent = float64(downloaded+failed) / float64(total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Beatmaps: %d/%d | Failed: %d",
		downloaded+failed,
		total,
		failed,
	)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	lines := fmt.Sprintf(
		"Download complete!\n\nBeatmaps: %d/%d\nFailed: %d",
		m.summary.Downloaded,
		m.summary.Total,
		m.summary.Failed,
	)
	if m.summary.ReportPath != "" {
		lines += "\nReport: " + m.summary.ReportPath
	}
	b.WriteString(boxStyle.Render(lines))

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "-"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "x"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "+"
		case download.LevelInfo:
			style = infoStyle
			prefix = ">"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • tab: next field • h/s/b/v: toggles • esc: quit"
	case StateFetching, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}

// intValue parses a text input, falling back to def on anything invalid.
func intValue(ti textinput.Model, def int) int {
	v := strings.TrimSpace(ti.Value())
	if v == "" {
		return def
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return def
	}
	return n
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// startFetch runs the listing fetch off the UI goroutine.
func (m *Model) startFetch() tea.Cmd {
	ctx := m.ctx
	settings := m.settings
	events := m.events
	userID := strings.TrimSpace(m.inputs[fieldUserID].Value())
	count := intValue(m.inputs[fieldLimit], 10)
	offset := intValue(m.inputs[fieldOffset], 0)

	return func() tea.Msg {
		hc := httpclient.NewClient(settings.ClientTimeout, settings.UserAgent)
		listing := osu.NewClient(hc, settings)
		archives := mirror.NewClient(hc, settings)

		if err := ioutils.EnsureDir(settings.OutputDir); err != nil {
			return FetchDoneMsg{Err: err}
		}

		// Drop events when the UI falls behind rather than stalling a
		// download on a full channel.
		manager := download.NewManager(settings, archives, func(event download.ProgressEvent) {
			select {
			case events <- event:
			default:
			}
		})

		entries, err := listing.FetchMostPlayed(ctx, userID, count, offset)
		if err != nil {
			return FetchDoneMsg{Err: err}
		}

		return FetchDoneMsg{Entries: entries, Manager: manager}
	}
}

// startDownload runs the batch in the background.
func (m *Model) startDownload(entries []model.MostPlayedEntry) tea.Cmd {
	ctx := m.ctx
	manager := m.manager
	opts := m.opts

	return func() tea.Msg {
		if manager == nil {
			return DownloadDoneMsg{Err: fmt.Errorf("no manager")}
		}

		summary := manager.Run(ctx, entries, opts)
		return DownloadDoneMsg{Summary: summary}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
