package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	maxLogLines = 150

	statusReady    = "Ready"
	statusRunning  = "Running…"
	statusSaved    = "Finished. Saved."
	statusFailed   = "Finished with errors."
	defaultTarget  = "wallstreetbets"
	defaultLogRows = 12
)

// Model is the terminal front end: a subreddit input, a bounded log
// pane and a status line driven by run lifecycle messages.
type Model struct {
	input   textinput.Model
	logView viewport.Model
	spin    spinner.Model

	lines   []string
	status  string
	running bool

	// onSubmit hands the requested subreddit to the bridge. It must
	// not block; run progress comes back as messages.
	onSubmit func(subreddit string)
}

func NewModel(onSubmit func(subreddit string)) Model {
	input := textinput.New()
	input.Placeholder = "subreddit"
	input.SetValue(defaultTarget)
	input.CharLimit = 64
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		input:    input,
		logView:  viewport.New(80, defaultLogRows),
		spin:     spin,
		status:   statusReady,
		onSubmit: onSubmit,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.onSubmit != nil {
				m.onSubmit(strings.TrimSpace(m.input.Value()))
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.logView.Width = msg.Width - 4
		if h := msg.Height - 8; h > 2 {
			m.logView.Height = h
		}
		m.refreshLog()
		return m, nil

	case LogMsg:
		m.appendLine(string(msg))
		return m, nil

	case RunStartedMsg:
		m.running = true
		m.status = statusRunning
		m.appendLine(fmt.Sprintf("Scraping r/%s…", msg.Subreddit))
		return m, m.spin.Tick

	case RunFinishedMsg:
		m.running = false
		if msg.Err != nil {
			m.status = statusFailed
			m.appendLine(fmt.Sprintf("Run failed: %v", msg.Err))
		} else {
			m.status = statusSaved
			m.appendLine(fmt.Sprintf("Saved to %s", msg.Path))
		}
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("snooscrape"))
	b.WriteString("\n\n")
	b.WriteString("Subreddit: ")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(logPaneStyle.Render(m.logView.View()))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: scrape · esc: quit"))
	return b.String()
}

func (m Model) statusLine() string {
	switch {
	case m.running:
		return m.spin.View() + " " + statusRunningStyle.Render(m.status)
	case m.status == statusFailed:
		return statusErrorStyle.Render(m.status)
	default:
		return statusReadyStyle.Render(m.status)
	}
}

// appendLine adds one line to the log pane, dropping the oldest lines
// once the pane holds maxLogLines.
func (m *Model) appendLine(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > maxLogLines {
		m.lines = m.lines[len(m.lines)-maxLogLines:]
	}
	m.refreshLog()
}

func (m *Model) refreshLog() {
	m.logView.SetContent(strings.Join(m.lines, "\n"))
	m.logView.GotoBottom()
}
