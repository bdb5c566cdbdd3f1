package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/varalys/fic/internal/report"
	"github.com/varalys/fic/pkg/core"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("232")).
			Background(lipgloss.Color("208")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Runner is the subset of core.Checker the menu drives.
type Runner interface {
	CreateBaseline(ctx context.Context, dir string) (core.CreateResult, error)
	Check(ctx context.Context, dir string) (core.CheckResult, error)
	Info() (core.Info, error)
	BaselinePath() string
}

type action int

const (
	actionCreate action = iota
	actionCheck
	actionInfo
	actionExit
)

var menuItems = []struct {
	act   action
	label string
	hint  string
}{
	{actionCreate, "Create Baseline", "hash every file under a directory and save it"},
	{actionCheck, "Check Integrity", "compare a directory against the saved baseline"},
	{actionInfo, "View Baseline Info", "show when and where the baseline was taken"},
	{actionExit, "Exit", ""},
}

type state int

const (
	stateMenu state = iota
	stateInput
	stateRunning
	stateResult
)

// doneMsg carries a finished operation back to Update. render produces the
// report with or without color.
type doneMsg struct {
	dir    string
	err    error
	render func(noColor bool) string
}

// Model is the interactive menu: pick an action, enter a directory, read
// the report.
type Model struct {
	runner  Runner
	ctx     context.Context
	cancel  context.CancelFunc
	noColor bool

	state    state
	cursor   int
	action   action
	dir      string
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	ready    bool
	width    int
	height   int

	output string
	plain  string
	status string

	prefs     Prefs
	savePrefs func(Prefs) error
	copyText  func(string) error
	quitting  bool
}

// NewModel builds the menu around runner. ctx bounds every operation.
func NewModel(ctx context.Context, runner Runner, noColor bool) Model {
	if ctx == nil {
		ctx = context.Background()
	}

	// Line spinner avoids Braille characters that render poorly on some terminals
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	ti := textinput.New()
	ti.Placeholder = "/path/to/directory"
	ti.CharLimit = 4096
	ti.Width = 60
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

	return Model{
		runner:    runner,
		ctx:       ctx,
		noColor:   noColor,
		input:     ti,
		spinner:   sp,
		prefs:     LoadPrefs(),
		savePrefs: SavePrefs,
		copyText:  clipboard.WriteAll,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h := msg.Height - 4
		if h < 1 {
			h = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, h)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = h
		}
		m.viewport.SetContent(m.output)
		return m, nil

	case spinner.TickMsg:
		if m.state != stateRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case doneMsg:
		return m.finish(msg), nil

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.cancel != nil {
				m.cancel()
			}
			m.quitting = true
			return m, tea.Quit
		}
		switch m.state {
		case stateMenu:
			return m.updateMenu(msg)
		case stateInput:
			return m.updateInput(msg)
		case stateRunning:
			if msg.String() == "esc" && m.cancel != nil {
				m.cancel()
				m.status = "Cancelling..."
			}
			return m, nil
		case stateResult:
			return m.updateResult(msg)
		}
	}
	return m, nil
}

type statusMsg string

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(menuItems)-1 {
			m.cursor++
		}
	case "enter":
		return m.choose(menuItems[m.cursor].act)
	case "1", "2", "3", "4":
		m.cursor = int(key[0] - '1')
		return m.choose(menuItems[m.cursor].act)
	default:
		m.status = "Invalid choice. Please select 1-4."
	}
	return m, nil
}

func (m Model) choose(act action) (tea.Model, tea.Cmd) {
	m.action = act
	m.status = ""
	switch act {
	case actionExit:
		m.quitting = true
		return m, tea.Quit
	case actionInfo:
		return m.start("")
	default:
		m.state = stateInput
		m.input.SetValue(m.prefs.LastDirectory)
		m.input.CursorEnd()
		return m, m.input.Focus()
	}
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.state = stateMenu
		m.status = ""
		return m, nil
	case "enter":
		dir := strings.TrimSpace(m.input.Value())
		if dir == "" {
			m.status = "Invalid directory path"
			return m, nil
		}
		m.input.Blur()
		return m.start(dir)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "esc", "enter", "backspace":
		m.state = stateMenu
		m.status = ""
		return m, nil
	case "c", "y":
		return m, m.copyReport()
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) copyReport() tea.Cmd {
	text := m.plain
	copyText := m.copyText
	return func() tea.Msg {
		if err := copyText(text); err != nil {
			return statusMsg(fmt.Sprintf("Copy failed: %v", err))
		}
		return statusMsg("Copied report to clipboard")
	}
}

// start switches to the running state and launches the selected action.
func (m Model) start(dir string) (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.dir = dir
	m.state = stateRunning
	return m, tea.Batch(m.spinner.Tick, m.execute(ctx, m.action, dir))
}

// execute returns a command that runs act and reports through doneMsg.
func (m Model) execute(ctx context.Context, act action, dir string) tea.Cmd {
	r := m.runner
	return func() tea.Msg {
		switch act {
		case actionCreate:
			res, err := r.CreateBaseline(ctx, dir)
			if err != nil {
				return doneMsg{dir: dir, err: err}
			}
			info := core.Info{Path: r.BaselinePath(), Timestamp: res.Baseline.Timestamp(), Directory: res.Baseline.RootPath, FileCount: res.Baseline.FileCount}
			return doneMsg{dir: dir, render: func(bool) string {
				var buf bytes.Buffer
				report.PrintCreated(&buf, info, len(res.Scan.Skipped))
				return buf.String()
			}}
		case actionCheck:
			res, err := r.Check(ctx, dir)
			if err != nil {
				return doneMsg{dir: dir, err: err}
			}
			return doneMsg{dir: dir, render: func(noColor bool) string {
				var buf bytes.Buffer
				report.PrintText(&buf, res.Comparison, report.PrintOptions{
					NoColor:           noColor,
					Duration:          res.Scan.Duration,
					BaselineTimestamp: res.Baseline.Timestamp(),
					BaselineDirectory: res.Baseline.RootPath,
					Skipped:           len(res.Scan.Skipped),
				})
				return buf.String()
			}}
		default:
			info, err := r.Info()
			if err != nil {
				return doneMsg{err: err}
			}
			return doneMsg{render: func(bool) string {
				var buf bytes.Buffer
				report.PrintInfo(&buf, info)
				return buf.String()
			}}
		}
	}
}

func (m Model) finish(msg doneMsg) Model {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.state = stateResult
	m.status = ""
	if msg.err != nil {
		m.plain = report.Explain(msg.err, m.runner.BaselinePath())
		m.output = m.plain
		if !m.noColor {
			m.output = errorStyle.Render(m.plain)
		}
	} else {
		m.output = msg.render(m.noColor)
		m.plain = msg.render(true)
		if msg.dir != "" && msg.dir != m.prefs.LastDirectory {
			m.prefs.LastDirectory = msg.dir
			if err := m.savePrefs(m.prefs); err != nil {
				m.status = fmt.Sprintf("Could not save preferences: %v", err)
			}
		}
	}
	if m.ready {
		m.viewport.SetContent(m.output)
		m.viewport.GotoTop()
	}
	return m
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("FILE INTEGRITY MONITORING SYSTEM"))
	b.WriteString("\n\n")

	var help string
	switch m.state {
	case stateMenu:
		for i, item := range menuItems {
			line := fmt.Sprintf("%d. %s", i+1, item.label)
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> " + line))
				if item.hint != "" {
					b.WriteString("  " + hintStyle.Render(item.hint))
				}
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		help = helpLine("↑/↓", "select", "enter", "run", "1-4", "choose", "q", "quit")
	case stateInput:
		prompt := "Enter directory path to monitor:"
		if m.action == actionCheck {
			prompt = "Enter directory path to check:"
		}
		b.WriteString(prompt + "\n")
		b.WriteString(m.input.View() + "\n")
		help = helpLine("enter", "confirm", "esc", "back")
	case stateRunning:
		label := "Loading baseline"
		if m.dir != "" {
			label = "Scanning " + m.dir
		}
		b.WriteString(m.spinner.View() + " " + label + "...\n")
		help = helpLine("esc", "cancel", "ctrl+c", "quit")
	case stateResult:
		if m.ready {
			b.WriteString(m.viewport.View())
		} else {
			b.WriteString(m.output)
		}
		b.WriteString("\n")
		help = helpLine("↑/↓", "scroll", "c", "copy", "esc", "menu", "q", "quit")
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(" "+m.status+" ") + "\n")
	}
	b.WriteString(help)
	return b.String()
}

func helpLine(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, keyStyle.Render(pairs[i])+" "+hintStyle.Render(pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}
