package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/autoplot/internal/notebook"
	"github.com/gravitrone/autoplot/internal/session"
	"github.com/gravitrone/autoplot/internal/toast"
	"github.com/gravitrone/autoplot/internal/ui/components"
	"github.com/gravitrone/autoplot/internal/view"
)

// --- Messages ---

type cellDoneMsg struct {
	res notebook.CellResult
	err error
}

type magicDoneMsg struct {
	line    string
	err     error
	notices []toast.Message
}

// --- App Model ---

// App steps through a notebook script, showing the active view after each
// cell. Magic lines can also be typed in directly.
type App struct {
	runner  *notebook.Runner
	session *session.Session
	magic   notebook.MagicFunc

	width  int
	height int

	running  bool
	runAll   bool
	helpOpen bool

	promptOpen bool
	prompt     string

	last    *notebook.CellResult
	notices []toast.Message
	err     string
}

// NewApp creates the stepper for runner, which must drive s.
func NewApp(runner *notebook.Runner, s *session.Session, magic notebook.MagicFunc) App {
	return App{runner: runner, session: s, magic: magic}
}

func (a App) Init() tea.Cmd {
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case cellDoneMsg:
		a.running = false
		if msg.err != nil {
			a.err = msg.err.Error()
			a.runAll = false
			return a, nil
		}
		res := msg.res
		a.last = &res
		a.notices = res.Notices
		if a.runAll && !a.runner.Done() {
			return a, a.stepCmd()
		}
		a.runAll = false
		return a, nil

	case magicDoneMsg:
		a.notices = msg.notices
		if msg.err != nil {
			a.err = msg.err.Error()
		}
		return a, nil

	case tea.KeyMsg:
		if a.promptOpen {
			return a.handlePromptKeys(msg)
		}
		if a.helpOpen {
			if isBack(msg) || isKey(msg, "?") {
				a.helpOpen = false
			}
			return a, nil
		}
		a.err = ""

		switch {
		case isQuit(msg):
			return a, tea.Quit
		case isKey(msg, "?"):
			a.helpOpen = true
		case isEnter(msg), isSpace(msg), isKey(msg, "n"):
			if !a.running && !a.runner.Done() {
				a.running = true
				return a, a.stepCmd()
			}
		case isKey(msg, "a"):
			if !a.running && !a.runner.Done() {
				a.running, a.runAll = true, true
				return a, a.stepCmd()
			}
		case isKey(msg, ":", "m"):
			a.promptOpen = true
			a.prompt = ""
		case isNextView(msg):
			return a.switchView(1)
		case isPrevView(msg):
			return a.switchView(-1)
		}
	}
	return a, nil
}

func (a App) stepCmd() tea.Cmd {
	runner := a.runner
	return func() tea.Msg {
		res, err := runner.Step()
		return cellDoneMsg{res: res, err: err}
	}
}

func (a App) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isBack(msg):
		a.promptOpen = false
		a.prompt = ""
	case isEnter(msg):
		line := strings.TrimSpace(a.prompt)
		a.promptOpen = false
		a.prompt = ""
		if line == "" || a.magic == nil {
			return a, nil
		}
		return a, a.magicCmd(line)
	case msg.Type == tea.KeyBackspace:
		if r := []rune(a.prompt); len(r) > 0 {
			a.prompt = string(r[:len(r)-1])
		}
	case msg.Type == tea.KeySpace:
		a.prompt += " "
	case msg.Type == tea.KeyRunes:
		a.prompt += string(msg.Runes)
	}
	return a, nil
}

// magicCmd runs a typed line as a cell of its own, so the view refreshes.
func (a App) magicCmd(line string) tea.Cmd {
	s, magic := a.session, a.magic
	return func() tea.Msg {
		err := magic(line)
		if redrawErr := s.PostRunCell(view.ExecutionResult{Success: err == nil, Err: err}); err == nil {
			err = redrawErr
		}
		return magicDoneMsg{line: line, err: err, notices: s.Toasts.Drain()}
	}
}

func (a App) switchView(delta int) (tea.Model, tea.Cmd) {
	m := a.session.Manager
	names := m.Names()
	idx := 0
	for i, n := range names {
		if n == m.Active() {
			idx = i
		}
	}
	next := names[(idx+delta+len(names))%len(names)]
	if err := m.SetActive(next); err != nil {
		a.err = err.Error()
		return a, nil
	}
	if err := a.session.Redraw(); err != nil {
		a.err = err.Error()
	}
	a.notices = a.session.Toasts.Drain()
	return a, nil
}

// --- Rendering ---

func (a App) View() string {
	banner := centerBlockUniform(RenderBanner(), a.width)
	tabs := centerBlockUniform(a.renderTabs(), a.width)

	var content string
	switch {
	case a.helpOpen:
		content = a.renderHelp()
	default:
		content = a.renderOutput()
	}
	content = centerBlockUniform(content, a.width)

	feedback := ""
	if a.err != "" {
		feedback = "\n\n" + centerBlockUniform(components.ErrorBox("Error", a.err, a.width), a.width)
	} else if len(a.notices) > 0 {
		feedback = "\n\n" + centerBlockUniform(a.renderNotices(), a.width)
	}

	prompt := ""
	if a.promptOpen {
		prompt = "\n\n" + centerBlockUniform(components.ActiveBox("%autoplot "+a.prompt+"█", a.width), a.width)
	}

	hints := components.StatusBar(a.statusBadges(), a.statusHints(), a.width)
	return fmt.Sprintf("%s\n%s\n\n%s%s%s\n\n%s", banner, tabs, content, prompt, feedback, hints)
}

func (a App) renderTabs() string {
	m := a.session.Manager
	parts := make([]string, 0, len(m.Names()))
	for _, name := range m.Names() {
		if name == m.Active() {
			parts = append(parts, TabActiveStyle.Render(name))
		} else {
			parts = append(parts, TabInactiveStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a App) renderOutput() string {
	header := fmt.Sprintf("cell %d/%d", 0, a.runner.Len())
	if a.last != nil {
		header = fmt.Sprintf("cell %d/%d", a.last.Index+1, a.runner.Len())
		if a.last.Name != "" {
			header += "  " + a.last.Name
		}
		if a.last.Success {
			header += "  " + SuccessStyle.Render("ok")
		} else {
			header += "  " + ErrorStyle.Render(fmt.Sprintf("failed: %v", a.last.Err))
		}
	}
	if a.running {
		header += "  " + MutedStyle.Render("running...")
	} else if a.runner.Done() {
		header += "  " + MutedStyle.Render("(end of script)")
	}

	item := a.session.Output.Current()
	title := item.Title
	if title == "" {
		title = a.session.Manager.Active()
	}
	body := item.Text
	if body == "" {
		body = MutedStyle.Render("nothing to show yet")
	}
	return HeaderStyle.Render(header) + "\n\n" + components.TitledBox(title, body, a.width)
}

func (a App) renderNotices() string {
	blocks := make([]string, 0, len(a.notices))
	for _, n := range a.notices {
		text := components.SanitizeOneLine(n.Text)
		switch n.Type {
		case toast.Error:
			blocks = append(blocks, components.ErrorBox("Error", text, a.width))
		case toast.Warning:
			blocks = append(blocks, components.TitledBox("Warning", WarningStyle.Render(text), a.width))
		case toast.Success:
			blocks = append(blocks, components.TitledBox("Success", text, a.width))
		default:
			blocks = append(blocks, components.TitledBox("Info", text, a.width))
		}
	}
	return strings.Join(blocks, "\n")
}

func (a App) renderHelp() string {
	rows := [][2]string{
		{"enter / n", "run the next cell"},
		{"a", "run every remaining cell"},
		{"tab / shift+tab", "switch view"},
		{": / m", "type an %autoplot line"},
		{"?", "close help"},
		{"q", "quit"},
	}
	return components.TitledBox("Keys", components.InfoRows(rows), a.width)
}

func (a App) statusBadges() []string {
	badges := []string{components.Badge("view", a.session.Manager.Active())}
	if a.frozen() {
		badges = append(badges, components.Badge("state", "frozen"))
	}
	return badges
}

// frozen reports whether the active view has stopped picking up new names.
func (a App) frozen() bool {
	switch a.session.Manager.Active() {
	case session.ViewGraph:
		return a.session.Graph.Plotter().Frozen()
	case session.ViewDtale:
		return a.session.Dtale.Frozen()
	}
	return false
}

func (a App) statusHints() []string {
	if a.promptOpen {
		return []string{
			components.Hint("enter", "Run"),
			components.Hint("esc", "Cancel"),
		}
	}
	return []string{
		components.Hint("enter", "Next Cell"),
		components.Hint("a", "Run All"),
		components.Hint("tab", "View"),
		components.Hint(":", "Magic"),
		components.Hint("?", "Help"),
		components.Hint("q", "Quit"),
	}
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		maxWidth = max(maxWidth, lipgloss.Width(line))
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
