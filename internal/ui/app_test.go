package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/autoplot/internal/config"
	"github.com/gravitrone/autoplot/internal/notebook"
	"github.com/gravitrone/autoplot/internal/session"
	"github.com/gravitrone/autoplot/internal/ui/components"
)

const appScript = `
cells:
  - name: load
    run:
      - set: x
        series:
          values: [1, 2, 3]
  - name: more
    run:
      - append: x
        values: [4]
  - name: boom
    fail: true
`

type magicRecorder struct {
	lines []string
	err   error
}

func (m *magicRecorder) run(line string) error {
	m.lines = append(m.lines, line)
	return m.err
}

func newTestApp(t *testing.T) (App, *magicRecorder) {
	t.Helper()
	script, err := notebook.ParseScript([]byte(appScript))
	require.NoError(t, err)

	ns := notebook.NewNamespace()
	cfg := config.Default()
	cfg.SettleMS = 0
	s, err := session.New(session.Options{Namespace: ns, Config: cfg})
	require.NoError(t, err)

	rec := &magicRecorder{}
	app := NewApp(notebook.NewRunner(script, ns, s, rec.run), s, rec.run)
	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return model.(App), rec
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends msg and feeds any resulting command back into the app.
func press(t *testing.T, app App, msg tea.Msg) App {
	t.Helper()
	model, cmd := app.Update(msg)
	for cmd != nil {
		next := cmd()
		if _, ok := next.(tea.QuitMsg); ok {
			break
		}
		model, cmd = model.(App).Update(next)
	}
	return model.(App)
}

func TestAppStepsOneCell(t *testing.T) {
	app, _ := newTestApp(t)

	app = press(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, app.last)
	assert.Equal(t, 0, app.last.Index)
	assert.True(t, app.last.Success)
	assert.False(t, app.running)
	assert.Equal(t, []string{"x"}, app.session.Graph.Plotter().Visible())

	clean := components.SanitizeText(app.View())
	assert.Contains(t, clean, "cell 1/3")
	assert.Contains(t, clean, "load")
}

func TestAppRunAllStopsAtEnd(t *testing.T) {
	app, _ := newTestApp(t)

	app = press(t, app, runes("a"))

	assert.True(t, app.runner.Done())
	assert.False(t, app.runAll)
	require.NotNil(t, app.last)
	assert.Equal(t, 2, app.last.Index)
	assert.False(t, app.last.Success)
	assert.Contains(t, components.SanitizeText(app.View()), "(end of script)")

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, 2, model.(App).last.Index)
}

func TestAppSwitchesViews(t *testing.T) {
	app, _ := newTestApp(t)
	app = press(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	app = press(t, app, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, session.ViewDtale, app.session.Manager.Active())
	_, tracked := app.session.Dtale.Tracked("x")
	assert.True(t, tracked)

	app = press(t, app, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, session.ViewGraph, app.session.Manager.Active())

	app = press(t, app, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, session.ViewDtale, app.session.Manager.Active())
}

func TestAppMagicPrompt(t *testing.T) {
	app, rec := newTestApp(t)

	app = press(t, app, runes(":"))
	require.True(t, app.promptOpen)

	app = press(t, app, runes("-f"))
	app = press(t, app, tea.KeyMsg{Type: tea.KeySpace})
	app = press(t, app, runes("-x"))
	app = press(t, app, tea.KeyMsg{Type: tea.KeyBackspace})
	app = press(t, app, runes("v"))
	assert.Equal(t, "-f -v", app.prompt)
	assert.Contains(t, components.SanitizeText(app.View()), "%autoplot -f -v")

	app = press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, app.promptOpen)
	assert.Equal(t, []string{"-f -v"}, rec.lines)
}

func TestAppMagicErrorShown(t *testing.T) {
	app, rec := newTestApp(t)
	rec.err = errors.New("%autoplot: unknown flag: --nope")

	app = press(t, app, runes("m"))
	app = press(t, app, runes("--nope"))
	app = press(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, rec.err.Error(), app.err)
	assert.Contains(t, components.SanitizeText(app.View()), "unknown flag")
}

func TestAppPromptEscCancels(t *testing.T) {
	app, rec := newTestApp(t)

	app = press(t, app, runes(":"))
	app = press(t, app, runes("-f"))
	app = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, app.promptOpen)
	assert.Empty(t, app.prompt)
	assert.Empty(t, rec.lines)
}

func TestAppHelpToggle(t *testing.T) {
	app, _ := newTestApp(t)

	app = press(t, app, runes("?"))
	assert.True(t, app.helpOpen)
	assert.Contains(t, components.SanitizeText(app.View()), "run every remaining cell")

	app = press(t, app, runes("n"))
	assert.True(t, app.helpOpen)
	assert.Nil(t, app.last)

	app = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, app.helpOpen)
}

func TestAppQuit(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestAppStatusShowsFrozenBadge(t *testing.T) {
	app, _ := newTestApp(t)
	assert.NotContains(t, components.SanitizeText(app.View()), "frozen")

	app.session.Manager.Freeze()
	clean := components.SanitizeText(app.View())
	assert.Contains(t, clean, "frozen")
	assert.Contains(t, clean, "graph")
}

func TestCenterBlockUniform(t *testing.T) {
	assert.Equal(t, "ab", centerBlockUniform("ab", 0))
	assert.Equal(t, "   ab\n   cd", centerBlockUniform("ab\ncd", 8))
	assert.Equal(t, "abcdef", centerBlockUniform("abcdef", 4))
}
