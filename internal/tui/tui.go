// Package tui provides the interactive theme control panel.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/janko/shade/internal/core"
	"github.com/janko/shade/internal/hooks"
	"github.com/janko/shade/internal/theme"
)

// refreshInterval is how often the panel re-reads state and the system
// appearance, so changes made outside the panel show up.
const refreshInterval = 2 * time.Second

type styles struct {
	title    lipgloss.Style
	headline lipgloss.Style
	mode     lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	knobOn   lipgloss.Style
	knobOff  lipgloss.Style
	feedback lipgloss.Style
	errText  lipgloss.Style
	help     lipgloss.Style
}

var darkStyles = styles{
	title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
	headline: lipgloss.NewStyle().Bold(true),
	mode:     lipgloss.NewStyle().Faint(true),
	label:    lipgloss.NewStyle().Faint(true).Width(8),
	value:    lipgloss.NewStyle(),
	knobOn:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
	knobOff:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
	feedback: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	errText:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	help:     lipgloss.NewStyle().Faint(true),
}

var lightStyles = styles{
	title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
	headline: lipgloss.NewStyle().Bold(true),
	mode:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	label:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Width(8),
	value:    lipgloss.NewStyle(),
	knobOn:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
	knobOff:  lipgloss.NewStyle().Foreground(lipgloss.Color("130")).Bold(true),
	feedback: lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
	errText:  lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	help:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
}

type tickMsg time.Time

type statusMsg theme.Status

type appliedMsg struct {
	res *core.Result
	err error
}

// Model is the bubbletea model for the control panel.
type Model struct {
	engine   *core.Engine
	status   theme.Status
	styles   styles
	busy     bool
	feedback string
	err      error
	width    int
	height   int
}

func New(engine *core.Engine) Model {
	status := engine.Status()
	return Model{
		engine: engine,
		status: status,
		styles: stylesFor(status.Effective),
		width:  80,
		height: 24,
	}
}

func stylesFor(t theme.Theme) styles {
	if t == theme.Dark {
		return darkStyles
	}
	return lightStyles
}

func (m Model) Init() tea.Cmd {
	return tickEvery()
}

func tickEvery() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func refresh(engine *core.Engine) tea.Cmd {
	return func() tea.Msg {
		// External processes may have moved the state underneath us.
		_ = engine.Reload()
		return statusMsg(engine.Status())
	}
}

func doToggle(engine *core.Engine) tea.Cmd {
	return func() tea.Msg {
		res, err := engine.Toggle(context.Background())
		return appliedMsg{res: res, err: err}
	}
}

func doReset(engine *core.Engine) tea.Cmd {
	return func() tea.Msg {
		res, err := engine.Reset(context.Background())
		return appliedMsg{res: res, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit

		case " ", "t", "enter":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.err = nil
			return m, doToggle(m.engine)

		case "r":
			// The reset control exists only while pinned.
			if m.busy || !m.status.Pinned() {
				return m, nil
			}
			m.busy = true
			m.err = nil
			return m, doReset(m.engine)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if m.busy {
			return m, tickEvery()
		}
		return m, tea.Batch(refresh(m.engine), tickEvery())

	case statusMsg:
		m.status = theme.Status(msg)
		m.styles = stylesFor(m.status.Effective)

	case appliedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = m.engine.Status()
		m.styles = stylesFor(m.status.Effective)
		m.feedback = describeResult(msg.res)
	}

	return m, nil
}

func describeResult(res *core.Result) string {
	if res == nil {
		return ""
	}

	what := "already " + res.Theme.String()
	if res.Changed {
		what = "applied " + res.Theme.String()
	}

	if n := len(res.Hooks); n > 0 {
		failed := hooks.Failures(res.Hooks)
		switch {
		case failed > 0:
			return fmt.Sprintf("%s · %d/%d hooks failed", what, failed, n)
		case n == 1:
			return what + " · 1 hook ok"
		default:
			return fmt.Sprintf("%s · %d hooks ok", what, n)
		}
	}
	return what
}

// renderSwitch draws the toggle: the knob sits on the side of the active
// theme.
func (m Model) renderSwitch() string {
	if m.status.Effective == theme.Dark {
		return m.styles.knobOn.Render("[──●]") + " dark"
	}
	return m.styles.knobOff.Render("[●──]") + " light"
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("shade"))
	b.WriteString("\n\n")

	symbol := "☀"
	if m.status.Effective == theme.Dark {
		symbol = "☾"
	}
	b.WriteString(fmt.Sprintf("%s %s %s\n\n",
		symbol,
		m.styles.headline.Render(m.status.Effective.String()),
		m.styles.mode.Render("("+m.status.Mode()+")"),
	))

	b.WriteString(m.styles.label.Render("System") + m.styles.value.Render(m.status.System.String()) + "\n")
	b.WriteString(m.styles.label.Render("Switch") + m.renderSwitch() + "\n")

	controls := theme.Controls(m.status)
	if controls.ResetVisible {
		b.WriteString(m.styles.label.Render("Reset") + m.styles.value.Render("press r to follow the system") + "\n")
	}

	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(m.styles.errText.Render("✖ "+m.err.Error()) + "\n")
	case m.busy:
		b.WriteString(m.styles.feedback.Render("…") + "\n")
	case m.feedback != "":
		b.WriteString(m.styles.feedback.Render("✔ "+m.feedback) + "\n")
	default:
		b.WriteString("\n")
	}

	b.WriteString("\n")

	help := "space: toggle"
	if controls.ResetVisible {
		help += " │ r: reset"
	}
	help += " │ q: quit"
	b.WriteString(m.styles.help.Render(help))

	return b.String()
}

// Run starts the control panel and blocks until the user quits.
func Run(engine *core.Engine) error {
	p := tea.NewProgram(New(engine), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
