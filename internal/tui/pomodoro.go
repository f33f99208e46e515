package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timesplit/internal/app"
	"github.com/sadopc/timesplit/internal/pomodoro"
)

type pomodoroModel struct {
	state  *app.State
	width  int
	height int

	label        textinput.Model
	editingLabel bool

	formActive bool
	form       *huh.Form
	minutes    *string // survives value copies

	breath breathModel
}

func newPomodoroModel(st *app.State) pomodoroModel {
	ti := textinput.New()
	ti.Placeholder = "Label your session..."
	ti.CharLimit = 80
	ti.SetValue(st.Label())

	m := ""
	return pomodoroModel{
		state:   st,
		label:   ti,
		minutes: &m,
	}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
	p.label.Width = max(20, min(w-20, 60))
}

// capturing reports whether the view wants every key, so global bindings
// must not fire.
func (p pomodoroModel) capturing() bool {
	return p.formActive || p.editingLabel || p.breath.active
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}
	if p.editingLabel {
		return p.updateLabel(msg)
	}
	if p.breath.active {
		var cmd tea.Cmd
		p.breath, cmd = p.breath.update(msg)
		return p, cmd
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	t := p.state.Timer
	switch {
	case key.Matches(km, keys.Start):
		if !t.Running() {
			t.Start()
			return p, statusCmd(t.SessionType().String()+" started", false)
		}
	case key.Matches(km, keys.Stop):
		if t.Running() {
			t.Stop()
			return p, statusCmd("Timer stopped", false)
		}
	case key.Matches(km, keys.Reset):
		t.Reset()
		return p, statusCmd("Timer reset", false)
	case key.Matches(km, keys.Focus):
		return p, p.switchSession(pomodoro.Focus)
	case key.Matches(km, keys.ShortBreak):
		return p, p.switchSession(pomodoro.ShortBreak)
	case key.Matches(km, keys.LongBreak):
		return p, p.switchSession(pomodoro.LongBreak)
	case key.Matches(km, keys.Label):
		p.editingLabel = true
		return p, p.label.Focus()
	case key.Matches(km, keys.Minutes):
		return p.showMinutesForm()
	case key.Matches(km, keys.Breathe):
		var cmd tea.Cmd
		p.breath, cmd = p.breath.start()
		return p, cmd
	}
	return p, nil
}

func (p pomodoroModel) switchSession(st pomodoro.SessionType) tea.Cmd {
	if err := p.state.Timer.SetSessionType(st); err != nil {
		return statusCmd("Stop the timer before switching sessions", true)
	}
	return nil
}

func (p pomodoroModel) updateLabel(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			p.state.SetLabel(strings.TrimSpace(p.label.Value()))
			p.editingLabel = false
			p.label.Blur()
			return p, nil
		case "esc":
			p.label.SetValue(p.state.Label())
			p.editingLabel = false
			p.label.Blur()
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.label, cmd = p.label.Update(msg)
	return p, cmd
}

func validateMinutes(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("enter a positive number of minutes")
	}
	return nil
}

func (p pomodoroModel) showMinutesForm() (pomodoroModel, tea.Cmd) {
	*p.minutes = strconv.Itoa(p.state.Timer.FocusMinutes())
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Focus duration (minutes)").
				Value(p.minutes).
				Validate(validateMinutes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p pomodoroModel) updateForm(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		p.formActive = false
		p.form = nil
		return p, nil
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	switch p.form.State {
	case huh.StateCompleted:
		p.formActive = false
		n, _ := strconv.Atoi(strings.TrimSpace(*p.minutes))
		if err := p.state.SetCustomFocusMinutes(n); err != nil {
			return p, statusCmd(fmt.Sprintf("Invalid duration: %v", err), true)
		}
		return p, statusCmd(fmt.Sprintf("Focus timer updated to %d minutes", n), false)
	case huh.StateAborted:
		p.formActive = false
		return p, nil
	}
	return p, cmd
}

func (p pomodoroModel) view() string {
	w := p.width - 4
	pal := paletteFor(p.state.Theme())

	if p.formActive && p.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Set Custom Timer"), "", p.form.View())
		return pal.activePanel.Width(w).Render(content)
	}
	if p.breath.active {
		return p.breath.view(w, pal)
	}

	t := p.state.Timer
	theme := p.state.Theme()
	mode := pal.accent.Italic(true).Render(fmt.Sprintf("%s %s Mode", theme.Icon, p.state.Mode()))

	clock := pal.timer.Width(w - 6).Render(pomodoro.FormatClock(t.TimeLeft()))
	if !t.Running() && t.TimeLeft() < t.Duration(t.SessionType()) {
		clock = warningStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(pomodoro.FormatClock(t.TimeLeft()))
	}

	session := pal.selected.Render(strings.ToUpper(t.SessionType().String()))
	state := mutedStyle.Render("■  STOPPED")
	if t.Running() {
		state = successStyle.Render("●  RUNNING")
	}

	bar := progress.New(progress.WithSolidFill(string(pal.primary)), progress.WithoutPercentage())
	bar.Width = max(10, min(w-10, 50))

	label := p.label.View()
	if !p.editingLabel {
		text := p.state.Label()
		if text == "" {
			text = mutedStyle.Render(pomodoro.UnlabeledSession)
		}
		label = "Label: " + text
	}

	sessions := p.renderSessionTypes(pal)
	water := mutedStyle.Render(fmt.Sprintf("next water break in %s", pomodoro.FormatClock(p.state.Hydration.Left())))

	content := lipgloss.JoinVertical(lipgloss.Center,
		mode,
		"",
		clock,
		session+"  "+state,
		"",
		bar.ViewAs(t.Progress()),
		"",
		label,
		"",
		sessions,
		mutedStyle.Render(fmt.Sprintf("focus length: %d min", t.FocusMinutes())),
		"",
		water,
	)

	var controls string
	switch {
	case p.editingLabel:
		controls = mutedStyle.Render("enter: save label  esc: cancel")
	case t.Running():
		controls = mutedStyle.Render("x: stop  r: reset")
	default:
		controls = mutedStyle.Render("s: start  r: reset  f/b/B: session  l: label  m: minutes  i: breathe")
	}

	return pal.activePanel.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

func (p pomodoroModel) renderSessionTypes(pal palette) string {
	var parts []string
	for _, st := range pomodoro.SessionTypes() {
		if st == p.state.Timer.SessionType() {
			parts = append(parts, pal.activeTab.Render(st.String()))
		} else {
			parts = append(parts, inactiveTabStyle.Render(st.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, parts...)
}
