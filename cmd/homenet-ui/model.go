package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Lamp switched by the buttons.
const (
	lampDataObject = "AZ_DECKENLAMPE"
	lampOn         = "1"
	lampOff        = "0"
)

// maxLogLines is the height of the log pane.
const maxLogLines = 8

var (
	colorAccent = lipgloss.Color("6")
	colorMuted  = lipgloss.Color("8")
	colorError  = lipgloss.Color("1")
	colorOK     = lipgloss.Color("2")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	counterStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Border(lipgloss.NormalBorder())
	buttonStyle  = lipgloss.NewStyle().Padding(0, 3).Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted)
	activeStyle  = buttonStyle.Bold(true).BorderForeground(colorAccent).Foreground(colorAccent)
	statusStyle  = lipgloss.NewStyle().Foreground(colorOK)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	logStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	helpStyle    = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
)

// button is one of the window's push buttons.
type button struct {
	label string
	value string
}

var buttons = []button{
	{label: "ON", value: lampOn},
	{label: "OFF", value: lampOff},
}

// notifyFunc forwards a data-object change to the outbound targets.
type notifyFunc func(ctx context.Context, name, value string) error

// model is the root bubbletea model of the window.
type model struct {
	ctx      context.Context
	notify   notifyFunc
	counter  int
	selected int
	sending  bool
	status   string
	failed   bool
	logs     []string
	width    int
}

func newModel(ctx context.Context, counter int, notify notifyFunc) model {
	return model{
		ctx:     ctx,
		notify:  notify,
		counter: counter,
		status:  "Ready",
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case counterMsg:
		m.counter = msg.value
		return m, nil

	case logLineMsg:
		m.logs = append(m.logs, string(msg))
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		return m, nil

	case notifyDoneMsg:
		m.sending = false
		if msg.err != nil {
			m.failed = true
			m.status = fmt.Sprintf("%s = %s failed: %v", msg.name, msg.value, msg.err)
		} else {
			m.failed = false
			m.status = fmt.Sprintf("%s = %s sent", msg.name, msg.value)
		}
		return m, nil
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		return m, tea.Quit
	case "left", "h", "shift+tab":
		m.selected = (m.selected + len(buttons) - 1) % len(buttons)
	case "right", "l", "tab":
		m.selected = (m.selected + 1) % len(buttons)
	case "enter", " ":
		return m.press(m.selected)
	case "1", "o":
		m.selected = 0
		return m.press(0)
	case "0", "f":
		m.selected = 1
		return m.press(1)
	}
	return m, nil
}

// press sends the value of button i unless a send is still in flight.
func (m model) press(i int) (tea.Model, tea.Cmd) {
	if m.sending {
		return m, nil
	}
	m.sending = true
	m.status = "Sending " + lampDataObject + " = " + buttons[i].value + " ..."
	m.failed = false

	ctx, notify, value := m.ctx, m.notify, buttons[i].value
	return m, func() tea.Msg {
		return notifyDoneMsg{
			name:  lampDataObject,
			value: value,
			err:   notify(ctx, lampDataObject, value),
		}
	}
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(appName + " " + version))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		"Counter ",
		counterStyle.Render(strconv.Itoa(m.counter)),
	))
	b.WriteString("\n\n")

	rendered := make([]string, 0, len(buttons))
	for i, btn := range buttons {
		style := buttonStyle
		if i == m.selected {
			style = activeStyle
		}
		rendered = append(rendered, style.Render(btn.label))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	b.WriteString("\n\n")

	if m.failed {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n\n")

	logs := logStyle
	if m.width > 0 {
		logs = logs.Width(m.width)
	}
	b.WriteString(logs.Render(strings.Join(m.logs, "\n")))
	b.WriteString("\n\n")

	b.WriteString(helpStyle.Render("←/→ select · enter press · 1 on · 0 off · q quit"))
	b.WriteString("\n")

	return b.String()
}
