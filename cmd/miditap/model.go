package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	midi "github.com/ColinHarrington/arduinomidilib"
)

var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555"))
	headerStyle = lipgloss.NewStyle().Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888"))
)

const maxLogLines = 20

// velocityGradient runs cool-to-hot, low velocity to high, in the same
// "interpolate between two named colours" spirit as theme.Palette.Lookup,
// built directly from go-colorful rather than a loaded .gpl file since this
// tool ships no palette assets of its own.
var velocityGradient = func(v float64) lipgloss.Color {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	cold, _ := colorful.Hex("#3b82f6")
	hot, _ := colorful.Hex("#ef4444")
	c := cold.BlendLuv(hot, v)
	return lipgloss.Color(c.Hex())
}

type pollMsg struct{}

func pollTick() tea.Cmd {
	return tea.Tick(30*time.Millisecond, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

type model struct {
	engine   *midi.Engine
	lines    []string
	quitting bool
}

func newModel(engine *midi.Engine) model {
	return model{engine: engine}
}

func (m model) Init() tea.Cmd {
	return pollTick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case pollMsg:
		for m.engine.Poll() {
			m.lines = append(m.lines, m.render(m.engine.Message()))
			if len(m.lines) > maxLogLines {
				m.lines = m.lines[len(m.lines)-maxLogLines:]
			}
		}
		return m, pollTick()
	}

	return m, nil
}

func (m model) render(msg midi.Message) string {
	if msg.Kind == midi.NoteOn || msg.Kind == midi.NoteOff {
		style := lipgloss.NewStyle().Foreground(velocityGradient(float64(msg.Data2) / 127))
		return style.Render(fmt.Sprintf(
			"%-8s ch=%-2d note=%-3d vel=%-3d",
			msg.Kind, msg.Channel, msg.Data1, msg.Data2,
		))
	}
	return dimStyle.Render(fmt.Sprintf("%-8s ch=%d data1=%d data2=%d", msg.Kind, msg.Channel, msg.Data1, msg.Data2))
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	header := headerStyle.Render("miditap — live decoded MIDI")
	body := strings.Join(m.lines, "\n")
	help := helpStyle.Render("q: quit")

	return fmt.Sprintf("\n%s\n\n%s\n\n%s\n", header, body, help)
}
