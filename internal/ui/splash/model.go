// Package splash is the start-up screen: the logo is drawn line by line and
// the screen hands over to login once the delay runs out or a key is pressed.
package splash

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"example.com/notesin/internal/ui/style"
)

// DoneMsg tells the parent the splash is over.
type DoneMsg struct{}

type tickMsg time.Time

type expiredMsg struct{}

const frame = 80 * time.Millisecond

var logo = []string{
	`███╗   ██╗ ██████╗ ████████╗███████╗███████╗    ██╗███╗   ██╗`,
	`████╗  ██║██╔═══██╗╚══██╔══╝██╔════╝██╔════╝    ██║████╗  ██║`,
	`██╔██╗ ██║██║   ██║   ██║   █████╗  ███████╗    ██║██╔██╗ ██║`,
	`██║╚██╗██║██║   ██║   ██║   ██╔══╝  ╚════██║    ██║██║╚██╗██║`,
	`██║ ╚████║╚██████╔╝   ██║   ███████╗███████║    ██║██║ ╚████║`,
	`╚═╝  ╚═══╝ ╚═════╝    ╚═╝   ╚══════╝╚══════╝    ╚═╝╚═╝  ╚═══╝`,
}

type Model struct {
	width, height int
	delay         time.Duration
	linesShown    int
	done          bool
}

// New returns a splash that lasts delay. A zero delay skips straight to done
// on Init.
func New(delay time.Duration) Model {
	return Model{delay: delay}
}

func (m Model) Init() tea.Cmd {
	if m.delay <= 0 {
		return finish
	}
	return tea.Batch(
		tick(),
		tea.Tick(m.delay, func(time.Time) tea.Msg { return expiredMsg{} }),
	)
}

func tick() tea.Cmd {
	return tea.Tick(frame, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func finish() tea.Msg { return DoneMsg{} }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tickMsg:
		if m.linesShown < len(logo) {
			m.linesShown++
			return m, tick()
		}
	case expiredMsg:
		return m.complete()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.complete()
	}
	return m, nil
}

// complete fires DoneMsg once, whichever of key or timer comes first.
func (m Model) complete() (Model, tea.Cmd) {
	if m.done {
		return m, nil
	}
	m.done = true
	m.linesShown = len(logo)
	return m, finish
}

func (m Model) View() string {
	var b strings.Builder
	for i, line := range logo {
		if i < m.linesShown {
			b.WriteString(style.Highlight.Render(line))
		}
		if i < len(logo)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n\n")
	b.WriteString(style.Dim.Render("your notes, anywhere"))

	if m.width == 0 {
		return b.String()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}
