// Package app is the root terminal model. It owns the screen stack
// (splash, then login or signup, then home) and the notification line.
package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"example.com/notesin/internal/account"
	"example.com/notesin/internal/notebook"
	"example.com/notesin/internal/notify"
	"example.com/notesin/internal/ui/home"
	"example.com/notesin/internal/ui/signin"
	"example.com/notesin/internal/ui/splash"
	"example.com/notesin/internal/ui/style"
)

type screen int

const (
	screenSplash screen = iota
	screenSignin
	screenHome
)

// noticeTTL is how long a notification stays on the status line.
const noticeTTL = 4 * time.Second

type expireNoticeMsg struct{ seq uint64 }

// Deps wires the workflows into the screens.
type Deps struct {
	Ctx      context.Context
	Accounts *account.Service
	Notebook *notebook.Notebook
	Board    *notify.Board
	Splash   time.Duration
	Log      zerolog.Logger
}

type Model struct {
	deps Deps

	screen screen
	splash splash.Model
	signin signin.Model
	home   home.Model

	seenSeq uint64

	width, height int
}

func New(d Deps) Model {
	if d.Ctx == nil {
		d.Ctx = context.Background()
	}
	return Model{
		deps:   d,
		screen: screenSplash,
		splash: splash.New(d.Splash),
		signin: signin.New(d.Ctx, d.Accounts),
	}
}

func (m Model) Init() tea.Cmd {
	return m.splash.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		child := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 2}
		m.splash, _ = m.splash.Update(child)
		m.signin, _ = m.signin.Update(child)
		if m.screen == screenHome {
			m.home, _ = m.home.Update(child)
		}
		return m, nil

	case splash.DoneMsg:
		if m.screen != screenSplash {
			return m, nil
		}
		m.deps.Log.Debug().Msg("splash done")
		m.screen = screenSignin
		return m, m.signin.Init()

	case signin.LoggedInMsg:
		m.screen = screenHome
		m.home = home.New(m.deps.Ctx, m.deps.Notebook, msg.Session.User)
		if m.width > 0 {
			m.home, _ = m.home.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height - 2})
		}
		cmd := tea.Batch(m.home.Init(), m.watchNotices())
		return m, cmd

	case home.LogoutMsg:
		m.deps.Accounts.Logout()
		m.deps.Notebook.Reset()
		m.screen = screenSignin
		var cmd tea.Cmd
		m.signin, cmd = m.signin.SetMode(signin.ModeLogin)
		return m, cmd

	case expireNoticeMsg:
		if _, seq := m.deps.Board.Latest(); seq == msg.seq {
			m.deps.Board.Clear()
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenSplash:
		m.splash, cmd = m.splash.Update(msg)
	case screenSignin:
		m.signin, cmd = m.signin.Update(msg)
	case screenHome:
		m.home, cmd = m.home.Update(msg)
	}
	cmds = append(cmds, cmd, m.watchNotices())
	return m, tea.Batch(cmds...)
}

// watchNotices schedules the expiry of a notice posted since the last look.
func (m *Model) watchNotices() tea.Cmd {
	if m.deps.Board == nil {
		return nil
	}
	_, seq := m.deps.Board.Latest()
	if seq == m.seenSeq {
		return nil
	}
	m.seenSeq = seq
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return expireNoticeMsg{seq: seq} })
}

func (m Model) View() string {
	var body string
	switch m.screen {
	case screenSplash:
		body = m.splash.View()
	case screenSignin:
		body = m.signin.View()
	default:
		body = m.home.View()
	}

	status := ""
	if m.deps.Board != nil {
		n, _ := m.deps.Board.Latest()
		status = style.Notice(n)
	}
	if m.width == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, body, status)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		lipgloss.NewStyle().Width(m.width).Render(status),
	)
}
