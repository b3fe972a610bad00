// Package signin is the login and signup screen. Both forms share the same
// three inputs; Mode decides which request enter sends.
package signin

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"example.com/notesin/internal/account"
	"example.com/notesin/internal/session"
	"example.com/notesin/internal/ui/style"
	"example.com/notesin/internal/validate"
)

type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

const (
	fieldUsername = iota
	fieldEmail
	fieldPassword
	fieldCount
)

// LoggedInMsg is sent to the parent once a login succeeded.
type LoggedInMsg struct {
	Session session.Session
}

type loginDoneMsg struct {
	sess session.Session
	err  error
}

type signupDoneMsg struct {
	err error
}

// Accounts is the part of account.Service the screen drives.
type Accounts interface {
	Login(ctx context.Context, f account.Form) (session.Session, error)
	Signup(ctx context.Context, f account.Form) error
	Busy() bool
}

type Model struct {
	ctx      context.Context
	accounts Accounts

	mode    Mode
	inputs  [fieldCount]textinput.Model
	focus   int
	busy    bool
	errs    validate.FieldErrors
	spinner spinner.Model

	keys KeyMap
	help help.Model

	width, height int
}

func New(ctx context.Context, accounts Accounts) Model {
	m := Model{
		ctx:      ctx,
		accounts: accounts,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(style.Highlight)),
		keys:     DefaultKeyMap(),
		help:     help.New(),
	}

	placeholders := [fieldCount]string{"Username", "Email", "Password"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 128
		ti.Width = 40
		m.inputs[i] = ti
	}
	m.inputs[fieldPassword].EchoMode = textinput.EchoPassword
	m.inputs[fieldPassword].EchoCharacter = '•'
	m.inputs[fieldUsername].Focus()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) form() account.Form {
	return account.Form{
		Username: m.inputs[fieldUsername].Value(),
		Email:    m.inputs[fieldEmail].Value(),
		Password: m.inputs[fieldPassword].Value(),
	}
}

// SetMode switches between login and signup, clearing the form.
func (m Model) SetMode(mode Mode) (Model, tea.Cmd) {
	m.mode = mode
	m.errs = nil
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	return m.focusField(fieldUsername)
}

func (m Model) focusField(i int) (Model, tea.Cmd) {
	m.focus = (i + fieldCount) % fieldCount
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == m.focus {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return m, cmd
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loginDoneMsg:
		m.busy = false
		if msg.err == nil {
			m.inputs[fieldPassword].Reset()
			sess := msg.sess
			return m, func() tea.Msg { return LoggedInMsg{Session: sess} }
		}
		var verr *validate.Error
		if errors.As(msg.err, &verr) {
			return m.focusField(fieldIndex(verr.Field))
		}
		return m, nil

	case signupDoneMsg:
		m.busy = false
		var fe validate.FieldErrors
		switch {
		case msg.err == nil:
			return m.SetMode(ModeLogin)
		case errors.As(msg.err, &fe):
			m.errs = fe
			return m.focusField(firstField(fe))
		}
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) onKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case m.busy || m.accounts.Busy():
		return m, nil
	case key.Matches(msg, m.keys.ToSignup):
		return m.SetMode(ModeSignup)
	case key.Matches(msg, m.keys.ToLogin):
		return m.SetMode(ModeLogin)
	case key.Matches(msg, m.keys.Next):
		return m.focusField(m.focus + 1)
	case key.Matches(msg, m.keys.Prev):
		return m.focusField(m.focus - 1)
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}
	return m.updateFocused(msg)
}

func (m Model) updateFocused(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	m.busy = true
	m.errs = nil
	ctx, accounts, form := m.ctx, m.accounts, m.form()

	var run tea.Cmd
	if m.mode == ModeSignup {
		run = func() tea.Msg { return signupDoneMsg{err: accounts.Signup(ctx, form)} }
	} else {
		run = func() tea.Msg {
			sess, err := accounts.Login(ctx, form)
			return loginDoneMsg{sess: sess, err: err}
		}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func fieldIndex(f validate.Field) int {
	switch f {
	case validate.FieldEmail:
		return fieldEmail
	case validate.FieldPassword:
		return fieldPassword
	default:
		return fieldUsername
	}
}

func firstField(fe validate.FieldErrors) int {
	for _, f := range []validate.Field{validate.FieldUsername, validate.FieldEmail, validate.FieldPassword} {
		if _, ok := fe[f]; ok {
			return fieldIndex(f)
		}
	}
	return fieldUsername
}

func (m Model) View() string {
	var b strings.Builder

	verb, button, link := "Login", "Login", "Don't have an account? Signup (ctrl+n)"
	if m.mode == ModeSignup {
		verb, button, link = "Signup", "Signup", "Already have an account? Signin (ctrl+l)"
	}

	b.WriteString(style.Title.Render(verb+" To ") + style.Highlight.Render("Notes In"))
	b.WriteString("\n\n")

	fields := [fieldCount]validate.Field{validate.FieldUsername, validate.FieldEmail, validate.FieldPassword}
	for i, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
		if msg, ok := m.errs[fields[i]]; ok {
			b.WriteString(style.FieldErr.Render(msg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.busy {
		b.WriteString(m.spinner.View() + " " + style.Dim.Render(button+"…"))
	} else {
		b.WriteString(style.Highlight.Render("[ " + button + " ]"))
	}
	b.WriteString("\n\n")
	b.WriteString(style.Dim.Render(link))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	body := style.Panel.Render(b.String())
	if m.width == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}
