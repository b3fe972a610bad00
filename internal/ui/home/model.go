// Package home is the notes screen: the signed-in user's notes, the add and
// edit dialogs and the exit prompt. All note state lives in the notebook; the
// screen only mirrors it.
package home

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"example.com/notesin/internal/client"
	"example.com/notesin/internal/notebook"
	"example.com/notesin/internal/session"
	"example.com/notesin/internal/stringsx"
	"example.com/notesin/internal/ui/style"
)

// LogoutMsg asks the parent to end the session.
type LogoutMsg struct{}

type syncedMsg struct{ err error }

type mutatedMsg struct {
	op  op
	err error
}

type op int

const (
	opCreate op = iota + 1
	opEdit
	opDelete
)

type mode int

const (
	modeBrowse mode = iota
	modeCreate
	modeEdit
	modeConfirmExit
)

const (
	focusTitle = iota
	focusBody
)

type noteItem struct {
	note client.Note
}

func (i noteItem) Title() string       { return i.note.Title }
func (i noteItem) Description() string { return stringsx.OneLine(i.note.Description) }
func (i noteItem) FilterValue() string { return i.note.Title }

type Model struct {
	ctx  context.Context
	nb   *notebook.Notebook
	user session.User

	mode  mode
	list  list.Model
	title textinput.Model
	body  textarea.Model
	focus int

	spinner  spinner.Model
	keys     KeyMap
	help     help.Model
	showHelp bool

	width, height int
}

func New(ctx context.Context, nb *notebook.Notebook, user session.User) Model {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(style.Accent).BorderForeground(style.Accent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.BorderForeground(style.Accent)

	l := list.New([]list.Item{}, d, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	ti := textinput.New()
	ti.Placeholder = "Title of Note"
	ti.CharLimit = 200
	ti.Width = 50

	ta := textarea.New()
	ta.Placeholder = "Description of Note"
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.SetWidth(50)
	ta.SetHeight(6)

	return Model{
		ctx:     ctx,
		nb:      nb,
		user:    user,
		list:    l,
		title:   ti,
		body:    ta,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(style.Highlight)),
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.spinner.Tick)
}

func (m Model) refresh() tea.Cmd {
	ctx, nb := m.ctx, m.nb
	return func() tea.Msg { return syncedMsg{err: nb.Refresh(ctx)} }
}

func (m Model) mutate(o op, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return tea.Batch(
		func() tea.Msg { return mutatedMsg{op: o, err: fn(ctx)} },
		m.spinner.Tick,
	)
}

func busy(st notebook.State) bool {
	return st.Loading || st.Submitting || st.Saving || st.Deleting
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case spinner.TickMsg:
		if !busy(m.nb.State()) {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case syncedMsg:
		return m, m.syncList()

	case mutatedMsg:
		cmd := m.syncList()
		st := m.nb.State()
		switch {
		case msg.op == opCreate && m.mode == modeCreate && !st.Create.Visible:
			m.closeForm()
		case msg.op == opEdit && m.mode == modeEdit && !st.Edit.Visible:
			m.closeForm()
		}
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		switch m.mode {
		case modeCreate, modeEdit:
			return m.onFormKey(msg)
		case modeConfirmExit:
			return m.onConfirmKey(msg)
		default:
			return m.onBrowseKey(msg)
		}
	}

	if m.mode == modeCreate || m.mode == modeEdit {
		return m.updateInputs(msg)
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) onBrowseKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Exit):
		m.mode = modeConfirmExit
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.nb.OpenCreate()
		draft := m.nb.State().Create
		return m.openForm(modeCreate, draft.Title, draft.Description)

	case key.Matches(msg, m.keys.Edit):
		n, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.nb.OpenEdit(n)
		return m.openForm(modeEdit, n.Title, n.Description)

	case key.Matches(msg, m.keys.Delete):
		n, ok := m.selected()
		if !ok {
			return m, nil
		}
		nb, id := m.nb, n.ID
		return m, m.mutate(opDelete, func(ctx context.Context) error { return nb.Delete(ctx, id) })

	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(m.refresh(), m.spinner.Tick)

	case key.Matches(msg, m.keys.Logout):
		return m, func() tea.Msg { return LogoutMsg{} }
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) onFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.pushDraft()
		if m.mode == modeCreate {
			m.nb.CloseCreate()
		} else {
			m.nb.CloseEdit()
		}
		m.mode = modeBrowse
		m.title.Blur()
		m.body.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.focus == focusTitle {
			return m.focusOn(focusBody)
		}
		return m.focusOn(focusTitle)

	case key.Matches(msg, m.keys.Save):
		m.pushDraft()
		nb := m.nb
		if m.mode == modeCreate {
			return m, m.mutate(opCreate, nb.Add)
		}
		return m, m.mutate(opEdit, nb.Edit)
	}

	return m.updateInputs(msg)
}

func (m Model) onConfirmKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		return m, tea.Quit
	case key.Matches(msg, m.keys.No):
		m.mode = modeBrowse
	}
	return m, nil
}

func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == focusTitle {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.body, cmd = m.body.Update(msg)
	}
	return m, cmd
}

func (m Model) openForm(md mode, title, body string) (Model, tea.Cmd) {
	m.mode = md
	m.title.SetValue(title)
	m.body.SetValue(body)
	return m.focusOn(focusTitle)
}

func (m Model) focusOn(f int) (Model, tea.Cmd) {
	m.focus = f
	if f == focusTitle {
		m.body.Blur()
		return m, m.title.Focus()
	}
	m.title.Blur()
	return m, m.body.Focus()
}

func (m *Model) closeForm() {
	m.mode = modeBrowse
	m.title.Reset()
	m.body.Reset()
	m.title.Blur()
	m.body.Blur()
}

func (m *Model) pushDraft() {
	if m.mode == modeCreate {
		m.nb.SetCreateDraft(m.title.Value(), m.body.Value())
	} else {
		m.nb.SetEditDraft(m.title.Value(), m.body.Value())
	}
}

func (m Model) selected() (client.Note, bool) {
	it, ok := m.list.SelectedItem().(noteItem)
	if !ok {
		return client.Note{}, false
	}
	return it.note, true
}

// syncList rebuilds the list from the notebook, keeping the cursor on the
// same note when it survived.
func (m *Model) syncList() tea.Cmd {
	keep := ""
	if n, ok := m.selected(); ok {
		keep = n.ID
	}

	notes := m.nb.State().Notes
	items := make([]list.Item, len(notes))
	idx := 0
	for i, n := range notes {
		items[i] = noteItem{note: n}
		if n.ID == keep {
			idx = i
		}
	}
	cmd := m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(idx)
	}
	return cmd
}

func (m *Model) layout() {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	h := m.height - 10
	if h < 4 {
		h = 4
	}
	m.list.SetSize(w, h)

	fw := min(w-8, 70)
	if fw < 20 {
		fw = 20
	}
	m.title.Width = fw
	m.body.SetWidth(fw)
}

func (m Model) View() string {
	st := m.nb.State()
	var b strings.Builder

	b.WriteString(style.Title.Render("Welcome, ") + style.Highlight.Render(m.user.Username+"!"))
	b.WriteString("\n")

	switch m.mode {
	case modeCreate, modeEdit:
		b.WriteString("\n")
		b.WriteString(m.formView(st))
		b.WriteString("\n")
		b.WriteString(m.help.ShortHelpView(m.keys.FormShortHelp()))
		return b.String()

	case modeConfirmExit:
		b.WriteString("\n")
		prompt := style.Title.Render("Hold on!") + "\n" +
			"Are you sure you want to exit?" + "\n\n" +
			style.Highlight.Render("[y] YES") + "   " + style.Dim.Render("[n] Cancel")
		b.WriteString(style.Modal.Render(prompt))
		b.WriteString("\n")
		b.WriteString(m.help.ShortHelpView(m.keys.ConfirmShortHelp()))
		return b.String()
	}

	switch {
	case !st.Synced && st.Loading:
		b.WriteString("\n" + m.spinner.View() + " " + style.Dim.Render("Loading your notes…") + "\n")
	case len(st.Notes) == 0:
		b.WriteString("\n" + style.Dim.Render("Opps! Seems Like you haven't added any note.\nAdd new notes to see them!") + "\n")
	default:
		b.WriteString(style.Dim.Render("Here are Your Notes") + "\n\n")
		b.WriteString(m.list.View())
		b.WriteString("\n")
	}

	switch {
	case st.Deleting:
		b.WriteString(m.spinner.View() + " " + style.Dim.Render("Deleting…") + "\n")
	case st.Loading && st.Synced:
		b.WriteString(m.spinner.View() + " " + style.Dim.Render("Syncing…") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) formView(st notebook.State) string {
	heading, button, working := "Add a Note", "Add Note", st.Submitting
	if m.mode == modeEdit {
		heading, button, working = "Edit Note", "Edit Note", st.Saving
	}

	action := style.Highlight.Render("[ ctrl+s  " + button + " ]")
	if working {
		action = m.spinner.View() + " " + style.Dim.Render(button+"…")
	}

	return style.Modal.Render(lipgloss.JoinVertical(lipgloss.Left,
		style.Title.Render(heading),
		"",
		m.title.View(),
		"",
		m.body.View(),
		"",
		action,
	))
}
