// Package notebook is the home-screen workflow: it holds the signed-in user's
// notes as last fetched from the server and runs add, edit and delete against
// the remote API.
//
// The server is the only source of truth. Every mutation ends with a full
// refetch of the owner's notes, whether the mutation succeeded or not, and the
// local list is replaced wholesale by the result. There is no optimistic
// update and no merge.
package notebook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"example.com/notesin/internal/client"
	"example.com/notesin/internal/notify"
	"example.com/notesin/internal/session"
	"example.com/notesin/internal/validate"
)

var (
	ErrNoSession   = errors.New("no active session")
	ErrBusy        = errors.New("request already in flight")
	ErrNothingOpen = errors.New("no note opened for edit")
)

// NotesAPI is the slice of the remote service the notebook needs.
type NotesAPI interface {
	ListNotes(ctx context.Context, ownerID string) ([]client.Note, error)
	CreateNote(ctx context.Context, ownerID, title, description string) error
	UpdateNote(ctx context.Context, id, title, description string) error
	DeleteNote(ctx context.Context, id string) error
}

// Form is the state of the add or edit dialog.
type Form struct {
	NoteID      string // edit only
	Title       string
	Description string
	Visible     bool
}

// State is a point-in-time copy of the notebook for rendering.
type State struct {
	Notes      []client.Note
	Synced     bool // at least one fetch has succeeded
	Loading    bool
	Submitting bool
	Saving     bool
	Deleting   bool
	Create     Form
	Edit       Form
}

type Notebook struct {
	api    NotesAPI
	sess   *session.Holder
	notify notify.Notifier
	log    zerolog.Logger

	mu         sync.Mutex
	notes      []client.Note
	synced     bool
	loading    int
	started    uint64 // refresh generations handed out
	applied    uint64 // newest generation written to notes
	submitting bool
	pending    map[string]op
	create     Form
	edit       Form
}

type op int

const (
	opEdit op = iota + 1
	opDelete
)

type Option func(*Notebook)

func WithLogger(l zerolog.Logger) Option {
	return func(nb *Notebook) { nb.log = l }
}

func New(api NotesAPI, sess *session.Holder, n notify.Notifier, opts ...Option) *Notebook {
	if n == nil {
		n = notify.Discard
	}
	nb := &Notebook{
		api:     api,
		sess:    sess,
		notify:  n,
		log:     zerolog.Nop(),
		notes:   []client.Note{},
		pending: map[string]op{},
	}
	for _, opt := range opts {
		opt(nb)
	}
	return nb
}

func (nb *Notebook) State() State {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	deleting, saving := false, false
	for _, o := range nb.pending {
		switch o {
		case opDelete:
			deleting = true
		case opEdit:
			saving = true
		}
	}

	notes := make([]client.Note, len(nb.notes))
	copy(notes, nb.notes)
	return State{
		Notes:      notes,
		Synced:     nb.synced,
		Loading:    nb.loading > 0,
		Submitting: nb.submitting,
		Saving:     saving,
		Deleting:   deleting,
		Create:     nb.create,
		Edit:       nb.edit,
	}
}

// Reset drops the cached notes and both forms, e.g. on logout.
func (nb *Notebook) Reset() {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	nb.notes = []client.Note{}
	nb.synced = false
	nb.create = Form{}
	nb.edit = Form{}
	nb.applied = nb.started
}

// Refresh refetches the owner's notes and replaces the local list with them.
// On failure the list keeps its previous contents.
func (nb *Notebook) Refresh(ctx context.Context) error {
	s, ok := nb.sess.Current()
	if !ok {
		return ErrNoSession
	}

	nb.mu.Lock()
	nb.loading++
	nb.started++
	gen := nb.started
	nb.mu.Unlock()

	notes, err := nb.api.ListNotes(ctx, s.OwnerID)

	nb.mu.Lock()
	nb.loading--
	if err == nil {
		cur, _ := nb.sess.Current()
		switch {
		case cur.OwnerID != s.OwnerID:
			nb.log.Debug().Str("owner", s.OwnerID).Msg("dropping notes fetched for a previous session")
		case gen <= nb.applied:
			nb.log.Debug().Uint64("gen", gen).Uint64("applied", nb.applied).Msg("dropping stale fetch")
		default:
			nb.notes = notes
			nb.applied = gen
			nb.synced = true
		}
	}
	nb.mu.Unlock()

	if err != nil {
		nb.log.Warn().Err(err).Str("owner", s.OwnerID).Msg("fetch notes")
		if client.IsAPIError(err) {
			nb.notify.Notify(notify.Failed("Failed to fetch data from the server."))
		} else {
			nb.notify.Notify(notify.Failed("An unexpected error occurred while fetching data."))
		}
		return fmt.Errorf("fetch notes: %w", err)
	}
	return nil
}

func (nb *Notebook) OpenCreate() {
	nb.mu.Lock()
	nb.create.Visible = true
	nb.mu.Unlock()
}

// CloseCreate hides the add dialog; the draft is kept.
func (nb *Notebook) CloseCreate() {
	nb.mu.Lock()
	nb.create.Visible = false
	nb.mu.Unlock()
}

func (nb *Notebook) SetCreateDraft(title, description string) {
	nb.mu.Lock()
	nb.create.Title = title
	nb.create.Description = description
	nb.mu.Unlock()
}

// Add submits the add-dialog draft for the session owner. A blank field is
// rejected locally. Whatever the outcome of the request, the draft is cleared,
// the dialog closed and the list refetched.
func (nb *Notebook) Add(ctx context.Context) error {
	s, ok := nb.sess.Current()
	if !ok {
		return ErrNoSession
	}

	nb.mu.Lock()
	if nb.submitting {
		nb.mu.Unlock()
		return ErrBusy
	}
	title := strings.TrimSpace(nb.create.Title)
	description := strings.TrimSpace(nb.create.Description)
	if err := validate.Note(title, description); err != nil {
		nb.mu.Unlock()
		nb.notify.Notify(notify.Rejected("Error", err.Error()))
		return err
	}
	nb.submitting = true
	nb.mu.Unlock()

	err := nb.api.CreateNote(ctx, s.OwnerID, title, description)

	nb.mu.Lock()
	nb.submitting = false
	nb.create = Form{}
	nb.mu.Unlock()

	if err != nil {
		nb.log.Warn().Err(err).Str("owner", s.OwnerID).Msg("add note")
		nb.notify.Notify(notify.Failed(failureText(err, "Failed to add the note.", "An unexpected error occurred.")))
	} else {
		nb.log.Info().Str("owner", s.OwnerID).Msg("note added")
		nb.notify.Notify(notify.Succeeded("Note added successfully!"))
	}

	_ = nb.Refresh(ctx)

	if err != nil {
		return fmt.Errorf("add note: %w", err)
	}
	return nil
}

// OpenEdit loads n into the edit dialog. Edit only ever targets a note opened
// this way.
func (nb *Notebook) OpenEdit(n client.Note) {
	nb.mu.Lock()
	nb.edit = Form{NoteID: n.ID, Title: n.Title, Description: n.Description, Visible: true}
	nb.mu.Unlock()
}

// CloseEdit hides the edit dialog; the draft is kept.
func (nb *Notebook) CloseEdit() {
	nb.mu.Lock()
	nb.edit.Visible = false
	nb.mu.Unlock()
}

func (nb *Notebook) SetEditDraft(title, description string) {
	nb.mu.Lock()
	nb.edit.Title = title
	nb.edit.Description = description
	nb.mu.Unlock()
}

// Edit overwrites the opened note with the edit-dialog draft. On success the
// dialog closes; on failure the draft stays as typed. The list is refetched
// after every attempt that reached the server.
func (nb *Notebook) Edit(ctx context.Context) error {
	if _, ok := nb.sess.Current(); !ok {
		return ErrNoSession
	}

	nb.mu.Lock()
	form := nb.edit
	if form.NoteID == "" {
		nb.mu.Unlock()
		return ErrNothingOpen
	}
	title := strings.TrimSpace(form.Title)
	description := strings.TrimSpace(form.Description)
	if err := validate.Note(title, description); err != nil {
		nb.mu.Unlock()
		nb.notify.Notify(notify.Rejected("Error", err.Error()))
		return err
	}
	if _, busy := nb.pending[form.NoteID]; busy {
		nb.mu.Unlock()
		return ErrBusy
	}
	nb.pending[form.NoteID] = opEdit
	nb.mu.Unlock()

	err := nb.api.UpdateNote(ctx, form.NoteID, title, description)

	nb.mu.Lock()
	delete(nb.pending, form.NoteID)
	if err == nil && nb.edit.NoteID == form.NoteID {
		nb.edit = Form{}
	}
	nb.mu.Unlock()

	if err != nil {
		nb.log.Warn().Err(err).Str("note", form.NoteID).Msg("edit note")
		nb.notify.Notify(notify.Failed(failureText(err, "Failed to edit the note.", "An unexpected error occurred.")))
	} else {
		nb.log.Info().Str("note", form.NoteID).Msg("note edited")
		nb.notify.Notify(notify.Succeeded("Note edited successfully!"))
	}

	_ = nb.Refresh(ctx)

	if err != nil {
		return fmt.Errorf("edit note %s: %w", form.NoteID, err)
	}
	return nil
}

// Delete removes the note with the given id, then refetches the list whatever
// the outcome. The note is never dropped locally ahead of the server.
func (nb *Notebook) Delete(ctx context.Context, id string) error {
	if _, ok := nb.sess.Current(); !ok {
		return ErrNoSession
	}
	if id == "" {
		return errors.New("delete note: empty id")
	}

	nb.mu.Lock()
	if _, busy := nb.pending[id]; busy {
		nb.mu.Unlock()
		return ErrBusy
	}
	nb.pending[id] = opDelete
	nb.mu.Unlock()

	err := nb.api.DeleteNote(ctx, id)

	nb.mu.Lock()
	delete(nb.pending, id)
	nb.mu.Unlock()

	if err != nil {
		nb.log.Warn().Err(err).Str("note", id).Msg("delete note")
		nb.notify.Notify(notify.Failed(failureText(err, "Failed to delete the note.", "An unexpected error occurred while deleting data.")))
	} else {
		nb.log.Info().Str("note", id).Msg("note deleted")
		nb.notify.Notify(notify.Succeeded("Note Deleted successfully!"))
	}

	_ = nb.Refresh(ctx)

	if err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	return nil
}

// Find returns the cached note with the given id.
func (nb *Notebook) Find(id string) (client.Note, bool) {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	for _, n := range nb.notes {
		if n.ID == id {
			return n, true
		}
	}
	return client.Note{}, false
}

// failureText picks the server's own message when it sent one, else the
// rejected or transport fallback.
func failureText(err error, rejected, transport string) string {
	if msg, ok := client.ServerMessage(err); ok {
		return msg
	}
	if client.IsAPIError(err) {
		return rejected
	}
	return transport
}
