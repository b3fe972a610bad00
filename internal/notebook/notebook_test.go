package notebook

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/notesin/internal/client"
	"example.com/notesin/internal/notify"
	"example.com/notesin/internal/session"
	"example.com/notesin/internal/validate"
)

type createCall struct{ owner, title, description string }

type stubAPI struct {
	mu sync.Mutex

	listFn   func(owner string) ([]client.Note, error)
	createFn func(owner, title, description string) error
	updateFn func(id, title, description string) error
	deleteFn func(id string) error

	lists   []string
	creates []createCall
	updates []string
	deletes []string
}

func (s *stubAPI) ListNotes(_ context.Context, owner string) ([]client.Note, error) {
	s.mu.Lock()
	s.lists = append(s.lists, owner)
	fn := s.listFn
	s.mu.Unlock()
	if fn == nil {
		return []client.Note{}, nil
	}
	return fn(owner)
}

func (s *stubAPI) CreateNote(_ context.Context, owner, title, description string) error {
	s.mu.Lock()
	s.creates = append(s.creates, createCall{owner, title, description})
	s.mu.Unlock()
	if s.createFn == nil {
		return nil
	}
	return s.createFn(owner, title, description)
}

func (s *stubAPI) UpdateNote(_ context.Context, id, title, description string) error {
	s.mu.Lock()
	s.updates = append(s.updates, id)
	s.mu.Unlock()
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(id, title, description)
}

func (s *stubAPI) DeleteNote(_ context.Context, id string) error {
	s.mu.Lock()
	s.deletes = append(s.deletes, id)
	s.mu.Unlock()
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(id)
}

func (s *stubAPI) listCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lists)
}

func signedIn(api *stubAPI) (*Notebook, *session.Holder, *notify.Board) {
	sess := session.NewHolder()
	sess.Start("u1", session.User{ID: "u1", Username: "ann"})
	board := &notify.Board{}
	return New(api, sess, board), sess, board
}

func latest(b *notify.Board) notify.Notice {
	n, _ := b.Latest()
	return n
}

var rejected = &client.APIError{Status: http.StatusInternalServerError}

func TestRefresh_ReplacesList(t *testing.T) {
	server := []client.Note{{ID: "n1", Title: "a", Description: "b"}, {ID: "n2", Title: "c", Description: "d"}}
	api := &stubAPI{listFn: func(string) ([]client.Note, error) { return server, nil }}
	nb, _, _ := signedIn(api)

	require.NoError(t, nb.Refresh(context.Background()))
	st := nb.State()
	require.Equal(t, server, st.Notes)
	require.True(t, st.Synced)
	require.False(t, st.Loading)
	require.Equal(t, []string{"u1"}, api.lists)
}

func TestRefresh_NoSession(t *testing.T) {
	api := &stubAPI{}
	nb := New(api, session.NewHolder(), nil)

	require.ErrorIs(t, nb.Refresh(context.Background()), ErrNoSession)
	require.Zero(t, api.listCount())
}

func TestRefresh_FailureKeepsList(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rejected", rejected, "Failed to fetch data from the server."},
		{"transport", errors.New("connection reset"), "An unexpected error occurred while fetching data."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := []client.Note{{ID: "n1", Title: "keep", Description: "me"}}
			api := &stubAPI{listFn: func(string) ([]client.Note, error) { return first, nil }}
			nb, _, board := signedIn(api)
			require.NoError(t, nb.Refresh(context.Background()))

			api.listFn = func(string) ([]client.Note, error) { return nil, tt.err }
			err := nb.Refresh(context.Background())
			require.ErrorIs(t, err, tt.err)

			st := nb.State()
			require.Equal(t, first, st.Notes)
			require.False(t, st.Loading)
			require.Equal(t, tt.want, latest(board).Message)
		})
	}
}

func TestAdd_SendsTrimmedDraftAndResyncs(t *testing.T) {
	api := &stubAPI{}
	nb, _, board := signedIn(api)

	nb.OpenCreate()
	nb.SetCreateDraft("  Groceries ", "milk, eggs\n")
	require.NoError(t, nb.Add(context.Background()))

	require.Equal(t, []createCall{{"u1", "Groceries", "milk, eggs"}}, api.creates)
	require.Equal(t, 1, api.listCount())
	require.Equal(t, "Note added successfully!", latest(board).Message)

	st := nb.State()
	require.Equal(t, Form{}, st.Create)
	require.False(t, st.Submitting)
}

func TestAdd_BlankFieldsSendNothing(t *testing.T) {
	tests := []struct{ title, description string }{
		{"", "body"},
		{"title", "   "},
		{"\t", "\n"},
	}
	for _, tt := range tests {
		api := &stubAPI{}
		nb, _, board := signedIn(api)

		nb.OpenCreate()
		nb.SetCreateDraft(tt.title, tt.description)
		err := nb.Add(context.Background())

		require.ErrorIs(t, err, validate.ErrEmptyFields)
		require.Empty(t, api.creates)
		require.Zero(t, api.listCount())

		n := latest(board)
		require.Equal(t, notify.Invalid, n.Kind)
		require.Equal(t, "Please fill in all fields.", n.Message)
		require.True(t, nb.State().Create.Visible)
	}
}

func TestAdd_FailureResetsFormAndResyncs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &client.APIError{Status: http.StatusBadRequest, Message: "Title too long"}, "Title too long"},
		{"rejected", rejected, "Failed to add the note."},
		{"transport", errors.New("no route to host"), "An unexpected error occurred."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &stubAPI{createFn: func(string, string, string) error { return tt.err }}
			nb, _, board := signedIn(api)

			nb.OpenCreate()
			nb.SetCreateDraft("t", "d")
			require.ErrorIs(t, nb.Add(context.Background()), tt.err)

			require.Equal(t, tt.want, latest(board).Message)
			require.Equal(t, Form{}, nb.State().Create)
			require.Equal(t, 1, api.listCount())
		})
	}
}

func TestEdit_RequiresOpenedNote(t *testing.T) {
	api := &stubAPI{}
	nb, _, _ := signedIn(api)

	require.ErrorIs(t, nb.Edit(context.Background()), ErrNothingOpen)
	require.Empty(t, api.updates)
}

func TestEdit_SuccessClosesForm(t *testing.T) {
	api := &stubAPI{updateFn: func(id, title, description string) error {
		require.Equal(t, "n1", id)
		require.Equal(t, "new", title)
		require.Equal(t, "text", description)
		return nil
	}}
	nb, _, board := signedIn(api)

	nb.OpenEdit(client.Note{ID: "n1", Title: "old", Description: "body"})
	nb.SetEditDraft("new", " text ")
	require.NoError(t, nb.Edit(context.Background()))

	require.Equal(t, "Note edited successfully!", latest(board).Message)
	require.Equal(t, Form{}, nb.State().Edit)
	require.Equal(t, 1, api.listCount())
}

func TestEdit_FailureKeepsDraft(t *testing.T) {
	api := &stubAPI{updateFn: func(string, string, string) error { return rejected }}
	nb, _, board := signedIn(api)

	nb.OpenEdit(client.Note{ID: "n1", Title: "old", Description: "body"})
	nb.SetEditDraft("typed", "draft")
	require.Error(t, nb.Edit(context.Background()))

	require.Equal(t, "Failed to edit the note.", latest(board).Message)
	st := nb.State()
	require.Equal(t, Form{NoteID: "n1", Title: "typed", Description: "draft", Visible: true}, st.Edit)
	require.False(t, st.Saving)
	require.Equal(t, 1, api.listCount())
}

func TestEdit_BlankFieldsSendNothing(t *testing.T) {
	api := &stubAPI{}
	nb, _, _ := signedIn(api)

	nb.OpenEdit(client.Note{ID: "n1", Title: "old", Description: "body"})
	nb.SetEditDraft("  ", "body")
	require.ErrorIs(t, nb.Edit(context.Background()), validate.ErrEmptyFields)
	require.Empty(t, api.updates)
	require.Zero(t, api.listCount())
}

func TestDelete_ResyncsRegardless(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"success", nil, "Note Deleted successfully!"},
		{"rejected", rejected, "Failed to delete the note."},
		{"transport", errors.New("eof"), "An unexpected error occurred while deleting data."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &stubAPI{deleteFn: func(string) error { return tt.err }}
			nb, _, board := signedIn(api)

			err := nb.Delete(context.Background(), "n42")
			if tt.err == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.err)
			}
			require.Equal(t, []string{"n42"}, api.deletes)
			require.Equal(t, 1, api.listCount())
			require.Equal(t, tt.want, latest(board).Message)
			require.False(t, nb.State().Deleting)
		})
	}
}

func TestDelete_NeverRemovesLocally(t *testing.T) {
	notes := []client.Note{{ID: "n42", Title: "t", Description: "d"}}
	api := &stubAPI{
		listFn:   func(string) ([]client.Note, error) { return notes, nil },
		deleteFn: func(string) error { return rejected },
	}
	nb, _, _ := signedIn(api)
	require.NoError(t, nb.Refresh(context.Background()))

	require.Error(t, nb.Delete(context.Background(), "n42"))
	_, ok := nb.Find("n42")
	require.True(t, ok)
}

func TestDelete_BusyWhileInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	api := &stubAPI{deleteFn: func(string) error {
		close(entered)
		<-release
		return nil
	}}
	nb, _, _ := signedIn(api)

	done := make(chan error, 1)
	go func() { done <- nb.Delete(context.Background(), "n1") }()
	<-entered

	require.True(t, nb.State().Deleting)
	require.ErrorIs(t, nb.Delete(context.Background(), "n1"), ErrBusy)

	nb.OpenEdit(client.Note{ID: "n1", Title: "t", Description: "d"})
	require.ErrorIs(t, nb.Edit(context.Background()), ErrBusy)

	close(release)
	require.NoError(t, <-done)

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Equal(t, []string{"n1"}, api.deletes)
	require.Empty(t, api.updates)
}

func TestAdd_BusyWhileSubmitting(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	api := &stubAPI{createFn: func(string, string, string) error {
		close(entered)
		<-release
		return nil
	}}
	nb, _, _ := signedIn(api)
	nb.SetCreateDraft("t", "d")

	done := make(chan error, 1)
	go func() { done <- nb.Add(context.Background()) }()
	<-entered

	require.True(t, nb.State().Submitting)
	require.ErrorIs(t, nb.Add(context.Background()), ErrBusy)

	close(release)
	require.NoError(t, <-done)
}

func TestRefresh_StaleResultDropped(t *testing.T) {
	slowEntered := make(chan struct{})
	slowRelease := make(chan struct{})
	old := []client.Note{{ID: "old"}}
	fresh := []client.Note{{ID: "fresh"}}

	var calls int
	var mu sync.Mutex
	api := &stubAPI{listFn: func(string) ([]client.Note, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(slowEntered)
			<-slowRelease
			return old, nil
		}
		return fresh, nil
	}}
	nb, _, _ := signedIn(api)

	done := make(chan error, 1)
	go func() { done <- nb.Refresh(context.Background()) }()
	<-slowEntered

	require.NoError(t, nb.Refresh(context.Background()))
	require.Equal(t, fresh, nb.State().Notes)

	close(slowRelease)
	require.NoError(t, <-done)
	require.Equal(t, fresh, nb.State().Notes)
}

func TestRefresh_DroppedAfterLogout(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	api := &stubAPI{listFn: func(string) ([]client.Note, error) {
		close(entered)
		<-release
		return []client.Note{{ID: "n1"}}, nil
	}}
	nb, sess, _ := signedIn(api)

	done := make(chan error, 1)
	go func() { done <- nb.Refresh(context.Background()) }()
	<-entered

	sess.Clear()
	nb.Reset()
	close(release)
	require.NoError(t, <-done)

	st := nb.State()
	require.Empty(t, st.Notes)
	require.False(t, st.Synced)
}
