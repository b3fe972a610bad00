package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recorded struct {
	method      string
	path        string
	rawPath     string
	contentType string
	body        string
}

func newStub(t *testing.T, status int, resp string) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.rawPath = r.URL.EscapedPath()
		rec.contentType = r.Header.Get("Content-Type")
		rec.body = string(data)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL + "/")
	require.NoError(t, err)
	return c, rec
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com")
	require.Error(t, err)

	_, err = New("::nope")
	require.Error(t, err)

	c, err := New(" https://notes.example.com/ ")
	require.NoError(t, err)
	require.Equal(t, "https://notes.example.com", c.BaseURL())
}

func TestCreateNote_Body(t *testing.T) {
	c, rec := newStub(t, http.StatusCreated, `{"message":"Note added successfully"}`)

	require.NoError(t, c.CreateNote(context.Background(), "u1", "Groceries", "milk, eggs"))
	require.Equal(t, http.MethodPost, rec.method)
	require.Equal(t, "/api/note/addnew", rec.path)
	require.Equal(t, "application/json", rec.contentType)
	require.JSONEq(t, `{"title":"Groceries","msg":"milk, eggs","postedBy":"u1"}`, rec.body)
}

func TestUpdateNote_Body(t *testing.T) {
	c, rec := newStub(t, http.StatusOK, ``)

	require.NoError(t, c.UpdateNote(context.Background(), "n1", "t", "d"))
	require.Equal(t, http.MethodPut, rec.method)
	require.Equal(t, "/api/note/update/n1", rec.path)
	require.JSONEq(t, `{"title":"t","msg":"d"}`, rec.body)
}

func TestDeleteNote_Path(t *testing.T) {
	c, rec := newStub(t, http.StatusOK, `{"message":"Note deleted successfully"}`)

	require.NoError(t, c.DeleteNote(context.Background(), "n42"))
	require.Equal(t, http.MethodDelete, rec.method)
	require.Equal(t, "/api/note/delete/n42", rec.path)
	require.Empty(t, rec.body)
}

func TestListNotes_EscapesAndDecodes(t *testing.T) {
	c, rec := newStub(t, http.StatusOK, `{"notes":[
		{"_id":"n1","title":"a","msg":"first","postedBy":"u 1","createdAt":"2024-05-01T10:00:00Z"},
		{"id":"n2","title":"b","description":"second"}
	]}`)

	notes, err := c.ListNotes(context.Background(), "u 1")
	require.NoError(t, err)
	require.Equal(t, "/api/note/notebyuid/u%201", rec.rawPath)

	require.Len(t, notes, 2)
	require.Equal(t, "n1", notes[0].ID)
	require.Equal(t, "first", notes[0].Description)
	require.Equal(t, "u 1", notes[0].OwnerID)
	require.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), notes[0].CreatedAt.UTC())
	require.Equal(t, "n2", notes[1].ID)
	require.Equal(t, "second", notes[1].Description)
}

func TestListNotes_EmptyIsNonNil(t *testing.T) {
	c, _ := newStub(t, http.StatusOK, `{}`)

	notes, err := c.ListNotes(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, notes)
	require.Empty(t, notes)
}

func TestDo_APIErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"Note not found"}`, "Note not found"},
		{"error field", `{"error":"bad input"}`, "bad input"},
		{"json without text", `{"code":7}`, ""},
		{"plain text", "upstream\nexploded", "upstream exploded"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newStub(t, http.StatusNotFound, tt.body)

			err := c.DeleteNote(context.Background(), "n1")
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, http.StatusNotFound, apiErr.Status)
			require.Equal(t, tt.want, apiErr.Message)
			require.True(t, IsAPIError(err))

			msg, ok := ServerMessage(err)
			require.Equal(t, tt.want != "", ok)
			require.Equal(t, tt.want, msg)
		})
	}
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url)
	require.NoError(t, err)

	err = c.DeleteNote(context.Background(), "n1")
	require.Error(t, err)
	require.False(t, IsAPIError(err))
}

func TestDo_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c, err := New(srv.URL, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	err = c.DeleteNote(context.Background(), "n1")
	require.Error(t, err)
	require.False(t, IsAPIError(err))
}

func TestWithTimeout_PerClient(t *testing.T) {
	a, err := New("http://localhost:1", WithTimeout(time.Second))
	require.NoError(t, err)
	b, err := New("http://localhost:1")
	require.NoError(t, err)

	require.Equal(t, time.Second, a.http.Timeout)
	require.Zero(t, b.http.Timeout)
	require.NotSame(t, a.http, b.http)
}

func TestLogin_FallsBackBetweenIDs(t *testing.T) {
	c, rec := newStub(t, http.StatusOK, `{"user":{"_id":"u9","username":"ann"}}`)

	res, err := c.Login(context.Background(), Credentials{Username: "ann", Email: "a@b.co", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "u9", res.OwnerID)
	require.Equal(t, "/api/auth/login", rec.path)

	var sent map[string]string
	require.NoError(t, json.Unmarshal([]byte(rec.body), &sent))
	require.Equal(t, map[string]string{"username": "ann", "email": "a@b.co", "password": "secret1"}, sent)

	c, _ = newStub(t, http.StatusOK, `{"logedInUserId":"u3","user":{"username":"ann"}}`)
	res, err = c.Login(context.Background(), Credentials{})
	require.NoError(t, err)
	require.Equal(t, "u3", res.User.ID)
}

func TestLogin_NoUserID(t *testing.T) {
	c, _ := newStub(t, http.StatusOK, `{"user":{}}`)

	_, err := c.Login(context.Background(), Credentials{})
	require.Error(t, err)
	require.False(t, IsAPIError(err))
}

func TestRegister(t *testing.T) {
	c, rec := newStub(t, http.StatusCreated, `{"message":"User registered successfully","user":{"_id":"u1","username":"ann"}}`)

	res, err := c.Register(context.Background(), Credentials{Username: "ann", Email: "a@b.co", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "/api/auth/register", rec.path)
	require.Equal(t, "User registered successfully", res.Message)
	require.Equal(t, "u1", res.User.ID)
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Method: "GET", Path: "/x", Status: 500}
	require.Equal(t, "GET /x: status 500", err.Error())

	err.Message = "boom"
	require.True(t, strings.HasSuffix(err.Error(), ": boom"))
	require.False(t, IsAPIError(errors.New("x")))
}
