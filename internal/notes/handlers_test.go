package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	createFn func(context.Context, string, string, string) (Note, error)
	updateFn func(context.Context, string, string, string) (Note, error)
	deleteFn func(context.Context, string) error
	listFn   func(context.Context, string) ([]Note, error)
}

func (s stubStore) Create(ctx context.Context, ownerID, title, msg string) (Note, error) {
	return s.createFn(ctx, ownerID, title, msg)
}
func (s stubStore) Update(ctx context.Context, id, title, msg string) (Note, error) {
	return s.updateFn(ctx, id, title, msg)
}
func (s stubStore) Delete(ctx context.Context, id string) error { return s.deleteFn(ctx, id) }
func (s stubStore) ListByOwner(ctx context.Context, ownerID string) ([]Note, error) {
	return s.listFn(ctx, ownerID)
}

func routes(s Store) http.Handler {
	return NewHandlers(s, zerolog.Nop()).Routes()
}

func TestHandlers_Create_Validation(t *testing.T) {
	h := routes(stubStore{
		createFn: func(context.Context, string, string, string) (Note, error) {
			t.Fatal("store must not be called")
			return Note{}, nil
		},
	})

	for _, body := range []string{
		`{"title":"","msg":"x","postedBy":"u1"}`,
		`{"title":"t","msg":"  ","postedBy":"u1"}`,
		`{"title":"t","msg":"x"}`,
		`{`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/addnew", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
}

func TestHandlers_Create_Success(t *testing.T) {
	created := Note{ID: "n1", Title: "Groceries", Msg: "milk, eggs", PostedBy: "u1", CreatedAt: time.Unix(1, 0).UTC()}
	h := routes(stubStore{
		createFn: func(_ context.Context, owner, title, msg string) (Note, error) {
			require.Equal(t, "u1", owner)
			require.Equal(t, "Groceries", title)
			require.Equal(t, "milk, eggs", msg)
			return created, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/addnew", bytes.NewBufferString(`{"title":"Groceries","msg":"milk, eggs","postedBy":"u1"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var got NoteResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Equal(t, created.ID, got.Note.ID)
}

func TestHandlers_ListByOwner(t *testing.T) {
	fixed := time.Unix(3, 0).UTC()
	h := routes(stubStore{
		listFn: func(_ context.Context, owner string) ([]Note, error) {
			require.Equal(t, "u1", owner)
			return []Note{{ID: "n2", Title: "a", Msg: "b", PostedBy: "u1", CreatedAt: fixed}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/notebyuid/u1", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string][]map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp["notes"], 1)
	require.Equal(t, "n2", resp["notes"][0]["_id"])
	require.Equal(t, "b", resp["notes"][0]["msg"])
}

func TestHandlers_Update_NotFound_Internal_Success(t *testing.T) {
	body := `{"title":"t2","msg":"c2"}`

	// not found
	{
		h := routes(stubStore{
			updateFn: func(context.Context, string, string, string) (Note, error) { return Note{}, ErrNotFound },
		})
		req := httptest.NewRequest(http.MethodPut, "/update/n9", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, http.StatusNotFound, rr.Code)
		require.JSONEq(t, `{"message":"Note not found"}`, rr.Body.String())
	}

	// internal error
	{
		h := routes(stubStore{
			updateFn: func(context.Context, string, string, string) (Note, error) { return Note{}, errors.New("boom") },
		})
		req := httptest.NewRequest(http.MethodPut, "/update/n1", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, http.StatusInternalServerError, rr.Code)
		require.NotContains(t, rr.Body.String(), "boom")
	}

	// success
	{
		h := routes(stubStore{
			updateFn: func(_ context.Context, id, title, msg string) (Note, error) {
				return Note{ID: id, Title: title, Msg: msg}, nil
			},
		})
		req := httptest.NewRequest(http.MethodPut, "/update/n1", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestHandlers_Delete(t *testing.T) {
	h := routes(stubStore{
		deleteFn: func(_ context.Context, id string) error {
			if id == "n42" {
				return nil
			}
			return ErrNotFound
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/delete/n42", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodDelete, "/delete/missing", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
}
