package notes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"example.com/notesin/internal/httpx"
)

type Handlers struct {
	store Store
	log   zerolog.Logger
}

// Store is an abstraction over the notes storage.
// It allows unit-testing handlers without a real database.
type Store interface {
	Create(ctx context.Context, ownerID, title, msg string) (Note, error)
	Update(ctx context.Context, id, title, msg string) (Note, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]Note, error)
}

func NewHandlers(store Store, log zerolog.Logger) *Handlers {
	return &Handlers{store: store, log: log}
}

// Routes serves the note endpoints relative to their mount point
// (/api/note on the service).
func (h *Handlers) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/notebyuid/{uid}", h.listByOwner)
	r.Post("/addnew", h.create)
	r.Put("/update/{id}", h.update)
	r.Delete("/delete/{id}", h.delete)

	return r
}

func (h *Handlers) listByOwner(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if strings.TrimSpace(uid) == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "User id required")
		return
	}

	items, err := h.store.ListByOwner(r.Context(), uid)
	if err != nil {
		h.internal(w, err, "list notes")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ListResponse{Notes: items})
}

func (h *Handlers) create(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Msg = strings.TrimSpace(req.Msg)
	if req.Title == "" || req.Msg == "" || req.PostedBy == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "Title, message and postedBy are required")
		return
	}

	n, err := h.store.Create(r.Context(), req.PostedBy, req.Title, req.Msg)
	if err != nil {
		h.internal(w, err, "create note")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, NoteResponse{Message: "Note added successfully", Note: n})
}

func (h *Handlers) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Msg = strings.TrimSpace(req.Msg)
	if req.Title == "" || req.Msg == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "Title and message are required")
		return
	}

	n, err := h.store.Update(r.Context(), id, req.Title, req.Msg)
	if errors.Is(err, ErrNotFound) {
		httpx.WriteMessage(w, http.StatusNotFound, "Note not found")
		return
	}
	if err != nil {
		h.internal(w, err, "update note")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, NoteResponse{Message: "Note updated successfully", Note: n})
}

func (h *Handlers) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Delete(r.Context(), id); errors.Is(err, ErrNotFound) {
		httpx.WriteMessage(w, http.StatusNotFound, "Note not found")
		return
	} else if err != nil {
		h.internal(w, err, "delete note")
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Note deleted successfully")
}

func (h *Handlers) internal(w http.ResponseWriter, err error, what string) {
	h.log.Error().Err(err).Msg(what)
	httpx.WriteMessage(w, http.StatusInternalServerError, "Internal server error")
}
