package notes

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("note not found")

// Note is a stored note. The body is called "msg" and the owner "postedBy"
// on the wire.
type Note struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Msg       string    `json:"msg"`
	PostedBy  string    `json:"postedBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateNoteRequest struct {
	Title    string `json:"title"`
	Msg      string `json:"msg"`
	PostedBy string `json:"postedBy"`
}

type UpdateNoteRequest struct {
	Title string `json:"title"`
	Msg   string `json:"msg"`
}

type ListResponse struct {
	Notes []Note `json:"notes"`
}

type NoteResponse struct {
	Message string `json:"message"`
	Note    Note   `json:"note"`
}
