package client

import (
	"encoding/json"
	"time"

	"example.com/notesin/internal/session"
)

// Note is the client-side copy of a server note. Description travels as
// "msg" on the wire.
type Note struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type wireNote struct {
	ID          string `json:"_id"`
	AltID       string `json:"id"`
	Title       string `json:"title"`
	Msg         string `json:"msg"`
	Description string `json:"description"`
	PostedBy    string `json:"postedBy"`
	CreatedAt   string `json:"createdAt"`
}

func (n *Note) UnmarshalJSON(data []byte) error {
	var w wireNote
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*n = Note{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Msg,
		OwnerID:     w.PostedBy,
	}
	if n.ID == "" {
		n.ID = w.AltID
	}
	if n.Description == "" {
		n.Description = w.Description
	}
	if w.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, w.CreatedAt); err == nil {
			n.CreatedAt = t
		}
	}
	return nil
}

// Credentials is the body of both login and register.
type Credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	OwnerID string       `json:"logedInUserId"`
	User    session.User `json:"user"`
}

type RegisterResult struct {
	Message string       `json:"message"`
	User    session.User `json:"user"`
}

type createNoteRequest struct {
	Title    string `json:"title"`
	Msg      string `json:"msg"`
	PostedBy string `json:"postedBy"`
}

type updateNoteRequest struct {
	Title string `json:"title"`
	Msg   string `json:"msg"`
}

type listNotesResponse struct {
	Notes []Note `json:"notes"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
