// Package session carries the signed-in user between screens.
//
// A Holder is created once per process and handed to every screen. Start is
// called on login success, Clear on logout or exit; screens read Current and
// never cache the owner id themselves.
package session

import (
	"sync"
	"time"
)

// User is the profile returned by the login endpoint.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Session is the identity of the signed-in user.
type Session struct {
	OwnerID   string
	User      User
	StartedAt time.Time
}

// Valid reports whether s identifies an owner.
func (s Session) Valid() bool { return s.OwnerID != "" }

type Holder struct {
	mu  sync.RWMutex
	cur Session
}

func NewHolder() *Holder {
	return &Holder{}
}

// Start replaces any current session.
func (h *Holder) Start(ownerID string, u User) Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cur = Session{OwnerID: ownerID, User: u, StartedAt: time.Now()}
	return h.cur
}

func (h *Holder) Clear() {
	h.mu.Lock()
	h.cur = Session{}
	h.mu.Unlock()
}

// Current returns the active session and whether one exists.
func (h *Holder) Current() (Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cur, h.cur.Valid()
}
