package notes

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// MemoryStore keeps notes in process memory, in creation order.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]Note
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: map[string]Note{}, now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, ownerID, title, msg string) (Note, error) {
	now := s.now().UTC()
	n := Note{
		ID:        ulid.Make().String(),
		Title:     title,
		Msg:       msg,
		PostedBy:  ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[n.ID] = n
	s.order = append(s.order, n.ID)
	return n, nil
}

func (s *MemoryStore) Update(_ context.Context, id, title, msg string) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[id]
	if !ok {
		return Note{}, ErrNotFound
	}
	n.Title = title
	n.Msg = msg
	n.UpdatedAt = s.now().UTC()
	s.byID[id] = n
	return n, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) ListByOwner(_ context.Context, ownerID string) ([]Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Note, 0, 16)
	for _, id := range s.order {
		if n := s.byID[id]; n.PostedBy == ownerID {
			out = append(out, n)
		}
	}
	return out, nil
}
