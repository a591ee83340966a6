package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nmoreira/supportchat/internal/model/chat"
)

// Store owns all conversation state. HTTP handlers and the background
// sweeper share it, so every operation holds the lock and the maps are
// never reachable from outside.
type Store struct {
	mu        sync.RWMutex
	histories map[string][]chat.Turn
	activity  map[string]time.Time
}

// NewStore bootstraps an empty in-memory session store.
func NewStore() *Store {
	return &Store{
		histories: make(map[string][]chat.Turn),
		activity:  make(map[string]time.Time),
	}
}

// Create provisions an empty session and returns its identifier.
func (s *Store) Create() string {
	id := uuid.NewString()

	s.mu.Lock()
	s.histories[id] = []chat.Turn{}
	s.activity[id] = time.Now()
	s.mu.Unlock()

	return id
}

// History returns a copy of the session's turns and refreshes its activity
// timestamp. Unknown sessions yield nil; absence is not an error.
func (s *Store) History(id string) []chat.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns, ok := s.histories[id]
	if !ok {
		return nil
	}
	s.activity[id] = time.Now()

	copied := make([]chat.Turn, len(turns))
	copy(copied, turns)
	return copied
}

// Append adds a turn to the session, creating a fresh session when the id is
// unknown or empty. The returned id is the session actually written to;
// created reports whether it differs from what the caller passed, so callers
// can propagate the new identifier.
func (s *Store) Append(id, role, content string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := false
	if _, ok := s.histories[id]; !ok {
		id = uuid.NewString()
		s.histories[id] = []chat.Turn{}
		created = true
	}

	s.histories[id] = append(s.histories[id], chat.Turn{Role: role, Content: content})
	s.activity[id] = time.Now()
	return id, created
}

// Clear truncates the session's history. Returns false when the session
// does not exist; nothing is mutated in that case.
func (s *Store) Clear(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.histories[id]; !ok {
		return false
	}
	s.histories[id] = []chat.Turn{}
	s.activity[id] = time.Now()
	return true
}

// Delete removes the session and its activity record entirely.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.histories[id]; !ok {
		return false
	}
	delete(s.histories, id)
	delete(s.activity, id)
	return true
}

// SweepExpired deletes every session idle longer than ttl and returns the
// number deleted. Expiry is judged against a snapshot taken under the lock,
// so a session touched while the sweep runs is never collected.
func (s *Store) SweepExpired(now time.Time, ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []string
	for id, last := range s.activity {
		if now.Sub(last) > ttl {
			expired = append(expired, id)
		}
	}

	for _, id := range expired {
		delete(s.histories, id)
		delete(s.activity, id)
	}
	return len(expired)
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.histories)
}
