package session

import (
	"sync"

	"github.com/google/uuid"

	"merchlist/internal/catalog"
)

// Store is an in-memory registry of live editing sessions keyed by
// opaque ids. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Editor
	searcher catalog.Searcher
}

// NewStore creates an empty store whose sessions search the given
// catalog.
func NewStore(searcher catalog.Searcher) *Store {
	return &Store{
		sessions: make(map[string]*Editor),
		searcher: searcher,
	}
}

// Create starts a fresh session and returns its id.
func (s *Store) Create() (string, *Editor) {
	id := uuid.NewString()
	e := New(s.searcher)

	s.mu.Lock()
	s.sessions[id] = e
	s.mu.Unlock()

	return id, e
}

// Get looks up a session by id.
func (s *Store) Get(id string) (*Editor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	return e, ok
}

// Delete discards a session. Returns false if the id is unknown.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
