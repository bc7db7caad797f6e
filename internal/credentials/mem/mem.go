package mem

import (
	"context"
	"sync"
	"time"

	"github.com/goserg/ligavocal/internal/credentials"
	"github.com/goserg/ligavocal/internal/domain"
)

// Store keeps the encoded entries in memory, the same way the sqlite store
// persists them, so a decode round trip behaves identically.
type Store struct {
	mu      sync.RWMutex
	entries map[string]string
}

var _ credentials.Store = (*Store)(nil)

func New() *Store {
	return &Store{entries: make(map[string]string)}
}

func (s *Store) Save(_ context.Context, session domain.Session) error {
	token, user, err := credentials.Encode(session)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[credentials.KeyToken] = token
	s.entries[credentials.KeyUser] = user
	return nil
}

// Load drops an expired session and reports it as absent.
func (s *Store) Load(_ context.Context) (domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.entries[credentials.KeyToken]
	if !ok || token == "" {
		return domain.Session{}, false, nil
	}
	if credentials.Expired(token, time.Now()) {
		s.entries = make(map[string]string)
		return domain.Session{}, false, nil
	}
	return credentials.Decode(token, s.entries[credentials.KeyUser]), true, nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]string)
	return nil
}
