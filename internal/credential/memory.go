package credential

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/inheritx/hr-portal/internal/identity"
)

// MemoryStore is an in-process credential table.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore builds a table from plaintext entries.
func NewMemoryStore(entries ...Entry) *MemoryStore {
	s := &MemoryStore{records: make(map[string]Record, len(entries))}

	for _, e := range entries {
		_ = s.Add(e)
	}

	return s
}

// Add inserts an entry. Ids are derived from the email so they are stable across restarts.
func (s *MemoryStore) Add(e Entry) error {
	email := identity.NormalizeEmail(e.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[email]; ok {
		return ErrEmailExists
	}

	s.records[email] = Record{
		Identity: identity.Identity{
			ID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String(),
			Name:       e.Name,
			Email:      email,
			Role:       e.Role,
			Department: e.Department,
			Avatar:     e.Avatar,
		},
		Password: e.Password,
	}

	return nil
}

// Lookup implements Store.
func (s *MemoryStore) Lookup(_ context.Context, email string) (Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[identity.NormalizeEmail(email)]

	return rec, ok, nil
}
