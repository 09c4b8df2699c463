package session

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps sessions in process. Sessions vanish with the process.
type MemoryStore struct {
	items *gocache.Cache
}

// NewMemoryStore creates an in-process store that purges expired sessions
// every cleanupInterval (a minute if <= 0).
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	return &MemoryStore{
		items: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Get returns a copy of the stored session.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	v, ok := m.items.Get(Key(id))
	if !ok {
		SessionLookups.WithLabelValues("miss").Inc()
		return nil, ErrNotFound
	}
	s, ok := v.(Session)
	if !ok {
		SessionErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: unexpected type %T", ErrInvalidSession, v)
	}
	if s.IsExpired() {
		m.items.Delete(Key(id))
		SessionLookups.WithLabelValues("miss").Inc()
		return nil, ErrNotFound
	}

	SessionLookups.WithLabelValues("hit").Inc()
	return &s, nil
}

// Set stores a copy of the session. Already expired sessions are not stored.
func (m *MemoryStore) Set(ctx context.Context, s *Session) error {
	if s == nil {
		return fmt.Errorf("session cannot be nil")
	}
	ttl := s.TTL()
	if ttl <= 0 {
		return nil
	}
	m.items.Set(Key(s.ID), *s, ttl)
	return nil
}

// Delete removes a session.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.items.Delete(Key(id))
	return nil
}

// Len returns the number of stored sessions, expired ones included until purged.
func (m *MemoryStore) Len() int {
	return m.items.ItemCount()
}
