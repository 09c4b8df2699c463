package session

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the session does not exist or has expired
	ErrNotFound = errors.New("session not found")

	// ErrInvalidSession indicates the stored session is invalid or corrupted
	ErrInvalidSession = errors.New("invalid session")
)

// KeyPrefix namespaces session keys in shared stores.
const KeyPrefix = "hn:session:"

// Store persists sessions for their TTL.
type Store interface {
	// Get returns the session or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)
	// Set stores the session until its ExpiresAt.
	Set(ctx context.Context, s *Session) error
	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}

// Key returns the store key of a session id.
//
// Example:
//
//	hn:session:0b6f0a0e-7d3c-4b1e-9a47-1f1c6a9d2e55
func Key(id string) string {
	return KeyPrefix + strings.TrimSpace(id)
}
