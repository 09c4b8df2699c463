package session

import (
	"time"

	"github.com/Sternrassler/hn-reader/pkg/hn"
	"github.com/Sternrassler/hn-reader/pkg/pagination"
)

// Session is one visitor's reading state.
type Session struct {
	// ID is the opaque session identifier handed to the client
	ID string `json:"id"`

	// Stories is the list fetched when the session was created
	Stories []hn.Story `json:"stories"`

	// View is the current "load more" window
	View pagination.ViewState `json:"view"`

	// Notice is the user-visible error from a failed listing fetch, if any
	Notice string `json:"notice,omitempty"`

	// CreatedAt is when the story list was fetched
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is when the session is dropped from the store
	ExpiresAt time.Time `json:"expires_at"`
}

// Page returns the visible window of the session's story list.
func (s *Session) Page() pagination.Page {
	return pagination.GetPage(s.Stories, s.View)
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (s *Session) TTL() time.Duration {
	ttl := time.Until(s.ExpiresAt)
	if ttl < 0 {
		return 0
	}
	return ttl
}
