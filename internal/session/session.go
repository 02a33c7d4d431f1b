// Package session holds the server-side registry of login sessions. A session
// lives only in process memory and is referenced by an opaque token.
package session

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("session: not found")
	ErrExpired  = errors.New("session: expired")
)

// Identity is what an authenticated request knows about its user.
type Identity struct {
	UserID   uint64
	Username string
}

type Session struct {
	Token     string
	Identity  Identity
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions by token.
type Store interface {
	// Put saves a session under its token.
	Put(s *Session) error

	// Get returns ErrNotFound for unknown tokens and ErrExpired for stale ones.
	Get(token string) (*Session, error)

	// Delete removes a token. Unknown tokens are not an error.
	Delete(token string) error
}
