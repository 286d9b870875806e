package domain

import (
	"context"
	"time"
)

// Session is a server-side login session. The ID is the only piece of state
// that ever crosses to the client; everything else stays in the store.
type Session struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session has passed its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// SessionRepository defines persistence operations for login sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)

	// Delete removes a session. Deleting a session that does not exist is
	// not an error; the outcome (token is dead) is the same.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes all sessions past their expiry and returns
	// the number removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
