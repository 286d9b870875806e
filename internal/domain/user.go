package domain

import (
	"context"
	"time"
)

// User represents an account in the directory. Locally-registered users carry
// a username and password hash; users created through Google sign-in carry a
// GoogleID instead. A user must have at least one of the two to be
// login-capable.
type User struct {
	ID           int64
	Username     *string
	PasswordHash *string
	GoogleID     *string
	Secret       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the user can authenticate with local
// credentials.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create persists a new locally-registered user. Returns
	// ErrDuplicateUsername if the username is already taken.
	Create(ctx context.Context, user *User) error

	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)

	// FindOrCreateByGoogleID returns the user holding the given Google
	// subject id, creating one if none exists. Concurrent calls with the
	// same id must resolve to a single user record.
	FindOrCreateByGoogleID(ctx context.Context, googleID string) (*User, error)

	// Update persists mutations to an existing user. Returns ErrNotFound
	// if the record no longer exists.
	Update(ctx context.Context, user *User) error

	// ListWithSecrets returns all users that have submitted a secret.
	ListWithSecrets(ctx context.Context) ([]User, error)
}
