package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vijaysolanki/secrets/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

const userColumns = "id, username, password_hash, google_id, secret, created_at, updated_at"

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, google_id, secret, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		nullString(user.Username), nullString(user.PasswordHash),
		nullString(user.GoogleID), nullString(user.Secret), now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			if strings.Contains(err.Error(), "google_id") {
				return domain.ErrDuplicateGoogleID
			}
			return domain.ErrDuplicateUsername
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by username: %w", err)
	}
	return user, nil
}

// FindOrCreateByGoogleID resolves a Google subject id to a user in a single
// upsert statement. Concurrent first-time logins for the same id hit the
// unique constraint on google_id instead of racing read-then-write, so
// exactly one row ever exists per subject.
func (r *UserRepository) FindOrCreateByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	now := time.Now().UTC()
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO users (google_id, created_at, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(google_id) DO UPDATE SET google_id = excluded.google_id
		 RETURNING `+userColumns, googleID, now, now)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("find or create user by google id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = ?, password_hash = ?, google_id = ?, secret = ?, updated_at = ?
		 WHERE id = ?`,
		nullString(user.Username), nullString(user.PasswordHash),
		nullString(user.GoogleID), nullString(user.Secret), now, user.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			if strings.Contains(err.Error(), "google_id") {
				return domain.ErrDuplicateGoogleID
			}
			return domain.ErrDuplicateUsername
		}
		return fmt.Errorf("update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) ListWithSecrets(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE secret IS NOT NULL ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query users with secrets: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// scanner abstracts *sql.Row and *sql.Rows for scanUser.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*domain.User, error) {
	var (
		user         domain.User
		username     sql.NullString
		passwordHash sql.NullString
		googleID     sql.NullString
		secret       sql.NullString
	)
	err := s.Scan(&user.ID, &username, &passwordHash, &googleID, &secret,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	user.Username = fromNullString(username)
	user.PasswordHash = fromNullString(passwordHash)
	user.GoogleID = fromNullString(googleID)
	user.Secret = fromNullString(secret)
	return &user, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// isUniqueConstraintError checks if the error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
