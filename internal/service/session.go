package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vijaysolanki/secrets/internal/domain"
)

// SessionService manages server-side login sessions. The client only ever
// holds an opaque session id, delivered as the subject of a signed cookie
// token; user data, password hashes, and secrets never leave the store.
type SessionService struct {
	sessions  domain.SessionRepository
	users     domain.UserRepository
	secretKey []byte
	ttl       time.Duration
}

// NewSessionService creates a new SessionService. The secret key signs the
// cookie token (HS256); ttl bounds how long an issued session stays valid.
func NewSessionService(sessions domain.SessionRepository, users domain.UserRepository, secretKey string, ttl time.Duration) *SessionService {
	return &SessionService{
		sessions:  sessions,
		users:     users,
		secretKey: []byte(secretKey),
		ttl:       ttl,
	}
}

// TTL returns the lifetime of issued sessions, so the cookie carrying the
// token can be given a matching lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Issue establishes a session for an authenticated user and returns the
// signed token to deliver as a cookie.
func (s *SessionService) Issue(ctx context.Context, user *domain.User) (string, error) {
	now := time.Now().UTC()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	claims := jwt.MapClaims{
		"sub": session.ID,
		"iat": now.Unix(),
		"exp": session.ExpiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return token, nil
}

// Resolve turns a cookie token back into the user it was issued for. Any
// failure along the way (bad signature, missing or expired session, user
// deleted out-of-band) yields domain.ErrUnauthorized; the request is simply
// unauthenticated.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	sessionID, err := s.verifyToken(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(time.Now().UTC()) {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get session user: %w", err)
	}

	return user, nil
}

// Destroy invalidates the session behind a cookie token so subsequent
// requests carrying it are unauthenticated. A token that no longer resolves
// is not an error; the session is gone either way.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	sessionID, err := s.verifyToken(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// PruneExpired removes sessions past their expiry from the store.
func (s *SessionService) PruneExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, time.Now().UTC())
}

func (s *SessionService) verifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("missing subject claim")
	}

	return sub, nil
}
