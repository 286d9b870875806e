package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vijaysolanki/secrets/internal/domain"
	"github.com/vijaysolanki/secrets/internal/repository/sqlite"
	"github.com/vijaysolanki/secrets/internal/service"
)

const testSecretKey = "test-secret-key-at-least-32-chars-long"

func newTestSessionService(t *testing.T, ttl time.Duration) (*service.SessionService, *sqlite.DB) {
	t.Helper()
	db := newTestDBForService(t)
	return service.NewSessionService(db.Sessions(), db.Users(), testSecretKey, ttl), db
}

func registerTestUser(t *testing.T, db *sqlite.DB, username string) *domain.User {
	t.Helper()
	auth := service.NewAuthService(db.Users(), 4)
	user, err := auth.Register(context.Background(), username, "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return user
}

func TestSessionService_IssueAndResolve(t *testing.T) {
	sessions, db := newTestSessionService(t, time.Hour)
	ctx := context.Background()
	user := registerTestUser(t, db, "roundtrip@example.com")

	token, err := sessions.Issue(ctx, user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	resolved, err := sessions.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.ID != user.ID {
		t.Fatalf("expected user ID %d, got %d", user.ID, resolved.ID)
	}
}

func TestSessionService_Resolve_InvalidToken(t *testing.T) {
	sessions, _ := newTestSessionService(t, time.Hour)

	_, err := sessions.Resolve(context.Background(), "not-a-valid-token")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSessionService_Resolve_TamperedToken(t *testing.T) {
	sessions, db := newTestSessionService(t, time.Hour)
	ctx := context.Background()
	user := registerTestUser(t, db, "tamper@example.com")

	token, err := sessions.Issue(ctx, user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tampered := token[:len(token)-5] + "XXXXX"
	_, err = sessions.Resolve(ctx, tampered)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for tampered token, got %v", err)
	}
}

func TestSessionService_Resolve_WrongKey(t *testing.T) {
	sessions, db := newTestSessionService(t, time.Hour)
	ctx := context.Background()
	user := registerTestUser(t, db, "key@example.com")

	token, err := sessions.Issue(ctx, user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other := service.NewSessionService(db.Sessions(), db.Users(), "a-different-signing-key-32-chars-xx", time.Hour)
	_, err = other.Resolve(ctx, token)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized with wrong key, got %v", err)
	}
}

func TestSessionService_Resolve_DeletedUser(t *testing.T) {
	sessions, db := newTestSessionService(t, time.Hour)
	ctx := context.Background()
	user := registerTestUser(t, db, "gone@example.com")

	token, err := sessions.Issue(ctx, user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Remove the user out-of-band; resolving must fail, not crash. The
	// session row goes with it (FK cascade), but either way the outcome
	// is an unauthenticated request.
	if _, err := db.SqlDB.Exec("DELETE FROM users WHERE id = ?", user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	_, err = sessions.Resolve(ctx, token)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for deleted user, got %v", err)
	}
}

func TestSessionService_Resolve_Expired(t *testing.T) {
	sessions, db := newTestSessionService(t, -time.Minute)
	ctx := context.Background()
	user := registerTestUser(t, db, "expired@example.com")

	token, err := sessions.Issue(ctx, user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = sessions.Resolve(ctx, token)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired session, got %v", err)
	}
}

func TestSessionService_Destroy(t *testing.T) {
	sessions, db := newTestSessionService(t, time.Hour)
	ctx := context.Background()
	user := registerTestUser(t, db, "logout@example.com")

	token, err := sessions.Issue(ctx, user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if err := sessions.Destroy(ctx, token); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	// The token is dead server-side even though its signature still checks out.
	_, err = sessions.Resolve(ctx, token)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after destroy, got %v", err)
	}

	// Destroying an already-destroyed or garbage token is a no-op.
	if err := sessions.Destroy(ctx, token); err != nil {
		t.Fatalf("second Destroy: %v", err)
	}
	if err := sessions.Destroy(ctx, "garbage"); err != nil {
		t.Fatalf("Destroy garbage token: %v", err)
	}
}

func TestSessionService_PruneExpired(t *testing.T) {
	sessions, db := newTestSessionService(t, -time.Minute)
	ctx := context.Background()
	user := registerTestUser(t, db, "prune@example.com")

	if _, err := sessions.Issue(ctx, user); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	pruned, err := sessions.PruneExpired(ctx)
	if err != nil {
		t.Fatalf("PruneExpired: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("expected 1 pruned session, got %d", pruned)
	}
}
