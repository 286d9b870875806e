package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/vijaysolanki/secrets/internal/handler"
	"github.com/vijaysolanki/secrets/internal/repository/sqlite"
	"github.com/vijaysolanki/secrets/internal/service"
)

const testSecretKey = "test-secret-key-for-handler-tests-32"

func newTestServices(t *testing.T) (*service.AuthService, *service.SessionService, *service.SecretService, *sqlite.DB) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Use cost 4 for fast tests.
	return service.NewAuthService(db.Users(), 4),
		service.NewSessionService(db.Sessions(), db.Users(), testSecretKey, time.Hour),
		service.NewSecretService(db.Users()),
		db
}

func loginTestUser(t *testing.T, auth *service.AuthService, sessions *service.SessionService, username string) string {
	t.Helper()
	ctx := context.Background()
	user, err := auth.Register(ctx, username, "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, err := sessions.Issue(ctx, user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

func TestRequireAuth_ValidSession(t *testing.T) {
	auth, sessions, _, _ := newTestServices(t)
	token := loginTestUser(t, auth, sessions, "valid@example.com")

	var gotUser string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := handler.UserFromContext(r.Context()); user != nil && user.Username != nil {
			gotUser = *user.Username
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: token})
	w := httptest.NewRecorder()

	handler.RequireAuth(sessions, inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotUser != "valid@example.com" {
		t.Fatalf("expected user valid@example.com, got %q", gotUser)
	}
}

func TestRequireAuth_MissingCookie_RedirectsToLogin(t *testing.T) {
	_, sessions, _, _ := newTestServices(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()

	handler.RequireAuth(sessions, inner).ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %s", loc)
	}
}

func TestRequireAuth_TamperedToken_RedirectsToLogin(t *testing.T) {
	auth, sessions, _, _ := newTestServices(t)
	token := loginTestUser(t, auth, sessions, "tamper@example.com")
	tampered := token[:len(token)-1] + "X"

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: tampered})
	w := httptest.NewRecorder()

	handler.RequireAuth(sessions, inner).ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %s", loc)
	}
}

func TestOptionalAuth_WithAndWithoutSession(t *testing.T) {
	auth, sessions, _, _ := newTestServices(t)
	token := loginTestUser(t, auth, sessions, "opt@example.com")

	var sawUser bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawUser = handler.UserFromContext(r.Context()) != nil
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: token})
	w := httptest.NewRecorder()
	handler.OptionalAuth(sessions, inner).ServeHTTP(w, req)
	if w.Code != http.StatusOK || !sawUser {
		t.Fatalf("expected 200 with user bound, got %d (user=%v)", w.Code, sawUser)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	w = httptest.NewRecorder()
	handler.OptionalAuth(sessions, inner).ServeHTTP(w, req)
	if w.Code != http.StatusOK || sawUser {
		t.Fatalf("expected 200 without user bound, got %d (user=%v)", w.Code, sawUser)
	}
}

func TestSecurityHeaders(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.SecurityHeaders(inner).ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected nosniff, got %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("expected DENY, got %q", got)
	}
}
