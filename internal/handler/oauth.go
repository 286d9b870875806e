package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/vijaysolanki/secrets/internal/service"
)

// stateCookieName carries the OAuth state value between the initiation
// redirect and the provider callback.
const stateCookieName = "oauth_state"

// OAuthHandler handles the Google sign-in flow. Every failure path redirects
// to /login with no session and no user record committed.
type OAuthHandler struct {
	google       *service.GoogleService
	sessions     *service.SessionService
	cookieSecure bool
}

// NewOAuthHandler creates a new OAuthHandler.
func NewOAuthHandler(google *service.GoogleService, sessions *service.SessionService, cookieSecure bool) *OAuthHandler {
	return &OAuthHandler{google: google, sessions: sessions, cookieSecure: cookieSecure}
}

// HandleGoogleLogin initiates the flow: it stores a fresh state value in a
// short-lived cookie and redirects the user agent to the provider.
// GET /auth/google
func (h *OAuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes, bounds the flow
	})

	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusFound)
}

// HandleGoogleCallback completes the flow: it checks the echoed state
// against the cookie, exchanges the authorization code for a user, and
// establishes a session. On success the user lands on /secrets.
// GET /auth/google/secrets
func (h *OAuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	// The state value is single-use; drop the cookie before any response
	// headers are written.
	stateCookie, stateErr := r.Cookie(stateCookieName)
	clearStateCookie(w, h.cookieSecure)

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		slog.Info("google sign-in denied", "error", errParam)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if stateErr != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		slog.Warn("google callback state mismatch")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	user, err := h.google.Authenticate(r.Context(), code)
	if err != nil {
		slog.Error("google sign-in failed", "error", err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	token, err := h.sessions.Issue(r.Context(), user)
	if err != nil {
		slog.Error("issue session", "error", err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	setSessionCookie(w, token, h.cookieSecure, h.sessions.TTL())
	http.Redirect(w, r, "/secrets", http.StatusFound)
}

func clearStateCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
