package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/vijaysolanki/secrets/internal/domain"
	"github.com/vijaysolanki/secrets/internal/service"
	"github.com/vijaysolanki/secrets/internal/view"
)

// AuthHandler handles local registration, login, and logout. Failures are
// always recovered as a redirect back to the originating form; no error
// detail reaches the client.
type AuthHandler struct {
	auth         *service.AuthService
	sessions     *service.SessionService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cookieSecure: cookieSecure}
}

// HandleLoginPage renders the login form.
// GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if err := view.Login(w); err != nil {
		slog.Error("render login page", "error", err)
	}
}

// HandleRegisterPage renders the registration form.
// GET /register
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if err := view.Register(w); err != nil {
		slog.Error("render register page", "error", err)
	}
}

// HandleRegister processes a registration form post. On success a session is
// established and the user lands on /secrets; on any failure the form is
// re-prompted with no session created.
// POST /register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.auth.Register(r.Context(), username, password)
	if err != nil {
		if !errors.Is(err, domain.ErrDuplicateUsername) && !errors.Is(err, domain.ErrInvalidInput) {
			slog.Error("register user", "error", err)
		}
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	h.establishSession(w, r, user, "/secrets")
}

// HandleLogin processes a login form post. Credentials must verify before
// any session is established; on failure the user returns to the login form.
// POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.auth.Verify(r.Context(), username, password)
	if err != nil {
		if !errors.Is(err, domain.ErrUnauthorized) {
			slog.Error("verify credentials", "error", err)
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.establishSession(w, r, user, "/secrets")
}

// HandleLogout destroys the current session, clears the cookie, and sends
// the user back to the login page.
// GET /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			slog.Error("destroy session", "error", err)
		}
	}

	clearSessionCookie(w, h.cookieSecure)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// establishSession issues a session for an already-authenticated user and
// redirects to the given target. Issue failures fall back to the login form.
func (h *AuthHandler) establishSession(w http.ResponseWriter, r *http.Request, user *domain.User, target string) {
	token, err := h.sessions.Issue(r.Context(), user)
	if err != nil {
		slog.Error("issue session", "error", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	setSessionCookie(w, token, h.cookieSecure, h.sessions.TTL())
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// setSessionCookie delivers the session token with a lifetime matching the
// server-side session, so neither outlives the other.
func setSessionCookie(w http.ResponseWriter, token string, secure bool, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
