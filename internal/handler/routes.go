package handler

import (
	"net/http"

	"github.com/vijaysolanki/secrets/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. The Google routes
// are only mounted when a GoogleService is provided.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	sessions *service.SessionService,
	secrets *service.SecretService,
	google *service.GoogleService,
	cookieSecure bool,
) {
	authHandler := NewAuthHandler(auth, sessions, cookieSecure)
	secretHandler := NewSecretHandler(secrets)

	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.HandleFunc("GET /{$}", HandleHome)

	mux.HandleFunc("GET /login", authHandler.HandleLoginPage)
	mux.HandleFunc("GET /register", authHandler.HandleRegisterPage)
	mux.HandleFunc("POST /login", authHandler.HandleLogin)
	mux.HandleFunc("POST /register", authHandler.HandleRegister)
	mux.HandleFunc("GET /logout", authHandler.HandleLogout)

	mux.Handle("GET /secrets", OptionalAuth(sessions, http.HandlerFunc(secretHandler.HandleSecrets)))
	mux.Handle("GET /secrets/{title}", RequireAuth(sessions, http.HandlerFunc(secretHandler.HandleSecretsTitled)))
	mux.Handle("GET /submit", RequireAuth(sessions, http.HandlerFunc(secretHandler.HandleSubmitPage)))
	mux.Handle("POST /submit", RequireAuth(sessions, http.HandlerFunc(secretHandler.HandleSubmit)))

	if google != nil {
		oauthHandler := NewOAuthHandler(google, sessions, cookieSecure)
		mux.HandleFunc("GET /auth/google", oauthHandler.HandleGoogleLogin)
		mux.HandleFunc("GET /auth/google/secrets", oauthHandler.HandleGoogleCallback)
	}
}
