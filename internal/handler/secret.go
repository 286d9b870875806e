package handler

import (
	"log/slog"
	"net/http"

	"github.com/vijaysolanki/secrets/internal/service"
	"github.com/vijaysolanki/secrets/internal/view"
)

// SecretHandler handles the secrets listing and submission routes.
type SecretHandler struct {
	secrets *service.SecretService
}

// NewSecretHandler creates a new SecretHandler.
func NewSecretHandler(secrets *service.SecretService) *SecretHandler {
	return &SecretHandler{secrets: secrets}
}

// HandleSecrets renders all shared secrets. The listing is public; secrets
// are shown without attribution.
// GET /secrets
func (h *SecretHandler) HandleSecrets(w http.ResponseWriter, r *http.Request) {
	users, err := h.secrets.ListShared(r.Context())
	if err != nil {
		slog.Error("list shared secrets", "error", err)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	texts := make([]string, 0, len(users))
	for _, u := range users {
		if u.Secret != nil {
			texts = append(texts, *u.Secret)
		}
	}

	data := view.SecretsData{
		Secrets:  texts,
		LoggedIn: UserFromContext(r.Context()) != nil,
	}
	if err := view.Secrets(w, data); err != nil {
		slog.Error("render secrets page", "error", err)
	}
}

// HandleSecretsTitled renders the secrets view scoped by the title path
// parameter, without a listing. Requires authentication.
// GET /secrets/{title}
func (h *SecretHandler) HandleSecretsTitled(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")
	if err := view.Secrets(w, view.SecretsData{Title: title, LoggedIn: true}); err != nil {
		slog.Error("render titled secrets page", "error", err)
	}
}

// HandleSubmitPage renders the secret-submission form. Requires
// authentication.
// GET /submit
func (h *SecretHandler) HandleSubmitPage(w http.ResponseWriter, r *http.Request) {
	if err := view.Submit(w); err != nil {
		slog.Error("render submit page", "error", err)
	}
}

// HandleSubmit overwrites the authenticated user's secret with the posted
// one and redirects to the listing. Requires authentication.
// POST /submit
func (h *SecretHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := h.secrets.Submit(r.Context(), user.ID, r.PostFormValue("secret")); err != nil {
		slog.Error("submit secret", "error", err, "user_id", user.ID)
		http.Redirect(w, r, "/submit", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/secrets", http.StatusSeeOther)
}
