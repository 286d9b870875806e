package handler

import (
	"log/slog"
	"net/http"

	"github.com/vijaysolanki/secrets/internal/view"
)

// HandleHome renders the landing page.
// GET /
func HandleHome(w http.ResponseWriter, r *http.Request) {
	if err := view.Home(w); err != nil {
		slog.Error("render home page", "error", err)
	}
}
