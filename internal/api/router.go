package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/colorpad/internal/document"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(ed *document.Editor, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(ed)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Document.
	r.Get("/document", h.GetDocument)
	r.Put("/document/body", h.PutBody)
	r.Post("/document/paste", h.Paste)

	// Highlights.
	r.Post("/highlights", h.Highlight)
	r.Post("/highlights/clear", h.ClearHighlight)

	// Palette.
	r.Get("/colors", h.ListColors)
	r.Patch("/colors/{id}", h.RenameColor)

	// Citations.
	r.Get("/citations", h.CopyAll)
	r.Get("/citations/{id}", h.GetCitations)

	// Settings.
	r.Get("/settings", h.GetSettings)
	r.Put("/settings/{key}", h.PutSetting)
	r.Post("/pins/{key}", h.TogglePin)

	// Derived view.
	r.Get("/view", h.GetView)
	r.Get("/styles.css", h.Styles)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
