package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/colorpad/internal/document"
	"github.com/starford/colorpad/internal/export"
	"github.com/starford/colorpad/internal/view"
)

// Handler holds API route handlers.
type Handler struct {
	ed *document.Editor
}

// NewHandler creates a new Handler.
func NewHandler(ed *document.Editor) *Handler {
	return &Handler{ed: ed}
}

func (h *Handler) writeDocument(w http.ResponseWriter, r *http.Request, op string) {
	snap, err := h.ed.Snapshot(r.Context())
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentResponse{Document: snap.Document, Text: snap.Text})
}

// colorID parses the {id} URL parameter.
func colorID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("color id must be a positive integer"))
		return 0, false
	}
	return id, true
}

// GetDocument handles GET /api/document.
//
//	@Summary		Get the live document
//	@Tags			document
//	@Produce		json
//	@Success		200	{object}	DocumentResponse
//	@Security		BearerAuth
//	@Router			/document [get]
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	h.writeDocument(w, r, "get document")
}

// PutBody handles PUT /api/document/body. The save is debounced.
//
//	@Summary		Replace the body with typed markup
//	@Tags			document
//	@Accept			json
//	@Produce		json
//	@Param			body	body		BodyRequest	true	"Surface markup"
//	@Success		200		{object}	DocumentResponse
//	@Security		BearerAuth
//	@Router			/document/body [put]
func (h *Handler) PutBody(w http.ResponseWriter, r *http.Request) {
	var req BodyRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.ed.Input(r.Context(), req.Body); err != nil {
		writeError(w, "input", err)
		return
	}
	h.writeDocument(w, r, "input")
}

// Paste handles POST /api/document/paste.
//
//	@Summary		Insert plain text over a range or at the end
//	@Tags			document
//	@Accept			json
//	@Produce		json
//	@Param			body	body		PasteRequest	true	"Text and range"
//	@Success		200		{object}	DocumentResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/document/paste [post]
func (h *Handler) Paste(w http.ResponseWriter, r *http.Request) {
	var req PasteRequest
	if !decode(w, r, &req) {
		return
	}
	var err error
	if req.Append {
		err = h.ed.AppendText(r.Context(), req.Text)
	} else {
		err = h.ed.Paste(r.Context(), req.Range(), req.Text)
	}
	if err != nil {
		writeError(w, "paste", err)
		return
	}
	h.writeDocument(w, r, "paste")
}

// Highlight handles POST /api/highlights.
//
//	@Summary		Apply a color to a range
//	@Tags			highlights
//	@Accept			json
//	@Produce		json
//	@Param			body	body		HighlightRequest	true	"Range and color"
//	@Success		200		{object}	DocumentResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/highlights [post]
func (h *Handler) Highlight(w http.ResponseWriter, r *http.Request) {
	var req HighlightRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.ed.ApplyHighlight(r.Context(), req.Range(), req.Color.Color()); err != nil {
		writeError(w, "highlight", err)
		return
	}
	h.writeDocument(w, r, "highlight")
}

// ClearHighlight handles POST /api/highlights/clear.
//
//	@Summary		Remove highlighting from a range
//	@Tags			highlights
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RangeRequest	true	"Range"
//	@Success		200		{object}	DocumentResponse
//	@Security		BearerAuth
//	@Router			/highlights/clear [post]
func (h *Handler) ClearHighlight(w http.ResponseWriter, r *http.Request) {
	var req RangeRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.ed.ClearHighlight(r.Context(), req.Range()); err != nil {
		writeError(w, "clear highlight", err)
		return
	}
	h.writeDocument(w, r, "clear highlight")
}

// ListColors handles GET /api/colors.
//
//	@Summary		List the palette in recency order
//	@Tags			colors
//	@Produce		json
//	@Success		200	{array}	models.Color
//	@Security		BearerAuth
//	@Router			/colors [get]
func (h *Handler) ListColors(w http.ResponseWriter, r *http.Request) {
	doc, err := h.ed.Document(r.Context())
	if err != nil {
		writeError(w, "list colors", err)
		return
	}
	writeJSON(w, http.StatusOK, doc.Colors)
}

// RenameColor handles PATCH /api/colors/{id}.
//
//	@Summary		Rename a color
//	@Tags			colors
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int				true	"Color id"
//	@Param			body	body		RenameRequest	true	"New name"
//	@Success		200		{array}		models.Color
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/colors/{id} [patch]
func (h *Handler) RenameColor(w http.ResponseWriter, r *http.Request) {
	id, ok := colorID(w, r)
	if !ok {
		return
	}
	var req RenameRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.ed.RenameColor(r.Context(), id, req.Name); err != nil {
		writeError(w, "rename color", err)
		return
	}
	h.ListColors(w, r)
}

// CopyAll handles GET /api/citations.
//
//	@Summary		Export every color's citations
//	@Tags			citations
//	@Produce		json
//	@Produce		text/markdown
//	@Produce		html
//	@Param			format	query	string	false	"Output format"	Enums(json, markdown, html)
//	@Success		200
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/citations [get]
func (h *Handler) CopyAll(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, "copy all", err)
		return
	}
	set, err := h.ed.CopyAllHighlights(r.Context())
	if err != nil {
		writeError(w, "copy all", err)
		return
	}
	out, err := export.String(set, format)
	if err != nil {
		writeError(w, "copy all", err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

// GetCitations handles GET /api/citations/{id}.
//
//	@Summary		List one color's citations
//	@Tags			citations
//	@Produce		json
//	@Param			id	path		int	true	"Color id"
//	@Success		200	{object}	CitationsResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/citations/{id} [get]
func (h *Handler) GetCitations(w http.ResponseWriter, r *http.Request) {
	id, ok := colorID(w, r)
	if !ok {
		return
	}
	c, err := h.ed.Citations(r.Context(), id)
	if err != nil {
		writeError(w, "citations", err)
		return
	}
	writeJSON(w, http.StatusOK, CitationsResponse(c))
}

// GetSettings handles GET /api/settings.
//
//	@Summary		Get the settings map
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	models.Settings
//	@Security		BearerAuth
//	@Router			/settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	doc, err := h.ed.Document(r.Context())
	if err != nil {
		writeError(w, "get settings", err)
		return
	}
	writeJSON(w, http.StatusOK, doc.Settings)
}

// PutSetting handles PUT /api/settings/{key}. The save is debounced.
//
//	@Summary		Set one setting
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			key		path		string			true	"Setting key"
//	@Param			body	body		SettingRequest	true	"Value"
//	@Success		200		{object}	models.Settings
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/settings/{key} [put]
func (h *Handler) PutSetting(w http.ResponseWriter, r *http.Request) {
	var req SettingRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.ed.SetSetting(r.Context(), chi.URLParam(r, "key"), req.Value); err != nil {
		writeError(w, "set setting", err)
		return
	}
	h.GetSettings(w, r)
}

// TogglePin handles POST /api/pins/{key}.
//
//	@Summary		Toggle a pinned control
//	@Tags			settings
//	@Produce		json
//	@Param			key	path		string	true	"Pin key"
//	@Success		200	{object}	PinResponse
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/pins/{key} [post]
func (h *Handler) TogglePin(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	pinned, err := h.ed.TogglePin(r.Context(), key)
	if err != nil {
		writeError(w, "toggle pin", err)
		return
	}
	writeJSON(w, http.StatusOK, PinResponse{Key: key, Pinned: pinned})
}

// GetView handles GET /api/view.
//
//	@Summary		Get the derived view
//	@Tags			view
//	@Produce		json
//	@Success		200	{object}	view.View
//	@Security		BearerAuth
//	@Router			/view [get]
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	v, err := h.ed.View(r.Context())
	if err != nil {
		writeError(w, "view", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Styles handles GET /api/styles.css.
//
//	@Summary		Get the highlight stylesheet
//	@Tags			view
//	@Produce		text/css
//	@Success		200
//	@Security		BearerAuth
//	@Router			/styles.css [get]
func (h *Handler) Styles(w http.ResponseWriter, r *http.Request) {
	doc, err := h.ed.Document(r.Context())
	if err != nil {
		writeError(w, "styles", err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(view.Stylesheet(doc.Colors)))
}
