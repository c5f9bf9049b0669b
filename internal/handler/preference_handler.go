package handler

import (
	"net/http"
)

func (h *Handler) HandleGetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.Preferences.Theme(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "")
		return
	}
	h.writeSuccess(w, themeRequest{Theme: theme})
}

func (h *Handler) HandleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if err := h.Preferences.SetTheme(r.Context(), req.Theme); err != nil {
		h.writeServiceError(w, err, "")
		return
	}
	h.writeSuccess(w, req)
}

type pendingQueryResponse struct {
	Query string `json:"query"`
	Found bool   `json:"found"`
}

// HandleTakePendingQuery returns and clears the stored query. A ?query= parameter
// takes precedence over the stored one.
func (h *Handler) HandleTakePendingQuery(w http.ResponseWriter, r *http.Request) {
	q, ok, err := h.Preferences.TakePendingQuery(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.writeServiceError(w, err, "")
		return
	}
	h.writeSuccess(w, pendingQueryResponse{Query: q, Found: ok})
}

func (h *Handler) HandleSetPendingQuery(w http.ResponseWriter, r *http.Request) {
	var req pendingQueryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if err := h.Preferences.SetPendingQuery(r.Context(), req.Query); err != nil {
		h.writeServiceError(w, err, "")
		return
	}
	h.writeSuccess(w, req)
}
