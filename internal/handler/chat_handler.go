package handler

import (
	"net/http"

	"github.com/fakhrymubarak/skycast/internal/model"
)

type chatResponse struct {
	SessionID  string           `json:"session_id"`
	Reply      string           `json:"reply"`
	Stopped    bool             `json:"stopped"`
	GroundedOn string           `json:"grounded_on,omitempty"`
	History    []model.ChatTurn `json:"history"`
}

// HandleChat sends one message to the assistant. A new message on a session
// stops the reply still being generated for it.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	sessionID, reply, err := h.Chat.Send(r.Context(), req.SessionID, req.Message)
	if err != nil {
		h.writeServiceError(w, err, "")
		return
	}
	h.writeSuccess(w, chatResponse{
		SessionID:  sessionID,
		Reply:      reply.Text,
		Stopped:    reply.Stopped,
		GroundedOn: reply.GroundedOn,
		History:    reply.History,
	})
}

// HandleCancelChat stops the in-flight reply of a session.
func (h *Handler) HandleCancelChat(w http.ResponseWriter, r *http.Request) {
	p := sessionParam{SessionID: r.PathValue("session_id")}
	if err := validate.Struct(p); err != nil {
		h.writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	h.writeSuccess(w, map[string]bool{"cancelled": h.Chat.Cancel(p.SessionID)})
}
