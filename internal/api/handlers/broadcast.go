package handlers

import "net/http"

// Notify handles POST /api/v1/notify — the collaborator entry point.
// Body: {"type": "course_published", "data": {"title": "..."}}.
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Type == "" {
		fail(w, http.StatusBadRequest, "type is required")
		return
	}
	res, err := h.notifier.Notify(r.Context(), req.Type, req.Data)
	if err != nil {
		fail(w, http.StatusInternalServerError, "notify: "+err.Error())
		return
	}
	ok(w, res)
}

// Broadcast handles POST /api/v1/broadcast — raw text fan-out, bypassing
// templates.
func (h *Handler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Text == "" {
		fail(w, http.StatusBadRequest, "text is required")
		return
	}
	res, err := h.dispatcher.Broadcast(r.Context(), req.Text)
	if err != nil {
		fail(w, http.StatusInternalServerError, "broadcast: "+err.Error())
		return
	}
	ok(w, res)
}
