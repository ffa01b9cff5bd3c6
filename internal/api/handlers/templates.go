package handlers

import "net/http"

// ListTemplates handles GET /api/v1/templates.
// Returns the merged template map: compiled-in defaults shadowed by overrides.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	merged, err := h.templates.Merged(r.Context())
	if err != nil {
		fail(w, http.StatusInternalServerError, "templates: "+err.Error())
		return
	}
	ok(w, merged)
}

// UpsertTemplate handles PUT /api/v1/templates/{key}.
func (h *Handler) UpsertTemplate(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		fail(w, http.StatusBadRequest, "template key is required")
		return
	}
	var req struct {
		Body string `json:"body"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Body == "" {
		fail(w, http.StatusBadRequest, "body is required")
		return
	}
	if err := h.templates.Upsert(r.Context(), key, req.Body); err != nil {
		fail(w, http.StatusInternalServerError, "upsert: "+err.Error())
		return
	}
	ok(w, map[string]string{"key": key})
}
