package handlers

import "net/http"

// ListSubscribers handles GET /api/v1/subscribers.
func (h *Handler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.registry.ListAll(r.Context())
	if err != nil {
		fail(w, http.StatusInternalServerError, "subscribers: "+err.Error())
		return
	}
	active := 0
	for _, s := range subs {
		if s.Subscribed {
			active++
		}
	}
	ok(w, map[string]interface{}{
		"total":       len(subs),
		"active":      active,
		"subscribers": subs,
	})
}
