package handlers

import "net/http"

// RegisterWebhook handles POST /api/v1/webhook/register.
// Computes the inbound endpoint from the supplied public base URL and
// registers it with the messaging provider.
func (h *Handler) RegisterWebhook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BaseURL string `json:"base_url"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.BaseURL == "" {
		fail(w, http.StatusBadRequest, "base_url is required")
		return
	}
	url, err := h.bot.RegisterWebhook(req.BaseURL, h.webhookSecret)
	if err != nil {
		fail(w, http.StatusInternalServerError, "register: "+err.Error())
		return
	}
	ok(w, map[string]string{"webhook_url": url})
}
