// Package api sets up the HTTP routes for NotifyD's operator API and the
// inbound provider webhook.
package api

import (
	"net/http"

	"github.com/yourusername/notifyd/internal/api/handlers"
	"github.com/yourusername/notifyd/internal/broadcast"
	"github.com/yourusername/notifyd/internal/db"
	"github.com/yourusername/notifyd/internal/notify"
	"github.com/yourusername/notifyd/internal/registry"
	"github.com/yourusername/notifyd/internal/scheduler"
	"github.com/yourusername/notifyd/internal/telegram"
	"github.com/yourusername/notifyd/internal/template"
	"github.com/yourusername/notifyd/internal/webhook"
)

// Deps holds all dependencies injected into the API handlers.
type Deps struct {
	DB            *db.DB
	Templates     *template.Store
	Registry      *registry.Registry
	Dispatcher    *broadcast.Dispatcher
	Notifier      *notify.Service
	Scheduler     *scheduler.Engine
	Processor     *webhook.Processor
	Bot           *telegram.Bot
	WebhookSecret string
}

// SetupRoutes registers all HTTP routes on the given ServeMux.
// Uses Go 1.22 method+pattern routing syntax. Operator authentication on
// /api/v1/* is the embedding application's concern and is not applied here.
func SetupRoutes(mux *http.ServeMux, deps *Deps) {
	h := handlers.New(deps.DB, deps.Templates, deps.Registry, deps.Dispatcher,
		deps.Notifier, deps.Scheduler, deps.Bot, deps.WebhookSecret)

	// ── Inbound provider webhook ─────────────────────────────────────────────
	mux.HandleFunc("POST /webhook/telegram/{secret}", deps.Processor.Handler(deps.WebhookSecret))

	// ── Templates ────────────────────────────────────────────────────────────
	mux.HandleFunc("GET /api/v1/templates", h.ListTemplates)
	mux.HandleFunc("PUT /api/v1/templates/{key}", h.UpsertTemplate)

	// ── Notifications ────────────────────────────────────────────────────────
	mux.HandleFunc("POST /api/v1/notify", h.Notify)
	mux.HandleFunc("POST /api/v1/broadcast", h.Broadcast)

	// ── Subscribers ──────────────────────────────────────────────────────────
	mux.HandleFunc("GET /api/v1/subscribers", h.ListSubscribers)

	// ── Scheduled announcements ──────────────────────────────────────────────
	mux.HandleFunc("GET /api/v1/announcements", h.ListAnnouncements)
	mux.HandleFunc("POST /api/v1/announcements", h.CreateAnnouncement)
	mux.HandleFunc("DELETE /api/v1/announcements/{id}", h.DeleteAnnouncement)

	// ── Provider webhook registration (operator action) ──────────────────────
	mux.HandleFunc("POST /api/v1/webhook/register", h.RegisterWebhook)
}
