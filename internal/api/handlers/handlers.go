// Package handlers provides HTTP handler implementations for the NotifyD
// operator API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/yourusername/notifyd/internal/broadcast"
	"github.com/yourusername/notifyd/internal/db"
	"github.com/yourusername/notifyd/internal/notify"
	"github.com/yourusername/notifyd/internal/registry"
	"github.com/yourusername/notifyd/internal/scheduler"
	"github.com/yourusername/notifyd/internal/telegram"
	"github.com/yourusername/notifyd/internal/template"
)

// Handler holds all shared dependencies for API handler methods.
type Handler struct {
	db            *db.DB
	templates     *template.Store
	registry      *registry.Registry
	dispatcher    *broadcast.Dispatcher
	notifier      *notify.Service
	scheduler     *scheduler.Engine
	bot           *telegram.Bot
	webhookSecret string
}

// New creates a Handler with all dependencies.
func New(
	database *db.DB,
	templates *template.Store,
	reg *registry.Registry,
	dispatcher *broadcast.Dispatcher,
	notifier *notify.Service,
	sched *scheduler.Engine,
	bot *telegram.Bot,
	webhookSecret string,
) *Handler {
	return &Handler{
		db:            database,
		templates:     templates,
		registry:      reg,
		dispatcher:    dispatcher,
		notifier:      notifier,
		scheduler:     sched,
		bot:           bot,
		webhookSecret: webhookSecret,
	}
}

// ── Response helpers ──────────────────────────────────────────────────────────

type response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ok(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response{Success: true, Data: data})
}

func fail(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response{Success: false, Error: msg})
}

func decode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
