// NotifyD — subscriber notification daemon.
// Entry point: wires all packages and starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/notifyd/internal/api"
	"github.com/yourusername/notifyd/internal/broadcast"
	"github.com/yourusername/notifyd/internal/config"
	"github.com/yourusername/notifyd/internal/db"
	"github.com/yourusername/notifyd/internal/notify"
	"github.com/yourusername/notifyd/internal/registry"
	"github.com/yourusername/notifyd/internal/scheduler"
	"github.com/yourusername/notifyd/internal/telegram"
	"github.com/yourusername/notifyd/internal/template"
	"github.com/yourusername/notifyd/internal/webhook"
	"github.com/yourusername/notifyd/internal/ws"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	// ── 1. Load configuration + logging ─────────────────────────────────────
	cfg := config.Load()
	setupLogging(cfg)
	log.Info().Str("version", Version).Str("port", cfg.Port).Msg("notifyd starting")

	// ── 2. Open database + migrate ──────────────────────────────────────────
	database, err := db.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("db.New")
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("db.Migrate")
	}
	log.Info().Str("path", cfg.DBPath).Msg("database ready")

	// Root context — cancelled on shutdown signal.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── 3. Telegram bot ─────────────────────────────────────────────────────
	bot, err := telegram.New(cfg.TelegramToken, time.Duration(cfg.SendTimeoutSecs)*time.Second)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram.New")
	}
	if bot == nil {
		log.Warn().Msg("no TELEGRAM_TOKEN — sends will fail per recipient")
	} else {
		log.Info().Str("bot", bot.Username()).Msg("telegram bot ready")
	}

	// ── 4. WebSocket activity feed ──────────────────────────────────────────
	hub := ws.NewHub()
	go hub.Run(ctx)

	// ── 5. Core services ────────────────────────────────────────────────────
	reg := registry.New(database)
	templates := template.NewStore(database, template.Defaults())
	dispatcher := broadcast.New(reg, bot, hub, cfg.BroadcastWorkers, cfg.BroadcastRate)
	notifier := notify.New(templates, dispatcher)
	processor := webhook.NewProcessor(reg, bot, hub)

	// ── 6. Announcement scheduler ───────────────────────────────────────────
	schedEngine := scheduler.New(database, notifier)
	if err := schedEngine.Start(ctx); err != nil {
		log.Warn().Err(err).Msg("scheduler.Start")
	}

	// ── 7. Provider webhook registration ────────────────────────────────────
	if cfg.WebhookBase != "" && bot != nil {
		if url, err := bot.RegisterWebhook(cfg.WebhookBase, cfg.WebhookSecret); err != nil {
			log.Warn().Err(err).Msg("webhook registration failed (register later via API)")
		} else {
			log.Info().Str("url", url).Msg("webhook registered")
		}
	}

	// ── 8. HTTP router ──────────────────────────────────────────────────────
	mux := http.NewServeMux()
	api.SetupRoutes(mux, &api.Deps{
		DB:            database,
		Templates:     templates,
		Registry:      reg,
		Dispatcher:    dispatcher,
		Notifier:      notifier,
		Scheduler:     schedEngine,
		Processor:     processor,
		Bot:           bot,
		WebhookSecret: cfg.WebhookSecret,
	})
	mux.HandleFunc("GET /ws", hub.ServeWS)

	handler := loggingMiddleware(recoveryMiddleware(mux))

	// ── 9. Start HTTP server ────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel() // Stops the scheduler and the ws hub.

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("http shutdown")
		}
	}()

	log.Info().Msgf("notifyd listening on http://0.0.0.0:%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("ListenAndServe")
	}
	log.Info().Msg("notifyd stopped")
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogConsole {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// loggingMiddleware logs each request.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("dur", time.Since(start)).
			Msg("http request")
	})
}

// recoveryMiddleware recovers from panics and returns 500.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rv := recover(); rv != nil {
				log.Error().Interface("panic", rv).Str("path", r.URL.Path).Msg("panic recovered")
				http.Error(w, `{"success":false,"error":"internal server error"}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
