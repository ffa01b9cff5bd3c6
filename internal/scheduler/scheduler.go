// Package scheduler wraps robfig/cron to fire scheduled announcements
// through the notification facade.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/notifyd/internal/broadcast"
	"github.com/yourusername/notifyd/internal/db"
)

// Notifier broadcasts a typed notification. Implemented by notify.Service.
type Notifier interface {
	Notify(ctx context.Context, typ string, data map[string]string) (broadcast.Result, error)
}

// Engine manages the cron scheduler over the announcements table.
type Engine struct {
	cron     *cron.Cron
	database *db.DB
	notifier Notifier

	mu      sync.Mutex
	entries map[int]cron.EntryID
}

// New creates a new cron-based Engine.
func New(database *db.DB, notifier Notifier) *Engine {
	return &Engine{
		cron:     cron.New(),
		database: database,
		notifier: notifier,
		entries:  make(map[int]cron.EntryID),
	}
}

// Start begins the cron engine and loads all enabled announcements.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.LoadAnnouncements(ctx); err != nil {
		return fmt.Errorf("scheduler.Start: %w", err)
	}
	e.cron.Start()
	go func() {
		<-ctx.Done()
		e.cron.Stop()
	}()
	return nil
}

// LoadAnnouncements loads all enabled announcements from the DB and registers
// cron jobs.
func (e *Engine) LoadAnnouncements(ctx context.Context) error {
	rows, err := e.database.QueryContext(ctx,
		`SELECT id, name, cron_expr, type, data FROM announcements WHERE enabled=1`)
	if err != nil {
		return fmt.Errorf("scheduler.LoadAnnouncements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a db.Announcement
		if err := rows.Scan(&a.ID, &a.Name, &a.CronExpr, &a.Type, &a.Data); err != nil {
			log.Warn().Err(err).Msg("scheduler: scan announcement")
			continue
		}
		if err := e.addJob(a); err != nil {
			log.Warn().Err(err).Int("announcement", a.ID).Msg("scheduler: add job")
		}
	}
	return rows.Err()
}

// AddJob registers a single announcement in the cron engine.
func (e *Engine) AddJob(ctx context.Context, announcementID int) error {
	var a db.Announcement
	err := e.database.QueryRowContext(ctx,
		`SELECT id, name, cron_expr, type, data FROM announcements WHERE id=?`,
		announcementID,
	).Scan(&a.ID, &a.Name, &a.CronExpr, &a.Type, &a.Data)
	if err != nil {
		return fmt.Errorf("scheduler.AddJob: %w", err)
	}
	return e.addJob(a)
}

// RemoveJob deregisters an announcement from the cron engine.
func (e *Engine) RemoveJob(announcementID int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if entryID, ok := e.entries[announcementID]; ok {
		e.cron.Remove(entryID)
		delete(e.entries, announcementID)
	}
}

func (e *Engine) addJob(a db.Announcement) error {
	data := map[string]string{}
	if a.Data != "" {
		if err := json.Unmarshal([]byte(a.Data), &data); err != nil {
			return fmt.Errorf("scheduler.addJob: announcement %d data: %w", a.ID, err)
		}
	}

	id := a.ID
	entryID, err := e.cron.AddFunc(a.CronExpr, func() {
		ctx := context.Background()
		res, err := e.notifier.Notify(ctx, a.Type, data)
		if err != nil {
			log.Error().Err(err).Int("announcement", id).Str("name", a.Name).Msg("scheduler: notify failed")
			return
		}
		log.Info().
			Int("announcement", id).
			Str("name", a.Name).
			Int("sent", res.Sent).
			Int("failed", res.Failed).
			Msg("scheduler: announcement fired")
		_, _ = e.database.Exec(`UPDATE announcements SET last_run=? WHERE id=?`, time.Now(), id)
		e.updateNextRun(id)
	})
	if err != nil {
		return fmt.Errorf("scheduler.addJob: parse cron: %w", err)
	}

	e.mu.Lock()
	e.entries[a.ID] = entryID
	e.mu.Unlock()
	e.updateNextRun(a.ID)
	return nil
}

func (e *Engine) updateNextRun(announcementID int) {
	e.mu.Lock()
	entryID, ok := e.entries[announcementID]
	e.mu.Unlock()
	if !ok {
		return
	}
	entry := e.cron.Entry(entryID)
	if !entry.Next.IsZero() {
		_, _ = e.database.Exec(
			`UPDATE announcements SET next_run=? WHERE id=?`,
			entry.Next, announcementID,
		)
	}
}
