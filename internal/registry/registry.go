// Package registry persists the set of opted-in recipients. Rows are keyed
// by Telegram chat ID and are never hard-deleted: opt-out flips the
// subscribed flag, so an identifier keeps its history across /start cycles.
package registry

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/notifyd/internal/db"
)

// Registry is the subscriber store.
type Registry struct {
	database *db.DB
}

// New creates a Registry.
func New(database *db.DB) *Registry {
	return &Registry{database: database}
}

// UpsertSubscriber creates an active subscriber row for chatID, or updates
// the username on an existing row without touching the subscribed flag.
// Idempotent — duplicate webhook deliveries are safe to apply twice.
func (r *Registry) UpsertSubscriber(ctx context.Context, chatID int64, username string) error {
	_, err := r.database.ExecContext(ctx, `
		INSERT INTO subscribers (chat_id, username, subscribed, last_updated)
		VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(chat_id) DO UPDATE SET
			username=excluded.username,
			last_updated=excluded.last_updated`,
		chatID, username)
	if err != nil {
		return fmt.Errorf("registry.UpsertSubscriber: %w", err)
	}
	return nil
}

// SetSubscription sets the subscribed flag for chatID. When no row exists the
// row is auto-created with the given flag: a /stop from an identifier we never
// saw still records the opt-out, so a later replayed /start cannot resurrect
// an intent the recipient already expressed.
func (r *Registry) SetSubscription(ctx context.Context, chatID int64, subscribed bool) error {
	_, err := r.database.ExecContext(ctx, `
		INSERT INTO subscribers (chat_id, subscribed, last_updated)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(chat_id) DO UPDATE SET
			subscribed=excluded.subscribed,
			last_updated=excluded.last_updated`,
		chatID, boolToInt(subscribed))
	if err != nil {
		return fmt.Errorf("registry.SetSubscription: %w", err)
	}
	return nil
}

// ListActive returns a snapshot of every subscriber with subscribed=1.
// Ordering is not significant; mutations made after the query do not appear.
func (r *Registry) ListActive(ctx context.Context) ([]db.Subscriber, error) {
	rows, err := r.database.QueryContext(ctx, `
		SELECT chat_id, username, subscribed, last_updated, created_at
		FROM subscribers WHERE subscribed=1`)
	if err != nil {
		return nil, fmt.Errorf("registry.ListActive: %w", err)
	}
	defer rows.Close()

	var subs []db.Subscriber
	for rows.Next() {
		var s db.Subscriber
		if err := rows.Scan(&s.ChatID, &s.Username, &s.Subscribed, &s.LastUpdated, &s.CreatedAt); err != nil {
			log.Warn().Err(err).Msg("registry: scan subscriber")
			continue
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("registry.ListActive: rows: %w", err)
	}
	return subs, nil
}

// ListAll returns every subscriber row regardless of flag, for the operator
// listing endpoint.
func (r *Registry) ListAll(ctx context.Context) ([]db.Subscriber, error) {
	rows, err := r.database.QueryContext(ctx, `
		SELECT chat_id, username, subscribed, last_updated, created_at
		FROM subscribers ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("registry.ListAll: %w", err)
	}
	defer rows.Close()

	var subs []db.Subscriber
	for rows.Next() {
		var s db.Subscriber
		if err := rows.Scan(&s.ChatID, &s.Username, &s.Subscribed, &s.LastUpdated, &s.CreatedAt); err != nil {
			continue
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// EnsureSchema lazily creates the subscribers table. Best-effort by contract:
// a pre-existing table is the common case, so a failure is logged and normal
// operation proceeds assuming the schema exists.
func (r *Registry) EnsureSchema(ctx context.Context) {
	if _, err := r.database.ExecContext(ctx, db.DDLSubscribers); err != nil {
		log.Warn().Err(err).Msg("registry: ensure schema skipped")
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
