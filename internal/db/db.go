// Package db provides the SQLite database wrapper and model types for NotifyD.
package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps *sql.DB and provides migration support.
type DB struct {
	*sql.DB
}

// New opens a SQLite connection with WAL mode and foreign keys enabled.
// Driver name is "sqlite" (modernc.org/sqlite, not mattn/go-sqlite3).
func New(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_journal=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("db.New: open: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("db.New: ping: %w", err)
	}
	// Limit to 1 writer at a time to avoid SQLITE_BUSY in WAL mode.
	sqlDB.SetMaxOpenConns(1)
	return &DB{sqlDB}, nil
}

// Migrate runs all CREATE TABLE IF NOT EXISTS migrations exactly once per schema version.
// The subscriber registry and template store additionally re-ensure their own
// tables lazily, so a wiped database heals without a restart.
func (d *DB) Migrate() error {
	// Ensure the settings table exists first (holds schema_version).
	if _, err := d.Exec(ddlSettings); err != nil {
		return fmt.Errorf("db.Migrate: settings table: %w", err)
	}

	// Read current schema version.
	var version int
	row := d.QueryRow(`SELECT value FROM settings WHERE key='schema_version' LIMIT 1`)
	_ = row.Scan(&version) // Ignore scan error — row may not exist yet (version=0).

	if version >= schemaVersion {
		return nil
	}

	tables := []string{
		DDLSubscribers,
		DDLTemplateOverrides,
		ddlAnnouncements,
	}

	for _, ddl := range tables {
		if _, err := d.Exec(ddl); err != nil {
			return fmt.Errorf("db.Migrate: %w", err)
		}
	}

	// Upsert schema version.
	_, err := d.Exec(`INSERT INTO settings (key, value) VALUES ('schema_version', ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value`, schemaVersion)
	if err != nil {
		return fmt.Errorf("db.Migrate: schema_version upsert: %w", err)
	}
	return nil
}

const schemaVersion = 1

// ── Model Types ──────────────────────────────────────────────────────────────

// Subscriber is a Telegram recipient opted in to broadcast notifications.
// chat_id is the unique key; rows are never hard-deleted — opt-out flips
// the subscribed flag so repeated /start cycles cannot multiply rows.
type Subscriber struct {
	ChatID      int64     `json:"chat_id"`
	Username    string    `json:"username,omitempty"`
	Subscribed  bool      `json:"subscribed"`
	LastUpdated time.Time `json:"last_updated"`
	CreatedAt   time.Time `json:"created_at"`
}

// TemplateOverride is an operator-supplied template body that shadows the
// compiled-in default for the same key.
type TemplateOverride struct {
	Key       string    `json:"key"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Announcement is a cron-scheduled notification.
type Announcement struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	CronExpr  string       `json:"cron_expr"`
	Type      string       `json:"type"`
	Data      string       `json:"data"` // JSON object of template fields
	Enabled   bool         `json:"enabled"`
	NextRun   sql.NullTime `json:"next_run,omitempty"`
	LastRun   sql.NullTime `json:"last_run,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// ── DDL Statements ───────────────────────────────────────────────────────────

const ddlSettings = `CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL DEFAULT ''
);`

// DDLSubscribers is exported so the registry can lazily re-ensure its table.
const DDLSubscribers = `CREATE TABLE IF NOT EXISTS subscribers (
	chat_id      INTEGER PRIMARY KEY,
	username     TEXT    NOT NULL DEFAULT '',
	subscribed   INTEGER NOT NULL DEFAULT 1,
	last_updated DATETIME DEFAULT CURRENT_TIMESTAMP,
	created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
);`

// DDLTemplateOverrides is exported so the template store can lazily re-ensure its table.
const DDLTemplateOverrides = `CREATE TABLE IF NOT EXISTS template_overrides (
	key        TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`

const ddlAnnouncements = `CREATE TABLE IF NOT EXISTS announcements (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT    NOT NULL,
	cron_expr  TEXT    NOT NULL,
	type       TEXT    NOT NULL,
	data       TEXT    NOT NULL DEFAULT '{}',
	enabled    INTEGER NOT NULL DEFAULT 1,
	next_run   DATETIME,
	last_run   DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`
