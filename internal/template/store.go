// Package template resolves and renders notification templates. Resolution
// merges a compiled-in default set with operator overrides persisted in
// SQLite; overrides win on key collision.
package template

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/notifyd/internal/db"
)

// Store resolves template keys against overrides and defaults.
type Store struct {
	database *db.DB
	defaults map[string]string
}

// NewStore creates a Store. The defaults map is treated as immutable; pass
// Defaults() for the built-in set.
func NewStore(database *db.DB, defaults map[string]string) *Store {
	return &Store{database: database, defaults: defaults}
}

// Resolve returns the template body for key: the operator override when one
// exists, the compiled-in default otherwise, and "" when the key is known to
// neither. Storage failures degrade to the default set — a broken overrides
// table must never take notifications down.
func (s *Store) Resolve(ctx context.Context, key string) string {
	s.ensureSchema(ctx)

	var body string
	err := s.database.QueryRowContext(ctx,
		`SELECT body FROM template_overrides WHERE key=?`, key).Scan(&body)
	switch {
	case err == nil:
		return body
	case errors.Is(err, sql.ErrNoRows):
		return s.defaults[key]
	default:
		log.Warn().Err(err).Str("key", key).Msg("template: override lookup failed, using default")
		return s.defaults[key]
	}
}

// Upsert writes or replaces a single override row. Operator-facing: errors
// are surfaced, not swallowed.
func (s *Store) Upsert(ctx context.Context, key, body string) error {
	s.ensureSchema(ctx)

	_, err := s.database.ExecContext(ctx, `
		INSERT INTO template_overrides (key, body, updated_at) VALUES (?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET body=excluded.body, updated_at=excluded.updated_at`,
		key, body)
	if err != nil {
		return fmt.Errorf("template.Upsert: %w", err)
	}
	return nil
}

// Merged returns the full effective template map (defaults shadowed by
// overrides) for the operator endpoint.
func (s *Store) Merged(ctx context.Context) (map[string]string, error) {
	s.ensureSchema(ctx)

	merged := make(map[string]string, len(s.defaults))
	for k, v := range s.defaults {
		merged[k] = v
	}

	rows, err := s.database.QueryContext(ctx, `SELECT key, body FROM template_overrides`)
	if err != nil {
		return nil, fmt.Errorf("template.Merged: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k, b string
		if err := rows.Scan(&k, &b); err != nil {
			continue
		}
		merged[k] = b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("template.Merged: rows: %w", err)
	}
	return merged, nil
}

// ensureSchema lazily creates the overrides table. Best-effort: a pre-existing
// table is the common case, so failures are logged and operation proceeds.
func (s *Store) ensureSchema(ctx context.Context) {
	if _, err := s.database.ExecContext(ctx, db.DDLTemplateOverrides); err != nil {
		log.Warn().Err(err).Msg("template: ensure schema skipped")
	}
}
