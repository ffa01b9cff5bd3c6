package template

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/notifyd/internal/db"
)

func newTestStore(t *testing.T, name string, defaults map[string]string) *Store {
	t.Helper()
	tmp := filepath.Join(os.TempDir(), "notifyd_test_"+name+".db")
	t.Cleanup(func() { os.Remove(tmp) })

	database, err := db.New(tmp)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.Migrate())

	return NewStore(database, defaults)
}

func TestResolve_DefaultWhenNoOverride(t *testing.T) {
	s := newTestStore(t, "tpl_default", map[string]string{"greeting": "Hello {{name}}"})
	ctx := context.Background()

	assert.Equal(t, "Hello {{name}}", s.Resolve(ctx, "greeting"))
}

func TestResolve_OverrideWins(t *testing.T) {
	s := newTestStore(t, "tpl_override", map[string]string{"greeting": "Hello {{name}}"})
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, "greeting", "Hi there, {{name}}"))
	assert.Equal(t, "Hi there, {{name}}", s.Resolve(ctx, "greeting"))

	// Upsert replaces in place, no duplicate rows.
	require.NoError(t, s.Upsert(ctx, "greeting", "Howdy {{name}}"))
	assert.Equal(t, "Howdy {{name}}", s.Resolve(ctx, "greeting"))
}

func TestResolve_OverrideWithoutDefault(t *testing.T) {
	s := newTestStore(t, "tpl_nodefault", map[string]string{})
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, "custom_event", "Something happened"))
	assert.Equal(t, "Something happened", s.Resolve(ctx, "custom_event"))
}

func TestResolve_UnknownKeyIsEmpty(t *testing.T) {
	s := newTestStore(t, "tpl_unknown", map[string]string{"greeting": "Hello"})
	assert.Equal(t, "", s.Resolve(context.Background(), "no_such_type"))
}

func TestMerged(t *testing.T) {
	s := newTestStore(t, "tpl_merged", map[string]string{
		"a": "default a",
		"b": "default b",
	})
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, "b", "override b"))
	require.NoError(t, s.Upsert(ctx, "c", "override c"))

	merged, err := s.Merged(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"a": "default a",
		"b": "override b",
		"c": "override c",
	}, merged)
}

func TestDefaults_CopyIsIsolated(t *testing.T) {
	d := Defaults()
	d["course_published"] = "mutated"
	assert.NotEqual(t, "mutated", Defaults()["course_published"])
}
