package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/notifyd/internal/broadcast"
	"github.com/yourusername/notifyd/internal/db"
)

type fakeNotifier struct{}

func (fakeNotifier) Notify(ctx context.Context, typ string, data map[string]string) (broadcast.Result, error) {
	return broadcast.Result{}, nil
}

func newTestEngine(t *testing.T, name string) (*Engine, *db.DB) {
	t.Helper()
	tmp := filepath.Join(os.TempDir(), "notifyd_test_"+name+".db")
	t.Cleanup(func() { os.Remove(tmp) })

	database, err := db.New(tmp)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.Migrate())

	return New(database, fakeNotifier{}), database
}

func TestLoadAnnouncements_RegistersEnabledOnly(t *testing.T) {
	e, database := newTestEngine(t, "sched_load")
	ctx := context.Background()

	_, err := database.Exec(`INSERT INTO announcements (name, cron_expr, type, data, enabled)
		VALUES ('weekly digest', '0 9 * * 1', 'announcement', '{"text":"digest"}', 1)`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO announcements (name, cron_expr, type, data, enabled)
		VALUES ('paused', '0 9 * * 1', 'announcement', '{}', 0)`)
	require.NoError(t, err)

	require.NoError(t, e.LoadAnnouncements(ctx))
	assert.Len(t, e.entries, 1)

	// next_run is computed and persisted for the registered job.
	var nextRun any
	require.NoError(t, database.QueryRow(
		`SELECT next_run FROM announcements WHERE name='weekly digest'`).Scan(&nextRun))
	assert.NotNil(t, nextRun)
}

func TestAddJob_InvalidCronExpr(t *testing.T) {
	e, database := newTestEngine(t, "sched_badcron")
	ctx := context.Background()

	res, err := database.Exec(`INSERT INTO announcements (name, cron_expr, type, data)
		VALUES ('broken', 'not a cron expr', 'announcement', '{}')`)
	require.NoError(t, err)
	id, _ := res.LastInsertId()

	err = e.AddJob(ctx, int(id))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse cron")
}

func TestAddJob_InvalidDataJSON(t *testing.T) {
	e, database := newTestEngine(t, "sched_baddata")
	ctx := context.Background()

	res, err := database.Exec(`INSERT INTO announcements (name, cron_expr, type, data)
		VALUES ('bad data', '0 9 * * *', 'announcement', 'not json')`)
	require.NoError(t, err)
	id, _ := res.LastInsertId()

	require.Error(t, e.AddJob(ctx, int(id)))
}

func TestRemoveJob(t *testing.T) {
	e, database := newTestEngine(t, "sched_remove")
	ctx := context.Background()

	res, err := database.Exec(`INSERT INTO announcements (name, cron_expr, type, data)
		VALUES ('tmp', '0 9 * * *', 'announcement', '{}')`)
	require.NoError(t, err)
	id, _ := res.LastInsertId()

	require.NoError(t, e.AddJob(ctx, int(id)))
	require.Len(t, e.entries, 1)

	e.RemoveJob(int(id))
	assert.Empty(t, e.entries)
}
