package broadcast

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/notifyd/internal/db"
)

type fakeLister struct {
	subs []db.Subscriber
	err  error
}

func (f *fakeLister) ListActive(ctx context.Context) ([]db.Subscriber, error) {
	return f.subs, f.err
}

// fakeSender records sends and fails for selected chat IDs. Safe for
// concurrent use — the dispatcher calls it from parallel workers.
type fakeSender struct {
	mu      sync.Mutex
	sent    []int64
	texts   []string
	failFor map[int64]bool
	failAll bool
}

func (f *fakeSender) SendMessage(chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll || f.failFor[chatID] {
		return errors.New("bot was blocked by the user")
	}
	f.sent = append(f.sent, chatID)
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeSender) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func subscribers(ids ...int64) []db.Subscriber {
	subs := make([]db.Subscriber, 0, len(ids))
	for _, id := range ids {
		subs = append(subs, db.Subscriber{ChatID: id, Subscribed: true})
	}
	return subs
}

func TestBroadcast_AllSucceed(t *testing.T) {
	sender := &fakeSender{}
	d := New(&fakeLister{subs: subscribers(1, 2, 3)}, sender, nil, 4, 0)

	res, err := d.Broadcast(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Sent)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, 3, res.TotalSubscribers)
	assert.Len(t, res.Deliveries, 3)
	assert.NotEmpty(t, res.ID)
	assert.ElementsMatch(t, []int64{1, 2, 3}, sender.sent)
}

func TestBroadcast_PartialFailureDoesNotShortCircuit(t *testing.T) {
	// Recipient 2 fails mid-batch; 1 and 3 must still receive the message.
	sender := &fakeSender{failFor: map[int64]bool{2: true}}
	d := New(&fakeLister{subs: subscribers(1, 2, 3)}, sender, nil, 1, 0)

	res, err := d.Broadcast(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Sent)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 3, res.TotalSubscribers)
	assert.ElementsMatch(t, []int64{1, 3}, sender.sent)

	for _, dl := range res.Deliveries {
		if dl.ChatID == 2 {
			assert.False(t, dl.OK)
			assert.Contains(t, dl.Error, "blocked")
		} else {
			assert.True(t, dl.OK)
			assert.Empty(t, dl.Error)
		}
	}
}

func TestBroadcast_EmptyPopulation(t *testing.T) {
	sender := &fakeSender{}
	d := New(&fakeLister{}, sender, nil, 4, 0)

	res, err := d.Broadcast(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Sent)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, 0, res.TotalSubscribers)
	assert.Equal(t, 0, sender.calls(), "provider must not be contacted at all")
}

func TestBroadcast_TotalSendFailureStillReturnsResult(t *testing.T) {
	sender := &fakeSender{failAll: true}
	d := New(&fakeLister{subs: subscribers(1, 2, 3, 4)}, sender, nil, 2, 0)

	res, err := d.Broadcast(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Sent)
	assert.Equal(t, 4, res.Failed)
	assert.Equal(t, 4, res.TotalSubscribers)
}

func TestBroadcast_SnapshotFailureSurfaces(t *testing.T) {
	d := New(&fakeLister{err: errors.New("db gone")}, &fakeSender{}, nil, 2, 0)

	_, err := d.Broadcast(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot")
}

func TestBroadcast_ManySubscribersAllDelivered(t *testing.T) {
	ids := make([]int64, 100)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	sender := &fakeSender{}
	d := New(&fakeLister{subs: subscribers(ids...)}, sender, nil, 8, 0)

	res, err := d.Broadcast(context.Background(), "bulk")
	require.NoError(t, err)
	assert.Equal(t, 100, res.Sent)
	assert.ElementsMatch(t, ids, sender.sent)
}
