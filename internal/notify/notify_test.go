package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/notifyd/internal/broadcast"
)

type fakeResolver struct {
	templates map[string]string
}

func (f *fakeResolver) Resolve(ctx context.Context, key string) string {
	return f.templates[key]
}

type fakeBroadcaster struct {
	texts []string
}

func (f *fakeBroadcaster) Broadcast(ctx context.Context, text string) (broadcast.Result, error) {
	f.texts = append(f.texts, text)
	return broadcast.Result{Sent: 2, TotalSubscribers: 2}, nil
}

func TestNotify_RendersAndBroadcasts(t *testing.T) {
	b := &fakeBroadcaster{}
	s := New(&fakeResolver{templates: map[string]string{
		"course_published": "New course: {{title}}",
	}}, b)

	res, err := s.Notify(context.Background(), "course_published", map[string]string{"title": "Go 101"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Sent)
	require.Len(t, b.texts, 1)
	assert.Equal(t, "New course: Go 101", b.texts[0])
}

func TestNotify_UnknownTypeIsNoOp(t *testing.T) {
	b := &fakeBroadcaster{}
	s := New(&fakeResolver{templates: map[string]string{}}, b)

	res, err := s.Notify(context.Background(), "unknown_type", map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Sent)
	assert.Equal(t, 0, res.Failed)
	assert.Empty(t, b.texts, "must not broadcast an empty message")
}

func TestNotify_TemplateRenderingToEmptyIsNoOp(t *testing.T) {
	// "{{text}}" with no data renders to "" — no blank-line spam.
	b := &fakeBroadcaster{}
	s := New(&fakeResolver{templates: map[string]string{
		"announcement": "{{text}}",
	}}, b)

	res, err := s.Notify(context.Background(), "announcement", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Sent)
	assert.Empty(t, b.texts)
}
