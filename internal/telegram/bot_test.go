package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookURL(t *testing.T) {
	assert.Equal(t, "https://example.com/webhook/telegram/abc",
		WebhookURL("https://example.com", "abc"))
	assert.Equal(t, "https://example.com/webhook/telegram/abc",
		WebhookURL("https://example.com/", "abc"))
}

func TestNew_EmptyTokenDisablesBot(t *testing.T) {
	bot, err := New("", 0)
	require.NoError(t, err)
	assert.Nil(t, bot)

	// A disabled bot fails sends instead of panicking.
	assert.Error(t, bot.SendMessage(1, "hi"))
	assert.Equal(t, "", bot.Username())
	_, err = bot.RegisterWebhook("https://example.com", "s")
	assert.Error(t, err)
}
