// Package telegram wraps the Telegram Bot API: one call sends one message to
// one recipient. Provider payload and auth details stay behind this package.
package telegram

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram bot API client.
type Bot struct {
	api *tgbotapi.BotAPI
}

// New creates a Bot. Returns nil if token is empty (Telegram disabled —
// broadcasts then fail per recipient instead of crashing the daemon).
// sendTimeout bounds every outbound API call so one unreachable recipient
// cannot stall a broadcast pass or a webhook reply.
func New(token string, sendTimeout time.Duration) (*Bot, error) {
	if token == "" {
		return nil, nil
	}
	client := &http.Client{Timeout: sendTimeout}
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram.New: %w", err)
	}
	return &Bot{api: api}, nil
}

// Username returns the bot account name, for logs.
func (b *Bot) Username() string {
	if b == nil {
		return ""
	}
	return b.api.Self.UserName
}

// SendMessage sends a plain text message to a single chat.
func (b *Bot) SendMessage(chatID int64, text string) error {
	if b == nil {
		return fmt.Errorf("telegram.SendMessage: bot disabled (no token)")
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("telegram.SendMessage: chat %d: %w", chatID, err)
	}
	return nil
}

// WebhookURL computes the inbound webhook endpoint for a public base URL.
func WebhookURL(baseURL, secret string) string {
	return strings.TrimRight(baseURL, "/") + "/webhook/telegram/" + secret
}

// RegisterWebhook registers the computed webhook URL with Telegram and
// returns it. Operator action, not part of runtime behavior.
func (b *Bot) RegisterWebhook(baseURL, secret string) (string, error) {
	if b == nil {
		return "", fmt.Errorf("telegram.RegisterWebhook: bot disabled (no token)")
	}
	url := WebhookURL(baseURL, secret)
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return "", fmt.Errorf("telegram.RegisterWebhook: build config: %w", err)
	}
	if _, err := b.api.Request(wh); err != nil {
		return "", fmt.Errorf("telegram.RegisterWebhook: %w", err)
	}
	return url, nil
}
