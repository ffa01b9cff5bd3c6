// Package webhook consumes inbound Telegram updates: it classifies the
// command, mutates the subscriber registry, and replies to the sender.
// The HTTP response to the platform is always 200 — anything else triggers
// redelivery storms under Telegram's at-least-once webhook contract.
package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/notifyd/internal/broadcast"
	"github.com/yourusername/notifyd/internal/ws"
)

// SubscriptionStore is the registry surface the processor mutates.
type SubscriptionStore interface {
	UpsertSubscriber(ctx context.Context, chatID int64, username string) error
	SetSubscription(ctx context.Context, chatID int64, subscribed bool) error
	EnsureSchema(ctx context.Context)
}

// Processor turns inbound bot updates into registry mutations and replies.
// Stateless across updates except through the registry.
type Processor struct {
	registry SubscriptionStore
	sender   broadcast.Sender
	feed     broadcast.Feed
}

// NewProcessor creates a Processor. feed may be nil (no activity stream).
func NewProcessor(registry SubscriptionStore, sender broadcast.Sender, feed broadcast.Feed) *Processor {
	return &Processor{registry: registry, sender: sender, feed: feed}
}

type action int

const (
	actionNone action = iota
	actionSubscribe
	actionUnsubscribe
	actionHelp
)

type lang int

const (
	langEN lang = iota
	langAR
)

var subscribeWords = map[string]lang{
	"/start":    langEN,
	"start":     langEN,
	"subscribe": langEN,
	"اشترك":     langAR,
	"اشتراك":    langAR,
}

var unsubscribeWords = map[string]lang{
	"/stop":       langEN,
	"stop":        langEN,
	"/cancel":     langEN,
	"cancel":      langEN,
	"unsubscribe": langEN,
	"الغاء":       langAR,
	"إلغاء":       langAR,
}

// classify maps message text onto a command branch. Matching is
// case-insensitive and tolerates the /cmd@BotName suffix Telegram appends in
// group chats.
func classify(text string) (action, lang) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return actionNone, langEN
	}
	if at := strings.IndexByte(t, '@'); at > 0 && strings.HasPrefix(t, "/") {
		t = t[:at]
	}
	if l, ok := subscribeWords[t]; ok {
		return actionSubscribe, l
	}
	if l, ok := unsubscribeWords[t]; ok {
		return actionUnsubscribe, l
	}
	return actionHelp, langEN
}

// Process handles one update end to end. The returned error reports registry
// failures to the caller's ack body; it never reaches the recipient, who only
// ever sees confirmation or help text.
func (p *Processor) Process(ctx context.Context, update *tgbotapi.Update) error {
	// Self-healing bootstrap: best-effort, see registry.EnsureSchema.
	p.registry.EnsureSchema(ctx)

	msg := update.Message
	if msg == nil {
		msg = update.EditedMessage
	}
	// Updates without a usable message or chat are allowed by the webhook
	// contract; acknowledge and discard.
	if msg == nil || msg.Chat == nil {
		log.Debug().Msg("webhook: update without message, discarded")
		return nil
	}

	chatID := msg.Chat.ID
	username := msg.Chat.UserName

	act, l := classify(msg.Text)
	switch act {
	case actionNone:
		return nil
	case actionSubscribe:
		if err := p.registry.UpsertSubscriber(ctx, chatID, username); err != nil {
			log.Error().Err(err).Int64("chat_id", chatID).Msg("webhook: subscribe failed")
			return err
		}
		p.publishChange(chatID, true)
		p.reply(chatID, subscribedReply(l))
	case actionUnsubscribe:
		if err := p.registry.SetSubscription(ctx, chatID, false); err != nil {
			log.Error().Err(err).Int64("chat_id", chatID).Msg("webhook: unsubscribe failed")
			return err
		}
		p.publishChange(chatID, false)
		p.reply(chatID, unsubscribedReply(l))
	default:
		p.reply(chatID, helpReply())
	}
	return nil
}

func (p *Processor) publishChange(chatID int64, subscribed bool) {
	if p.feed != nil {
		p.feed.Publish(ws.TypeSubscriberChange, map[string]interface{}{
			"chat_id": chatID, "subscribed": subscribed,
		})
	}
}

// reply sends a text reply to the sender. Errors are logged, never propagated
// to the webhook's HTTP response.
func (p *Processor) reply(chatID int64, text string) {
	if err := p.sender.SendMessage(chatID, text); err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("webhook: reply send failed")
	}
}

func subscribedReply(l lang) string {
	if l == langAR {
		return "✅ تم تفعيل الاشتراك. ستصلك إشعارات الدورات والمدفوعات هنا."
	}
	return "✅ You are subscribed. Course and payment notifications will arrive here."
}

func unsubscribedReply(l lang) string {
	if l == langAR {
		return "تم إلغاء الاشتراك. أرسل /start في أي وقت لإعادة التفعيل."
	}
	return "You are unsubscribed. Send /start anytime to re-subscribe."
}

func helpReply() string {
	return "Commands:\n" +
		"/start — subscribe to notifications\n" +
		"/stop — unsubscribe\n\n" +
		"الأوامر:\n" +
		"/start — تفعيل الإشعارات\n" +
		"/stop — إلغاء الإشعارات"
}

// ── HTTP boundary ─────────────────────────────────────────────────────────────

type ack struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Handler returns the HTTP handler for POST /webhook/telegram/{secret}.
// A wrong path secret is 404 — only the platform knows the registered URL.
// Everything past that gate answers 200 so the platform never redelivers.
func (p *Processor) Handler(secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("secret") != secret {
			http.NotFound(w, r)
			return
		}

		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			// Malformed payload: treated as no-message, discarded, acknowledged.
			log.Debug().Err(err).Msg("webhook: malformed update payload")
			writeAck(w, ack{OK: true})
			return
		}

		if err := p.Process(r.Context(), &update); err != nil {
			writeAck(w, ack{OK: false, Error: err.Error()})
			return
		}
		writeAck(w, ack{OK: true})
	}
}

func writeAck(w http.ResponseWriter, a ack) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a)
}
