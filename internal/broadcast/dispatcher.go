// Package broadcast fans a rendered message out to every active subscriber.
// One recipient's failure never aborts the batch, and no send is retried
// within a pass — retry is the caller's call.
package broadcast

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/yourusername/notifyd/internal/db"
	"github.com/yourusername/notifyd/internal/ws"
)

// Sender delivers one message to one recipient.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// SubscriberLister supplies the active subscriber snapshot.
type SubscriberLister interface {
	ListActive(ctx context.Context) ([]db.Subscriber, error)
}

// Feed receives broadcast lifecycle events for the operator activity stream.
type Feed interface {
	Publish(eventType string, data interface{})
}

// Delivery is the outcome of a single send attempt.
type Delivery struct {
	ChatID int64  `json:"chat_id"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// Result aggregates one broadcast pass. Not persisted; returned synchronously
// for observability.
type Result struct {
	ID               string     `json:"id"`
	Sent             int        `json:"sent"`
	Failed           int        `json:"failed"`
	TotalSubscribers int        `json:"total_subscribers"`
	Deliveries       []Delivery `json:"deliveries,omitempty"`
}

// Dispatcher sends one rendered message to every active subscriber over a
// bounded worker pool.
type Dispatcher struct {
	registry SubscriberLister
	sender   Sender
	feed     Feed
	workers  int
	limiter  *rate.Limiter
}

// New creates a Dispatcher. feed may be nil (no activity stream). ratePerSec
// caps sends across the whole pool to stay under the provider's bulk limit.
func New(registry SubscriberLister, sender Sender, feed Feed, workers int, ratePerSec float64) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	var lim *rate.Limiter
	if ratePerSec > 0 {
		lim = rate.NewLimiter(rate.Limit(ratePerSec), 1)
	}
	return &Dispatcher{
		registry: registry,
		sender:   sender,
		feed:     feed,
		workers:  workers,
		limiter:  lim,
	}
}

// Broadcast sends text to every currently-subscribed recipient and reports
// per-recipient outcomes. With zero active subscribers the provider is not
// contacted at all. A snapshot-read failure is the only error path; a result
// is produced even under total failure of the send channel.
func (d *Dispatcher) Broadcast(ctx context.Context, text string) (Result, error) {
	res := Result{ID: uuid.NewString()}

	subs, err := d.registry.ListActive(ctx)
	if err != nil {
		return res, fmt.Errorf("broadcast.Broadcast: snapshot: %w", err)
	}
	res.TotalSubscribers = len(subs)
	if len(subs) == 0 {
		return res, nil
	}

	start := time.Now()
	log.Info().Str("broadcast", res.ID).Int("total", len(subs)).Msg("broadcast started")
	d.publish(ws.TypeBroadcastStarted, map[string]interface{}{
		"id": res.ID, "total": len(subs),
	})

	jobs := make(chan db.Subscriber)
	outcomes := make(chan Delivery)

	workers := d.workers
	if workers > len(subs) {
		workers = len(subs)
	}
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sub := range jobs {
				outcomes <- d.sendOne(ctx, sub, text)
			}
		}()
	}
	go func() {
		defer close(jobs)
		for _, sub := range subs {
			jobs <- sub
		}
	}()
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	res.Deliveries = make([]Delivery, 0, len(subs))
	for dl := range outcomes {
		res.Deliveries = append(res.Deliveries, dl)
		if dl.OK {
			res.Sent++
		} else {
			res.Failed++
			d.publish(ws.TypeDeliveryFailed, map[string]interface{}{
				"id": res.ID, "chat_id": dl.ChatID, "error": dl.Error,
			})
		}
	}

	if res.Failed > 0 {
		log.Warn().Str("broadcast", res.ID).
			Int("sent", res.Sent).Int("failed", res.Failed).
			Dur("dur", time.Since(start)).
			Msg("broadcast finished with failures")
	} else {
		log.Info().Str("broadcast", res.ID).
			Int("sent", res.Sent).
			Dur("dur", time.Since(start)).
			Msg("broadcast finished")
	}
	d.publish(ws.TypeBroadcastComplete, map[string]interface{}{
		"id": res.ID, "sent": res.Sent, "failed": res.Failed, "total": res.TotalSubscribers,
	})
	return res, nil
}

// sendOne performs one rate-limited send attempt. Every failure mode ends up
// in the Delivery record, never in a panic or an aborted batch.
func (d *Dispatcher) sendOne(ctx context.Context, sub db.Subscriber, text string) Delivery {
	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return Delivery{ChatID: sub.ChatID, Error: err.Error()}
		}
	}
	if err := d.sender.SendMessage(sub.ChatID, text); err != nil {
		return Delivery{ChatID: sub.ChatID, Error: err.Error()}
	}
	return Delivery{ChatID: sub.ChatID, OK: true}
}

func (d *Dispatcher) publish(eventType string, data interface{}) {
	if d.feed != nil {
		d.feed.Publish(eventType, data)
	}
}
