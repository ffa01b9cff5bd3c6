// Package notify is the single entry point external collaborators use to
// alert subscribers of a domain event. Callers supply a type key and a flat
// data map; they never touch templates, subscriber storage, or the provider.
package notify

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/notifyd/internal/broadcast"
	"github.com/yourusername/notifyd/internal/template"
)

// TemplateResolver maps a notification type to template text.
type TemplateResolver interface {
	Resolve(ctx context.Context, key string) string
}

// Broadcaster fans a rendered message out to all active subscribers.
type Broadcaster interface {
	Broadcast(ctx context.Context, text string) (broadcast.Result, error)
}

// Service looks up a template by type, renders it, and hands it to the
// dispatcher.
type Service struct {
	templates  TemplateResolver
	dispatcher Broadcaster
}

// New creates a Service.
func New(templates TemplateResolver, dispatcher Broadcaster) *Service {
	return &Service{templates: templates, dispatcher: dispatcher}
}

// Notify broadcasts the notification type rendered with data. An unknown type
// (no default, no override) is a no-op with zero sends — every subscriber
// receiving a blank line is worse than a dropped event.
func (s *Service) Notify(ctx context.Context, typ string, data map[string]string) (broadcast.Result, error) {
	body := s.templates.Resolve(ctx, typ)
	text := template.Render(body, data)
	if text == "" {
		log.Debug().Str("type", typ).Msg("notify: no template, skipping broadcast")
		return broadcast.Result{}, nil
	}
	return s.dispatcher.Broadcast(ctx, text)
}
