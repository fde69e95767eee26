package notify

import (
	"context"

	"talento/internal/domain"
	"talento/internal/metrics"
	"talento/internal/models"

	"github.com/rs/zerolog"
)

// Registry fans payloads out over named channel backends. Sends never return
// errors: an unknown or unconfigured channel, or a failed delivery, is a
// false in the result map and a log line, nothing more.
type Registry struct {
	channels map[string]domain.Channel
	logger   *zerolog.Logger
}

func NewRegistry(logger *zerolog.Logger, channels ...domain.Channel) *Registry {
	r := &Registry{channels: make(map[string]domain.Channel), logger: logger}
	for _, ch := range channels {
		r.Register(ch)
	}
	return r
}

// Register adds a channel under its own name, replacing any previous one.
func (r *Registry) Register(ch domain.Channel) {
	r.channels[ch.Name()] = ch
}

// Names lists the registered channel names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.channels))
	for name := range r.channels {
		names = append(names, name)
	}
	return names
}

func (r *Registry) SendVia(ctx context.Context, channel string, payload *models.NotificationPayload) bool {
	ch, ok := r.channels[channel]
	if !ok {
		r.logger.Warn().Str("channel", channel).Msg("unknown notification channel")
		metrics.IncNotification(channel, false)
		return false
	}
	if !ch.IsConfigured() {
		r.logger.Warn().Str("channel", channel).Msg("notification channel not configured")
		metrics.IncNotification(channel, false)
		return false
	}

	ok = ch.Send(ctx, payload)
	metrics.IncNotification(channel, ok)
	if !ok {
		r.logger.Error().Str("channel", channel).Str("title", payload.Title).Msg("notification send failed")
	}
	return ok
}

func (r *Registry) SendViaAll(ctx context.Context, channels []string, payload *models.NotificationPayload) map[string]bool {
	results := make(map[string]bool, len(channels))
	for _, name := range channels {
		results[name] = r.SendVia(ctx, name, payload)
	}
	return results
}
