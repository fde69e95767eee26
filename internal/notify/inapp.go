package notify

import (
	"context"

	"talento/internal/models"

	"github.com/rs/zerolog"
)

// InboxStore is the slice of the store the in-app channel writes through.
type InboxStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	CreateNotificationDelivery(ctx context.Context, d *models.NotificationDelivery) error
}

// AppChannel lands payloads in the in-app notification inbox. Always
// configured: it only depends on the primary store.
type AppChannel struct {
	store  InboxStore
	logger *zerolog.Logger
}

func NewAppChannel(store InboxStore, logger *zerolog.Logger) *AppChannel {
	return &AppChannel{store: store, logger: logger}
}

func (c *AppChannel) Name() string { return models.ChannelApp }

func (c *AppChannel) IsConfigured() bool { return c.store != nil }

func (c *AppChannel) Send(ctx context.Context, payload *models.NotificationPayload) bool {
	n := &models.Notification{
		Recipient: payload.To,
		Title:     payload.Title,
		Message:   payload.Message,
	}
	if err := c.store.CreateNotification(ctx, n); err != nil {
		c.logger.Error().Err(err).Str("recipient", payload.To).Msg("store in-app notification")
		return false
	}

	d := &models.NotificationDelivery{
		NotificationID: n.ID,
		Channel:        models.ChannelApp,
		Success:        true,
	}
	if err := c.store.CreateNotificationDelivery(ctx, d); err != nil {
		// The inbox row exists; delivery audit is best effort.
		c.logger.Warn().Err(err).Int64("notification_id", n.ID).Msg("store delivery record")
	}
	return true
}
