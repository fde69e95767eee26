package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"talento/internal/config"
	"talento/internal/models"

	"github.com/rs/zerolog"
)

// WhatsAppChannel posts payloads to an external gateway API. The gateway
// contract is a single JSON endpoint; anything but 2xx is a failed send.
type WhatsAppChannel struct {
	cfg    config.WhatsAppConfig
	client *http.Client
	logger *zerolog.Logger
}

func NewWhatsAppChannel(cfg config.WhatsAppConfig, logger *zerolog.Logger) *WhatsAppChannel {
	return &WhatsAppChannel{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

func (c *WhatsAppChannel) Name() string { return models.ChannelWhatsApp }

func (c *WhatsAppChannel) IsConfigured() bool {
	return c.cfg.APIURL != "" && c.cfg.Token != ""
}

func (c *WhatsAppChannel) Send(ctx context.Context, payload *models.NotificationPayload) bool {
	if !c.IsConfigured() {
		return false
	}

	body, err := json.Marshal(map[string]string{
		"phone":   c.cfg.Phone,
		"message": payload.Title + "\n" + payload.Message,
	})
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		c.logger.Error().Err(err).Msg("whatsapp request build failed")
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Msg("whatsapp gateway unreachable")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error().Int("status", resp.StatusCode).Msg("whatsapp gateway rejected message")
		return false
	}
	return true
}
