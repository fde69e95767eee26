package notify

import (
	"context"

	"talento/internal/config"
	"talento/internal/models"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// EmailChannel delivers payloads over SMTP.
type EmailChannel struct {
	cfg    config.SMTPConfig
	client *mail.Client
	logger *zerolog.Logger
}

func NewEmailChannel(cfg config.SMTPConfig, logger *zerolog.Logger) *EmailChannel {
	c := &EmailChannel{cfg: cfg, logger: logger}
	if cfg.Host == "" || cfg.From == "" {
		return c
	}

	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	if !cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		logger.Error().Err(err).Msg("smtp client init failed")
		return c
	}
	c.client = client
	return c
}

func (c *EmailChannel) Name() string { return models.ChannelEmail }

func (c *EmailChannel) IsConfigured() bool {
	return c.client != nil
}

func (c *EmailChannel) Send(ctx context.Context, payload *models.NotificationPayload) bool {
	if c.client == nil || payload.To == "" {
		return false
	}

	msg := mail.NewMsg()
	if err := msg.From(c.cfg.From); err != nil {
		c.logger.Error().Err(err).Msg("invalid from address")
		return false
	}
	if err := msg.To(payload.To); err != nil {
		c.logger.Error().Err(err).Str("to", payload.To).Msg("invalid recipient address")
		return false
	}

	subject := payload.Subject
	if subject == "" {
		subject = payload.Title
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, payload.Message)

	if err := c.client.DialAndSendWithContext(ctx, msg); err != nil {
		c.logger.Error().Err(err).Str("to", payload.To).Msg("smtp send failed")
		return false
	}
	return true
}
