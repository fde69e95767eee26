package notify

import (
	"context"
	"fmt"

	"talento/internal/config"
	"talento/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramSender is the slice of the bot API the channel uses.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramChannel posts payloads to a fixed chat, typically the HR group.
type TelegramChannel struct {
	bot    TelegramSender
	chatID int64
	logger *zerolog.Logger
}

func NewTelegramChannel(cfg config.TelegramConfig, logger *zerolog.Logger) *TelegramChannel {
	c := &TelegramChannel{chatID: cfg.ChatID, logger: logger}
	if cfg.BotToken == "" || cfg.ChatID == 0 {
		return c
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("telegram bot init failed")
		return c
	}
	bot.Debug = cfg.Debug
	c.bot = bot
	return c
}

// NewTelegramChannelWithSender wires a prebuilt sender, used in tests.
func NewTelegramChannelWithSender(bot TelegramSender, chatID int64, logger *zerolog.Logger) *TelegramChannel {
	return &TelegramChannel{bot: bot, chatID: chatID, logger: logger}
}

func (c *TelegramChannel) Name() string { return models.ChannelTelegram }

func (c *TelegramChannel) IsConfigured() bool {
	return c.bot != nil && c.chatID != 0
}

func (c *TelegramChannel) Send(ctx context.Context, payload *models.NotificationPayload) bool {
	if c.bot == nil {
		return false
	}

	text := fmt.Sprintf("*%s*\n%s", payload.Title, payload.Message)
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := c.bot.Send(msg); err != nil {
		c.logger.Error().Err(err).Int64("chat_id", c.chatID).Msg("telegram send failed")
		return false
	}
	return true
}
