// Package alert delivers operational alerts to administrators.
package alert

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier sends a short plain-text alert.
type Notifier interface {
	Alert(ctx context.Context, text string) error
}

// Nop discards alerts.
type Nop struct{}

func (Nop) Alert(context.Context, string) error { return nil }

// TelegramNotifier posts alerts to a fixed set of Telegram chats.
type TelegramNotifier struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
	logger  *zap.Logger
}

// NewTelegramNotifier connects the bot and parses the destination chat ids.
func NewTelegramNotifier(token string, chatIDs []string, logger *zap.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	return newTelegramNotifier(bot, chatIDs, logger)
}

func newTelegramNotifier(bot *tgbotapi.BotAPI, chatIDs []string, logger *zap.Logger) (*TelegramNotifier, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ids := make([]int64, 0, len(chatIDs))
	for _, raw := range chatIDs {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse telegram chat id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	return &TelegramNotifier{bot: bot, chatIDs: ids, logger: logger}, nil
}

// Alert sends text to every chat. Delivery stops at the first failure.
func (n *TelegramNotifier) Alert(ctx context.Context, text string) error {
	for _, id := range n.chatIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(id, text)
		msg.DisableWebPagePreview = true
		if _, err := n.bot.Send(msg); err != nil {
			n.logger.Warn("telegram alert failed", zap.Int64("chat_id", id), zap.Error(err))
			return fmt.Errorf("send telegram alert: %w", err)
		}
	}
	return nil
}

// New returns a Telegram notifier when a token and chats are configured, Nop otherwise.
func New(token string, chatIDs []string, logger *zap.Logger) (Notifier, error) {
	if token == "" || len(chatIDs) == 0 {
		return Nop{}, nil
	}
	return NewTelegramNotifier(token, chatIDs, logger)
}
