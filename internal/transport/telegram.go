package transport

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nagaraj556534/QuotexTrading/internal/observ"
	"github.com/nagaraj556534/QuotexTrading/internal/signal"
)

// TelegramConfig configures the live group subscription.
type TelegramConfig struct {
	Token            string
	ChatID           int64 // 0 accepts messages from any chat the bot sees
	UpdateTimeoutS   int   // long-poll timeout handed to the Bot API
	MaxChannelBuffer int
}

// TelegramSource subscribes to a Telegram chat via Bot API long polling and
// feeds each message's lines through the block parser. One logical message
// may span multiple lines; lines are fed in message order.
type TelegramSource struct {
	cfg    TelegramConfig
	bot    *tgbotapi.BotAPI
	parser *signal.BlockParser
	seen   seenKeys
}

func NewTelegramSource(cfg TelegramConfig) (*TelegramSource, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}
	if cfg.UpdateTimeoutS <= 0 {
		cfg.UpdateTimeoutS = 30
	}
	if cfg.MaxChannelBuffer <= 0 {
		cfg.MaxChannelBuffer = 64
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram login: %w", err)
	}
	return &TelegramSource{
		cfg:    cfg,
		bot:    bot,
		parser: signal.NewBlockParser(),
		seen:   seenKeys{},
	}, nil
}

func (s *TelegramSource) Start(ctx context.Context) (<-chan signal.Signal, error) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = s.cfg.UpdateTimeoutS
	updates := s.bot.GetUpdatesChan(u)

	observ.Log("telegram_listening", map[string]any{
		"bot":     s.bot.Self.UserName,
		"chat_id": s.cfg.ChatID,
	})

	out := make(chan signal.Signal, s.cfg.MaxChannelBuffer)
	go func() {
		defer close(out)
		defer s.bot.StopReceivingUpdates()
		for {
			select {
			case <-ctx.Done():
				return
			case upd, ok := <-updates:
				if !ok {
					return
				}
				if !s.handleUpdate(ctx, upd, out) {
					return
				}
			}
		}
	}()
	return out, nil
}

// handleUpdate returns false when the context was cancelled mid-message.
func (s *TelegramSource) handleUpdate(ctx context.Context, upd tgbotapi.Update, out chan<- signal.Signal) bool {
	msg := upd.Message
	if msg == nil || msg.Text == "" {
		return true
	}
	if s.cfg.ChatID != 0 && (msg.Chat == nil || msg.Chat.ID != s.cfg.ChatID) {
		return true
	}
	for _, line := range strings.Split(msg.Text, "\n") {
		if sig := s.parser.Feed(line); s.seen.admit(sig) {
			select {
			case out <- *sig:
			case <-ctx.Done():
				return false
			}
		}
	}
	return true
}
