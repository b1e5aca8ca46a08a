package channel

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bowerhall/parley/internal/logger"
)

type telegram struct {
	api    *tgbotapi.BotAPI
	handle Handler
}

func newTelegram(token string, handle Handler) (Channel, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &telegram{api: api, handle: handle}, nil
}

func (t *telegram) Name() string {
	return "telegram"
}

func (t *telegram) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := t.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil || update.Message.Text == "" {
				continue
			}

			go t.handleMessage(ctx, update.Message)
		}
	}
}

func (t *telegram) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := fmt.Sprintf("telegram:%d", msg.Chat.ID)
	logger.Info("message received", "channel", "telegram", "user", userID, "from", msg.From.UserName)

	response := t.handle(ctx, userID, msg.Text)

	reply := tgbotapi.NewMessage(msg.Chat.ID, response)
	reply.ReplyToMessageID = msg.MessageID

	if _, err := t.api.Send(reply); err != nil {
		logger.Error("telegram send failed", "error", err, "user", userID)
	}
}

func (t *telegram) Send(recipientID, message string) error {
	chatID, err := strconv.ParseInt(strings.TrimPrefix(recipientID, "telegram:"), 10, 64)
	if err != nil {
		return fmt.Errorf("bad telegram recipient %q: %w", recipientID, err)
	}

	_, err = t.api.Send(tgbotapi.NewMessage(chatID, message))
	if err != nil {
		logger.Error("telegram send failed", "error", err, "chatID", chatID)
	}

	return err
}
