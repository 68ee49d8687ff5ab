package handler

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/atlas-telegram-bot/pkg/domain"
	"github.com/dskvich/atlas-telegram-bot/pkg/logger"
)

type showWelcome struct {
	client TelegramClient
}

func NewShowWelcome(client TelegramClient) *showWelcome {
	return &showWelcome{client: client}
}

func (*showWelcome) CanHandle(u *tgbotapi.Update) bool {
	return u.Message != nil && u.Message.IsCommand() && u.Message.Command() == "start"
}

func (s *showWelcome) Handle(ctx context.Context, u *tgbotapi.Update) {
	if err := s.client.SendResponse(ctx, replyTo(u.Message, domain.WelcomeMessage)); err != nil {
		slog.ErrorContext(ctx, "Sending welcome message failed", logger.Err(err))
	}
}
