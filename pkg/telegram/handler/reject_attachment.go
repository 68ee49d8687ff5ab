package handler

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/atlas-telegram-bot/pkg/domain"
	"github.com/dskvich/atlas-telegram-bot/pkg/logger"
)

type rejectAttachment struct {
	client TelegramClient
}

func NewRejectAttachment(client TelegramClient) *rejectAttachment {
	return &rejectAttachment{client: client}
}

func (*rejectAttachment) CanHandle(u *tgbotapi.Update) bool {
	return u.Message != nil && (len(u.Message.Photo) > 0 || u.Message.Document != nil)
}

func (r *rejectAttachment) Handle(ctx context.Context, u *tgbotapi.Update) {
	slog.InfoContext(ctx, "Rejecting attachment",
		"photo", len(u.Message.Photo) > 0,
		"document", u.Message.Document != nil,
	)

	if err := r.client.SendResponse(ctx, replyTo(u.Message, domain.AttachmentRejectedMessage)); err != nil {
		slog.ErrorContext(ctx, "Sending rejection failed", logger.Err(err))
	}
}
