package handler

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/atlas-telegram-bot/pkg/domain"
)

type TelegramClient interface {
	SendResponse(ctx context.Context, response *domain.Response) error
	StartTyping(ctx context.Context, chatID int64)
}

type Generator interface {
	Generate(ctx context.Context, prompt string, maxLength int) (string, error)
}

type PromptBuilder interface {
	Build(userText string) string
}

// replyTo addresses a reply to the chat of msg. Group replies quote the
// original message, private ones do not.
func replyTo(msg *tgbotapi.Message, text string) *domain.Response {
	response := &domain.Response{
		ChatID: msg.Chat.ID,
		Text:   text,
	}
	if !msg.Chat.IsPrivate() {
		response.ReplyToMessageID = msg.MessageID
	}
	return response
}
