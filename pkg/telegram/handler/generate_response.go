package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/dskvich/atlas-telegram-bot/pkg/domain"
	"github.com/dskvich/atlas-telegram-bot/pkg/logger"
)

type generateResponse struct {
	client        TelegramClient
	generator     Generator
	promptBuilder PromptBuilder
	maxLength     int
}

func NewGenerateResponse(
	client TelegramClient,
	generator Generator,
	promptBuilder PromptBuilder,
	maxLength int,
) *generateResponse {
	return &generateResponse{
		client:        client,
		generator:     generator,
		promptBuilder: promptBuilder,
		maxLength:     maxLength,
	}
}

func (*generateResponse) CanHandle(u *tgbotapi.Update) bool {
	return u.Message != nil
}

func (g *generateResponse) Handle(ctx context.Context, u *tgbotapi.Update) {
	msg := u.Message

	if err := g.respond(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Generating response failed", logger.Err(err))

		if err := g.client.SendResponse(ctx, replyTo(msg, fmt.Sprintf(domain.ErrorReplyFormat, err))); err != nil {
			slog.ErrorContext(ctx, "Sending error reply failed", logger.Err(err))
		}
	}
}

func (g *generateResponse) respond(ctx context.Context, msg *tgbotapi.Message) error {
	prompt := g.promptBuilder.Build(lo.CoalesceOrEmpty(msg.Text, msg.Caption))

	g.client.StartTyping(ctx, msg.Chat.ID)

	slog.InfoContext(ctx, "Calling generator", "promptLength", len([]rune(prompt)), "maxLength", g.maxLength)

	text, err := g.generator.Generate(ctx, prompt, g.maxLength)
	if err != nil {
		return err
	}

	chunks := SplitMessage(strings.TrimSpace(text), MaxMessageLength)
	for _, chunk := range chunks {
		if err := g.client.SendResponse(ctx, replyTo(msg, chunk)); err != nil {
			return err
		}
	}

	slog.InfoContext(ctx, "Response sent", "chunks", len(chunks))
	return nil
}
