package workers

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/atlas-telegram-bot/pkg/domain"
	"github.com/dskvich/atlas-telegram-bot/pkg/logger"
)

type Handler interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update)
}

type Authenticator interface {
	IsAuthorized(userID int64) bool
}

type TelegramClient interface {
	GetUpdates() tgbotapi.UpdatesChannel
	StopUpdates()
	SendResponse(ctx context.Context, response *domain.Response) error
}

type telegramUpdateListener struct {
	client        TelegramClient
	authenticator Authenticator
	handler       Handler
}

func NewTelegramUpdateListener(
	client TelegramClient,
	authenticator Authenticator,
	handler Handler,
) *telegramUpdateListener {
	return &telegramUpdateListener{
		client:        client,
		authenticator: authenticator,
		handler:       handler,
	}
}

func (t *telegramUpdateListener) Name() string { return "telegram_listener_worker" }

// Start handles updates one at a time in the order they were received.
func (t *telegramUpdateListener) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", t.Name())
	defer slog.Info("Worker stopped", "name", t.Name())

	updates := t.client.GetUpdates()

	for {
		select {
		case <-ctx.Done():
			t.client.StopUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.processUpdate(ctx, &update)
		}
	}
}

func (t *telegramUpdateListener) processUpdate(ctx context.Context, update *tgbotapi.Update) {
	ctx = logger.ContextWithUpdateID(ctx, update.UpdateID)

	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Handling update panicked", "panic", r)
		}
	}()

	if update.Message == nil {
		slog.WarnContext(ctx, "Ignoring update without message")
		return
	}

	msg := update.Message
	var userID int64
	if msg.From != nil {
		userID = msg.From.ID
	}

	slog.InfoContext(ctx, "Processing update", "chatID", msg.Chat.ID, "userID", userID)

	if !t.authenticator.IsAuthorized(userID) {
		slog.WarnContext(ctx, "Unauthorized access attempt", "userID", userID)
		if err := t.client.SendResponse(ctx, &domain.Response{
			ChatID: msg.Chat.ID,
			Text:   domain.NotAuthorizedMessage,
		}); err != nil {
			slog.ErrorContext(ctx, "Sending unauthorized reply failed", logger.Err(err))
		}
		return
	}

	t.handler.HandleUpdate(ctx, update)
}
