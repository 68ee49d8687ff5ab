package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Handler interface {
	CanHandle(update *tgbotapi.Update) bool
	Handle(ctx context.Context, update *tgbotapi.Update)
}

// Registry dispatches an update to the first handler that accepts it.
type Registry struct {
	handlers []Handler
}

func NewRegistry(handlers ...Handler) *Registry {
	return &Registry{handlers: handlers}
}

func (r *Registry) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	for _, h := range r.handlers {
		if !h.CanHandle(update) {
			continue
		}

		name := handlerName(h)
		log := slog.With("handler", name)
		log.DebugContext(ctx, "Dispatching update")

		start := time.Now()
		h.Handle(ctx, update)

		log.InfoContext(ctx, "Update handled", "took", time.Since(start).Round(time.Millisecond))
		return
	}
	slog.WarnContext(ctx, "No handler accepts update")
}

// handlerName turns "*handler.showWelcome" into "showWelcome".
func handlerName(h Handler) string {
	name := strings.TrimPrefix(fmt.Sprintf("%T", h), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
