package response

import (
	"log/slog"
	"net/http"

	"github.com/dskvich/atlas-telegram-bot/pkg/logger"
)

type TextResponseWriter struct{}

func (TextResponseWriter) WriteText(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Error("writing text response", logger.Err(err))
	}
}
