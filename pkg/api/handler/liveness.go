package handler

import (
	"net/http"

	"github.com/dskvich/atlas-telegram-bot/pkg/api/response"
	"github.com/dskvich/atlas-telegram-bot/pkg/domain"
)

type liveness struct {
	writer response.TextResponseWriter
}

func NewLiveness() *liveness {
	return &liveness{}
}

// Alive answers the hosting platform's port check unconditionally.
func (l *liveness) Alive(w http.ResponseWriter, _ *http.Request) {
	l.writer.WriteText(w, http.StatusOK, domain.LivenessMessage)
}
