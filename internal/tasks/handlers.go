package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/novacreations/nova-hr/internal/mail"
)

type Handler struct {
	logger *slog.Logger
	mailer mail.Mailer
}

func NewHandler(logger *slog.Logger, mailer mail.Mailer) *Handler {
	return &Handler{
		logger: logger,
		mailer: mailer,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeEmailDeliver, h.HandleEmailDeliver)
}

func (h *Handler) HandleEmailDeliver(ctx context.Context, t *asynq.Task) error {
	var payload EmailDeliverPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	h.logger.Info("delivering email", "to", payload.To, "subject", payload.Subject)

	if err := h.mailer.Send(ctx, payload.To, payload.Subject, payload.HTMLBody, payload.TextBody); err != nil {
		h.logger.Error("email delivery failed", "to", payload.To, "error", err)
		return err
	}
	return nil
}
