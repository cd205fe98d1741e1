package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/novacreations/nova-hr/internal/mail"
)

// QueueMailer satisfies mail.Mailer by enqueueing delivery onto the
// background worker, keeping SMTP latency off the request path.
type QueueMailer struct {
	client *asynq.Client
	logger *slog.Logger
}

func NewQueueMailer(client *asynq.Client, logger *slog.Logger) *QueueMailer {
	return &QueueMailer{client: client, logger: logger}
}

func (m *QueueMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	task, err := NewEmailDeliverTask(EmailDeliverPayload{
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
	if err != nil {
		return fmt.Errorf("building email task: %w", err)
	}

	info, err := m.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueueing email task: %w", err)
	}

	m.logger.Debug("email enqueued", "to", to, "task_id", info.ID, "queue", info.Queue)
	return nil
}

func (m *QueueMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	subject, html, text := mail.PasswordResetEmail(resetURL)
	return m.Send(ctx, to, subject, html, text)
}
