package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, _, _, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

func (m *fakeMailer) SendPasswordReset(ctx context.Context, to, _ string) error {
	return m.Send(ctx, to, "", "", "")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleEmailDeliver(t *testing.T) {
	t.Run("delivers the payload", func(t *testing.T) {
		mailer := &fakeMailer{}
		handler := NewHandler(testLogger(), mailer)

		payload, err := json.Marshal(EmailDeliverPayload{
			To:       "user@example.com",
			Subject:  "Hello",
			TextBody: "body",
		})
		require.NoError(t, err)

		err = handler.HandleEmailDeliver(context.Background(), asynq.NewTask(TypeEmailDeliver, payload))
		require.NoError(t, err)
		assert.Equal(t, []string{"user@example.com"}, mailer.sent)
	})

	t.Run("rejects invalid payload", func(t *testing.T) {
		handler := NewHandler(testLogger(), &fakeMailer{})

		err := handler.HandleEmailDeliver(context.Background(), asynq.NewTask(TypeEmailDeliver, []byte("invalid json")))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unmarshal payload")
	})

	t.Run("propagates delivery failure for retry", func(t *testing.T) {
		mailer := &fakeMailer{err: errors.New("smtp down")}
		handler := NewHandler(testLogger(), mailer)

		payload, err := json.Marshal(EmailDeliverPayload{To: "user@example.com"})
		require.NoError(t, err)

		err = handler.HandleEmailDeliver(context.Background(), asynq.NewTask(TypeEmailDeliver, payload))
		assert.Error(t, err)
	})
}

func TestNewEmailDeliverTask(t *testing.T) {
	task, err := NewEmailDeliverTask(EmailDeliverPayload{To: "user@example.com", Subject: "s"})
	require.NoError(t, err)
	assert.Equal(t, TypeEmailDeliver, task.Type())

	var decoded EmailDeliverPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	assert.Equal(t, "user@example.com", decoded.To)
}
