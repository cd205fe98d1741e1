package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeEmailDeliver = "email:deliver"
)

// EmailDeliverPayload contains one outbound email ready to send.
type EmailDeliverPayload struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
	TextBody string `json:"text_body"`
}

func NewEmailDeliverTask(payload EmailDeliverPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	// Account emails carry reset links with a 1h TTL, so they jump the
	// default queue.
	return asynq.NewTask(TypeEmailDeliver, data, asynq.Queue("critical"), asynq.MaxRetry(5)), nil
}
