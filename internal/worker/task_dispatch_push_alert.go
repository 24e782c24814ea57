package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"github.com/wrenwatch/birdboard-BE/internal/notification"
)

// PayloadDispatchPushAlert contains all data of the task that we want to store in Redis.
type PayloadDispatchPushAlert struct {
	NotificationID string    `json:"notification_id"`
	Type           string    `json:"type"`
	Priority       string    `json:"priority"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Component      string    `json:"component,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

func (distributor *RedisTaskDistributor) DistributeTaskDispatchPushAlert(
	ctx context.Context,
	payload *PayloadDispatchPushAlert,
	opts ...asynq.Option,
) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(TaskDispatchPushAlert, jsonPayload, opts...)
	info, err := distributor.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Info().Str("type", task.Type()).Str("notification_id", payload.NotificationID).
		Str("queue", info.Queue).Int("max_retry", info.MaxRetry).Msg("task enqueued")

	return nil
}

// DispatchPushAlert implements notification.PushDispatcher by queueing a
// push-alert task on the critical queue.
func (distributor *RedisTaskDistributor) DispatchPushAlert(ctx context.Context, n notification.Notification) error {
	return distributor.DistributeTaskDispatchPushAlert(ctx, &PayloadDispatchPushAlert{
		NotificationID: n.ID,
		Type:           string(n.Type),
		Priority:       string(n.Priority),
		Title:          n.Title,
		Message:        n.Message,
		Component:      n.Component,
		Timestamp:      n.Timestamp,
	}, asynq.Queue(QueueCritical), asynq.MaxRetry(5))
}

func (processor *RedisTaskProcessor) ProcessTaskDispatchPushAlert(
	ctx context.Context,
	task *asynq.Task,
) error {
	var payload PayloadDispatchPushAlert
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	if processor.webhookURL == "" {
		log.Debug().Str("notification_id", payload.NotificationID).Msg("no push webhook configured, dropping alert")
		return nil
	}

	res, err := processor.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(&payload).
		Post(processor.webhookURL)
	if err != nil {
		return fmt.Errorf("failed to deliver push alert: %w", err)
	}
	if !res.IsSuccess() {
		return fmt.Errorf("push webhook returned status %d", res.StatusCode())
	}

	log.Info().Str("type", task.Type()).Str("notification_id", payload.NotificationID).Msg("task processed")

	return nil
}
