package worker

import (
	"context"

	"github.com/hibiken/asynq"

	"github.com/wrenwatch/birdboard-BE/internal/notification"
)

const (
	TaskDispatchPushAlert = "notification:push_alert"
)

/*
This file contains the code to create tasks and distribute them to the Redis queue.
*/

type TaskDistributor interface {
	DistributeTaskDispatchPushAlert(ctx context.Context, payload *PayloadDispatchPushAlert, opts ...asynq.Option) error
	// DispatchPushAlert satisfies notification.PushDispatcher.
	DispatchPushAlert(ctx context.Context, n notification.Notification) error
}

type RedisTaskDistributor struct {
	client *asynq.Client // client sends tasks to redis queue.
}

func NewTaskDistributor(redisOpt asynq.RedisClientOpt) TaskDistributor {
	client := asynq.NewClient(redisOpt)

	return &RedisTaskDistributor{
		client: client,
	}
}
