package worker

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"resty.dev/v3"
)

/*
This file contains the code that picks tasks up from the Redis queue and processes them.
*/

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

type RedisTaskProcessor struct {
	server     *asynq.Server
	webhookURL string
	httpClient *resty.Client
}

func NewRedisTaskProcessor(redisOpt asynq.RedisClientOpt, webhookURL string) *RedisTaskProcessor {
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Queues: map[string]int{
				QueueCritical: 10,
				QueueDefault:  5,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("type", task.Type()).
					Bytes("payload", task.Payload()).Msg("process task failed")
			}),
			Logger: NewLogger(),
		},
	)

	return &RedisTaskProcessor{
		server:     server,
		webhookURL: webhookURL,
		httpClient: resty.New(),
	}
}

// Start registers the task handlers for the mux, attaches the mux to the asynq server, and starts the server.
func (processor *RedisTaskProcessor) Start() error {
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskDispatchPushAlert, processor.ProcessTaskDispatchPushAlert)

	return processor.server.Start(mux)
}

// Shutdown stops the asynq server gracefully.
func (processor *RedisTaskProcessor) Shutdown() {
	processor.server.Shutdown()
}
