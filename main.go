package main

import (
	"context"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wrenwatch/birdboard-BE/api"
	"github.com/wrenwatch/birdboard-BE/internal/event"
	"github.com/wrenwatch/birdboard-BE/internal/notification"
	"github.com/wrenwatch/birdboard-BE/internal/prefs"
	"github.com/wrenwatch/birdboard-BE/internal/relay"
	"github.com/wrenwatch/birdboard-BE/internal/stream"
	"github.com/wrenwatch/birdboard-BE/internal/util"
	"github.com/wrenwatch/birdboard-BE/internal/worker"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configurations
	config, err := util.LoadConfig("./app.env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config file 😣")
	}

	log.Info().Msg("configurations loaded successfully ✅")

	redisDb := redis.NewClient(&redis.Options{
		Addr:     config.RedisServerAddress,
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	if err = redisDb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis 😣")
	}
	log.Info().Msg("connected to redis ✅")

	redisOpt := asynq.RedisClientOpt{Addr: config.RedisServerAddress}
	taskDistributor := worker.NewTaskDistributor(redisOpt)

	go runTaskProcessor(redisOpt, config.PushWebhookURL)

	// Event broker fanning notifications out to dashboard SSE clients
	eventSender := event.NewSSEServer()
	go eventSender.Run()

	// Notification center
	notifService, err := notification.NewService(&notification.ServiceConfig{
		MaxNotifications: config.MaxNotifications,
		Debug:            config.Debug,
	}, eventSender, taskDistributor)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create notification service 😣")
	}
	defer notifService.Stop()
	log.Info().Msg("notification service created successfully ✅")

	// Upstream event stream (SSE push)
	streamClient := stream.NewClient(stream.ClientConfig{
		URL:    config.UpstreamStreamURL,
		APIKey: config.UpstreamAPIKey,
	})
	unsubscribe := streamClient.Subscribe(func(n notification.Notification) {
		notifService.Ingest([]notification.Notification{n})
	})
	defer unsubscribe()
	streamClient.Start(context.Background())
	defer streamClient.Stop()
	log.Info().Msg("upstream stream client started successfully ✅")

	// Upstream REST pull, feeding the same merge path
	puller := stream.NewPuller(config.UpstreamAPIURL, config.UpstreamAPIKey, config.NotificationPull, notifService)
	go puller.Run(context.Background())

	// Audio relay sessions
	relayManager, err := relay.NewManager(config.HLSBaseDir, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create relay manager 😣")
	}
	defer relayManager.Shutdown()
	log.Info().Msg("relay manager created successfully ✅")

	prefsStore := prefs.NewRedisStore(redisDb)

	runHTTPServer(&config, notifService, relayManager, prefsStore, eventSender)
}

func runTaskProcessor(redisOpt asynq.RedisClientOpt, webhookURL string) {
	processor := worker.NewRedisTaskProcessor(redisOpt, webhookURL)
	log.Info().Msg("task processor started ✅")

	if err := processor.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start task processor 😣")
	}
}

func runHTTPServer(config *util.Config, notifService *notification.Service, relayManager *relay.Manager, prefsStore prefs.Store, eventSender event.EventSender) {
	server, err := api.NewServer(config, notifService, relayManager, prefsStore, eventSender)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create HTTP server 😣")
	}

	err = server.Start(config.HTTPServerAddress)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start HTTP server 😣")
	}
}
