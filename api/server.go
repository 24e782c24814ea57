package api

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/wrenwatch/birdboard-BE/internal/event"
	"github.com/wrenwatch/birdboard-BE/internal/notification"
	"github.com/wrenwatch/birdboard-BE/internal/prefs"
	"github.com/wrenwatch/birdboard-BE/internal/relay"
	"github.com/wrenwatch/birdboard-BE/internal/token"
	"github.com/wrenwatch/birdboard-BE/internal/util"
)

type Server struct {
	router       *gin.Engine
	config       *util.Config
	tokenMaker   token.Maker
	notifService *notification.Service
	relayManager *relay.Manager
	prefsStore   prefs.Store
	eventSender  event.EventSender
}

// NewServer creates a new HTTP server and sets up routing.
func NewServer(config *util.Config, notifService *notification.Service, relayManager *relay.Manager, prefsStore prefs.Store, eventSender event.EventSender) (*Server, error) {
	// Create a new JWT token maker
	tokenMaker, err := token.NewJWTMaker(config.TokenSecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create token maker: %w", err)
	}
	log.Info().Msg("Token maker created successfully ✅")

	server := &Server{
		config:       config,
		tokenMaker:   tokenMaker,
		notifService: notifService,
		relayManager: relayManager,
		prefsStore:   prefsStore,
		eventSender:  eventSender,
	}

	server.setupRouter()
	return server, nil
}

// setupRouter configures the HTTP server routes.
func (server *Server) setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     server.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	v1 := router.Group("/v1")

	v1.POST("/tokens/verify", server.verifyAccessToken)

	// Notification center
	notificationGroup := v1.Group("/notifications")
	{
		notificationGroup.GET("", server.listNotifications)
		notificationGroup.GET("/unread/count", server.getUnreadCount)
		notificationGroup.GET("/stream", server.streamNotifications)
		notificationGroup.GET(":id", server.getNotification)
		notificationGroup.PATCH(":id/read", server.markNotificationRead)
		notificationGroup.PATCH("/read-all", server.markAllNotificationsRead)
		notificationGroup.DELETE(":id", server.deleteNotification)
	}

	// Calendar grid for the dashboard date picker
	v1.GET("/calendar", server.getCalendarGrid)

	// Search query parsing (query chips in the dashboard search box)
	v1.GET("/search/parse", server.parseSearchQuery)

	// Audio relay session lifecycle
	audioGroup := v1.Group("/audio/:sourceID")
	{
		audioGroup.POST("/start", server.startRelaySession)
		audioGroup.POST("/heartbeat", server.relayHeartbeat)
		audioGroup.POST("/stop", server.stopRelaySession)
		audioGroup.GET("/playlist", server.getRelayPlaylist)
	}

	// Per-user dashboard preferences
	prefsGroup := v1.Group("/users/me/preferences", authMiddleware(server.tokenMaker))
	{
		prefsGroup.GET("", server.getPreferences)
		prefsGroup.PUT("/sound", server.setSoundPreference)
		prefsGroup.PUT("/locale", server.setLocalePreference)
		prefsGroup.POST("/recent-searches", server.addRecentSearch)
	}

	server.router = router
	return router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}
