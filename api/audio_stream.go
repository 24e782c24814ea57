package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wrenwatch/birdboard-BE/internal/relay"
)

type relaySessionResponse struct {
	ClientID     string `json:"client_id"`
	PlaylistPath string `json:"playlist_path"`
}

type relayClientRequest struct {
	ClientID string `json:"client_id" binding:"required"`
}

// startRelaySession creates or joins the relay session for an audio source
// and returns the client ID the caller must heartbeat with.
func (server *Server) startRelaySession(c *gin.Context) {
	sourceID := c.Param("sourceID")

	clientID, playlistPath := server.relayManager.Start(sourceID)
	c.JSON(http.StatusOK, relaySessionResponse{
		ClientID:     clientID,
		PlaylistPath: playlistPath,
	})
}

func (server *Server) relayHeartbeat(c *gin.Context) {
	sourceID := c.Param("sourceID")

	req := new(relayClientRequest)
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	if err := server.relayManager.Heartbeat(sourceID, req.ClientID); err != nil {
		if errors.Is(err, relay.ErrSessionNotFound) || errors.Is(err, relay.ErrClientNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "heartbeat accepted"})
}

// stopRelaySession leaves the session. Stopping twice is fine: the janitor
// and an explicit stop may race.
func (server *Server) stopRelaySession(c *gin.Context) {
	sourceID := c.Param("sourceID")

	req := new(relayClientRequest)
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	server.relayManager.Stop(sourceID, req.ClientID)
	c.JSON(http.StatusOK, gin.H{"message": "session stopped"})
}

// getRelayPlaylist reports where the segmented-media playlist for an active
// session lives. Segment production belongs to the upstream relay process.
func (server *Server) getRelayPlaylist(c *gin.Context) {
	sourceID := c.Param("sourceID")

	playlistPath, err := server.relayManager.PlaylistPath(sourceID)
	if err != nil {
		c.JSON(http.StatusNotFound, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"playlist_path": playlistPath})
}
