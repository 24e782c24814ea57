package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type setSoundPreferenceRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type setLocalePreferenceRequest struct {
	Locale string `json:"locale" binding:"required"`
}

type addRecentSearchRequest struct {
	Term string `json:"term" binding:"required"`
}

func (server *Server) getPreferences(c *gin.Context) {
	userID := authPayload(c).Subject

	preferences, err := server.prefsStore.Get(c, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, preferences)
}

func (server *Server) setSoundPreference(c *gin.Context) {
	userID := authPayload(c).Subject

	req := new(setSoundPreferenceRequest)
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	if err := server.prefsStore.SetSoundEnabled(c, userID, *req.Enabled); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "sound preference updated"})
}

func (server *Server) setLocalePreference(c *gin.Context) {
	userID := authPayload(c).Subject

	req := new(setLocalePreferenceRequest)
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	if err := server.prefsStore.SetLocale(c, userID, req.Locale); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "locale updated"})
}

func (server *Server) addRecentSearch(c *gin.Context) {
	userID := authPayload(c).Subject

	req := new(addRecentSearchRequest)
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	if err := server.prefsStore.AddRecentSearch(c, userID, req.Term); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "recent search recorded"})
}
