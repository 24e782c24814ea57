package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wrenwatch/birdboard-BE/internal/search"
)

// parseSearchQuery turns a raw search-box string into the structured
// filters the dashboard renders as query chips.
func (server *Server) parseSearchQuery(c *gin.Context) {
	c.JSON(http.StatusOK, search.Parse(c.Query("q")))
}
