package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wrenwatch/birdboard-BE/internal/token"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// paginationParams reads limit/offset query parameters with sane bounds.
func paginationParams(c *gin.Context) (limit, offset int) {
	limit = defaultPageLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	if raw := c.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

// authPayload returns the token payload stored by authMiddleware.
func authPayload(c *gin.Context) *token.Payload {
	return c.MustGet(authorizationPayloadKey).(*token.Payload)
}
