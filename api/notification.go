package api

import (
	"errors"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/wrenwatch/birdboard-BE/internal/notification"
)

type notificationResponse struct {
	notification.Notification
	// RelativeTime is a display string like "4 minutes ago".
	RelativeTime string `json:"relative_time"`
}

type listNotificationsResponse struct {
	Notifications []notificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
}

func toNotificationResponse(n notification.Notification) notificationResponse {
	return notificationResponse{
		Notification: n,
		RelativeTime: humanize.Time(n.Timestamp),
	}
}

func (server *Server) listNotifications(c *gin.Context) {
	limit, offset := paginationParams(c)

	filter := &notification.FilterOptions{
		Limit:  limit,
		Offset: offset,
	}

	if c.Query("status") == "unread" {
		filter.Unread = true
	}
	if t := c.Query("type"); t != "" {
		filter.Types = []notification.Type{notification.Type(t)}
	}
	if p := c.Query("priority"); p != "" {
		filter.Priorities = []notification.Priority{notification.Priority(p)}
	}
	filter.Component = c.Query("component")

	notifications := server.notifService.List(filter)

	resp := listNotificationsResponse{
		Notifications: make([]notificationResponse, 0, len(notifications)),
		Total:         len(notifications),
	}
	for _, n := range notifications {
		resp.Notifications = append(resp.Notifications, toNotificationResponse(n))
	}

	c.JSON(http.StatusOK, resp)
}

func (server *Server) getNotification(c *gin.Context) {
	id := c.Param("id")

	n, err := server.notifService.Get(id)
	if err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, toNotificationResponse(n))
}

func (server *Server) markNotificationRead(c *gin.Context) {
	id := c.Param("id")

	if err := server.notifService.MarkRead(id); err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}

func (server *Server) markAllNotificationsRead(c *gin.Context) {
	server.notifService.MarkAllRead()
	c.JSON(http.StatusOK, gin.H{"message": "all notifications marked as read"})
}

func (server *Server) deleteNotification(c *gin.Context) {
	server.notifService.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (server *Server) getUnreadCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": server.notifService.UnreadCount()})
}
