package handlers

import (
	"net/http"

	"dentalclinic/internal/mediator"
	"dentalclinic/internal/models"
	"dentalclinic/internal/services"

	"github.com/gin-gonic/gin"
)

// NotificationHandler hộp thư thông báo của người đang đăng nhập
type NotificationHandler struct {
	mediator *mediator.Mediator
}

func NewNotificationHandler(m *mediator.Mediator) *NotificationHandler {
	return &NotificationHandler{mediator: m}
}

// List GET /api/v1/notifications?unread_only=true&page=1&limit=20
func (h *NotificationHandler) List(c *gin.Context) {
	var q services.ListNotificationsQuery
	if !bindQuery(c, &q) {
		return
	}
	list[services.ListNotificationsQuery, models.Notification](c, h.mediator, q)
}

// CountUnread GET /api/v1/notifications/unread-count
func (h *NotificationHandler) CountUnread(c *gin.Context) {
	dispatch[services.CountUnreadNotificationsQuery, *services.UnreadCount](c, h.mediator, services.CountUnreadNotificationsQuery{}, http.StatusOK)
}

// MarkRead PATCH /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	command(c, h.mediator, services.MarkNotificationReadCommand{ID: id}, http.StatusOK)
}

// MarkAllRead PATCH /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	command(c, h.mediator, services.MarkAllNotificationsReadCommand{}, http.StatusOK)
}

// Delete DELETE /api/v1/notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	command(c, h.mediator, services.DeleteNotificationCommand{ID: id}, http.StatusOK)
}

func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	n := rg.Group("/notifications")
	{
		n.GET("", h.List)
		n.GET("/unread-count", h.CountUnread)
		n.PATCH("/read-all", h.MarkAllRead)
		n.PATCH("/:id/read", h.MarkRead)
		n.DELETE("/:id", h.Delete)
	}
}
