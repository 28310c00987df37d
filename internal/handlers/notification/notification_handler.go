// internal/handlers/notification/notification_handler.go
package notification

import (
	"net/http"

	"ptieasy-service/internal/domain/notification"
	"ptieasy-service/internal/pkg/response"
	service "ptieasy-service/internal/service/notification"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GetNotifications returns the feed, newest first
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	result := h.notificationService.List(c.Request.Context())
	response.Success(c, http.StatusOK, "notifications retrieved", result)
}

// GetUnreadCount gets the count of unread notifications
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	response.Success(c, http.StatusOK, "unread count retrieved", gin.H{
		"unread_count": h.notificationService.UnreadCount(c.Request.Context()),
	})
}

// GetSummary gets notification summary
func (h *NotificationHandler) GetSummary(c *gin.Context) {
	response.Success(c, http.StatusOK, "summary retrieved", h.notificationService.GetSummary(c.Request.Context()))
}

// MarkAsRead marks a notification as read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.notificationService.MarkRead(ctx, c.Param("id")); err != nil {
		response.Error(c, response.StatusFromError(err), "failed to mark as read", err)
		return
	}

	response.Success(c, http.StatusOK, "notification marked as read", gin.H{
		"unread_count": h.notificationService.UnreadCount(ctx),
	})
}

// MarkAllAsRead marks all notifications as read
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	h.notificationService.MarkAllRead(c.Request.Context())

	response.Success(c, http.StatusOK, "all notifications marked as read", gin.H{
		"unread_count": 0,
	})
}

// DeleteNotification removes a notification from the feed
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.notificationService.Remove(ctx, c.Param("id")); err != nil {
		response.Error(c, response.StatusFromError(err), "failed to delete notification", err)
		return
	}

	response.Success(c, http.StatusOK, "notification deleted", gin.H{
		"unread_count": h.notificationService.UnreadCount(ctx),
	})
}

// CreateNotification pushes a notification onto the feed (manager only)
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req notification.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.notificationService.Push(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, response.StatusFromError(err), "failed to create notification", err)
		return
	}

	response.Success(c, http.StatusCreated, "notification created", result)
}
