package notification

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupath-api/services"
	"github.com/sahilchouksey/edupath-api/utils/middleware"
	"github.com/sahilchouksey/edupath-api/utils/response"
)

// NotificationHandler handles notification-related API endpoints
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GetNotifications handles GET /api/v1/notifications
func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	return response.Success(c, fiber.Map{
		"notifications": h.notificationService.GetNotificationsByUser(userID),
		"unread_count":  h.notificationService.GetUnreadCount(userID),
	})
}

// ToggleNotification handles POST /api/v1/notifications/:id/toggle
func (h *NotificationHandler) ToggleNotification(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	n, err := h.notificationService.Toggle(userID, c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			return response.NotFound(c, "Notification not found")
		}
		return response.InternalServerError(c, "Failed to update notification")
	}

	return response.Success(c, n)
}

// MarkAllAsRead handles POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	updated := h.notificationService.MarkAllAsRead(userID)
	return response.SuccessWithMessage(c, "All notifications marked as read", fiber.Map{
		"updated": updated,
	})
}
