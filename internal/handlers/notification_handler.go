package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pixshare/backend/internal/middleware"
	"github.com/pixshare/backend/internal/services"
)

const notificationListCap = 100

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
}

// GetNotifications returns the caller's notifications newest first, each
// carrying a computed is_new flag
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)

	notifications, err := h.notificationService.ListForRecipient(c.Request().Context(), currentUserID, notificationListCap)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch notifications")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "notifications": notifications})
}
