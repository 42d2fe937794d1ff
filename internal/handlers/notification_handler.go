package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hyvacanteen/canteen-coupon-backend/internal/database"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/services"
)

// NotificationHandler handles single-notification actions
type NotificationHandler struct {
	notificationRepo *database.NotificationRepository
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationRepo *database.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepo: notificationRepo}
}

// MarkRead handles POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid notification id")
		return
	}

	if err := h.notificationRepo.MarkRead(notificationID); err != nil {
		if errors.Is(err, database.ErrNotificationNotFound) {
			respondServiceError(c, services.NotFoundError("Notification not found."))
			return
		}
		respondServiceError(c, services.TransientError("Failed to update notification.", err))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Notification marked as read."})
}
