package handlers

import (
	"net/http"

	"github.com/MosinFAM/connecthub/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListNotifications(c *gin.Context) {
	user := currentUser(c)
	notifications, err := h.Store.GetNotifications(user.ID)
	if err != nil {
		respondStorageError(c, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead flips is_read on a notification owned by the caller.
// A foreign or absent notification is a 404 either way.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	user := currentUser(c)
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Store.MarkNotificationRead(user.ID, id); err != nil {
		respondStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read."})
}
