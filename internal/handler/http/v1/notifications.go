package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary List my notifications
// @Description Get notifications of the current user with the unread count
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread notifications"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Number of items per page" default(10)
// @Success 200 {object} NotificationListResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /notifications [get]
func (h *Handler) listNotifications(c *gin.Context) {
	identity, _ := currentIdentity(c)
	log := h.logger.WithField("method", "listNotifications").WithField("user_id", identity.UserID)
	page, pageSize := pageParams(c)
	unreadOnly := c.Query("unread") == "true"

	result, err := h.notificationService.List(c.Request.Context(), identity.UserID, unreadOnly, page, pageSize)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToNotificationListResponse(result))
}

// @Summary Mark notifications as read
// @Description Mark the listed notifications, or all of them, as read
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param selection body NotificationSelectionRequest true "Notification IDs or all"
// @Success 200 {object} AffectedResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /notifications/read [put]
func (h *Handler) markNotificationsRead(c *gin.Context) {
	identity, _ := currentIdentity(c)
	log := h.logger.WithField("method", "markNotificationsRead").WithField("user_id", identity.UserID)

	var input NotificationSelectionRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	n, err := h.notificationService.MarkRead(c.Request.Context(), identity.UserID, parseIDs(input.IDs), input.All)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, AffectedResponse{Affected: n})
}

// @Summary Delete notifications
// @Description Delete the listed notifications, or all of them
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param selection body NotificationSelectionRequest true "Notification IDs or all"
// @Success 200 {object} AffectedResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /notifications [delete]
func (h *Handler) deleteNotifications(c *gin.Context) {
	identity, _ := currentIdentity(c)
	log := h.logger.WithField("method", "deleteNotifications").WithField("user_id", identity.UserID)

	var input NotificationSelectionRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	n, err := h.notificationService.Delete(c.Request.Context(), identity.UserID, parseIDs(input.IDs), input.All)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, AffectedResponse{Affected: n})
}

// @Summary Send a system notification
// @Description Create a notification for a user. Requires API key.
// @Tags Notifications
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param notification body CreateNotificationRequest true "Notification"
// @Success 201 {object} NotificationResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /notifications [post]
func (h *Handler) createNotification(c *gin.Context) {
	var input CreateNotificationRequest
	log := h.logger.WithField("method", "createNotification")
	if !h.bindJSON(c, log, &input) {
		return
	}

	model := DTOToNotificationModel(input)
	if err := h.notificationService.Create(c.Request.Context(), model); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToNotificationResponse(model))
}
