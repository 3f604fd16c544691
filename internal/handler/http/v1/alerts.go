package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary List active alerts
// @Description Get active emergency alerts, most severe first. With lat and lng only alerts within radius meters (default 50000) are returned.
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Param lat query number false "Latitude"
// @Param lng query number false "Longitude"
// @Param radius query number false "Search radius in meters" default(50000)
// @Param type query string false "Alert type"
// @Success 200 {array} AlertResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts [get]
func (h *Handler) listAlerts(c *gin.Context) {
	log := h.logger.WithField("method", "listAlerts")
	var query AlertListQuery
	if !h.bindQuery(c, log, &query) {
		return
	}
	if (query.Latitude == nil) != (query.Longitude == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng must be given together"})
		return
	}

	alerts, err := h.alertService.ListNear(c.Request.Context(), QueryToAlertFilter(query))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToAlertResponses(alerts))
}

// @Summary Create an alert
// @Description Broadcast an emergency alert; residents who reported issues inside the area are notified
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param alert body CreateAlertRequest true "Alert"
// @Success 201 {object} AlertResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts [post]
func (h *Handler) createAlert(c *gin.Context) {
	identity, _ := currentIdentity(c)
	log := h.logger.WithField("method", "createAlert").WithField("user_id", identity.UserID)

	var input CreateAlertRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	alert := DTOToAlertModel(input, identity.UserID)
	if err := h.alertService.CreateAlert(c.Request.Context(), alert); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToAlertResponse(alert))
}

// @Summary Activate or deactivate an alert
// @Description Switch an alert on or off. Deactivating without end_time closes the alert now.
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Alert ID"
// @Param status body UpdateAlertStatusRequest true "New state"
// @Success 200 {object} AlertResponse
// @Failure 400 {object} map[string]string "Invalid alert ID, request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Alert not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts/{id}/status [put]
func (h *Handler) updateAlertStatus(c *gin.Context) {
	identity, _ := currentIdentity(c)
	log := h.logger.WithField("method", "updateAlertStatus").WithField("user_id", identity.UserID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert ID"})
		return
	}
	var input UpdateAlertStatusRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	alert, err := h.alertService.SetActive(c.Request.Context(), id, *input.IsActive, input.EndTime, identity.UserID)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToAlertResponse(alert))
}
