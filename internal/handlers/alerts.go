package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const errListAlerts = "failed to load alerts"

// @Summary      List unacknowledged alerts
// @Tags         alerts
// @Security     ApiKeyAuth
// @Produce      json
// @Param        limit  query     int  false  "max alerts to return (default 10)"
// @Success      200    {object}  map[string]interface{}  "alerts, count"
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/alerts [get]
func (h *Handler) listAlerts(c *gin.Context) {
	limit := queryInt(c, "limit", 0)

	alerts, err := h.services.Unacknowledged(c.Request.Context(), limit)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListAlerts, "alerts_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}

// @Summary      Acknowledge an alert
// @Tags         alerts
// @Security     ApiKeyAuth
// @Produce      json
// @Param        id   path      string  true  "alert id"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/alerts/{id}/acknowledge [post]
func (h *Handler) acknowledgeAlert(c *gin.Context) {
	id := c.Param("id")

	ok, err := h.services.Acknowledge(c.Request.Context(), id)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to acknowledge alert", "alert_ack_failed", err, "id", id)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "acknowledged", "id": id})
}
