package handlers

import (
	"github.com/gin-gonic/gin"
)

// @Summary      Live event stream
// @Description  Upgrades to WebSocket and streams sensor_update, health_update,
// @Description  recommendations_update, connection_lost, status_update and
// @Description  maintenance_alert events. The current state is pushed on connect.
// @Tags         monitor
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	h.hub.ServeHTTP(c.Writer, c.Request)
}
