package handlers

import (
	"errors"
	"net/http"

	"motor_monitoring/internal/service"

	"github.com/gin-gonic/gin"
)

const errIngestFailed = "failed to process sensor data"

// @Summary      Ingest a sensor reading
// @Description  Accepts the ESP module's flat VAL1-VAL12 payload. Zero or
// @Description  empty numeric values mean "no reading". Individual malformed
// @Description  fields are dropped, not rejected.
// @Tags         ingest
// @Accept       json
// @Produce      json
// @Param        payload  body      map[string]interface{}  true  "flat sensor payload"
// @Success      200      {object}  map[string]interface{}  "status, data"
// @Failure      400      {object}  map[string]string
// @Router       /send-data [post]
func (h *Handler) sendData(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, "invalid body: "+err.Error(), "ingest_bad_body", err)
		return
	}

	snap, err := h.services.Ingest(c.Request.Context(), payload)
	if err != nil {
		if errors.Is(err, service.ErrEmptyPayload) {
			h.logAndJSONError(c, http.StatusBadRequest, "empty payload", "ingest_empty", err)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errIngestFailed, "ingest_failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": snap})
}
