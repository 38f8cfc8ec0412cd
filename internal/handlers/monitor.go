package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const errLoadHistory = "failed to load history"

// @Summary      Current live state
// @Description  Latest sensor snapshot, device connectivity and health.
// @Tags         monitor
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200  {object}  service.Overview
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/monitor/current [get]
func (h *Handler) currentState(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Current())
}

// @Summary      Health breakdown
// @Description  Sub-scores, issues and the weighted overall score from the
// @Description  latest analysis cycle.
// @Tags         monitor
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200  {object}  motor_monitoring.HealthBreakdown
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/monitor/health [get]
func (h *Handler) healthDetails(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Health())
}

// @Summary      Maintenance recommendations
// @Tags         monitor
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200  {array}   motor_monitoring.Recommendation
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/monitor/recommendations [get]
func (h *Handler) recommendations(c *gin.Context) {
	recs := h.services.Recommendations()
	c.JSON(http.StatusOK, gin.H{"recommendations": recs, "count": len(recs)})
}

// @Summary      Historical readings
// @Tags         monitor
// @Security     ApiKeyAuth
// @Produce      json
// @Param        hours  query     int  false  "trailing window in hours (default 24)"
// @Success      200    {object}  map[string]interface{}  "readings, count"
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/monitor/history [get]
func (h *Handler) history(c *gin.Context) {
	hours := queryInt(c, "hours", 0)

	rows, err := h.services.History.Recent(c.Request.Context(), hours)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadHistory, "history_load_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"readings": rows, "count": len(rows)})
}

// @Summary      Export history as CSV
// @Tags         monitor
// @Security     ApiKeyAuth
// @Produce      text/csv
// @Param        hours  query  int  false  "trailing window in hours (default 24)"
// @Success      200    {string}  string  "CSV payload"
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/monitor/history/export [get]
func (h *Handler) exportHistory(c *gin.Context) {
	hours := queryInt(c, "hours", 0)

	filename := "motor_history_" + time.Now().UTC().Format("20060102_150405") + ".csv"
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.services.ExportCSV(c.Request.Context(), c.Writer, hours); err != nil {
		// headers may already be out; log and close
		if h.log != nil {
			h.log.Errorw("history_export_failed", "err", err)
		}
		c.Status(http.StatusInternalServerError)
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	s := c.Query(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
