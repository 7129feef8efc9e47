package handler

import (
	"net/http"
	"strconv"

	"traydock/logger"

	"github.com/gin-gonic/gin"
)

// DebugHandler handles debug and logging endpoints
type DebugHandler struct {
	eventLogger    *logger.EventLogger
	logFileManager *logger.LogFileManager
}

// RegisterDebugHandler registers debug endpoints. lfm may be nil when file
// logging is off.
func RegisterDebugHandler(router *gin.Engine, el *logger.EventLogger, lfm *logger.LogFileManager) {
	h := &DebugHandler{
		eventLogger:    el,
		logFileManager: lfm,
	}

	debug := router.Group("/debug")
	{
		debug.GET("/events/recent", h.GetRecentEvents)
		debug.GET("/logs/stats", h.GetLogStats)
	}
}

// GetRecentEvents returns recent controller events from the memory buffer
// GET /debug/events/recent?limit=50
func (h *DebugHandler) GetRecentEvents(c *gin.Context) {
	limit := 50 // default
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	events := h.eventLogger.GetRecentEvents(limit)

	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// GetLogStats returns log file statistics
// GET /debug/logs/stats
func (h *DebugHandler) GetLogStats(c *gin.Context) {
	if h.logFileManager == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "file_logging_disabled",
			"message": "No log directory configured",
		})
		return
	}
	c.JSON(http.StatusOK, h.logFileManager.GetStats())
}
