package api

import (
	"net/http"

	"fintrack/alerts"

	"github.com/gin-gonic/gin"
)

// SchedulerHandler is the admin control surface for the batch scheduler.
type SchedulerHandler struct {
	scheduler       *alerts.Scheduler
	defaultInterval int
}

// NewSchedulerHandler creates the scheduler handler. defaultInterval is used
// when a start action omits intervalMinutes.
func NewSchedulerHandler(scheduler *alerts.Scheduler, defaultInterval int) *SchedulerHandler {
	return &SchedulerHandler{scheduler: scheduler, defaultInterval: defaultInterval}
}

// SchedulerActionRequest is the admin action payload.
type SchedulerActionRequest struct {
	Action          string `json:"action" binding:"required" example:"start"`
	IntervalMinutes int    `json:"intervalMinutes" example:"60"`
}

// GetStatus reports the scheduler state.
// @Summary Scheduler status
// @Tags scheduler
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/alerts/scheduler [get]
func (h *SchedulerHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": h.scheduler.GetStatus()})
}

// Control starts, stops or immediately runs the scheduler.
// @Summary Control the scheduler
// @Tags scheduler
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SchedulerActionRequest true "action payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/alerts/scheduler [post]
func (h *SchedulerHandler) Control(c *gin.Context) {
	var req SchedulerActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AlertError(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	switch req.Action {
	case "start":
		interval := req.IntervalMinutes
		if interval <= 0 {
			interval = h.defaultInterval
		}
		if err := h.scheduler.Start(interval); err != nil {
			AlertError(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "status": h.scheduler.GetStatus()})
	case "stop":
		h.scheduler.Stop()
		c.JSON(http.StatusOK, gin.H{"success": true, "status": h.scheduler.GetStatus()})
	case "runOnce":
		result := h.scheduler.RunOnce()
		c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
	default:
		AlertError(c, http.StatusBadRequest, "action must be start, stop or runOnce", nil)
	}
}
