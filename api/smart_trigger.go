package api

import (
	"net/http"

	"fintrack/alerts"
	"fintrack/middleware"

	"github.com/gin-gonic/gin"
)

// SmartTriggerHandler exposes the per-user cooldown gate to event sources
// like the transaction form.
type SmartTriggerHandler struct {
	trigger *alerts.SmartTrigger
}

// NewSmartTriggerHandler creates the smart trigger handler.
func NewSmartTriggerHandler(trigger *alerts.SmartTrigger) *SmartTriggerHandler {
	return &SmartTriggerHandler{trigger: trigger}
}

// SmartTriggerRequest names the event that fired the trigger. The source is
// logged through the stats only; it does not change behavior.
type SmartTriggerRequest struct {
	Source string `json:"source" example:"transaction-created"`
}

// Fire attempts an evaluation for the authenticated user through the
// cooldown gate.
// @Summary Fire the smart trigger
// @Tags alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SmartTriggerRequest true "trigger payload"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/alerts/smart-trigger [post]
func (h *SmartTriggerHandler) Fire(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req SmartTriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AlertError(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	res := h.trigger.TryExecuteAlerts(userID)
	if res.Err != nil {
		AlertError(c, http.StatusInternalServerError, "alert evaluation failed", res.Err)
		return
	}

	result := gin.H{"executed": res.Executed}
	if res.Executed {
		result["alertasCreadas"] = res.AlertsCreated
	} else {
		result["reason"] = res.Reason
	}

	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"stats":  h.trigger.Stats(),
	})
}

// GetStats returns the trigger counters.
// @Summary Smart trigger stats
// @Tags alerts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} alerts.TriggerStats
// @Router /api/v1/alerts/smart-trigger [get]
func (h *SmartTriggerHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.trigger.Stats())
}
