package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"fintrack/alerts"

	"github.com/gin-gonic/gin"
)

// CronHandler runs the full batch for external schedulers (system cron,
// hosted cron services). Auth is a shared bearer secret, not a user JWT.
type CronHandler struct {
	scheduler *alerts.Scheduler
	secret    string
}

// NewCronHandler creates the cron handler.
func NewCronHandler(scheduler *alerts.Scheduler, secret string) *CronHandler {
	return &CronHandler{scheduler: scheduler, secret: secret}
}

// Run authenticates the shared secret and executes one batch. The token
// check happens before any database access.
// @Summary Run the alert batch from cron
// @Tags alerts
// @Produce json
// @Param Authorization header string true "Bearer <cron secret>"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/alerts/cron [post]
func (h *CronHandler) Run(c *gin.Context) {
	if h.secret == "" {
		AlertError(c, http.StatusForbidden, "cron endpoint disabled", nil)
		return
	}

	auth := c.GetHeader("Authorization")
	if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
		AlertError(c, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}

	token := strings.TrimPrefix(auth, "Bearer ")
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) != 1 {
		AlertError(c, http.StatusForbidden, "invalid cron token", nil)
		return
	}

	result := h.scheduler.RunOnce()

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"totalUsuarios":       result.TotalUsers,
		"totalAlertasCreadas": result.AlertsCreated,
		"alertasEliminadas":   result.AlertsDeleted,
	})
}
