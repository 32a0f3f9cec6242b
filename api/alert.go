package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fintrack/alerts"
	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
)

// AlertHandler exposes the alert inbox and the evaluation endpoints.
type AlertHandler struct {
	engine *alerts.Engine
}

// NewAlertHandler creates the alert handler.
func NewAlertHandler(engine *alerts.Engine) *AlertHandler {
	return &AlertHandler{engine: engine}
}

// List returns the user's active alerts, newest first.
// @Summary List active alerts
// @Tags alerts
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "only unread alerts"
// @Success 200 {object} Response{data=[]models.Alert}
// @Failure 401 {object} Response
// @Router /api/v1/alerts [get]
func (h *AlertHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Where("user_id = ? AND expires_at > ?", userID, time.Now())
	if c.Query("unread") == "true" {
		query = query.Where("`read` = ?", false)
	}

	var list []models.Alert
	if err := query.Order("created_at DESC").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	Success(c, list)
}

// MarkRead flags an alert as read.
// @Summary Mark an alert as read
// @Tags alerts
// @Produce json
// @Security BearerAuth
// @Param id path int true "alert ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/alerts/{id}/read [put]
func (h *AlertHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid ID")
		return
	}

	var alert models.Alert
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&alert).Error; err != nil {
		NotFound(c, "alert not found")
		return
	}

	if err := database.DB.Model(&alert).Update("read", true).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update failed"))
		return
	}

	SuccessWithMessage(c, "marked as read", nil)
}

// Delete removes one alert from the inbox.
// @Summary Delete an alert
// @Tags alerts
// @Produce json
// @Security BearerAuth
// @Param id path int true "alert ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/alerts/{id} [delete]
func (h *AlertHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid ID")
		return
	}

	var alert models.Alert
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&alert).Error; err != nil {
		NotFound(c, "alert not found")
		return
	}

	if err := database.DB.Delete(&alert).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete failed"))
		return
	}

	SuccessWithMessage(c, "deleted", nil)
}

// Evaluate runs the full evaluation for the authenticated user and persists
// deduplicated alerts.
// @Summary Run alert evaluation
// @Tags alerts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/alerts/evaluate [post]
func (h *AlertHandler) Evaluate(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	created, err := h.engine.RunAutomaticEvaluation(userID)
	if err != nil {
		AlertError(c, http.StatusInternalServerError, "alert evaluation failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"alertasCreadas": created,
		"mensaje":        fmt.Sprintf("%d alertas creadas", created),
	})
}

// EvaluateDryRun reports which alerts the conditions would raise without
// writing anything.
// @Summary Preview alert evaluation
// @Tags alerts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/alerts/evaluate [get]
func (h *AlertHandler) EvaluateDryRun(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	candidates := h.engine.EvaluateConditions(userID)

	detalles := make([]gin.H, 0, len(candidates))
	for _, cand := range candidates {
		detalles = append(detalles, gin.H{
			"tipo":      cand.Type,
			"prioridad": cand.Priority,
			"titulo":    cand.Title,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"alertasPotenciales": len(candidates),
		"detalles":           detalles,
	})
}
