package api

import (
	"time"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
)

// SummaryResponse aggregates income and expense totals for a range.
type SummaryResponse struct {
	TotalExpense float64 `json:"total_expense" example:"123.45"`
	TotalIncome  float64 `json:"total_income" example:"5000.00"`
	Balance      float64 `json:"balance" example:"4876.55"`
}

// GetSummary totals the user's income and expenses over an optional date
// range. Without start_time/end_time it covers all time.
// @Summary Income/expense summary
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Param start_time query string false "start date (2026-01-01)"
// @Param end_time query string false "end date (2026-12-31)"
// @Success 200 {object} Response{data=SummaryResponse}
// @Failure 401 {object} Response
// @Router /api/v1/statistics/summary [get]
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	startTimeStr := c.Query("start_time")
	endTimeStr := c.Query("end_time")

	expenseQ := database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, models.TransactionExpense)
	incomeQ := database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, models.TransactionIncome)

	if startTimeStr != "" {
		if t, err := time.ParseInLocation("2006-01-02", startTimeStr, time.Local); err == nil {
			expenseQ = expenseQ.Where("date >= ?", t)
			incomeQ = incomeQ.Where("date >= ?", t)
		}
	}
	if endTimeStr != "" {
		if t, err := time.ParseInLocation("2006-01-02", endTimeStr, time.Local); err == nil {
			t = t.Add(24*time.Hour - time.Second)
			expenseQ = expenseQ.Where("date <= ?", t)
			incomeQ = incomeQ.Where("date <= ?", t)
		}
	}

	var totalExpense float64
	var totalIncome float64
	expenseQ.Select("COALESCE(SUM(amount), 0)").Scan(&totalExpense)
	incomeQ.Select("COALESCE(SUM(amount), 0)").Scan(&totalIncome)

	Success(c, SummaryResponse{
		TotalExpense: totalExpense,
		TotalIncome:  totalIncome,
		Balance:      totalIncome - totalExpense,
	})
}
