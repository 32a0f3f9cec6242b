package api

import (
	"strconv"
	"strings"
	"time"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
)

// BudgetHandler handles monthly budget CRUD and progress.
type BudgetHandler struct{}

// NewBudgetHandler creates the budget handler.
func NewBudgetHandler() *BudgetHandler {
	return &BudgetHandler{}
}

// BudgetRequest is the create/update payload.
type BudgetRequest struct {
	Category string  `json:"category" binding:"required" example:"Food"`
	Month    int     `json:"month" binding:"required,min=1,max=12" example:"3"`
	Year     int     `json:"year" binding:"required,min=2000,max=2100" example:"2026"`
	Amount   float64 `json:"amount" binding:"required,gt=0" example:"1000"`
}

// Create sets a monthly budget. One budget per (category, month, year).
// @Summary Create a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BudgetRequest true "budget payload"
// @Success 200 {object} Response{data=models.Budget}
// @Failure 400 {object} Response
// @Router /api/v1/budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	req.Category = strings.TrimSpace(req.Category)
	var cat models.Category
	if err := database.DB.Where("name = ?", req.Category).First(&cat).Error; err != nil {
		BadRequest(c, "unknown category")
		return
	}

	// The (user, category, month, year) slot must be free.
	var existing models.Budget
	if err := database.DB.Where("user_id = ? AND category = ? AND month = ? AND year = ?",
		userID, req.Category, req.Month, req.Year).First(&existing).Error; err == nil {
		BadRequest(c, "budget already exists for this category and month")
		return
	}

	budget := models.Budget{
		UserID:   userID,
		Category: req.Category,
		Month:    req.Month,
		Year:     req.Year,
		Amount:   req.Amount,
	}

	if err := database.DB.Create(&budget).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create budget failed"))
		return
	}

	SuccessWithMessage(c, "created", budget)
}

// List returns the user's budgets, optionally filtered by month/year.
// @Summary List budgets
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param month query int false "month filter"
// @Param year query int false "year filter"
// @Success 200 {object} Response{data=[]models.Budget}
// @Failure 401 {object} Response
// @Router /api/v1/budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if m := c.Query("month"); m != "" {
		if month, err := strconv.Atoi(m); err == nil {
			query = query.Where("month = ?", month)
		}
	}
	if y := c.Query("year"); y != "" {
		if year, err := strconv.Atoi(y); err == nil {
			query = query.Where("year = ?", year)
		}
	}

	var budgets []models.Budget
	if err := query.Order("year DESC, month DESC, category ASC").Find(&budgets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	Success(c, budgets)
}

// Update changes a budget's amount.
// @Summary Update a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "budget ID"
// @Success 200 {object} Response{data=models.Budget}
// @Failure 404 {object} Response
// @Router /api/v1/budgets/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid ID")
		return
	}

	var budget models.Budget
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		NotFound(c, "budget not found")
		return
	}

	var req struct {
		Amount float64 `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	if err := database.DB.Model(&budget).Update("amount", req.Amount).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update failed"))
		return
	}

	database.DB.First(&budget, budget.ID)
	SuccessWithMessage(c, "updated", budget)
}

// Delete removes a budget.
// @Summary Delete a budget
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param id path int true "budget ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid ID")
		return
	}

	var budget models.Budget
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		NotFound(c, "budget not found")
		return
	}

	if err := database.DB.Delete(&budget).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete failed"))
		return
	}

	SuccessWithMessage(c, "deleted", nil)
}

// GetProgress reports spend against each budget of the current month.
// @Summary Current-month budget progress
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /api/v1/budgets/progress [get]
func (h *BudgetHandler) GetProgress(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	now := time.Now()
	month := int(now.Month())
	year := now.Year()
	monthStart := time.Date(year, now.Month(), 1, 0, 0, 0, 0, time.Local)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Second)

	var budgets []models.Budget
	if err := database.DB.Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		Find(&budgets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	type BudgetProgress struct {
		models.Budget
		Spent   float64 `json:"spent"`
		Percent float64 `json:"percent"`
	}
	progress := make([]BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		var spent float64
		database.DB.Model(&models.Transaction{}).
			Where("user_id = ? AND category = ? AND type = ? AND date >= ? AND date <= ?",
				userID, b.Category, models.TransactionExpense, monthStart, monthEnd).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&spent)

		p := BudgetProgress{Budget: b, Spent: spent}
		if b.Amount > 0 {
			p.Percent = spent / b.Amount * 100
		}
		progress = append(progress, p)
	}

	Success(c, gin.H{
		"month":   month,
		"year":    year,
		"budgets": progress,
	})
}
