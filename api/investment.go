package api

import (
	"strconv"
	"time"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
)

// InvestmentHandler handles investment position CRUD and the portfolio
// summary.
type InvestmentHandler struct{}

// NewInvestmentHandler creates the investment handler.
func NewInvestmentHandler() *InvestmentHandler {
	return &InvestmentHandler{}
}

// InvestmentRequest is the create payload.
type InvestmentRequest struct {
	Name         string  `json:"name" binding:"required,max=100" example:"S&P 500 ETF"`
	Kind         string  `json:"kind" example:"fund"`
	Invested     float64 `json:"invested" binding:"required,gt=0" example:"5000"`
	CurrentValue float64 `json:"current_value" binding:"required,gte=0" example:"5400"`
	PurchaseDate string  `json:"purchase_date" binding:"required" example:"2025-06-01"`
}

// Create records an investment position.
// @Summary Create an investment
// @Tags investments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body InvestmentRequest true "investment payload"
// @Success 200 {object} Response{data=models.Investment}
// @Failure 400 {object} Response
// @Router /api/v1/investments [post]
func (h *InvestmentHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req InvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	purchaseDate, err := time.ParseInLocation("2006-01-02", req.PurchaseDate, time.Local)
	if err != nil {
		BadRequest(c, "purchase_date format must be: 2006-01-02")
		return
	}

	if req.Kind == "" {
		req.Kind = models.InvestmentOther
	}

	inv := models.Investment{
		UserID:       userID,
		Name:         req.Name,
		Kind:         req.Kind,
		Invested:     req.Invested,
		CurrentValue: req.CurrentValue,
		PurchaseDate: purchaseDate,
	}

	if err := database.DB.Create(&inv).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create investment failed"))
		return
	}

	SuccessWithMessage(c, "created", inv)
}

// List returns the user's investments.
// @Summary List investments
// @Tags investments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Investment}
// @Failure 401 {object} Response
// @Router /api/v1/investments [get]
func (h *InvestmentHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var list []models.Investment
	if err := database.DB.Where("user_id = ?", userID).Order("purchase_date DESC").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	Success(c, list)
}

// Update changes an investment's current value or name.
// @Summary Update an investment
// @Tags investments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "investment ID"
// @Success 200 {object} Response{data=models.Investment}
// @Failure 404 {object} Response
// @Router /api/v1/investments/{id} [put]
func (h *InvestmentHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid ID")
		return
	}

	var inv models.Investment
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&inv).Error; err != nil {
		NotFound(c, "investment not found")
		return
	}

	var req struct {
		Name         string  `json:"name"`
		CurrentValue float64 `json:"current_value" binding:"omitempty,gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.CurrentValue > 0 {
		updates["current_value"] = req.CurrentValue
	}

	if err := database.DB.Model(&inv).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update failed"))
		return
	}

	database.DB.First(&inv, inv.ID)
	SuccessWithMessage(c, "updated", inv)
}

// Delete removes an investment.
// @Summary Delete an investment
// @Tags investments
// @Produce json
// @Security BearerAuth
// @Param id path int true "investment ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/investments/{id} [delete]
func (h *InvestmentHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid ID")
		return
	}

	var inv models.Investment
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&inv).Error; err != nil {
		NotFound(c, "investment not found")
		return
	}

	if err := database.DB.Delete(&inv).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete failed"))
		return
	}

	SuccessWithMessage(c, "deleted", nil)
}

// GetPortfolio aggregates invested capital, current value and profit.
// @Summary Portfolio summary
// @Tags investments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /api/v1/investments/portfolio [get]
func (h *InvestmentHandler) GetPortfolio(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var list []models.Investment
	if err := database.DB.Where("user_id = ?", userID).Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	var invested, current float64
	for _, inv := range list {
		invested += inv.Invested
		current += inv.CurrentValue
	}

	profit := current - invested
	var profitPercent float64
	if invested > 0 {
		profitPercent = profit / invested * 100
	}

	Success(c, gin.H{
		"positions":      len(list),
		"total_invested": invested,
		"current_value":  current,
		"profit":         profit,
		"profit_percent": profitPercent,
	})
}
