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

// TransactionHandler handles transaction CRUD and statistics.
type TransactionHandler struct{}

// NewTransactionHandler creates the transaction handler.
func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

// CreateTransactionRequest is the creation payload.
type CreateTransactionRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0" example:"99.99"`
	Category      string  `json:"category" binding:"required" example:"Food"`
	Type          string  `json:"type" binding:"required" example:"expense"`
	PaymentMethod string  `json:"payment_method" example:"card"`
	Description   string  `json:"description" example:"lunch"`
	Date          string  `json:"date" binding:"required" example:"2026-01-15 12:30:00"`
}

// UpdateTransactionRequest is the update payload; zero values are ignored.
type UpdateTransactionRequest struct {
	Amount        float64 `json:"amount" binding:"omitempty,gt=0"`
	Category      string  `json:"category"`
	Type          string  `json:"type"`
	PaymentMethod string  `json:"payment_method"`
	Description   string  `json:"description"`
	Date          string  `json:"date"`
}

// TransactionListRequest are the list query params.
type TransactionListRequest struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	Category  string `form:"category"`
	Type      string `form:"type"`
	StartTime string `form:"start_time"`
	EndTime   string `form:"end_time"`
}

// Create records a transaction.
// @Summary Create a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "transaction payload"
// @Success 200 {object} Response{data=models.Transaction}
// @Failure 400 {object} Response
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	if !models.ValidTransactionType(req.Type) {
		BadRequest(c, "type must be expense or income")
		return
	}

	// The category must exist in the maintained list.
	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		BadRequest(c, "category required")
		return
	}
	var cat models.Category
	if err := database.DB.Where("name = ?", req.Category).First(&cat).Error; err != nil {
		BadRequest(c, "unknown category")
		return
	}

	date, err := time.ParseInLocation("2006-01-02 15:04:05", req.Date, time.Local)
	if err != nil {
		BadRequest(c, "date format must be: 2006-01-02 15:04:05")
		return
	}

	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentOther
	}

	tx := models.Transaction{
		UserID:        userID,
		Amount:        req.Amount,
		Category:      req.Category,
		Type:          req.Type,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
		Date:          date,
	}

	if err := database.DB.Create(&tx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create transaction failed"))
		return
	}

	SuccessWithMessage(c, "created", tx)
}

// List returns the user's transactions with paging and filters.
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(10)
// @Param category query string false "category filter"
// @Param type query string false "expense or income"
// @Param start_time query string false "start date (2026-01-01)"
// @Param end_time query string false "end date (2026-12-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transaction}}
// @Failure 401 {object} Response
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	query := database.DB.Model(&models.Transaction{}).Where("user_id = ?", userID)

	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}
	if req.StartTime != "" {
		if startTime, err := time.ParseInLocation("2006-01-02", req.StartTime, time.Local); err == nil {
			query = query.Where("date >= ?", startTime)
		}
	}
	if req.EndTime != "" {
		if endTime, err := time.ParseInLocation("2006-01-02", req.EndTime, time.Local); err == nil {
			// inclusive of the end date
			endTime = endTime.Add(24*time.Hour - time.Second)
			query = query.Where("date <= ?", endTime)
		}
	}

	var total int64
	query.Count(&total)

	var transactions []models.Transaction
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("date DESC").Offset(offset).Limit(req.PageSize).Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     transactions,
	})
}

// Get returns one transaction.
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "transaction ID"
// @Success 200 {object} Response{data=models.Transaction}
// @Failure 404 {object} Response
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid ID")
		return
	}

	var tx models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&tx).Error; err != nil {
		NotFound(c, "transaction not found")
		return
	}

	Success(c, tx)
}

// Update modifies a transaction.
// @Summary Update a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "transaction ID"
// @Param request body UpdateTransactionRequest true "transaction payload"
// @Success 200 {object} Response{data=models.Transaction}
// @Failure 404 {object} Response
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid ID")
		return
	}

	var tx models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&tx).Error; err != nil {
		NotFound(c, "transaction not found")
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	updates := make(map[string]interface{})
	if req.Amount > 0 {
		updates["amount"] = req.Amount
	}
	if req.Type != "" {
		if !models.ValidTransactionType(req.Type) {
			BadRequest(c, "type must be expense or income")
			return
		}
		updates["type"] = req.Type
	}
	if req.Category != "" {
		req.Category = strings.TrimSpace(req.Category)
		var cat models.Category
		if err := database.DB.Where("name = ?", req.Category).First(&cat).Error; err != nil {
			BadRequest(c, "unknown category")
			return
		}
		updates["category"] = req.Category
	}
	if req.PaymentMethod != "" {
		updates["payment_method"] = req.PaymentMethod
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Date != "" {
		date, err := time.ParseInLocation("2006-01-02 15:04:05", req.Date, time.Local)
		if err != nil {
			BadRequest(c, "date format must be: 2006-01-02 15:04:05")
			return
		}
		updates["date"] = date
	}

	if err := database.DB.Model(&tx).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update failed"))
		return
	}

	database.DB.First(&tx, tx.ID)
	SuccessWithMessage(c, "updated", tx)
}

// Delete removes a transaction.
// @Summary Delete a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "transaction ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid ID")
		return
	}

	var tx models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&tx).Error; err != nil {
		NotFound(c, "transaction not found")
		return
	}

	if err := database.DB.Delete(&tx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete failed"))
		return
	}

	SuccessWithMessage(c, "deleted", nil)
}

// GetCategories returns the maintained category list.
// @Summary List categories
// @Tags transactions
// @Produce json
// @Success 200 {object} Response{data=[]models.Category}
// @Router /api/v1/categories [get]
func (h *TransactionHandler) GetCategories(c *gin.Context) {
	var list []models.Category
	if err := database.DB.Order("sort ASC, id ASC").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	Success(c, list)
}

// GetStatistics returns per-category expense totals for a time range.
// @Summary Expense statistics
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param start_time query string false "start date (2026-01-01)"
// @Param end_time query string false "end date (2026-12-31)"
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /api/v1/transactions/statistics [get]
func (h *TransactionHandler) GetStatistics(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	startTimeStr := c.Query("start_time")
	endTimeStr := c.Query("end_time")

	query := database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, models.TransactionExpense)

	if startTimeStr != "" {
		if startTime, err := time.ParseInLocation("2006-01-02", startTimeStr, time.Local); err == nil {
			query = query.Where("date >= ?", startTime)
		}
	}
	if endTimeStr != "" {
		if endTime, err := time.ParseInLocation("2006-01-02", endTimeStr, time.Local); err == nil {
			endTime = endTime.Add(24*time.Hour - time.Second)
			query = query.Where("date <= ?", endTime)
		}
	}

	var totalAmount float64
	query.Select("COALESCE(SUM(amount), 0)").Scan(&totalAmount)

	type CategoryStat struct {
		Category string  `json:"category"`
		Total    float64 `json:"total"`
		Count    int64   `json:"count"`
	}
	var categoryStats []CategoryStat

	database.DB.Model(&models.Transaction{}).
		Select("category, SUM(amount) as total, COUNT(*) as count").
		Where("user_id = ? AND type = ?", userID, models.TransactionExpense).
		Group("category").
		Order("total DESC").
		Scan(&categoryStats)

	Success(c, gin.H{
		"total_amount":   totalAmount,
		"category_stats": categoryStats,
	})
}
