package api

import (
	"strconv"
	"strings"
	"time"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RecurringHandler handles recurring expense templates and their
// materialization into transactions.
type RecurringHandler struct{}

// NewRecurringHandler creates the recurring expense handler.
func NewRecurringHandler() *RecurringHandler {
	return &RecurringHandler{}
}

// RecurringRequest is the create payload.
type RecurringRequest struct {
	Name        string  `json:"name" binding:"required,max=100" example:"Rent"`
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"900"`
	Category    string  `json:"category" binding:"required" example:"Housing"`
	Periodicity string  `json:"periodicity" binding:"required" example:"monthly"`
	NextDue     string  `json:"next_due" binding:"required" example:"2026-04-01"`
}

// Create registers a recurring expense template.
// @Summary Create a recurring expense
// @Tags recurring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecurringRequest true "recurring expense payload"
// @Success 200 {object} Response{data=models.RecurringExpense}
// @Failure 400 {object} Response
// @Router /api/v1/recurring [post]
func (h *RecurringHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req RecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	if !models.ValidPeriodicity(req.Periodicity) {
		BadRequest(c, "periodicity must be monthly, bimonthly, quarterly, semiannual or annual")
		return
	}

	req.Category = strings.TrimSpace(req.Category)
	var cat models.Category
	if err := database.DB.Where("name = ?", req.Category).First(&cat).Error; err != nil {
		BadRequest(c, "unknown category")
		return
	}

	nextDue, err := time.ParseInLocation("2006-01-02", req.NextDue, time.Local)
	if err != nil {
		BadRequest(c, "next_due format must be: 2006-01-02")
		return
	}

	rec := models.RecurringExpense{
		UserID:      userID,
		Name:        req.Name,
		Amount:      req.Amount,
		Category:    req.Category,
		Periodicity: req.Periodicity,
		NextDue:     nextDue,
		Status:      models.RecurringActive,
	}

	if err := database.DB.Create(&rec).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create recurring expense failed"))
		return
	}

	SuccessWithMessage(c, "created", rec)
}

// List returns the user's recurring expenses ordered by next due date.
// @Summary List recurring expenses
// @Tags recurring
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.RecurringExpense}
// @Failure 401 {object} Response
// @Router /api/v1/recurring [get]
func (h *RecurringHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var list []models.RecurringExpense
	if err := database.DB.Where("user_id = ?", userID).Order("next_due ASC").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	Success(c, list)
}

// Update modifies a recurring expense template.
// @Summary Update a recurring expense
// @Tags recurring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "recurring expense ID"
// @Success 200 {object} Response{data=models.RecurringExpense}
// @Failure 404 {object} Response
// @Router /api/v1/recurring/{id} [put]
func (h *RecurringHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid ID")
		return
	}

	var rec models.RecurringExpense
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&rec).Error; err != nil {
		NotFound(c, "recurring expense not found")
		return
	}

	var req struct {
		Name        string  `json:"name"`
		Amount      float64 `json:"amount" binding:"omitempty,gt=0"`
		Periodicity string  `json:"periodicity"`
		NextDue     string  `json:"next_due"`
		Status      string  `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Amount > 0 {
		updates["amount"] = req.Amount
	}
	if req.Periodicity != "" {
		if !models.ValidPeriodicity(req.Periodicity) {
			BadRequest(c, "invalid periodicity")
			return
		}
		updates["periodicity"] = req.Periodicity
	}
	if req.NextDue != "" {
		nextDue, err := time.ParseInLocation("2006-01-02", req.NextDue, time.Local)
		if err != nil {
			BadRequest(c, "next_due format must be: 2006-01-02")
			return
		}
		updates["next_due"] = nextDue
	}
	if req.Status != "" {
		if req.Status != models.RecurringPending && req.Status != models.RecurringActive && req.Status != models.RecurringPaid {
			BadRequest(c, "invalid status")
			return
		}
		updates["status"] = req.Status
	}

	if err := database.DB.Model(&rec).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update failed"))
		return
	}

	database.DB.First(&rec, rec.ID)
	SuccessWithMessage(c, "updated", rec)
}

// Delete removes a recurring expense template.
// @Summary Delete a recurring expense
// @Tags recurring
// @Produce json
// @Security BearerAuth
// @Param id path int true "recurring expense ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/recurring/{id} [delete]
func (h *RecurringHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid ID")
		return
	}

	var rec models.RecurringExpense
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&rec).Error; err != nil {
		NotFound(c, "recurring expense not found")
		return
	}

	if err := database.DB.Delete(&rec).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete failed"))
		return
	}

	SuccessWithMessage(c, "deleted", nil)
}

// Pay materializes the template into a transaction dated at the due date
// and advances the next due date by one period. Both writes happen in one
// transaction.
// @Summary Pay a recurring expense
// @Tags recurring
// @Produce json
// @Security BearerAuth
// @Param id path int true "recurring expense ID"
// @Success 200 {object} Response{data=models.RecurringExpense}
// @Failure 404 {object} Response
// @Router /api/v1/recurring/{id}/pay [post]
func (h *RecurringHandler) Pay(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid ID")
		return
	}

	var rec models.RecurringExpense
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&rec).Error; err != nil {
		NotFound(c, "recurring expense not found")
		return
	}

	recID := rec.ID
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		movement := models.Transaction{
			UserID:             userID,
			Amount:             rec.Amount,
			Category:           rec.Category,
			Type:               models.TransactionExpense,
			PaymentMethod:      models.PaymentTransfer,
			Description:        rec.Name,
			Date:               rec.NextDue,
			RecurringExpenseID: &recID,
		}
		if err := tx.Create(&movement).Error; err != nil {
			return err
		}

		rec.AdvanceNextDue()
		return tx.Model(&models.RecurringExpense{}).
			Where("id = ?", rec.ID).
			Updates(map[string]interface{}{
				"next_due": rec.NextDue,
				"status":   models.RecurringActive,
			}).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "payment failed"))
		return
	}

	database.DB.First(&rec, rec.ID)
	SuccessWithMessage(c, "paid", rec)
}
