package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fintrack/config"
	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
)

// InsightHandler builds spending analyses through an OpenAI-compatible chat
// completions endpoint and stores the results.
type InsightHandler struct {
	cfg    *config.AIConfig
	client *http.Client
}

// NewInsightHandler creates the insight handler.
func NewInsightHandler(cfg *config.AIConfig) *InsightHandler {
	return &InsightHandler{
		cfg:    cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// InsightRequest is the analysis payload.
type InsightRequest struct {
	StartTime string `json:"start_time" binding:"required" example:"2026-01-01"`
	EndTime   string `json:"end_time" binding:"required" example:"2026-01-31"`
}

// chat completions wire types, OpenAI compatible.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Analyze runs an AI analysis over the user's transactions in a date range
// and stores the result.
// @Summary Generate an AI spending insight
// @Tags insights
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body InsightRequest true "analysis payload"
// @Success 200 {object} Response{data=models.AIInsight}
// @Failure 400 {object} Response
// @Router /api/v1/insights [post]
func (h *InsightHandler) Analyze(c *gin.Context) {
	if !h.cfg.Enabled {
		Error(c, http.StatusServiceUnavailable, "AI insights are disabled")
		return
	}

	userID := middleware.GetCurrentUserID(c)

	var req InsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	startTime, err := time.ParseInLocation("2006-01-02", req.StartTime, time.Local)
	if err != nil {
		BadRequest(c, "start_time format must be: 2006-01-02")
		return
	}
	endTime, err := time.ParseInLocation("2006-01-02", req.EndTime, time.Local)
	if err != nil {
		BadRequest(c, "end_time format must be: 2006-01-02")
		return
	}
	endTime = endTime.Add(24*time.Hour - time.Second)

	var transactions []models.Transaction
	if err := database.DB.Where("user_id = ? AND date >= ? AND date <= ?", userID, startTime, endTime).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	if len(transactions) == 0 {
		BadRequest(c, "no transactions in the selected range")
		return
	}

	prompt := buildInsightPrompt(transactions, req.StartTime, req.EndTime)

	result, err := h.callChatCompletions(prompt)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "AI analysis failed"))
		return
	}

	insight := models.AIInsight{
		UserID:    userID,
		StartDate: req.StartTime,
		EndDate:   req.EndTime,
		Model:     h.cfg.Model,
		Result:    result,
	}
	if err := database.DB.Create(&insight).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "store insight failed"))
		return
	}

	SuccessWithMessage(c, "analysis complete", insight)
}

// List returns the user's stored insights, newest first.
// @Summary List stored insights
// @Tags insights
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.AIInsight}
// @Failure 401 {object} Response
// @Router /api/v1/insights [get]
func (h *InsightHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var list []models.AIInsight
	if err := database.DB.Where("user_id = ?", userID).Order("created_at DESC").Limit(50).Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	Success(c, list)
}

// buildInsightPrompt summarizes the range for the model. Aggregates are
// computed locally; only statistics go into the prompt, not raw rows.
func buildInsightPrompt(transactions []models.Transaction, start, end string) string {
	var totalExpense, totalIncome float64
	categoryTotals := make(map[string]float64)
	categoryCounts := make(map[string]int)

	for _, tx := range transactions {
		switch tx.Type {
		case models.TransactionExpense:
			totalExpense += tx.Amount
			categoryTotals[tx.Category] += tx.Amount
			categoryCounts[tx.Category]++
		case models.TransactionIncome:
			totalIncome += tx.Amount
		}
	}

	var sb strings.Builder
	sb.WriteString("You are a personal finance assistant. Analyze this spending summary and give concrete, actionable advice.\n\n")
	fmt.Fprintf(&sb, "Period: %s to %s\n", start, end)
	fmt.Fprintf(&sb, "Total income: %.2f\n", totalIncome)
	fmt.Fprintf(&sb, "Total expenses: %.2f\n", totalExpense)
	fmt.Fprintf(&sb, "Transactions: %d\n\nExpenses by category:\n", len(transactions))
	for category, total := range categoryTotals {
		fmt.Fprintf(&sb, "- %s: %.2f (%d transactions)\n", category, total, categoryCounts[category])
	}
	sb.WriteString("\nRespond with: 1) spending patterns, 2) categories to watch, 3) three specific saving suggestions.")
	return sb.String()
}

// callChatCompletions posts one non-streaming chat request and returns the
// assistant message.
func (h *InsightHandler) callChatCompletions(prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: h.cfg.Model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Stream: false,
	})
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(h.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+h.cfg.APIKey)

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call AI endpoint: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI endpoint returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode AI response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("AI endpoint error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("AI endpoint returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
