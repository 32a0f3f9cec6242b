package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler exports transactions as CSV, JSON or Excel.
type ExportHandler struct{}

// NewExportHandler creates the export handler.
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// exportRange parses the mandatory start_time/end_time query params and
// loads the transactions in range.
func exportRange(c *gin.Context) (string, string, []models.Transaction, bool) {
	userID := middleware.GetCurrentUserID(c)

	startTimeStr := c.Query("start_time")
	endTimeStr := c.Query("end_time")

	if startTimeStr == "" || endTimeStr == "" {
		BadRequest(c, "start_time and end_time are required")
		return "", "", nil, false
	}

	startTime, err := time.ParseInLocation("2006-01-02", startTimeStr, time.Local)
	if err != nil {
		BadRequest(c, "start_time format must be: 2006-01-02")
		return "", "", nil, false
	}

	endTime, err := time.ParseInLocation("2006-01-02", endTimeStr, time.Local)
	if err != nil {
		BadRequest(c, "end_time format must be: 2006-01-02")
		return "", "", nil, false
	}
	endTime = endTime.Add(24*time.Hour - time.Second)

	var transactions []models.Transaction
	if err := database.DB.Where("user_id = ? AND date >= ? AND date <= ?", userID, startTime, endTime).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return "", "", nil, false
	}

	return startTimeStr, endTimeStr, transactions, true
}

// ExportCSV exports transactions in a date range as a CSV file.
// @Summary Export transactions as CSV
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Param start_time query string true "start date (2026-01-01)"
// @Param end_time query string true "end date (2026-12-31)"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	startStr, endStr, transactions, ok := exportRange(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// BOM so Excel detects UTF-8.
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	headers := []string{"ID", "Type", "Amount", "Category", "Payment Method", "Description", "Date", "Created At"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "CSV generation failed")
		return
	}

	for _, tx := range transactions {
		row := []string{
			fmt.Sprintf("%d", tx.ID),
			tx.Type,
			fmt.Sprintf("%.2f", tx.Amount),
			tx.Category,
			tx.PaymentMethod,
			tx.Description,
			tx.Date.Format("2006-01-02 15:04:05"),
			tx.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "CSV generation failed")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "CSV generation failed")
		return
	}

	filename := fmt.Sprintf("transactions_%s_%s.csv", startStr, endStr)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportJSON exports transactions in a date range with totals.
// @Summary Export transactions as JSON
// @Tags export
// @Produce json
// @Security BearerAuth
// @Param start_time query string true "start date (2026-01-01)"
// @Param end_time query string true "end date (2026-12-31)"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Router /api/v1/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	startStr, endStr, transactions, ok := exportRange(c)
	if !ok {
		return
	}

	var totalExpense, totalIncome float64
	for _, tx := range transactions {
		switch tx.Type {
		case models.TransactionExpense:
			totalExpense += tx.Amount
		case models.TransactionIncome:
			totalIncome += tx.Amount
		}
	}

	Success(c, gin.H{
		"start_time":    startStr,
		"end_time":      endStr,
		"total_count":   len(transactions),
		"total_expense": totalExpense,
		"total_income":  totalIncome,
		"transactions":  transactions,
	})
}

// ExportExcel exports transactions in a date range as an xlsx file.
// @Summary Export transactions as Excel
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_time query string true "start date (2026-01-01)"
// @Param end_time query string true "end date (2026-12-31)"
// @Success 200 {file} file "xlsx file"
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	startStr, endStr, transactions, ok := exportRange(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Transactions"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 15)
	f.SetColWidth(sheetName, "D", "D", 15)
	f.SetColWidth(sheetName, "E", "E", 18)
	f.SetColWidth(sheetName, "F", "F", 30)
	f.SetColWidth(sheetName, "G", "G", 20)

	headers := []string{"ID", "Type", "Amount", "Category", "Payment Method", "Description", "Date"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, tx := range transactions {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), tx.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), tx.Type)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), tx.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), tx.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), tx.PaymentMethod)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), tx.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), tx.Date.Format("2006-01-02 15:04:05"))
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), dataStyle)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, "Excel generation failed")
		return
	}

	filename := fmt.Sprintf("transactions_%s_%s.xlsx", startStr, endStr)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
