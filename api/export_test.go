package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportHandler_ExportCSV(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount", "category", "type", "payment_method", "description", "date", "created_at"}).
			AddRow(1, 1, 25.50, "Food", "expense", "card", "lunch", time.Date(2026, 1, 15, 12, 30, 0, 0, time.Local), time.Now()))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/export/csv", NewExportHandler().ExportCSV)

	req := httptest.NewRequest("GET", "/export/csv?start_time=2026-01-01&end_time=2026-01-31", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "transactions_2026-01-01_2026-01-31.csv")

	body := w.Body.String()
	assert.True(t, strings.Contains(body, "lunch"))
	assert.True(t, strings.Contains(body, "25.50"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_ExportCSV_MissingRange(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/export/csv", NewExportHandler().ExportCSV)

	req := httptest.NewRequest("GET", "/export/csv", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestExportHandler_ExportJSON(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount", "category", "type", "date"}).
			AddRow(1, 1, 100, "Food", "expense", time.Now()).
			AddRow(2, 1, 3000, "Other", "income", time.Now()))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/export/json", NewExportHandler().ExportJSON)

	req := httptest.NewRequest("GET", "/export/json?start_time=2026-01-01&end_time=2026-01-31", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"total_count":2`)
	assert.Contains(t, body, `"total_expense":100`)
	assert.Contains(t, body, `"total_income":3000`)
	require.NoError(t, mock.ExpectationsWereMet())
}
