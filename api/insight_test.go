package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsightHandler_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/insights", NewInsightHandler(&config.AIConfig{Enabled: false}).Analyze)

	body := `{"start_time":"2026-01-01","end_time":"2026-01-31"}`
	req := httptest.NewRequest("POST", "/insights", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 503, w.Code)
}

func TestInsightHandler_Analyze(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	ai := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		require.Len(t, req.Messages, 1)
		assert.Contains(t, req.Messages[0].Content, "Total expenses")

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Eat out less."}},
			},
		})
	}))
	defer ai.Close()

	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount", "category", "type", "date"}).
			AddRow(1, 1, 42.00, "Food", "expense", time.Date(2026, 1, 10, 13, 0, 0, 0, time.Local)))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `ai_insights`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	cfg := &config.AIConfig{
		Enabled: true,
		BaseURL: ai.URL,
		APIKey:  "test-key",
		Model:   "test-model",
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/insights", NewInsightHandler(cfg).Analyze)

	body := `{"start_time":"2026-01-01","end_time":"2026-01-31"}`
	req := httptest.NewRequest("POST", "/insights", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Eat out less.", data["result"])
	assert.Equal(t, "test-model", data["model"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsightHandler_Analyze_NoTransactions(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/insights", NewInsightHandler(&config.AIConfig{Enabled: true}).Analyze)

	body := `{"start_time":"2026-01-01","end_time":"2026-01-31"}`
	req := httptest.NewRequest("POST", "/insights", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
