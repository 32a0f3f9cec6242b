package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"fintrack/alerts"
	"fintrack/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronHandler_InvalidToken(t *testing.T) {
	// No DB setup on purpose: the token check must reject before any query.
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/alerts/cron", NewCronHandler(nil, "real-secret").Run)

	req := httptest.NewRequest("POST", "/alerts/cron", nil)
	req.Header.Set("Authorization", "Bearer wrong-secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 403, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid cron token", resp["error"])
}

func TestCronHandler_MissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/alerts/cron", NewCronHandler(nil, "real-secret").Run)

	req := httptest.NewRequest("POST", "/alerts/cron", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
}

func TestCronHandler_NoSecretConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/alerts/cron", NewCronHandler(nil, "").Run)

	req := httptest.NewRequest("POST", "/alerts/cron", nil)
	req.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 403, w.Code)
}

func TestCronHandler_RunsBatch(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// eligible users: none
	mock.ExpectQuery("SELECT DISTINCT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectQuery("SELECT DISTINCT (.+) FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	// expired sweep
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `alerts`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	engine := alerts.NewEngine(database.DB, testAlertsConfig())
	scheduler := alerts.NewScheduler(database.DB, engine, 30)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/alerts/cron", NewCronHandler(scheduler, "real-secret").Run)

	req := httptest.NewRequest("POST", "/alerts/cron", nil)
	req.Header.Set("Authorization", "Bearer real-secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(0), resp["totalUsuarios"])
	assert.Equal(t, float64(0), resp["totalAlertasCreadas"])
	assert.Equal(t, float64(2), resp["alertasEliminadas"])
	require.NoError(t, mock.ExpectationsWereMet())
}
