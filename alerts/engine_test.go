package alerts

import (
	"testing"
	"time"

	"fintrack/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testAlertsConfig() config.AlertsConfig {
	return config.AlertsConfig{
		BudgetWarnPercent:  80,
		RecurringDueDays:   7,
		AnomalyMultiplier:  3,
		ActivityWindowDays: 30,
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestEvaluateConditionsNoData(t *testing.T) {
	gdb, mock := setupMockDB(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	engine := NewEngine(gdb, testAlertsConfig()).WithClock(fixedClock(now))

	expectEmptyEvaluators(mock)

	candidates := engine.EvaluateConditions(1)
	assert.Empty(t, candidates)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetOverrunCandidate(t *testing.T) {
	gdb, mock := setupMockDB(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	engine := NewEngine(gdb, testAlertsConfig()).WithClock(fixedClock(now))

	// one Food budget of 1000 for 3/2026, fully spent
	mock.ExpectQuery("SELECT (.+) FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "category", "month", "year", "amount"}).
			AddRow(1, 1, "Food", 3, 2026, 1000.0))
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1000.0))
	// remaining evaluators see nothing
	mock.ExpectQuery("SELECT (.+) FROM `recurring_expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

	candidates := engine.EvaluateConditions(1)
	require.Len(t, candidates, 1)
	assert.Equal(t, "budget-overrun", candidates[0].Type)
	assert.Equal(t, "budget-overrun:Food:3:2026", candidates[0].DedupKey)
	assert.Equal(t, "high", candidates[0].Priority)
	// expires at the end of the month
	assert.Equal(t, time.Date(2026, 3, 31, 23, 59, 59, 0, time.Local), candidates[0].ExpiresAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetApproachingCandidate(t *testing.T) {
	gdb, mock := setupMockDB(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	engine := NewEngine(gdb, testAlertsConfig()).WithClock(fixedClock(now))

	mock.ExpectQuery("SELECT (.+) FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "category", "month", "year", "amount"}).
			AddRow(1, 1, "Food", 3, 2026, 1000.0))
	// 85% spent: above the 80% warning threshold, below overrun
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(850.0))
	mock.ExpectQuery("SELECT (.+) FROM `recurring_expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

	candidates := engine.EvaluateConditions(1)
	require.Len(t, candidates, 1)
	assert.Equal(t, "budget-approaching", candidates[0].Type)
	assert.Equal(t, "budget-approaching:Food:3:2026", candidates[0].DedupKey)
	assert.Equal(t, "medium", candidates[0].Priority)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecurringEvaluatorWindow(t *testing.T) {
	gdb, mock := setupMockDB(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	ev := &RecurringEvaluator{DueDays: 7}

	// due in 3 days: one candidate
	due := time.Date(2026, 3, 18, 0, 0, 0, 0, time.Local)
	mock.ExpectQuery("SELECT (.+) FROM `recurring_expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "amount", "category", "periodicity", "next_due", "status"}).
			AddRow(7, 1, "Rent", 900.0, "Housing", "monthly", due, "active"))

	candidates, err := ev.Evaluate(gdb, 1, now)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "recurring-due:7", candidates[0].DedupKey)
	assert.Equal(t, "high", candidates[0].Priority) // 3 days away
	assert.Equal(t, due.AddDate(0, 0, 1), candidates[0].ExpiresAt)

	// due in 30 days: the WHERE clause excludes it, so the query returns
	// nothing and no candidate is produced
	mock.ExpectQuery("SELECT (.+) FROM `recurring_expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	candidates, err = ev.Evaluate(gdb, 1, now)
	require.NoError(t, err)
	assert.Empty(t, candidates)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnusualExpenseCandidate(t *testing.T) {
	gdb, mock := setupMockDB(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	ev := &UnusualExpenseEvaluator{Multiplier: 3}

	// one recent 900 expense against a 100 average over 5 samples
	txDate := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "category", "amount", "date"}).
			AddRow(42, 1, "expense", "Food", 900.0, txDate))
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"avg", "count"}).AddRow(100.0, 5))

	candidates, err := ev.Evaluate(gdb, 1, now)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "unusual-expense", candidates[0].Type)
	assert.Equal(t, "unusual-expense:42", candidates[0].DedupKey)
	assert.Equal(t, "medium", candidates[0].Priority)
	assert.InDelta(t, 9.0, candidates[0].Severity, 0.001)
	assert.Equal(t, txDate.AddDate(0, 0, 7), candidates[0].ExpiresAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnusualExpenseTooFewSamples(t *testing.T) {
	gdb, mock := setupMockDB(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	ev := &UnusualExpenseEvaluator{Multiplier: 3}

	// only 2 baseline samples: below the minimum, no baseline exists
	txDate := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "category", "amount", "date"}).
			AddRow(42, 1, "expense", "Food", 900.0, txDate))
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"avg", "count"}).AddRow(100.0, 2))

	candidates, err := ev.Evaluate(gdb, 1, now)
	require.NoError(t, err)
	assert.Empty(t, candidates)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLowBalanceProjection(t *testing.T) {
	gdb, mock := setupMockDB(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	ev := &LowBalanceEvaluator{}

	// income 1000, expenses 900, 300 of recurring payments still due:
	// projected -200 for the month
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1000.0))
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(900.0))
	mock.ExpectQuery("SELECT (.+) FROM `recurring_expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(300.0))

	candidates, err := ev.Evaluate(gdb, 1, now)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "low-balance", candidates[0].Type)
	assert.Equal(t, "low-balance:3:2026", candidates[0].DedupKey)
	assert.Equal(t, "high", candidates[0].Priority)
	assert.InDelta(t, 200.0, candidates[0].Severity, 0.001)
	assert.Equal(t, time.Date(2026, 3, 31, 23, 59, 59, 0, time.Local), candidates[0].ExpiresAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLowBalancePositiveProjection(t *testing.T) {
	gdb, mock := setupMockDB(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	ev := &LowBalanceEvaluator{}

	// income comfortably covers expenses and upcoming payments
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(2000.0))
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(900.0))
	mock.ExpectQuery("SELECT (.+) FROM `recurring_expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(300.0))

	candidates, err := ev.Evaluate(gdb, 1, now)
	require.NoError(t, err)
	assert.Empty(t, candidates)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunAutomaticEvaluationDedup(t *testing.T) {
	gdb, mock := setupMockDB(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	engine := NewEngine(gdb, testAlertsConfig()).WithClock(fixedClock(now))

	expectOverrun := func() {
		mock.ExpectQuery("SELECT (.+) FROM `budgets`").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "category", "month", "year", "amount"}).
				AddRow(1, 1, "Food", 3, 2026, 1000.0))
		mock.ExpectQuery("SELECT (.+) FROM `transactions`").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1200.0))
		mock.ExpectQuery("SELECT (.+) FROM `recurring_expenses`").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery("SELECT (.+) FROM `transactions`").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery("SELECT (.+) FROM `transactions`").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
		mock.ExpectQuery("SELECT (.+) FROM `transactions`").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	}

	// first run: dedup slot free, alert inserted
	expectOverrun()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count(.+) FROM `alerts`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `alerts`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created, err := engine.RunAutomaticEvaluation(1)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	// second run without new data: dedup hit, nothing inserted
	expectOverrun()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count(.+) FROM `alerts`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	created, err = engine.RunAutomaticEvaluation(1)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunAutomaticEvaluationDuplicateKey(t *testing.T) {
	gdb, mock := setupMockDB(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	engine := NewEngine(gdb, testAlertsConfig()).WithClock(fixedClock(now))

	mock.ExpectQuery("SELECT (.+) FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "category", "month", "year", "amount"}).
			AddRow(1, 1, "Food", 3, 2026, 1000.0))
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1200.0))
	mock.ExpectQuery("SELECT (.+) FROM `recurring_expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

	// a concurrent run passed the count too and inserted first; the unique
	// index rejects this insert and the engine treats it as a dedup hit
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count(.+) FROM `alerts`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `alerts`").
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	created, err := engine.RunAutomaticEvaluation(1)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCleanupExpired(t *testing.T) {
	gdb, mock := setupMockDB(t)
	engine := NewEngine(gdb, testAlertsConfig())

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `alerts`").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	deleted, err := engine.CleanupExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}
