package alerts

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB returns a gorm handle backed by sqlmock.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gdb, mock
}

// expectEmptyEvaluators queues empty result sets for a full evaluator pass:
// no budgets, no recurring expenses, no recent transactions and zero
// income/expense sums (which short-circuits the projection rule).
func expectEmptyEvaluators(mock sqlmock.Sqlmock) {
	// budget evaluator
	mock.ExpectQuery("SELECT (.+) FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "category", "month", "year", "amount"}))
	// recurring evaluator
	mock.ExpectQuery("SELECT (.+) FROM `recurring_expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "amount", "category", "periodicity", "next_due", "status"}))
	// unusual expense evaluator
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount", "category", "type", "date"}))
	// low balance evaluator: income then expense sums
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	mock.ExpectQuery("SELECT (.+) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
}
