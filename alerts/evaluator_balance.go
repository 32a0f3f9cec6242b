package alerts

import (
	"fmt"
	"time"

	"fintrack/models"

	"gorm.io/gorm"
)

// LowBalanceEvaluator projects the user's net position for the current
// month (income minus expenses minus recurring payments still due) and
// flags a negative projection.
type LowBalanceEvaluator struct{}

func (e *LowBalanceEvaluator) Name() string { return "low-balance" }

func (e *LowBalanceEvaluator) Evaluate(db *gorm.DB, userID uint, now time.Time) ([]Candidate, error) {
	monthStart, monthEnd := monthBounds(now)

	var income, expenses float64
	if err := db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND date >= ? AND date <= ?",
			userID, models.TransactionIncome, monthStart, monthEnd).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&income).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND date >= ? AND date <= ?",
			userID, models.TransactionExpense, monthStart, monthEnd).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&expenses).Error; err != nil {
		return nil, err
	}

	// Nothing recorded this month: no projection to make.
	if income == 0 && expenses == 0 {
		return nil, nil
	}

	// Recurring payments still due before month end.
	var upcoming float64
	if err := db.Model(&models.RecurringExpense{}).
		Where("user_id = ? AND status <> ? AND next_due >= ? AND next_due <= ?",
			userID, models.RecurringPaid, now, monthEnd).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&upcoming).Error; err != nil {
		return nil, err
	}

	projected := income - expenses - upcoming
	if projected >= 0 {
		return nil, nil
	}

	month := int(now.Month())
	year := now.Year()
	return []Candidate{{
		Type:     models.AlertLowBalance,
		Priority: models.PriorityHigh,
		Title:    "Negative month-end projection",
		Body: fmt.Sprintf("Income %.2f minus expenses %.2f and %.2f of upcoming payments leaves %.2f for %d/%d.",
			income, expenses, upcoming, projected, month, year),
		DedupKey:  dedupKey(models.AlertLowBalance, month, year),
		Severity:  -projected,
		ExpiresAt: monthEnd,
	}}, nil
}
