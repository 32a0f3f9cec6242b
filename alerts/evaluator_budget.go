package alerts

import (
	"fmt"
	"sort"
	"time"

	"fintrack/models"

	"gorm.io/gorm"
)

// BudgetEvaluator flags budgets of the current month that are fully spent
// (overrun) or past the warning threshold (approaching).
type BudgetEvaluator struct {
	WarnPercent float64 // e.g. 80 means warn at 80% of the ceiling
}

func (e *BudgetEvaluator) Name() string { return "budget" }

func (e *BudgetEvaluator) Evaluate(db *gorm.DB, userID uint, now time.Time) ([]Candidate, error) {
	monthStart, monthEnd := monthBounds(now)
	month := int(now.Month())
	year := now.Year()

	var budgets []models.Budget
	if err := db.Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		Find(&budgets).Error; err != nil {
		return nil, err
	}

	var out []Candidate
	for _, b := range budgets {
		if b.Amount <= 0 {
			continue
		}

		var spent float64
		if err := db.Model(&models.Transaction{}).
			Where("user_id = ? AND category = ? AND type = ? AND date >= ? AND date <= ?",
				userID, b.Category, models.TransactionExpense, monthStart, monthEnd).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&spent).Error; err != nil {
			return nil, err
		}

		pct := spent / b.Amount * 100
		switch {
		case pct >= 100:
			out = append(out, Candidate{
				Type:     models.AlertBudgetOverrun,
				Priority: models.PriorityHigh,
				Title:    fmt.Sprintf("Budget exceeded: %s", b.Category),
				Body: fmt.Sprintf("You spent %.2f of your %.2f %s budget for %d/%d (%.0f%%).",
					spent, b.Amount, b.Category, month, year, pct),
				DedupKey:  dedupKey(models.AlertBudgetOverrun, b.Category, month, year),
				Severity:  pct,
				ExpiresAt: monthEnd,
			})
		case pct >= e.WarnPercent:
			out = append(out, Candidate{
				Type:     models.AlertBudgetApproaching,
				Priority: models.PriorityMedium,
				Title:    fmt.Sprintf("Budget almost used up: %s", b.Category),
				Body: fmt.Sprintf("You spent %.2f of your %.2f %s budget for %d/%d (%.0f%%).",
					spent, b.Amount, b.Category, month, year, pct),
				DedupKey:  dedupKey(models.AlertBudgetApproaching, b.Category, month, year),
				Severity:  pct,
				ExpiresAt: monthEnd,
			})
		}
	}

	// Largest breach first.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Severity > out[j].Severity })
	return out, nil
}
