package alerts

import (
	"fmt"
	"sort"
	"time"

	"fintrack/models"

	"gorm.io/gorm"
)

// UnusualExpenseEvaluator flags recent transactions far above the user's
// usual spending for the same category.
type UnusualExpenseEvaluator struct {
	Multiplier float64 // flag when amount >= Multiplier * category average
}

// Windows for "recent" transactions and the per-category baseline, and the
// minimum sample size below which no baseline exists.
const (
	unusualRecentDays   = 7
	unusualBaselineDays = 90
	unusualMinSamples   = 3
)

func (e *UnusualExpenseEvaluator) Name() string { return "unusual-expense" }

func (e *UnusualExpenseEvaluator) Evaluate(db *gorm.DB, userID uint, now time.Time) ([]Candidate, error) {
	recentStart := now.AddDate(0, 0, -unusualRecentDays)

	var recent []models.Transaction
	if err := db.Where("user_id = ? AND type = ? AND date >= ? AND date <= ?",
		userID, models.TransactionExpense, recentStart, now).
		Order("date DESC").
		Find(&recent).Error; err != nil {
		return nil, err
	}

	baselineStart := now.AddDate(0, 0, -unusualBaselineDays)

	var out []Candidate
	for _, tx := range recent {
		var stats struct {
			Avg   float64
			Count int64
		}
		if err := db.Model(&models.Transaction{}).
			Where("user_id = ? AND category = ? AND type = ? AND date >= ? AND date <= ? AND id <> ?",
				userID, tx.Category, models.TransactionExpense, baselineStart, now, tx.ID).
			Select("COALESCE(AVG(amount), 0) as avg, COUNT(*) as count").
			Scan(&stats).Error; err != nil {
			return nil, err
		}

		if stats.Count < unusualMinSamples || stats.Avg <= 0 {
			continue
		}
		if tx.Amount < e.Multiplier*stats.Avg {
			continue
		}

		ratio := tx.Amount / stats.Avg
		out = append(out, Candidate{
			Type:     models.AlertUnusualExpense,
			Priority: models.PriorityMedium,
			Title:    fmt.Sprintf("Unusual expense in %s", tx.Category),
			Body: fmt.Sprintf("A %.2f expense on %s is %.1fx your usual %s spending (avg %.2f).",
				tx.Amount, tx.Date.Format("2006-01-02"), ratio, tx.Category, stats.Avg),
			DedupKey:  dedupKey(models.AlertUnusualExpense, tx.ID),
			Severity:  ratio,
			ExpiresAt: tx.Date.AddDate(0, 0, 7),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Severity > out[j].Severity })
	return out, nil
}
